package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/lucyvers/bankflow/internal/infra/postgres"
)

var dsn = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL env)")

func main() {
	flag.Parse()

	if *dsn == "" {
		log.Fatal("Error: -dsn flag or DATABASE_URL env is required.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, *dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database")

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	log.Println("Schema is up to date.")
}
