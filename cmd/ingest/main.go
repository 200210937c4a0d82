package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lucyvers/bankflow/internal/config"
	"github.com/lucyvers/bankflow/internal/infra/postgres"
	"github.com/lucyvers/bankflow/internal/lock"
	"github.com/lucyvers/bankflow/internal/logger"
	"github.com/lucyvers/bankflow/internal/workflow"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	var (
		customersURI    = flag.String("customers", "", "URI of the customers file (local path or gs://bucket/object)")
		transactionsURI = flag.String("transactions", "", "URI of the transactions file (local path or gs://bucket/object)")
		bankName        = flag.String("bank", "", "Bank name (defaults to SEB)")
		bankNr          = flag.String("banknr", "", "Bank clearing prefix (defaults to 8902)")
		batchID         = flag.String("batch", "", "Batch ID (defaults to a new UUID)")
		dsn             = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL env)")
		migrate         = flag.Bool("migrate", false, "Apply the schema before loading")
		printReport     = flag.Bool("report", false, "Print the full report as JSON")
	)
	flag.Parse()

	if *customersURI == "" || *transactionsURI == "" {
		log.Fatal().Msg("Error: --customers and --transactions are required")
	}
	if *dsn == "" {
		log.Fatal().Msg("Error: -dsn flag or DATABASE_URL env is required")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Create context with timeout so the CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	db, err := postgres.Open(ctx, *dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if *migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
	}

	store := postgres.NewStore(db)
	service := workflow.NewService(cfg, store, lock.NopLocker{}, store.History(ctx, log), workflow.NewReportStore(), log)

	log.Info().
		Str("customers_uri", *customersURI).
		Str("transactions_uri", *transactionsURI).
		Msg("Starting batch run")

	report, err := service.Run(ctx, workflow.BatchRequest{
		BatchID:         *batchID,
		BankName:        *bankName,
		BankNr:          *bankNr,
		CustomersURI:    *customersURI,
		TransactionsURI: *transactionsURI,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Batch run failed")
	}

	if *printReport {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode report")
		}
		fmt.Println(string(out))
	}

	fmt.Printf("Batch %s completed: %d/%d customers valid, %d/%d transactions valid, %d legs inserted.\n",
		report.BatchID,
		report.CustomersRead-len(report.InvalidCustomers), report.CustomersRead,
		report.TransactionsRead-len(report.InvalidTransactions), report.TransactionsRead,
		report.LegsInserted)

	if !report.DatabaseExportSuccess {
		log.Fatal().Int("chunk_errors", len(report.ChunkErrors)).Msg("Batch completed with load errors")
	}
}
