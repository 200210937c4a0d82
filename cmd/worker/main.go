package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lucyvers/bankflow/internal/config"
	"github.com/lucyvers/bankflow/internal/infra/postgres"
	"github.com/lucyvers/bankflow/internal/jobs"
	"github.com/lucyvers/bankflow/internal/jobs/inmemory"
	"github.com/lucyvers/bankflow/internal/lock"
	"github.com/lucyvers/bankflow/internal/logger"
	"github.com/lucyvers/bankflow/internal/workflow"
)

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL env)")
	flag.Parse()

	// Initialize logger
	log := logger.New()

	if *dsn == "" {
		log.Fatal().Msg("Error: -dsn flag or DATABASE_URL env is required")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Open(ctx, *dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	store := postgres.NewStore(db)

	var locker workflow.Locker = lock.NopLocker{}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB := 0
		if v := os.Getenv("REDIS_DB"); v != "" {
			redisDB, err = strconv.Atoi(v)
			if err != nil {
				log.Fatal().Str("redis_db", v).Msg("REDIS_DB must be an integer")
			}
		}
		client, err := lock.NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), redisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer client.Close()
		locker = lock.New(client, log)
	}

	reports := workflow.NewReportStore()
	service := workflow.NewService(cfg, store, locker, store.History(ctx, log), reports, log)

	// Initialize job store and queue
	// In production, this would be replaced with Cloud Tasks or Pub/Sub
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	log.Info().Msg("Starting worker service")

	// Create job handler that processes batch load jobs
	handler := func(ctx context.Context, job jobs.Job) error {
		loadJob, ok := job.(*jobs.LoadBatchJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", loadJob.JobID).
			Str("batch_id", loadJob.BatchID).
			Msg("Processing batch load job")

		_, err := service.Run(ctx, workflow.BatchRequest{
			BatchID:         loadJob.BatchID,
			BankName:        loadJob.BankName,
			BankNr:          loadJob.BankNr,
			CustomersURI:    loadJob.CustomersURI,
			TransactionsURI: loadJob.TransactionsURI,
		})
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", loadJob.JobID).
				Str("batch_id", loadJob.BatchID).
				Msg("Batch run failed")
			return err
		}

		log.Info().
			Str("job_id", loadJob.JobID).
			Str("batch_id", loadJob.BatchID).
			Msg("Batch run completed successfully")

		return nil
	}

	// Start consuming jobs
	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	// Cancel context to stop workers
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	// Close the queue
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Worker service exited")
}
