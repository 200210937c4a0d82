package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lucyvers/bankflow/internal/api/handlers"
	"github.com/lucyvers/bankflow/internal/api/middleware"
	"github.com/lucyvers/bankflow/internal/config"
	"github.com/lucyvers/bankflow/internal/infra/postgres"
	"github.com/lucyvers/bankflow/internal/jobs"
	"github.com/lucyvers/bankflow/internal/jobs/inmemory"
	"github.com/lucyvers/bankflow/internal/lock"
	"github.com/lucyvers/bankflow/internal/logger"
	"github.com/lucyvers/bankflow/internal/validate"
	"github.com/lucyvers/bankflow/internal/workflow"
)

func main() {
	// Parse command-line flags
	var (
		port    = flag.String("port", "8080", "HTTP server port")
		dsn     = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL env)")
		migrate = flag.Bool("migrate", false, "Apply the schema before serving")
	)
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

	ctx := context.Background()

	db, err := postgres.Open(ctx, *dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if *migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
		log.Info().Msg("Schema applied")
	}

	store := postgres.NewStore(db)

	// Serialize batch runs through Redis when configured, otherwise
	// fall back to in-process locking.
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
		log.Info().Str("addr", addr).Msg("Batch locking via Redis")
	}

	var lookback validate.LookbackProvider = store.History(ctx, log)

	reports := workflow.NewReportStore()
	service := workflow.NewService(cfg, store, locker, lookback, reports, log)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	// Start worker in background to process jobs
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Create job handler for processing batch load jobs
	jobHandler := func(ctx context.Context, job jobs.Job) error {
		loadJob, ok := job.(*jobs.LoadBatchJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", loadJob.JobID).
			Str("batch_id", loadJob.BatchID).
			Str("customers_uri", loadJob.CustomersURI).
			Str("transactions_uri", loadJob.TransactionsURI).
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

	// Start job consumer in background
	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Initialize handlers
	batchesHandler := handlers.NewBatchesHandler(jobQueue, reports, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Create router
	mux := http.NewServeMux()

	// Batches endpoints
	mux.HandleFunc("/api/batches", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			batchesHandler.CreateBatch(w, r)
		case http.MethodGet:
			batchesHandler.ListReports(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/batches/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// Extract batch ID from /api/batches/{id}/report
			rest := strings.TrimPrefix(r.URL.Path, "/api/batches/")
			batchID := strings.TrimSuffix(rest, "/report")
			if batchID == "" || batchID == rest {
				middleware.WriteError(w, http.StatusNotFound, "Not found")
				return
			}
			batchesHandler.GetReport(w, r, batchID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// Extract job ID from path
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Cancel worker context
	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	// Close job queue
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Server exited")
}
