package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/minyeol/songquiz/internal/api"
	"github.com/minyeol/songquiz/internal/catalog"
	"github.com/minyeol/songquiz/internal/config"
	"github.com/minyeol/songquiz/internal/ledger"
	"github.com/minyeol/songquiz/internal/logger"
	"github.com/minyeol/songquiz/internal/quiz"
	"github.com/minyeol/songquiz/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Song Quiz Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("data_dir=%s", cfg.DataDir)
	log.Debug("catalog_path=%s", cfg.CatalogPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("job_worker_count=%d", cfg.JobWorkerCount)
	log.Debug("job_queue_size=%d", cfg.JobQueueSize)
	log.Debug("maintenance_interval_minutes=%d", cfg.MaintenanceInterval)

	// Load the track catalogue
	songCatalog := catalog.New(cfg.CatalogPath)
	if err := songCatalog.Load(); err != nil {
		log.Error("failed to load catalogue: %v", err)
		os.Exit(1)
	}

	// Open the reward ledger
	store, err := ledger.NewStore(cfg.DataDir)
	if err != nil {
		log.Error("failed to open ledger store: %v", err)
		os.Exit(1)
	}
	rewardLedger, err := ledger.Open(store)
	if err != nil {
		log.Error("failed to load ledger: %v", err)
		os.Exit(1)
	}

	// Background job pool
	jobPool := worker.NewPool(cfg.JobWorkerCount, cfg.JobQueueSize)
	ctx, cancel := context.WithCancel(context.Background())
	jobPool.Start(ctx)

	// Match engine with log-backed transport ports; a chat facade replaces
	// these when one is attached.
	engine := quiz.NewEngine(songCatalog, quiz.NewLogAudioPlayer(), quiz.NewLogNotifier(), rewardLedger)

	// Periodic ledger maintenance: prune expired transactions and flush.
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Error("failed to create scheduler: %v", err)
		os.Exit(1)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(time.Duration(cfg.MaintenanceInterval)*time.Minute),
		gocron.NewTask(func() {
			if err := rewardLedger.Maintain(); err != nil {
				log.Warn("ledger maintenance failed: %v", err)
			}
		}),
	)
	if err != nil {
		log.Error("failed to schedule ledger maintenance: %v", err)
		os.Exit(1)
	}
	sched.Start()

	srv := &api.Server{
		Engine:  engine,
		Ledger:  rewardLedger,
		Catalog: songCatalog,
		JobPool: jobPool,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping scheduler")
	if err := sched.Shutdown(); err != nil {
		log.Warn("scheduler shutdown error: %v", err)
	}

	log.Debug("stopping job pool")
	cancel()
	jobPool.Stop()

	log.Debug("flushing ledger")
	if err := rewardLedger.Maintain(); err != nil {
		log.Warn("final ledger flush failed: %v", err)
	}

	log.Info("===========================================")
	log.Info("Song Quiz Server Stopped")
	log.Info("===========================================")
}
