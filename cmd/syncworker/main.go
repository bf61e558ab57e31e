// Command syncworker consumes sync messages from RabbitMQ and replicates the
// changed rows into every region the GDPR policy allows.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruiter-platform/config"
	"recruiter-platform/internal/datasync"
	"recruiter-platform/pkg/database"
	"recruiter-platform/pkg/logger"
	"recruiter-platform/pkg/queue"
	"recruiter-platform/pkg/security"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel)
	audit := security.InitSecurityLogger("recruiter-syncworker", cfg.APIRegion)
	defer audit.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Error("Sync worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Log.Info("Sync worker exiting")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	regions, err := datasync.ParseRegionConfig(cfg.SyncRegions, cfg.SyncRegionCountries)
	if err != nil {
		return err
	}
	if len(regions.AllRegions()) == 0 {
		return errors.New("SYNC_REGIONS is empty")
	}

	store := datasync.NewSQLStore(regions, database.OpenSQL)
	defer store.Close()

	mq, err := queue.Dial(queue.Config{
		URL:       cfg.RabbitMQURL,
		QueueName: cfg.SyncQueueName,
		Prefetch:  cfg.SyncWorkerConcurrency,
	})
	if err != nil {
		return err
	}
	defer mq.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := datasync.NewMetrics(reg)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: ":" + cfg.SyncWorkerMetricsPort, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Metrics listener failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	worker := datasync.NewWorker(datasync.NewService(regions, store), mq, cfg.SyncWorkerConcurrency, metrics)
	logger.Log.Info("Consuming sync queue", "queue", cfg.SyncQueueName, "regions", regions.AllRegions())
	return worker.Run(ctx)
}
