package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voicemed/platform/cmd/mainconfig"
	"github.com/voicemed/platform/internal/api/router"
	"github.com/voicemed/platform/internal/app/bootstrap"
	"github.com/voicemed/platform/internal/booking"
	"github.com/voicemed/platform/internal/catalog"
	appconfig "github.com/voicemed/platform/internal/config"
	"github.com/voicemed/platform/internal/events"
	"github.com/voicemed/platform/internal/notify"
	"github.com/voicemed/platform/internal/observability/metrics"
	"github.com/voicemed/platform/internal/transcript"
	confirmationworker "github.com/voicemed/platform/internal/worker/confirmations"
	"github.com/voicemed/platform/pkg/logging"
)

func main() {
	// Load .env in development; missing files are fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voicemed API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat := catalog.Default()
	sessions := bootstrap.BuildSessionStore(ctx, cfg, cat, logger)

	var queue events.Queue
	if cfg.UseMemoryQueue {
		queue = events.NewMemoryQueue(128)
		logger.Info("using in-memory booking queue")
	} else {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		queue = events.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.BookingQueueURL)
		logger.Info("using SQS booking queue", "queue_url", cfg.BookingQueueURL)
	}
	publisher := events.NewPublisher(queue, logger)

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	// With the memory queue the confirmation worker must run in-process;
	// against SQS a standalone worker process consumes the queue instead.
	var worker *confirmationworker.Worker
	if cfg.UseMemoryQueue {
		notifier := notify.NewService(bootstrap.BuildEmailSender(cfg, logger), cat, logger)
		worker = confirmationworker.NewWorker(queue, notifier, logger)
		worker.Start(ctx)
		logger.Info("inline confirmation worker started")
	}

	r := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     booking.NewHandler(sessions, publisher, bookingMetrics, logger),
		CatalogHandler:     catalog.NewHandler(cat, logger),
		TranscriptHandler:  transcript.NewHandler(bookingMetrics, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	cancel()
	if worker != nil {
		worker.Wait()
		logger.Info("confirmation worker stopped")
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
