package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/voicemed/platform/cmd/mainconfig"
	"github.com/voicemed/platform/internal/app/bootstrap"
	"github.com/voicemed/platform/internal/catalog"
	appconfig "github.com/voicemed/platform/internal/config"
	"github.com/voicemed/platform/internal/events"
	"github.com/voicemed/platform/internal/notify"
	confirmationworker "github.com/voicemed/platform/internal/worker/confirmations"
	"github.com/voicemed/platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.UseMemoryQueue {
		logger.Error("confirmation worker cannot run when USE_MEMORY_QUEUE=true; the API process runs it inline instead")
		os.Exit(1)
	}

	awsConfig, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	sqsClient := sqs.NewFromConfig(awsConfig)
	queue := events.NewSQSQueue(sqsClient, cfg.BookingQueueURL)

	cat := catalog.Default()
	notifier := notify.NewService(bootstrap.BuildEmailSender(cfg, logger), cat, logger)

	worker := confirmationworker.NewWorker(queue, notifier, logger, confirmationworker.WithWorkerCount(4))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)
	logger.Info("confirmation worker started", "queue_url", cfg.BookingQueueURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down confirmation worker...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer doneCancel()

	waitCh := make(chan struct{})
	go func() {
		worker.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("confirmation worker stopped")
	case <-doneCtx.Done():
		logger.Error("confirmation worker shutdown timed out", "error", doneCtx.Err())
	}
}
