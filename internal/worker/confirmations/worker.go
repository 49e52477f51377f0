// Package confirmationworker consumes booking-confirmed events and fans
// them out to notifications. It runs as goroutines inside the API process
// when the memory queue is used, or as a standalone process against SQS.
package confirmationworker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/voicemed/platform/internal/events"
	"github.com/voicemed/platform/pkg/logging"
)

const (
	receiveBatchSize   = 10
	receiveWaitSecs    = 20
	deleteTimeoutSecs  = 10
	defaultWorkerCount = 2
)

// ConfirmationNotifier handles a confirmed booking, typically by emailing
// the patient.
type ConfirmationNotifier interface {
	NotifyBookingConfirmed(ctx context.Context, evt events.BookingConfirmedV1) error
}

// Worker polls the queue for booking-confirmed events.
type Worker struct {
	queue    events.Queue
	notifier ConfirmationNotifier
	logger   *logging.Logger
	workers  int

	wg sync.WaitGroup
}

// Option customizes a Worker.
type Option func(*Worker)

// WithWorkerCount sets the number of polling goroutines.
func WithWorkerCount(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.workers = n
		}
	}
}

// NewWorker creates a confirmation worker.
func NewWorker(queue events.Queue, notifier ConfirmationNotifier, logger *logging.Logger, opts ...Option) *Worker {
	if logger == nil {
		logger = logging.Default()
	}
	w := &Worker{
		queue:    queue,
		notifier: notifier,
		logger:   logger,
		workers:  defaultWorkerCount,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the polling goroutines. They exit when ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i+1)
	}
}

// Wait blocks until all worker goroutines exit.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()
	w.logger.Debug("confirmation worker started", "worker_id", workerID)

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("confirmation worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, receiveBatchSize, receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("failed to receive booking events", "error", err, "worker_id", workerID)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg events.Message) {
	evt, ok, err := events.DecodeBookingConfirmed(msg.Body)
	if err != nil {
		// Malformed messages are dropped; retrying cannot fix them.
		w.logger.Error("failed to decode booking event", "error", err, "msg_id", msg.ID)
		w.deleteMessage(context.Background(), msg.ReceiptHandle)
		return
	}
	if !ok {
		w.logger.Warn("skipping unknown event kind", "msg_id", msg.ID)
		w.deleteMessage(ctx, msg.ReceiptHandle)
		return
	}

	if w.notifier != nil {
		if err := w.notifier.NotifyBookingConfirmed(ctx, evt); err != nil {
			// Leave the message in flight so the queue redelivers it.
			w.logger.Error("failed to notify booking confirmation",
				"error", err,
				"event_id", evt.EventID,
				"session_id", evt.SessionID,
			)
			return
		}
	}

	w.deleteMessage(ctx, msg.ReceiptHandle)
	w.logger.Info("booking confirmation processed",
		"event_id", evt.EventID,
		"session_id", evt.SessionID,
		"doctor_id", evt.DoctorID,
	)
}

func (w *Worker) deleteMessage(ctx context.Context, receiptHandle string) {
	if receiptHandle == "" {
		return
	}

	deleteCtx, cancel := context.WithTimeout(ctx, deleteTimeoutSecs*time.Second)
	defer cancel()

	if err := w.queue.Delete(deleteCtx, receiptHandle); err != nil {
		w.logger.Error("failed to delete booking event", "error", err)
	}
}
