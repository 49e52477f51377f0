package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voicemed/platform/pkg/logging"
)

// Publisher enqueues domain events for downstream consumers.
type Publisher struct {
	queue  Queue
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher.
func NewPublisher(queue Queue, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("events: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		queue:  queue,
		logger: logger,
	}
}

// PublishBookingConfirmed enqueues a booking-confirmed event. EventID and
// ConfirmedAt are filled in when the caller left them empty.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, evt BookingConfirmedV1) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	if evt.ConfirmedAt.IsZero() {
		evt.ConfirmedAt = time.Now().UTC()
	}

	env, body, err := encodeEnvelope(envelope{
		Kind:             kindBookingConfirmed,
		BookingConfirmed: &evt,
	})
	if err != nil {
		return err
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("events: failed to enqueue booking confirmation: %w", err)
	}

	p.logger.Debug("booking confirmation enqueued",
		"envelope_id", env.ID,
		"event_id", evt.EventID,
		"session_id", evt.SessionID,
	)
	return nil
}
