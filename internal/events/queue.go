package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Queue moves serialized event envelopes between the API and downstream
// consumers. Implementations: MemoryQueue for development, SQSQueue for
// production.
type Queue interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Message is one received queue entry.
type Message struct {
	ID            string
	Body          string
	ReceiptHandle string
}

type eventKind string

const kindBookingConfirmed eventKind = "booking_confirmed.v1"

type envelope struct {
	ID               string              `json:"id"`
	Kind             eventKind           `json:"kind"`
	BookingConfirmed *BookingConfirmedV1 `json:"booking_confirmed,omitempty"`
}

func encodeEnvelope(env envelope) (envelope, string, error) {
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	body, err := json.Marshal(env)
	if err != nil {
		return envelope{}, "", fmt.Errorf("events: failed to encode envelope: %w", err)
	}
	return env, string(body), nil
}

// DecodeBookingConfirmed parses a queue message body back into its event.
// The boolean is false when the message is a different event kind.
func DecodeBookingConfirmed(body string) (BookingConfirmedV1, bool, error) {
	var env envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return BookingConfirmedV1{}, false, fmt.Errorf("events: failed to decode envelope: %w", err)
	}
	if env.Kind != kindBookingConfirmed || env.BookingConfirmed == nil {
		return BookingConfirmedV1{}, false, nil
	}
	return *env.BookingConfirmed, true, nil
}
