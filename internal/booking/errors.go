package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPrecondition is the sentinel all rejected transitions unwrap to.
var ErrPrecondition = errors.New("booking: precondition violated")

// ErrSessionNotFound is returned when a wizard session id is unknown or expired.
var ErrSessionNotFound = errors.New("booking: session not found")

// PreconditionError reports a rejected wizard transition. State is left
// untouched when one is returned; the caller corrects the input and retries.
type PreconditionError struct {
	// Op is the transition that was attempted, e.g. "select_date".
	Op string
	// Condition names the unmet precondition.
	Condition string
	// MissingFields lists the empty required patient fields, when relevant.
	MissingFields []string
}

func (e *PreconditionError) Error() string {
	if len(e.MissingFields) > 0 {
		return fmt.Sprintf("booking: %s rejected: %s: %s", e.Op, e.Condition, strings.Join(e.MissingFields, ", "))
	}
	return fmt.Sprintf("booking: %s rejected: %s", e.Op, e.Condition)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}

func reject(op, condition string) error {
	return &PreconditionError{Op: op, Condition: condition}
}
