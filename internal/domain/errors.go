package domain

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies failures surfaced to consumers.
type Kind string

const (
	KindConnection  Kind = "Connection"
	KindProtocol    Kind = "Protocol"
	KindNotFound    Kind = "NotFound"
	KindTimeout     Kind = "Timeout"
	KindAggregation Kind = "Aggregation"
	KindInvalid     Kind = "Invalid"
	KindInternal    Kind = "Internal"
)

var (
	// ErrConnection is returned when the broker is unreachable or the handshake fails.
	ErrConnection = errors.New("broker connection failed")

	// ErrProtocol is returned when broker metadata has an unexpected shape.
	ErrProtocol = errors.New("malformed broker response")

	// ErrNotFound is returned when a topic or partition is absent from the broker response.
	ErrNotFound = errors.New("topic or partition not found")

	// ErrTimeout is matched by every *TimeoutError.
	ErrTimeout = errors.New("operation timed out")

	// ErrAggregation is matched by every *AggregationError.
	ErrAggregation = errors.New("aggregation failed")

	// ErrInvalidRequest is returned for requests missing required fields.
	ErrInvalidRequest = errors.New("invalid request")
)

// TimeoutError reports that a guarded operation exceeded its deadline. The deadline is
// caller side; the broker may still have completed the call.
type TimeoutError struct {
	Op    string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %dms", e.Op, e.After.Milliseconds())
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// AggregationError wraps the first failing constituent of a fan-out join.
type AggregationError struct {
	Scope string
	Index int
	Err   error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Scope, e.Index, e.Err)
}

func (e *AggregationError) Unwrap() []error { return []error{ErrAggregation, e.Err} }

// KindOf reports the kind of err. Leaf kinds win over Aggregation so a fan-out failure
// surfaces as its first failing constituent.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrConnection):
		return KindConnection
	case errors.Is(err, ErrProtocol):
		return KindProtocol
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalid
	case errors.Is(err, ErrAggregation):
		return KindAggregation
	default:
		return KindInternal
	}
}
