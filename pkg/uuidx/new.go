package uuidx

import "github.com/google/uuid"

const (
	// EventPrefix marks identifiers of single events.
	EventPrefix = "evt_"
	// TracePrefix marks identifiers that correlate the events of one execution.
	TracePrefix = "tr_"
	// RequestPrefix marks the X-Request-ID of an outbound batch.
	RequestPrefix = "req_"
)

// New generates a new UUID using the version 7 format and returns it.
// It panics if the UUID generation fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString generates a new UUID using the version 7 format and returns it as a string.
func NewString() string {
	return New().String()
}

// NewEventID returns a time ordered event identifier, e.g. "evt_0190b6c1-...".
func NewEventID() string {
	return EventPrefix + NewString()
}

// NewTraceID returns a time ordered trace identifier, e.g. "tr_0190b6c1-...".
func NewTraceID() string {
	return TracePrefix + NewString()
}

// NewRequestID returns an identifier for an outbound request.
func NewRequestID() string {
	return RequestPrefix + NewString()
}
