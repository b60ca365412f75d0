package events

import "fmt"

// EventType identifies the point of an execution an event describes.
type EventType string

const (
	EventTypeStart EventType = "start"
	EventTypeEnd   EventType = "end"
	EventTypeError EventType = "error"
)

func (t EventType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known event types.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeStart, EventTypeEnd, EventTypeError:
		return true
	}
	return false
}

// Status is the status that accompanies this event type.
func (t EventType) Status() ExecutionStatus {
	switch t {
	case EventTypeStart:
		return StatusRunning
	case EventTypeEnd:
		return StatusSuccess
	case EventTypeError:
		return StatusError
	}
	return ""
}

func (t EventType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid event type %q", string(t))
	}
	return []byte(t), nil
}

func (t *EventType) UnmarshalText(text []byte) error {
	v := EventType(text)
	if !v.IsValid() {
		return fmt.Errorf("invalid event type %q", string(text))
	}
	*t = v
	return nil
}

// ExecutionStatus is the state of the execution when the event was recorded.
type ExecutionStatus string

const (
	StatusRunning ExecutionStatus = "running"
	StatusSuccess ExecutionStatus = "success"
	StatusError   ExecutionStatus = "error"
)

func (s ExecutionStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s ExecutionStatus) IsValid() bool {
	switch s {
	case StatusRunning, StatusSuccess, StatusError:
		return true
	}
	return false
}

func (s ExecutionStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid execution status %q", string(s))
	}
	return []byte(s), nil
}

func (s *ExecutionStatus) UnmarshalText(text []byte) error {
	v := ExecutionStatus(text)
	if !v.IsValid() {
		return fmt.Errorf("invalid execution status %q", string(text))
	}
	*s = v
	return nil
}
