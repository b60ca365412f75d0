package events

import (
	"errors"
	"fmt"
	"reflect"
	"time"
	"unicode/utf8"

	"github.com/casualjim/trancepoint/pkg/uuidx"
	"go.uber.org/multierr"
)

// ErrInvalidEvent is wrapped by every error returned from Event.Validate.
var ErrInvalidEvent = errors.New("invalid event")

// TruncationSuffix is appended to text fields shortened by Truncate.
const TruncationSuffix = "...[truncated]"

// Event is a single observability record for a point in an agent execution.
type Event struct {
	EventID     string          `json:"event_id"`
	TraceID     string          `json:"trace_id"`
	EventType   EventType       `json:"event_type"`
	Status      ExecutionStatus `json:"status"`
	AgentName   string          `json:"agent_name"`
	TimestampMS int64           `json:"timestamp_ms"`
	InputText   string          `json:"input_text,omitempty"`
	OutputText  string          `json:"output_text,omitempty"`
	Error       string          `json:"error,omitempty"`
	ErrorType   string          `json:"error_type,omitempty"`
	DurationMS  *int64          `json:"duration_ms,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// NewStart creates the START event that opens a trace.
// An empty traceID gets a freshly generated one.
func NewStart(traceID, agentName, input string, at time.Time) Event {
	if traceID == "" {
		traceID = uuidx.NewTraceID()
	}
	return Event{
		EventID:     uuidx.NewEventID(),
		TraceID:     traceID,
		EventType:   EventTypeStart,
		Status:      StatusRunning,
		AgentName:   agentName,
		TimestampMS: at.UnixMilli(),
		InputText:   input,
	}
}

// NewEnd creates the END event closing the trace opened by start.
func NewEnd(start Event, output string, at time.Time) Event {
	return Event{
		EventID:     uuidx.NewEventID(),
		TraceID:     start.TraceID,
		EventType:   EventTypeEnd,
		Status:      StatusSuccess,
		AgentName:   start.AgentName,
		TimestampMS: at.UnixMilli(),
		OutputText:  output,
		DurationMS:  DurationMS(at.UnixMilli() - start.TimestampMS),
	}
}

// NewError creates the ERROR event closing the trace opened by start.
func NewError(start Event, err error, at time.Time) Event {
	evt := Event{
		EventID:     uuidx.NewEventID(),
		TraceID:     start.TraceID,
		EventType:   EventTypeError,
		Status:      StatusError,
		AgentName:   start.AgentName,
		TimestampMS: at.UnixMilli(),
		DurationMS:  DurationMS(at.UnixMilli() - start.TimestampMS),
	}
	if err != nil {
		evt.Error = fmt.Sprint(err)
		evt.ErrorType = ErrorType(err)
	}
	return evt
}

// DurationMS returns a pointer to ms, clamped at zero.
func DurationMS(ms int64) *int64 {
	if ms < 0 {
		ms = 0
	}
	return &ms
}

// ErrorType names the dynamic type of err, without package path or pointer.
// Errors may report their own name by implementing ErrorType() string.
func ErrorType(err error) string {
	if err == nil {
		return ""
	}
	v := reflect.ValueOf(err)
	if named, ok := err.(interface{ ErrorType() string }); ok && !(v.Kind() == reflect.Pointer && v.IsNil()) {
		return named.ErrorType()
	}
	t := v.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "error"
	}
	return t.Name()
}

// Time returns the event timestamp.
func (e Event) Time() time.Time {
	return time.UnixMilli(e.TimestampMS)
}

// Duration returns the recorded duration and whether one was set.
func (e Event) Duration() (time.Duration, bool) {
	if e.DurationMS == nil {
		return 0, false
	}
	return time.Duration(*e.DurationMS) * time.Millisecond, true
}

// Validate checks required fields and that status agrees with the event type.
func (e Event) Validate() error {
	var errs error
	if e.EventID == "" {
		errs = multierr.Append(errs, errors.New("event_id is required"))
	}
	if e.TraceID == "" {
		errs = multierr.Append(errs, errors.New("trace_id is required"))
	}
	if e.AgentName == "" {
		errs = multierr.Append(errs, errors.New("agent_name is required"))
	}
	if e.TimestampMS <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("timestamp_ms must be positive, got %d", e.TimestampMS))
	}
	switch {
	case !e.EventType.IsValid():
		errs = multierr.Append(errs, fmt.Errorf("unknown event_type %q", string(e.EventType)))
	case !e.Status.IsValid():
		errs = multierr.Append(errs, fmt.Errorf("unknown status %q", string(e.Status)))
	case e.EventType.Status() != e.Status:
		errs = multierr.Append(errs, fmt.Errorf("status %q does not match event_type %q", e.Status, e.EventType))
	}
	if e.DurationMS != nil && *e.DurationMS < 0 {
		errs = multierr.Append(errs, fmt.Errorf("duration_ms must not be negative, got %d", *e.DurationMS))
	}
	if errs != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalidEvent, e.EventID, errs)
	}
	return nil
}

// Truncate shortens the free text fields to at most maxLen runes plus TruncationSuffix.
// A maxLen of zero or less leaves the event unchanged.
func (e Event) Truncate(maxLen int) Event {
	if maxLen <= 0 {
		return e
	}
	e.InputText = truncate(e.InputText, maxLen)
	e.OutputText = truncate(e.OutputText, maxLen)
	e.Error = truncate(e.Error, maxLen)
	return e
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + TruncationSuffix
}
