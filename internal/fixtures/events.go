package fixtures

import "github.com/casualjim/trancepoint/events"

const (
	TraceID   = "tr_abc123"
	AgentName = "test_agent"
)

// StartEvent is a valid START event.
func StartEvent() events.Event {
	return events.Event{
		EventID:     "evt_001",
		TraceID:     TraceID,
		EventType:   events.EventTypeStart,
		Status:      events.StatusRunning,
		AgentName:   AgentName,
		TimestampMS: 1703352000000,
		InputText:   "args: ('test',), kwargs: {}",
	}
}

// EndEvent is a valid END event closing StartEvent after 2.5s.
func EndEvent() events.Event {
	return events.Event{
		EventID:     "evt_002",
		TraceID:     TraceID,
		EventType:   events.EventTypeEnd,
		Status:      events.StatusSuccess,
		AgentName:   AgentName,
		TimestampMS: 1703352002500,
		OutputText:  `{"result": "success"}`,
		DurationMS:  events.DurationMS(2500),
	}
}

// ErrorEvent is a valid ERROR event for the same trace.
func ErrorEvent() events.Event {
	return events.Event{
		EventID:     "evt_003",
		TraceID:     TraceID,
		EventType:   events.EventTypeError,
		Status:      events.StatusError,
		AgentName:   AgentName,
		TimestampMS: 1703352000500,
		Error:       "ValueError: invalid input",
		ErrorType:   "ValueError",
		DurationMS:  events.DurationMS(500),
	}
}

// EventSequence is a complete execution: START followed by END.
func EventSequence() []events.Event {
	return []events.Event{StartEvent(), EndEvent()}
}
