package events

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Marshal encodes a single event.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes a single event and rejects unknown event types or statuses.
func Unmarshal(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return e, nil
}

// PeekType reads the event type of an encoded event without decoding it.
func PeekType(data []byte) (EventType, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("invalid event json")
	}
	res := gjson.GetBytes(data, "event_type")
	if !res.Exists() {
		return "", fmt.Errorf("event_type is missing")
	}
	et := EventType(res.String())
	if !et.IsValid() {
		return "", fmt.Errorf("invalid event type %q", res.String())
	}
	return et, nil
}
