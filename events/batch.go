package events

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SDK identifies the client library that produced a batch.
type SDK struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Batch is the envelope sent to the ingestion endpoint.
type Batch struct {
	Events []Event         `json:"events"`
	SDK    SDK             `json:"sdk"`
	SentAt strfmt.DateTime `json:"sent_at"`
}

// EncodeBatch builds the envelope for evts:
//
//	{"events":[...],"sdk":{"name":"trancepoint-go","version":"0.1.0"},"sent_at":"2023-12-23T17:20:00.000Z"}
func EncodeBatch(evts []Event, sdk SDK, sentAt time.Time) ([]byte, error) {
	if evts == nil {
		evts = []Event{}
	}
	raw, err := json.Marshal(evts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal events: %w", err)
	}

	body, err := sjson.SetRawBytes([]byte(`{}`), "events", raw)
	if err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "sdk.name", sdk.Name); err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "sdk.version", sdk.Version); err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "sent_at", strfmt.DateTime(sentAt.UTC()).String()); err != nil {
		return nil, err
	}
	return body, nil
}

// DecodeBatch parses an envelope produced by EncodeBatch.
func DecodeBatch(data []byte) (Batch, error) {
	if !gjson.ValidBytes(data) {
		return Batch{}, fmt.Errorf("invalid batch json")
	}
	if !gjson.GetBytes(data, "events").IsArray() {
		return Batch{}, fmt.Errorf("batch has no events array")
	}
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return Batch{}, fmt.Errorf("failed to unmarshal batch: %w", err)
	}
	return b, nil
}
