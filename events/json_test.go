package events_test

import (
	"testing"
	"time"

	"github.com/casualjim/trancepoint/events"
	"github.com/casualjim/trancepoint/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestMarshal(t *testing.T) {
	t.Run("wire format", func(t *testing.T) {
		data, err := events.Marshal(fixtures.EndEvent())
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"event_id": "evt_002",
			"trace_id": "tr_abc123",
			"event_type": "end",
			"status": "success",
			"agent_name": "test_agent",
			"timestamp_ms": 1703352002500,
			"output_text": "{\"result\": \"success\"}",
			"duration_ms": 2500
		}`, string(data))
	})

	t.Run("optional fields are omitted", func(t *testing.T) {
		data, err := events.Marshal(fixtures.StartEvent())
		require.NoError(t, err)
		for _, key := range []string{"output_text", "error", "error_type", "duration_ms", "metadata"} {
			assert.False(t, gjson.GetBytes(data, key).Exists(), key)
		}
	})

	t.Run("zero duration is kept", func(t *testing.T) {
		evt := fixtures.EndEvent()
		evt.DurationMS = events.DurationMS(0)
		data, err := events.Marshal(evt)
		require.NoError(t, err)
		assert.Equal(t, int64(0), gjson.GetBytes(data, "duration_ms").Int())
		assert.True(t, gjson.GetBytes(data, "duration_ms").Exists())
	})

	t.Run("invalid enum is rejected", func(t *testing.T) {
		evt := fixtures.StartEvent()
		evt.EventType = "pause"
		_, err := events.Marshal(evt)
		assert.Error(t, err)
	})
}

func TestUnmarshal(t *testing.T) {
	t.Run("decodes the error event", func(t *testing.T) {
		data, err := events.Marshal(fixtures.ErrorEvent())
		require.NoError(t, err)
		got, err := events.Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, fixtures.ErrorEvent(), got)
	})

	t.Run("rejects unknown event types", func(t *testing.T) {
		_, err := events.Unmarshal([]byte(`{"event_id":"e","event_type":"pause","status":"running"}`))
		assert.Error(t, err)
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		_, err := events.Unmarshal([]byte(`{"event_id":"e","event_type":"start","status":"paused"}`))
		assert.Error(t, err)
	})
}

func TestPeekType(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    events.EventType
		wantErr bool
	}{
		{name: "start", data: `{"event_type":"start"}`, want: events.EventTypeStart},
		{name: "error", data: `{"event_id":"x","event_type":"error"}`, want: events.EventTypeError},
		{name: "missing", data: `{"event_id":"x"}`, wantErr: true},
		{name: "unknown", data: `{"event_type":"resume"}`, wantErr: true},
		{name: "not json", data: `event_type=start`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := events.PeekType([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBatch(t *testing.T) {
	sentAt := time.Date(2023, 12, 23, 17, 20, 0, 0, time.UTC)
	sdk := events.SDK{Name: "trancepoint-go", Version: "1.2.3"}

	t.Run("envelope", func(t *testing.T) {
		body, err := events.EncodeBatch(fixtures.EventSequence(), sdk, sentAt)
		require.NoError(t, err)

		assert.Equal(t, int64(2), gjson.GetBytes(body, "events.#").Int())
		assert.Equal(t, "evt_001", gjson.GetBytes(body, "events.0.event_id").String())
		assert.Equal(t, "end", gjson.GetBytes(body, "events.1.event_type").String())
		assert.Equal(t, "trancepoint-go", gjson.GetBytes(body, "sdk.name").String())
		assert.Equal(t, "1.2.3", gjson.GetBytes(body, "sdk.version").String())
		assert.Equal(t, "2023-12-23T17:20:00.000Z", gjson.GetBytes(body, "sent_at").String())
	})

	t.Run("decodes", func(t *testing.T) {
		body, err := events.EncodeBatch(fixtures.EventSequence(), sdk, sentAt)
		require.NoError(t, err)
		b, err := events.DecodeBatch(body)
		require.NoError(t, err)
		assert.Equal(t, fixtures.EventSequence(), b.Events)
		assert.Equal(t, sdk, b.SDK)
		assert.True(t, sentAt.Equal(time.Time(b.SentAt)))
	})

	t.Run("empty batch has an empty array", func(t *testing.T) {
		body, err := events.EncodeBatch(nil, sdk, sentAt)
		require.NoError(t, err)
		assert.True(t, gjson.GetBytes(body, "events").IsArray())
	})

	t.Run("rejects bodies without events", func(t *testing.T) {
		_, err := events.DecodeBatch([]byte(`{"sdk":{}}`))
		assert.Error(t, err)
		_, err = events.DecodeBatch([]byte(`nope`))
		assert.Error(t, err)
	})
}
