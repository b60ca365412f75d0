package slogx

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestAttrs(t *testing.T) {
	tests := []struct {
		name  string
		attr  slog.Attr
		key   string
		value string
	}{
		{name: "error", attr: Error(errors.New("boom")), key: "error", value: "boom"},
		{name: "byte string", attr: ByteString("body", []byte(`{"a":1}`)), key: "body", value: `{"a":1}`},
		{name: "stringer", attr: Stringer("status", stringer("running")), key: "status", value: "running"},
		{name: "logger name", attr: LoggerName("batcher"), key: KeyLoggerName, value: "batcher"},
		{name: "trace id", attr: TraceID("tr_abc123"), key: KeyTraceID, value: "tr_abc123"},
		{name: "event type", attr: EventType(stringer("start")), key: KeyEventType, value: "start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.value, tt.attr.Value.String())
		})
	}

	t.Run("count", func(t *testing.T) {
		attr := Count("events", 12)
		assert.Equal(t, "events", attr.Key)
		assert.Equal(t, int64(12), attr.Value.Int64())
	})
}
