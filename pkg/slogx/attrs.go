package slogx

import (
	"fmt"
	"log/slog"
)

const (
	// KeyLoggerName is the key for the name of the component that logged the record.
	KeyLoggerName = "logger"
	// KeyTraceID is the key for the trace identifier of an event.
	KeyTraceID = "trace_id"
	// KeyEventType is the key for the event type of an event.
	KeyEventType = "event_type"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// ByteString creates a slog.Attr with the given key and a string representation of the byte slice value.
func ByteString(key string, value []byte) slog.Attr {
	return slog.String(key, string(value))
}

// Stringer creates a slog.Attr with the provided key and the string representation
// of the given fmt.Stringer value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// LoggerName creates a slog.Attr with the provided logger name.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// TraceID creates a slog.Attr for a trace identifier.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// EventType creates a slog.Attr for an event type.
func EventType(value fmt.Stringer) slog.Attr {
	return slog.String(KeyEventType, value.String())
}

// Count creates a slog.Attr with the number of items in a batch or queue.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
