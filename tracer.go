package trancepoint

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/benbjohnson/clock"
	"github.com/casualjim/trancepoint/events"
	"github.com/casualjim/trancepoint/internal/broker"
	"github.com/casualjim/trancepoint/pkg/jsonx"
	"github.com/casualjim/trancepoint/pkg/slogx"
	"github.com/goccy/go-json"
)

const (
	eventsTopic = "trancepoint.events"
	// subscriberTimeout bounds how long recording waits on a full subscriber
	// before that subscriber is dropped.
	subscriberTimeout = 5 * time.Millisecond

	// MetadataParentEventID links a nested span's START to the START of its parent.
	MetadataParentEventID = "parent_event_id"
)

// Recorder accepts the events produced by a Tracer. BatchClient is the usual
// implementation.
type Recorder interface {
	Enqueue(events.Event) error
}

type (
	Hook         = broker.Hook
	HookFunc     = broker.HookFunc
	Subscription = broker.Subscription
)

type (
	spanKey    struct{}
	traceIDKey struct{}
)

// Tracer turns agent executions into START/END/ERROR events.
type Tracer struct {
	recorder Recorder
	logger   *slog.Logger
	clock    clock.Clock
	topic    broker.Topic
	active   *haxmap.Map[string, *Span]
}

// NewTracer creates a tracer recording into recorder.
func NewTracer(recorder Recorder, options ...Option) (*Tracer, error) {
	s, err := newSettings(false, options)
	if err != nil {
		return nil, err
	}
	return &Tracer{
		recorder: recorder,
		logger:   s.logger.With(slogx.LoggerName("trancepoint.tracer")),
		clock:    s.clock,
		topic:    broker.Local().WithSlowSubscriberTimeout(subscriberTimeout).Topic(context.Background(), eventsTopic),
		active:   haxmap.New[string, *Span](),
	}, nil
}

// Start opens a span and records its START event. The trace id is taken from
// the span or trace id carried by ctx, otherwise a new trace begins. The
// returned context carries the span.
func (t *Tracer) Start(ctx context.Context, agentName, input string) (*Span, context.Context) {
	if t == nil {
		return nil, ctx
	}
	parent := SpanFromContext(ctx)
	traceID := TraceIDFromContext(ctx)

	evt := events.NewStart(traceID, agentName, input, t.clock.Now())
	if parent != nil {
		evt.Metadata = map[string]any{MetadataParentEventID: parent.EventID()}
	}
	span := &Span{tracer: t, start: evt}
	t.active.Set(evt.EventID, span)
	t.record(ctx, evt)
	return span, context.WithValue(ctx, spanKey{}, span)
}

// ActiveSpans is the number of spans started and not yet ended.
func (t *Tracer) ActiveSpans() int {
	if t == nil {
		return 0
	}
	return int(t.active.Len())
}

// Subscribe delivers every event the tracer records to hook, in process,
// until the subscription or ctx ends. Hooks run on their own goroutine behind
// a small buffer; a hook that falls behind stalls recording for at most a few
// milliseconds once, and is then unsubscribed.
func (t *Tracer) Subscribe(ctx context.Context, hook Hook) (Subscription, error) {
	return t.topic.Subscribe(ctx, hook)
}

func (t *Tracer) record(ctx context.Context, evt events.Event) {
	if t.recorder != nil {
		if err := t.recorder.Enqueue(evt); err != nil {
			t.logger.Warn("failed to record event",
				slogx.TraceID(evt.TraceID),
				slogx.EventType(evt.EventType),
				slogx.Error(err),
			)
		}
	}
	if err := t.topic.Publish(context.WithoutCancel(ctx), evt); err != nil {
		t.logger.Debug("failed to publish event", slogx.TraceID(evt.TraceID), slogx.Error(err))
	}
}

// Span is one agent execution between its START and its END or ERROR.
// A nil span is valid and records nothing.
type Span struct {
	tracer *Tracer
	start  events.Event
	ended  atomic.Bool

	mu       sync.Mutex
	metadata map[string]any
}

// StartEvent is the START event that opened the span.
func (s *Span) StartEvent() events.Event {
	if s == nil {
		return events.Event{}
	}
	return s.start
}

func (s *Span) TraceID() string {
	if s == nil {
		return ""
	}
	return s.start.TraceID
}

func (s *Span) EventID() string {
	if s == nil {
		return ""
	}
	return s.start.EventID
}

// Annotate adds the fields of meta, a map or a struct that encodes to a JSON
// object, to the metadata of the event that ends the span.
func (s *Span) Annotate(meta any) error {
	if s == nil {
		return nil
	}
	fields, err := jsonx.Object(meta)
	if err != nil {
		return fmt.Errorf("failed to convert span metadata: %w", err)
	}
	s.mu.Lock()
	s.metadata = jsonx.Merge(s.metadata, fields)
	s.mu.Unlock()
	return nil
}

// End records the END event of a successful execution.
func (s *Span) End(output string) error {
	if s == nil {
		return nil
	}
	return s.finish(func() events.Event {
		return events.NewEnd(s.start, output, s.tracer.clock.Now())
	})
}

// Fail records the ERROR event of a failed execution.
func (s *Span) Fail(err error) error {
	if s == nil {
		return nil
	}
	return s.finish(func() events.Event {
		return events.NewError(s.start, err, s.tracer.clock.Now())
	})
}

func (s *Span) finish(build func() events.Event) error {
	if !s.ended.CompareAndSwap(false, true) {
		return ErrSpanEnded
	}
	s.tracer.active.Del(s.start.EventID)

	evt := build()
	s.mu.Lock()
	evt.Metadata = jsonx.Merge(evt.Metadata, s.metadata)
	s.mu.Unlock()
	s.tracer.record(context.Background(), evt)
	return nil
}

// SpanFromContext returns the span carried by ctx, or nil.
func SpanFromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanKey{}).(*Span)
	return span
}

// ContextWithTraceID makes spans started from ctx join the trace id, for
// example one received from an upstream service.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace id of the span in ctx, or the one set
// with ContextWithTraceID, or "".
func TraceIDFromContext(ctx context.Context) string {
	if span := SpanFromContext(ctx); span != nil {
		return span.TraceID()
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// Observe runs fn inside a span named agentName and returns its results
// unchanged. input and the output are recorded as text; errors returned by
// fn are recorded as ERROR events. When fn panics, the panic is recorded and
// then re-raised. A nil tracer just calls fn.
func Observe[T any](ctx context.Context, t *Tracer, agentName string, input any, fn func(context.Context) (T, error)) (T, error) {
	if t == nil {
		return fn(ctx)
	}
	span, ctx := t.Start(ctx, agentName, FormatText(input))
	defer func() {
		if r := recover(); r != nil {
			_ = span.Fail(&PanicError{Value: r})
			panic(r)
		}
	}()

	out, err := fn(ctx)
	if err != nil {
		_ = span.Fail(err)
		return out, err
	}
	_ = span.End(FormatText(out))
	return out, nil
}

// FormatText renders a value as event text. Strings, byte slices, errors and
// Stringers are used as they are; anything else is JSON encoded.
func FormatText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case error, fmt.Stringer:
		// fmt recovers from nil receivers and prints <nil>
		return fmt.Sprint(val)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
