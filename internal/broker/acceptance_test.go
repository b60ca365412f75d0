package broker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/casualjim/trancepoint/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokerFactory is a function that creates a new broker instance for testing
type brokerFactory func(t *testing.T) Broker

type acceptanceTest struct {
	name string
	test func(t *testing.T, createBroker brokerFactory)
}

// runAcceptanceTests runs all acceptance tests against a broker implementation
func runAcceptanceTests(t *testing.T, factory brokerFactory) {
	tests := []acceptanceTest{
		{"creates unique topics", testUniqueTopics},
		{"reuses existing topics", testReuseTopics},
		{"publishes events to all subscribers", testPublishToAllSubscribers},
		{"handles subscription lifecycle", testSubscriptionLifecycle},
		{"handles context cancellation", testContextCancellation},
		{"handles concurrent operations", testConcurrentOperations},
		{"validates hook requirement", testHookValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.test(t, factory)
		})
	}
}

func TestLocalBroker(t *testing.T) {
	runAcceptanceTests(t, func(t *testing.T) Broker {
		return Local()
	})

	t.Run("handles slow subscribers", testSlowSubscribers)
	t.Run("unsubscribe removes the subscription", func(t *testing.T) {
		top := Local().Topic(context.Background(), "test").(*topic)
		sub, err := top.Subscribe(context.Background(), newRecordingHook())
		require.NoError(t, err)
		assert.Equal(t, 1, top.Len())

		sub.Unsubscribe()
		sub.Unsubscribe()
		assert.Equal(t, 0, top.Len())
	})
}

type recordingHook struct {
	mu     sync.Mutex
	events []events.Event
	wg     *sync.WaitGroup
}

func newRecordingHook() *recordingHook {
	return &recordingHook{}
}

func (h *recordingHook) OnEvent(_ context.Context, e events.Event) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
	if h.wg != nil {
		h.wg.Done()
	}
}

func (h *recordingHook) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func testEvent(i int) events.Event {
	return events.NewStart("tr_acceptance", fmt.Sprintf("agent-%d", i), "input", time.Now())
}

func waitGroup(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("timeout waiting for events to be processed")
	}
}

func testUniqueTopics(t *testing.T, createBroker brokerFactory) {
	broker := createBroker(t)
	topic1 := broker.Topic(context.Background(), "test1")
	topic2 := broker.Topic(context.Background(), "test2")
	assert.NotEqual(t, topic1, topic2)
}

func testReuseTopics(t *testing.T, createBroker brokerFactory) {
	broker := createBroker(t)
	topic1 := broker.Topic(context.Background(), "test")
	topic2 := broker.Topic(context.Background(), "test")
	assert.Equal(t, topic1, topic2)
}

func testPublishToAllSubscribers(t *testing.T, createBroker brokerFactory) {
	broker := createBroker(t)
	topic := broker.Topic(context.Background(), "test")
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(4) // 2 recorders * 2 events
	recorder1 := newRecordingHook()
	recorder2 := newRecordingHook()
	recorder1.wg = &wg
	recorder2.wg = &wg

	sub1, err := topic.Subscribe(ctx, recorder1)
	require.NoError(t, err)
	sub2, err := topic.Subscribe(ctx, recorder2)
	require.NoError(t, err)
	defer sub1.Unsubscribe()
	defer sub2.Unsubscribe()

	start := testEvent(1)
	require.NoError(t, topic.Publish(ctx, start))
	require.NoError(t, topic.Publish(ctx, events.NewEnd(start, "done", time.Now())))

	waitGroup(t, &wg, 2*time.Second)

	for _, rec := range []*recordingHook{recorder1, recorder2} {
		rec.mu.Lock()
		require.Len(t, rec.events, 2)
		assert.Equal(t, events.EventTypeStart, rec.events[0].EventType)
		assert.Equal(t, events.EventTypeEnd, rec.events[1].EventType)
		assert.Equal(t, start.TraceID, rec.events[1].TraceID)
		rec.mu.Unlock()
	}
}

func testSubscriptionLifecycle(t *testing.T, createBroker brokerFactory) {
	broker := createBroker(t)
	topic := broker.Topic(context.Background(), "test")
	ctx := context.Background()

	recorder := newRecordingHook()
	sub, err := topic.Subscribe(ctx, recorder)
	require.NoError(t, err)

	sub.Unsubscribe()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, topic.Publish(ctx, testEvent(1)))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, recorder.Len())
}

func testContextCancellation(t *testing.T, createBroker brokerFactory) {
	broker := createBroker(t)
	topic := broker.Topic(context.Background(), "test")

	ctx, cancel := context.WithCancel(context.Background())
	recorder := newRecordingHook()
	sub, err := topic.Subscribe(ctx, recorder)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	cancel()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, topic.Publish(context.Background(), testEvent(1)))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, recorder.Len())
}

func testConcurrentOperations(t *testing.T, createBroker brokerFactory) {
	broker := createBroker(t)
	topic := broker.Topic(context.Background(), "test")
	ctx := context.Background()

	const numSubscribers = 10
	const numEvents = 100
	var processWg sync.WaitGroup
	processWg.Add(numSubscribers * numEvents)

	recorders := make([]*recordingHook, numSubscribers)
	subs := make([]Subscription, numSubscribers)
	for i := range numSubscribers {
		recorders[i] = newRecordingHook()
		recorders[i].wg = &processWg
		sub, err := topic.Subscribe(ctx, recorders[i])
		require.NoError(t, err)
		subs[i] = sub
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	var publishWg sync.WaitGroup
	publishWg.Add(numEvents)
	for i := range numEvents {
		go func(i int) {
			defer publishWg.Done()
			assert.NoError(t, topic.Publish(ctx, testEvent(i)))
		}(i)
	}

	publishWg.Wait()
	waitGroup(t, &processWg, 5*time.Second)

	for _, recorder := range recorders {
		assert.Equal(t, numEvents, recorder.Len())
	}
}

func testHookValidation(t *testing.T, createBroker brokerFactory) {
	broker := createBroker(t)
	topic := broker.Topic(context.Background(), "test")

	_, err := topic.Subscribe(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "hook is required")
}

type slowHook struct {
	*recordingHook
	delay time.Duration
}

func (h *slowHook) OnEvent(ctx context.Context, e events.Event) {
	time.Sleep(h.delay)
	h.recordingHook.OnEvent(ctx, e)
}

func testSlowSubscribers(t *testing.T) {
	topic := Local().Topic(context.Background(), "test")
	ctx := context.Background()

	recorder := &slowHook{
		recordingHook: newRecordingHook(),
		delay:         200 * time.Millisecond,
	}
	sub, err := topic.Subscribe(ctx, recorder)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	const numEvents = 10
	for i := range numEvents {
		require.NoError(t, topic.Publish(ctx, testEvent(i)))
	}

	time.Sleep(500 * time.Millisecond)
	assert.Less(t, recorder.Len(), numEvents)
}
