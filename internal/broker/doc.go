// Package broker distributes trace events to subscribers, either inside the
// process (Local) or across processes through NATS subjects (NATS).
//
// Topics are created on first use and reused afterwards. Every subscription
// forwards events to a Hook from its own goroutine, so a slow hook never
// blocks the publisher for longer than the slow-subscriber timeout; a
// subscriber that stays full past that timeout is unsubscribed.
//
// Example usage:
//
//	b := broker.Local()
//	topic := b.Topic(ctx, "research_agent")
//
//	sub, err := topic.Subscribe(ctx, broker.HookFunc(func(ctx context.Context, e events.Event) {
//	    fmt.Println(e.TraceID, e.EventType)
//	}))
//	if err != nil {
//	    return err
//	}
//	defer sub.Unsubscribe()
//
//	_ = topic.Publish(ctx, evt)
package broker
