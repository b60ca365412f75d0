package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/trancepoint/events"
	"github.com/casualjim/trancepoint/pkg/slogx"
	"github.com/casualjim/trancepoint/pkg/uuidx"
	"github.com/nats-io/nats.go"
)

type natsBroker struct {
	client *nats.Conn
	topics *haxmap.Map[string, *natsTopic]
}

// NATS maps topics onto NATS subjects of the same name. Events travel as
// their JSON encoding.
func NATS(client *nats.Conn) *natsBroker {
	return &natsBroker{
		client: client,
		topics: haxmap.New[string, *natsTopic](),
	}
}

func (b *natsBroker) Topic(ctx context.Context, id string) Topic {
	top, _ := b.topics.GetOrCompute(id, func() *natsTopic {
		return &natsTopic{
			subject: id,
			client:  b.client,
		}
	})
	return top
}

type natsTopic struct {
	client  *nats.Conn
	subject string
}

func (t *natsTopic) Publish(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	eb, err := events.Marshal(event)
	if err != nil {
		return err
	}
	return t.client.Publish(t.subject, eb)
}

func (t *natsTopic) Subscribe(ctx context.Context, hook Hook) (Subscription, error) {
	if hook == nil {
		return nil, fmt.Errorf("hook is required")
	}
	sub := make(chan events.Event, subscriptionBuffer)
	nsub, err := t.client.Subscribe(t.subject, func(msg *nats.Msg) {
		event, err := events.Unmarshal(msg.Data)
		if err != nil {
			slog.Error("failed to unmarshal event", slogx.Error(err), slog.String("subject", msg.Subject))
			return
		}

		select {
		case sub <- event:
		case <-ctx.Done():
			return
		}

		if msg.Reply != "" {
			if nerr := msg.Ack(); nerr != nil {
				slog.Error("failed to ack message", slogx.Error(nerr))
			}
		}
	})
	if err != nil {
		return nil, err
	}

	s := &natsSubscription{
		id:   uuidx.NewString(),
		sub:  nsub,
		done: make(chan struct{}),
	}
	go forwardToHook(ctx, sub, s.done, hook)
	return s, nil
}

func forwardToHook(ctx context.Context, ch <-chan events.Event, done <-chan struct{}, hook Hook) {
	for {
		select {
		case event := <-ch:
			hook.OnEvent(ctx, event)
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

type natsSubscription struct {
	id        string
	sub       *nats.Subscription
	done      chan struct{}
	closeOnce sync.Once
}

func (n *natsSubscription) ID() string {
	return n.id
}

func (n *natsSubscription) Unsubscribe() {
	n.closeOnce.Do(func() {
		close(n.done)
		if err := n.sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe", slogx.Error(err), slog.String("subscription", n.id))
		}
	})
}
