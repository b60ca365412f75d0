package broker

import (
	"context"

	"github.com/casualjim/trancepoint/events"
)

type Broker interface {
	Topic(context.Context, string) Topic
}

type Topic interface {
	Publish(context.Context, events.Event) error
	Subscribe(context.Context, Hook) (Subscription, error)
}

type Subscription interface {
	ID() string
	Unsubscribe()
}

// Hook receives the events of a subscription.
type Hook interface {
	OnEvent(context.Context, events.Event)
}

// HookFunc adapts a function to a Hook.
type HookFunc func(context.Context, events.Event)

func (f HookFunc) OnEvent(ctx context.Context, e events.Event) {
	f(ctx, e)
}
