package testutil

import (
	"context"
	"sync"

	"github.com/cryptojackpot/lottery/pkg/pubsub"
)

type PublishedPack struct {
	Topic string
	Pack  *pubsub.Pack
}

// MockPublisher records every published pack and optionally forwards to
// PublishFunc.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mutex     sync.Mutex
	published []PublishedPack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m.mutex.Lock()
	m.published = append(m.published, PublishedPack{Topic: topic, Pack: pack})
	m.mutex.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	return nil
}

func (m *MockPublisher) Published() []PublishedPack {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]PublishedPack{}, m.published...)
}
