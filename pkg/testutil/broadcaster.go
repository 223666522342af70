package testutil

import (
	"sync"

	"github.com/cryptojackpot/lottery/internal/domain/availability/event"
)

type BroadcastedEvent struct {
	DrawID string
	Event  event.Event
}

// MockBroadcaster records every broadcast instead of fanning it out.
type MockBroadcaster struct {
	mutex  sync.Mutex
	events []BroadcastedEvent
}

func (m *MockBroadcaster) Broadcast(drawID string, ev event.Event) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.events = append(m.events, BroadcastedEvent{DrawID: drawID, Event: ev})
}

func (m *MockBroadcaster) Events() []BroadcastedEvent {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]BroadcastedEvent{}, m.events...)
}
