package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cryptojackpot/lottery/internal/domain/availability/event"
	"github.com/cryptojackpot/lottery/internal/model"
)

func receiveEvent(t *testing.T, c chan *event.EventRequest) *event.EventRequest {
	t.Helper()

	select {
	case req := <-c:
		return req
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestHub_fanOut(t *testing.T) {
	center := NewCenter()
	hub := center.GetHub("draw1")

	first := NewSession()
	require.True(t, first.JoinHub(hub))
	second := NewSession()
	require.True(t, second.JoinHub(hub))

	center.Broadcast("draw1", &event.NumbersReservedEvent{
		DrawID: "draw1",
		Units:  []model.UnitStatusInfo{{UnitID: "unit1", Number: 3, Series: 1, Status: "reserved"}},
	})

	for _, session := range []*Session{first, second} {
		req := receiveEvent(t, session.C)
		require.Equal(t, "numbers_reserved", req.Op)

		reserved, ok := req.Data.(*event.NumbersReservedEvent)
		require.True(t, ok)
		require.Len(t, reserved.Units, 1)
		require.Equal(t, "unit1", reserved.Units[0].UnitID)
	}

	// A session that left gets nothing anymore.
	second.LeaveHub()
	center.Broadcast("draw1", &event.NumbersReleasedEvent{DrawID: "draw1"})
	req := receiveEvent(t, first.C)
	require.Equal(t, "numbers_released", req.Op)

	select {
	case _, ok := <-second.C:
		require.False(t, ok)
	default:
	}
}

func TestCenter_isolatesDraws(t *testing.T) {
	center := NewCenter()

	watcher := NewSession()
	require.True(t, watcher.JoinHub(center.GetHub("draw1")))

	center.Broadcast("draw2", &event.NumbersSoldEvent{DrawID: "draw2"})
	center.Broadcast("draw1", &event.NumbersSoldEvent{DrawID: "draw1"})

	req := receiveEvent(t, watcher.C)
	sold, ok := req.Data.(*event.NumbersSoldEvent)
	require.True(t, ok)
	require.Equal(t, "draw1", sold.DrawID)

	select {
	case req := <-watcher.C:
		t.Fatalf("unexpected event %s", req.Op)
	default:
	}
}

func TestCenter_reap(t *testing.T) {
	center := NewCenter()

	session := NewSession()
	require.True(t, session.JoinHub(center.GetHub("draw1")))

	center.Reap("draw1")
	_, ok := center.hubs.Load("draw1")
	require.True(t, ok)

	session.LeaveHub()
	center.Reap("draw1")
	_, ok = center.hubs.Load("draw1")
	require.False(t, ok)
}

func TestCenter_reapShutsDownHub(t *testing.T) {
	center := NewCenter()

	hub := center.GetHub("draw1")
	session := NewSession()
	require.True(t, session.JoinHub(hub))

	session.LeaveHub()
	center.Reap("draw1")

	// The fan-out loop of a reaped hub must exit, not linger on its channel.
	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("reaped hub was not shut down")
	}

	// Stale references drop instead of blocking or panicking.
	hub.Broadcast(&event.NumbersSoldEvent{DrawID: "draw1"})
	require.False(t, NewSession().JoinHub(hub))

	// A returning watcher gets a fresh hub.
	rejoined := NewSession()
	require.True(t, rejoined.JoinHub(center.GetHub("draw1")))
	center.Broadcast("draw1", &event.NumbersSoldEvent{DrawID: "draw1"})
	require.Equal(t, "numbers_sold", receiveEvent(t, rejoined.C).Op)
}

func TestCenter_broadcastWithoutWatchers(t *testing.T) {
	center := NewCenter()

	// Nobody watches this draw, no hub may be created for the broadcast.
	center.Broadcast("draw1", &event.NumbersSoldEvent{DrawID: "draw1"})
	_, ok := center.hubs.Load("draw1")
	require.False(t, ok)
}
