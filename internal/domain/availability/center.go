package availability

import (
	"github.com/puzpuzpuz/xsync"

	"github.com/cryptojackpot/lottery/internal/domain/availability/event"
)

// Center keeps one hub per draw, created lazily on the first subscriber.
// Hubs are shut down and dropped when the last session leaves.
type Center struct {
	hubs *xsync.MapOf[string, *Hub]
}

func NewCenter() *Center {
	return &Center{
		hubs: xsync.NewMapOf[*Hub](),
	}
}

func (c *Center) GetHub(drawID string) *Hub {
	if hub, ok := c.hubs.Load(drawID); ok {
		return hub
	}

	newHub := NewHub(drawID)
	hub, existed := c.hubs.LoadOrStore(drawID, newHub)
	if existed {
		// Lost the race, shut down the extra fan-out loop.
		newHub.close()
	}

	return hub
}

// Broadcast pushes an event to every session watching the draw. A draw
// without a hub has no watchers, the event is dropped.
func (c *Center) Broadcast(drawID string, ev event.Event) {
	if hub, ok := c.hubs.Load(drawID); ok {
		hub.Broadcast(ev)
	}
}

// Reap shuts down and drops the hub of a draw once nobody watches it
// anymore. Called after a session leaves its hub.
func (c *Center) Reap(drawID string) {
	hub, ok := c.hubs.Load(drawID)
	if !ok {
		return
	}

	if hub.closeIfEmpty() {
		c.hubs.Delete(drawID)
	}
}
