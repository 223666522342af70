package availability

import (
	"sync"

	"github.com/cryptojackpot/lottery/internal/domain/availability/event"
)

// Hub fans availability events of a single draw out to every session
// watching that draw. A closed hub drops broadcasts and refuses new
// sessions, so references held across a reap stay harmless.
type Hub struct {
	drawID   string
	sessions map[string]*Session
	c        chan *event.EventRequest
	done     chan struct{}

	mutex     sync.RWMutex
	closeOnce sync.Once
}

func NewHub(drawID string) *Hub {
	h := &Hub{
		drawID:   drawID,
		sessions: make(map[string]*Session),
		mutex:    sync.RWMutex{},
		c:        make(chan *event.EventRequest, 8),
		done:     make(chan struct{}),
	}

	go h.run()
	return h
}

func (h *Hub) Broadcast(ev event.Event) {
	select {
	case h.c <- event.New(ev):
	case <-h.done:
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return

		case req := <-h.c:
			h.mutex.RLock()
			for _, s := range h.sessions {
				s.C <- req
			}
			h.mutex.RUnlock()
		}
	}
}

// Register reports false when the hub has already shut down, the session
// must look the hub up again.
func (h *Hub) Register(session *Session) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	select {
	case <-h.done:
		return false
	default:
	}

	h.sessions[session.id] = session
	return true
}

func (h *Hub) Unregister(session *Session) {
	h.mutex.RLock()
	_, ok := h.sessions[session.id]
	h.mutex.RUnlock()
	if !ok {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.sessions, session.id)
}

func (h *Hub) IsEmpty() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.sessions) == 0
}

// closeIfEmpty stops the fan-out loop once the last session is gone. The
// session lock covers both the emptiness check and the shutdown, so a hub
// never closes with a live session and a session never joins a closed hub.
func (h *Hub) closeIfEmpty() bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if len(h.sessions) > 0 {
		return false
	}

	h.close()
	return true
}

func (h *Hub) close() {
	h.closeOnce.Do(func() { close(h.done) })
}
