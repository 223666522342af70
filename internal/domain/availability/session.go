package availability

import (
	"github.com/google/uuid"

	"github.com/cryptojackpot/lottery/internal/domain/availability/event"
)

// Session is one websocket client's seat in a draw hub. Its channel is
// buffered so one slow client cannot stall the hub fan-out loop for long.
type Session struct {
	C chan *event.EventRequest

	id  string
	hub *Hub
}

func NewSession() *Session {
	return &Session{
		C:  make(chan *event.EventRequest, 16),
		id: uuid.NewString(),
	}
}

// JoinHub reports false when the hub was already shut down, the caller
// should look the hub up again.
func (s *Session) JoinHub(hub *Hub) bool {
	if !hub.Register(s) {
		return false
	}

	s.hub = hub
	return true
}

func (s *Session) LeaveHub() {
	if s.hub != nil {
		s.hub.Unregister(s)
		s.hub = nil
	}
	close(s.C)
}
