package domain

import "github.com/cryptojackpot/lottery/internal/domain/availability/event"

// Broadcaster pushes availability events to every websocket client watching
// a draw. Domains call it only after their transaction committed, so clients
// never observe a state the store rolled back.
type Broadcaster interface {
	Broadcast(drawID string, ev event.Event)
}
