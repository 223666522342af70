package event

type Event interface {
	Op() string
}

// EventRequest is the envelope every frame on the availability channel uses,
// in both directions.
type EventRequest struct {
	Op   string `json:"o"`
	Data any    `json:"d"`
}

func New(ev Event) *EventRequest {
	return &EventRequest{
		Op:   ev.Op(),
		Data: ev,
	}
}
