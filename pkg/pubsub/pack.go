package pubsub

// Pack is the unit of exchange on the message bus. Key is used for
// partitioning, Msg carries the JSON-encoded event.
type Pack struct {
	Key []byte
	Msg []byte
}
