package core

// Conn is a live transport session as seen by the coordination core.
// The transport layer reads from Events and forwards them to the wire;
// it never mutates room or alias state directly.
type Conn struct {
	ID     string
	Events chan *Event
}

// eventBuffer bounds the per-connection outbound queue. A connection that
// falls this far behind starts losing events (delivery is best-effort).
const eventBuffer = 32

// NewConn constructs a connection with an initialized event channel.
func NewConn(id string) *Conn {
	return &Conn{
		ID:     id,
		Events: make(chan *Event, eventBuffer),
	}
}

// send enqueues an event without blocking. Slow consumers drop.
func (c *Conn) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}
