package core

// EventKind is a notification the core emits to connections.
type EventKind int

const (
	// EventNewMessage carries a chat message relayed to a room.
	EventNewMessage EventKind = iota
	// EventUsersUpdated carries the recomputed member list of a room.
	EventUsersUpdated
	// EventAliasRejected tells the proposing connection its alias was refused.
	EventAliasRejected
)

// Event is delivered to connections to describe what happened in a room.
type Event struct {
	Kind    EventKind
	Room    string
	Users   []string  // EventUsersUpdated
	Message ChatEvent // EventNewMessage
	Reason  string    // EventAliasRejected
}
