package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultPresenceGrace is how long the coordinator waits after a disconnect
// before republishing the vacated room's member list. The delay smooths out
// the flicker when a disconnect notification races the connection's last
// in-flight message; recomputation is correct at any delay, including zero.
const DefaultPresenceGrace = 100 * time.Millisecond

// Coordinator is the single entry point of the room coordination layer.
// The transport layer notifies it of connection lifecycle and inbound
// events; it owns all shared room state and fans events back out through
// each connection's Events channel. It is handed by reference to whichever
// component needs to publish — there is no ambient global instance.
type Coordinator struct {
	log   *zerolog.Logger
	reg   *registry
	grace time.Duration

	mu    sync.RWMutex
	conns map[string]*Conn
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithPresenceGrace sets the delay between a disconnect and the presence
// republish for the vacated room. Zero or negative publishes immediately.
func WithPresenceGrace(d time.Duration) Option {
	return func(co *Coordinator) { co.grace = d }
}

// NewCoordinator builds a coordinator with no connections or rooms.
func NewCoordinator(logger *zerolog.Logger, opts ...Option) *Coordinator {
	co := &Coordinator{
		log:   logger,
		reg:   newRegistry(),
		grace: DefaultPresenceGrace,
		conns: make(map[string]*Conn),
	}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// Connect registers a new connection in the unjoined state and returns it.
// Connection ids are never reused.
func (co *Coordinator) Connect() *Conn {
	c := NewConn(uuid.NewString())

	co.mu.Lock()
	co.conns[c.ID] = c
	co.mu.Unlock()

	co.log.Debug().Str("conn_id", c.ID).Msg("connection registered")
	return c
}

// JoinRoom moves the connection into the target room. Any previous
// membership is released first (a connection occupies at most one room)
// and the alias is cleared, forcing re-arbitration in the new room. Both
// affected rooms get a presence republish; no other room is touched.
func (co *Coordinator) JoinRoom(c *Conn, roomID string) {
	prev, next := co.reg.move(c, roomID)

	if prev != nil && prev != next {
		if _, empty := prev.leave(c, true); empty {
			co.reg.prune(prev)
		}
	}
	next.join(c)

	co.log.Debug().Str("conn_id", c.ID).Str("room", roomID).Msg("joined room")
}

// SetAlias arbitrates the candidate alias within the connection's current
// room. Acceptance updates state and republishes presence; rejection is
// reported to the proposing connection only. A set-alias before any join
// is a client protocol violation and is dropped.
func (co *Coordinator) SetAlias(c *Conn, candidate string) {
	r := co.reg.lookup(c)
	if r == nil {
		co.log.Debug().Str("conn_id", c.ID).Msg("set-alias before join, dropped")
		return
	}

	accepted, found := r.proposeAlias(c, candidate)
	switch {
	case !found:
		// Raced a disconnect; nothing to update.
		co.log.Debug().Str("conn_id", c.ID).Str("room", r.id).Msg("set-alias for departed connection, dropped")
	case !accepted:
		co.log.Debug().Str("conn_id", c.ID).Str("room", r.id).Str("alias", candidate).Msg("alias rejected")
	}
}

// SendMessage relays a chat message to the sender's current room. The
// room and alias must match the connection's current state; mismatches
// signal a client-side ordering bug and are dropped, not surfaced.
func (co *Coordinator) SendMessage(c *Conn, roomID, alias, text string) {
	r := co.reg.lookup(c)
	if r == nil || r.id != roomID {
		co.log.Debug().Str("conn_id", c.ID).Str("room", roomID).Msg("message for room not joined, dropped")
		return
	}
	current, ok := r.aliasOf(c)
	if !ok || current == "" || current != alias {
		co.log.Debug().Str("conn_id", c.ID).Str("room", roomID).Msg("message without matching alias, dropped")
		return
	}

	co.Relay(roomID, alias, text)
}

// Relay assembles a ChatEvent with a fresh id and timestamp and delivers
// it to every connection joined to the room at this instant. Delivery is
// fire-and-forget; the event is returned so callers that persisted the
// message elsewhere can echo the relayed form.
func (co *Coordinator) Relay(roomID, alias, text string) ChatEvent {
	ev := ChatEvent{
		ID:        uuid.NewString(),
		Room:      roomID,
		Alias:     alias,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	if r := co.reg.room(roomID); r != nil {
		r.broadcast(&Event{Kind: EventNewMessage, Room: roomID, Message: ev})
	}
	return ev
}

// Disconnect releases the connection's room membership and destroys its
// record. The vacated room's presence is republished after the configured
// grace delay; an emptied room is pruned immediately.
func (co *Coordinator) Disconnect(c *Conn) {
	co.mu.Lock()
	delete(co.conns, c.ID)
	co.mu.Unlock()

	prev := co.reg.drop(c)
	if prev == nil {
		return
	}

	removed, empty := prev.leave(c, false)
	if empty {
		co.reg.prune(prev)
		return
	}
	if !removed {
		return
	}

	if co.grace <= 0 {
		prev.publishUsers()
	} else {
		time.AfterFunc(co.grace, prev.publishUsers)
	}
	co.log.Debug().Str("conn_id", c.ID).Str("room", prev.id).Msg("connection left room on disconnect")
}

// RoomMembers returns the connection ids currently joined to the room.
func (co *Coordinator) RoomMembers(roomID string) []string {
	r := co.reg.room(roomID)
	if r == nil {
		return nil
	}
	return r.connIDs()
}

// Presence returns the current alias-bearing member list of the room,
// in join order.
func (co *Coordinator) Presence(roomID string) []string {
	r := co.reg.room(roomID)
	if r == nil {
		return []string{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.memberAliasesLocked()
}

// RoomCount reports how many rooms currently have members.
func (co *Coordinator) RoomCount() int {
	return co.reg.roomCount()
}

// ConnCount reports how many connections are currently registered,
// joined or not.
func (co *Coordinator) ConnCount() int {
	co.mu.RLock()
	defer co.mu.RUnlock()
	return len(co.conns)
}
