package core

import "sync"

// registry maps room ids to live room state and tracks which room each
// connection occupies. Its lock guards only the two maps; per-room state
// is serialized by each room's own mutex. Lock order is always
// registry.mu before room.mu, never the reverse.
type registry struct {
	mu     sync.RWMutex
	rooms  map[string]*room
	byConn map[string]*room
}

func newRegistry() *registry {
	return &registry{
		rooms:  make(map[string]*room),
		byConn: make(map[string]*room),
	}
}

// move points the connection at the target room, creating it if absent,
// and returns the previously occupied room (nil if none). The caller
// completes the membership changes on both rooms.
func (g *registry) move(c *Conn, roomID string) (prev, next *room) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prev = g.byConn[c.ID]
	next = g.rooms[roomID]
	if next == nil {
		next = newRoom(roomID)
		g.rooms[roomID] = next
	}
	g.byConn[c.ID] = next
	return prev, next
}

// drop forgets the connection and returns the room it occupied, if any.
func (g *registry) drop(c *Conn) *room {
	g.mu.Lock()
	defer g.mu.Unlock()

	prev := g.byConn[c.ID]
	delete(g.byConn, c.ID)
	return prev
}

// lookup returns the room the connection currently occupies.
func (g *registry) lookup(c *Conn) *room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.byConn[c.ID]
}

// room returns the live room for an id, or nil.
func (g *registry) room(id string) *room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rooms[id]
}

// prune removes the room from the map if it is still registered, still
// empty, and no connection is pointed at it. Re-checking under both locks
// closes the race with a concurrent join that grabbed the same room
// pointer; the byConn scan closes the narrower one where a mover has been
// pointed at the room but has not appended its membership yet.
func (g *registry) prune(r *room) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rooms[r.id] != r {
		return
	}
	for _, occupied := range g.byConn {
		if occupied == r {
			return
		}
	}

	r.mu.Lock()
	empty := len(r.members) == 0
	r.mu.Unlock()

	if empty {
		delete(g.rooms, r.id)
	}
}

// roomCount reports the number of live rooms.
func (g *registry) roomCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}
