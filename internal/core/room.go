package core

import "sync"

// member is a connection's per-room record. The alias lives here, not on
// the Conn, so that arbitration and projection happen under the room lock.
type member struct {
	conn  *Conn
	alias string
}

// room holds the mutable state of one active room. Its mutex serializes
// every membership and alias read-modify-write for that room, so unrelated
// rooms never contend with each other. Fan-out happens inside the critical
// section: sends are non-blocking, and keeping them under the lock is what
// gives each room its causal ordering of presence updates and messages.
type room struct {
	id string

	mu      sync.Mutex
	members []*member // join order
}

func newRoom(id string) *room {
	return &room{id: id}
}

func (r *room) find(c *Conn) *member {
	for _, m := range r.members {
		if m.conn == c {
			return m
		}
	}
	return nil
}

// join adds the connection to the room, or resets its alias if it is
// already a member (re-joining forces re-arbitration either way). The
// member list is republished before the lock is released.
func (r *room) join(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m := r.find(c); m != nil {
		m.alias = ""
	} else {
		r.members = append(r.members, &member{conn: c})
	}
	r.publishUsersLocked()
}

// leave removes the connection and reports whether the room emptied.
// When publish is false the caller is responsible for recomputing presence
// later (the disconnect grace path).
func (r *room) leave(c *Conn, publish bool) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.members {
		if m.conn == c {
			r.members = append(r.members[:i], r.members[i+1:]...)
			removed = true
			break
		}
	}
	if removed && publish {
		r.publishUsersLocked()
	}
	return removed, len(r.members) == 0
}

// proposeAlias arbitrates a candidate alias against the other members'
// current aliases, case-sensitively. Re-proposing the alias the connection
// already holds is accepted as a no-op. Acceptance republishes the member
// list; rejection notifies only the proposer.
func (r *room) proposeAlias(c *Conn, candidate string) (accepted, found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.find(c)
	if m == nil {
		return false, false
	}
	if m.alias != candidate {
		for _, other := range r.members {
			if other != m && other.alias == candidate {
				m.conn.send(&Event{
					Kind:   EventAliasRejected,
					Room:   r.id,
					Reason: AliasTakenReason,
				})
				return false, true
			}
		}
		m.alias = candidate
	}
	r.publishUsersLocked()
	return true, true
}

// aliasOf returns the connection's current alias in this room and whether
// the connection is still a member.
func (r *room) aliasOf(c *Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m := r.find(c); m != nil {
		return m.alias, true
	}
	return "", false
}

// broadcast delivers an event to the membership snapshot at call time.
func (r *room) broadcast(ev *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		m.conn.send(ev)
	}
}

// publishUsers recomputes and re-sends the member list unconditionally.
// Safe to call at any time, including on a room that has already emptied.
func (r *room) publishUsers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishUsersLocked()
}

func (r *room) publishUsersLocked() {
	ev := &Event{
		Kind:  EventUsersUpdated,
		Room:  r.id,
		Users: r.memberAliasesLocked(),
	}
	for _, m := range r.members {
		m.conn.send(ev)
	}
}

// memberAliasesLocked projects the alias-bearing members, in join order.
// Arbitration already guarantees uniqueness, but alias changes and
// disconnects interleave, so the projection de-duplicates anyway.
func (r *room) memberAliasesLocked() []string {
	users := make([]string, 0, len(r.members))
	seen := make(map[string]struct{}, len(r.members))
	for _, m := range r.members {
		if m.alias == "" {
			continue
		}
		if _, dup := seen[m.alias]; dup {
			continue
		}
		seen[m.alias] = struct{}{}
		users = append(users, m.alias)
	}
	return users
}

// connIDs returns the current member connection ids.
func (r *room) connIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.members))
	for _, m := range r.members {
		ids = append(ids, m.conn.ID)
	}
	return ids
}
