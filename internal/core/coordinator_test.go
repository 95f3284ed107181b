package core

import (
	"testing"
	"time"
)

func TestAliasArbitration(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	b := co.Connect()
	co.JoinRoom(a, "abc123")
	co.JoinRoom(b, "abc123")

	co.SetAlias(a, "Kai")
	mustUsers(t, a.Events, []string{"Kai"})

	co.SetAlias(b, "Kai")
	rej := mustEvent(t, b.Events, EventAliasRejected)
	if rej.Reason != AliasTakenReason {
		t.Fatalf("unexpected rejection reason: %q", rej.Reason)
	}
	// B keeps whatever it had before, which is nothing.
	if got := co.Presence("abc123"); !equalUsers(got, []string{"Kai"}) {
		t.Fatalf("presence after rejection: %v", got)
	}

	co.SetAlias(b, "Sam")
	mustUsers(t, b.Events, []string{"Kai", "Sam"})
	mustUsers(t, a.Events, []string{"Kai", "Sam"})
}

func TestAliasIdempotentReproposal(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	co.JoinRoom(a, "r1")
	co.SetAlias(a, "Kai")
	mustUsers(t, a.Events, []string{"Kai"})

	// Proposing the alias this connection already holds always succeeds.
	co.SetAlias(a, "Kai")
	drainQuiet(t, a.Events, EventAliasRejected, 50*time.Millisecond)
	if got := co.Presence("r1"); !equalUsers(got, []string{"Kai"}) {
		t.Fatalf("presence after re-proposal: %v", got)
	}
}

func TestAliasCaseSensitive(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	b := co.Connect()
	co.JoinRoom(a, "r1")
	co.JoinRoom(b, "r1")

	co.SetAlias(a, "kai")
	co.SetAlias(b, "Kai")
	drainQuiet(t, b.Events, EventAliasRejected, 50*time.Millisecond)
	mustUsers(t, a.Events, []string{"kai", "Kai"})
}

func TestRoomSwitchReleasesMembershipAndAlias(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	b := co.Connect()
	co.JoinRoom(a, "r1")
	co.JoinRoom(b, "r1")
	co.SetAlias(a, "A")
	co.SetAlias(b, "B")
	mustUsers(t, a.Events, []string{"A", "B"})

	co.JoinRoom(b, "r2")

	// A sees B's removal in r1's next presence broadcast.
	mustUsers(t, a.Events, []string{"A"})

	// B's alias did not follow it into r2.
	if got := co.Presence("r2"); len(got) != 0 {
		t.Fatalf("expected empty presence in r2, got %v", got)
	}
	if members := co.RoomMembers("r2"); len(members) != 1 || members[0] != b.ID {
		t.Fatalf("unexpected r2 members: %v", members)
	}

	// B can now take A's alias, since they are in different rooms.
	co.SetAlias(b, "A")
	mustUsers(t, b.Events, []string{"A"})
}

func TestSendMessageFanOut(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	b := co.Connect()
	co.JoinRoom(a, "r1")
	co.JoinRoom(b, "r1")
	co.SetAlias(a, "A")

	co.SendMessage(a, "r1", "A", "hello room")

	for _, c := range []*Conn{a, b} {
		ev := mustEvent(t, c.Events, EventNewMessage)
		if ev.Message.Text != "hello room" || ev.Message.Alias != "A" || ev.Message.Room != "r1" {
			t.Fatalf("unexpected message event: %+v", ev.Message)
		}
		if ev.Message.ID == "" || ev.Message.Timestamp.IsZero() {
			t.Fatalf("relay must assign id and timestamp: %+v", ev.Message)
		}
	}
}

func TestMessageIsolationBetweenRooms(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	b := co.Connect()
	co.JoinRoom(a, "r1")
	co.JoinRoom(b, "r2")
	co.SetAlias(a, "A")

	co.SendMessage(a, "r1", "A", "private to r1")

	mustEvent(t, a.Events, EventNewMessage)
	drainQuiet(t, b.Events, EventNewMessage, 80*time.Millisecond)
}

func TestSendMessageWithoutAliasDropped(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	b := co.Connect()
	co.JoinRoom(a, "r1")
	co.JoinRoom(b, "r1")

	co.SendMessage(a, "r1", "ghost", "should not appear")
	drainQuiet(t, b.Events, EventNewMessage, 80*time.Millisecond)
}

func TestSendMessageForWrongRoomDropped(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	b := co.Connect()
	co.JoinRoom(a, "r1")
	co.SetAlias(a, "A")
	co.JoinRoom(b, "r2")

	// A claims r2 but is joined to r1.
	co.SendMessage(a, "r2", "A", "misrouted")
	drainQuiet(t, b.Events, EventNewMessage, 80*time.Millisecond)
}

func TestDisconnectPrunesEmptyRoom(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	co.JoinRoom(a, "r1")
	if co.RoomCount() != 1 {
		t.Fatalf("expected 1 room, got %d", co.RoomCount())
	}

	co.Disconnect(a)
	if co.RoomCount() != 0 {
		t.Fatalf("expected room pruned, got %d rooms", co.RoomCount())
	}
	if members := co.RoomMembers("r1"); members != nil {
		t.Fatalf("expected no members, got %v", members)
	}
}

func TestDisconnectRemovesFromPresence(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	b := co.Connect()
	co.JoinRoom(a, "r1")
	co.JoinRoom(b, "r1")
	co.SetAlias(a, "A")
	co.SetAlias(b, "B")
	mustUsers(t, a.Events, []string{"A", "B"})

	co.Disconnect(b)
	mustUsers(t, a.Events, []string{"A"})
}

func TestAliasFreedWithinGraceWindow(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(50 * time.Millisecond))

	a := co.Connect()
	co.JoinRoom(a, "r1")
	co.SetAlias(a, "X")
	co.Disconnect(a)

	// B arrives inside the grace window; A's departure has already been
	// processed, only the presence republish is deferred.
	b := co.Connect()
	co.JoinRoom(b, "r1")
	co.SetAlias(b, "X")

	// A rejection would leave B alias-less and this list would never arrive.
	mustUsers(t, b.Events, []string{"X"})

	// The delayed republish must still be correct once it fires.
	time.Sleep(80 * time.Millisecond)
	if got := co.Presence("r1"); !equalUsers(got, []string{"X"}) {
		t.Fatalf("presence after grace republish: %v", got)
	}
}

func TestRelayReturnsAssembledEvent(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	co.JoinRoom(a, "r1")

	ev := co.Relay("r1", "system", "persisted elsewhere")
	if ev.ID == "" || ev.Room != "r1" || ev.Alias != "system" {
		t.Fatalf("unexpected relayed event: %+v", ev)
	}

	got := mustEvent(t, a.Events, EventNewMessage)
	if got.Message.ID != ev.ID {
		t.Fatalf("delivered id %q does not match returned id %q", got.Message.ID, ev.ID)
	}

	// Relaying to a room with no members is a no-op, not an error.
	_ = co.Relay("nowhere", "system", "dropped")
}

func TestSetAliasBeforeJoinDropped(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	a := co.Connect()
	co.SetAlias(a, "early")
	drainQuiet(t, a.Events, EventAliasRejected, 50*time.Millisecond)
	drainQuiet(t, a.Events, EventUsersUpdated, 10*time.Millisecond)
}

func TestConnCountTracksLifecycle(t *testing.T) {
	co := testCoordinator(WithPresenceGrace(0))

	if co.ConnCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", co.ConnCount())
	}

	a := co.Connect()
	b := co.Connect()
	co.JoinRoom(a, "r1")
	if co.ConnCount() != 2 {
		t.Fatalf("expected 2 connections, got %d", co.ConnCount())
	}

	co.Disconnect(a)
	co.Disconnect(b)
	if co.ConnCount() != 0 {
		t.Fatalf("expected 0 connections after disconnects, got %d", co.ConnCount())
	}
}
