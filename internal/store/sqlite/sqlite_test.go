package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/yapli/yapli-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestOwner(t *testing.T, s *SQLiteStore) *store.User {
	t.Helper()

	u, err := s.CreateUser(context.Background(), "host", "hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

func TestRoomLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTestOwner(t, s)

	room, err := s.CreateRoom(ctx, "abc123", "team standup", owner.ID)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if room.Code != "abc123" || room.Title != "team standup" || room.OwnerID != owner.ID {
		t.Fatalf("unexpected room: %+v", room)
	}

	exists, err := s.RoomExists(ctx, "abc123")
	if err != nil || !exists {
		t.Fatalf("expected room to exist, got %v, %v", exists, err)
	}
	exists, err = s.RoomExists(ctx, "zzzzzz")
	if err != nil || exists {
		t.Fatalf("expected room not to exist, got %v, %v", exists, err)
	}

	got, err := s.GetRoomByCode(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetRoomByCode failed: %v", err)
	}
	if got.ID != room.ID {
		t.Fatalf("expected room id %d, got %d", room.ID, got.ID)
	}

	// Duplicate codes are rejected by the unique constraint.
	if _, err := s.CreateRoom(ctx, "abc123", "other", owner.ID); err == nil {
		t.Fatal("expected duplicate room code to fail")
	}

	if err := s.DeleteRoom(ctx, room.ID); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}
	if _, err := s.GetRoomByCode(ctx, "abc123"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMessagesAppendAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTestOwner(t, s)

	room, err := s.CreateRoom(ctx, "abc123", "chat", owner.ID)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		if _, err := s.AppendMessage(ctx, room.ID, "Kai", text); err != nil {
			t.Fatalf("AppendMessage(%q) failed: %v", text, err)
		}
	}

	messages, err := s.ListMessages(ctx, room.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != len(texts) {
		t.Fatalf("expected %d messages, got %d", len(texts), len(messages))
	}
	for i, m := range messages {
		if m.Body != texts[i] {
			t.Errorf("message %d: expected %q, got %q", i, texts[i], m.Body)
		}
		if m.Alias != "Kai" {
			t.Errorf("message %d: unexpected alias %q", i, m.Alias)
		}
	}
}

func TestDeleteRoomRemovesMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTestOwner(t, s)

	room, err := s.CreateRoom(ctx, "abc123", "chat", owner.ID)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := s.AppendMessage(ctx, room.ID, "Kai", "doomed"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	if err := s.DeleteRoom(ctx, room.ID); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}

	messages, err := s.ListMessages(ctx, room.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected no messages after room delete, got %d", len(messages))
	}
}

func TestListRoomsByOwnerWithCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTestOwner(t, s)

	other, err := s.CreateUser(ctx, "other", "hash")
	if err != nil {
		t.Fatalf("failed to create second user: %v", err)
	}

	r1, err := s.CreateRoom(ctx, "aaaaaa", "one", owner.ID)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := s.CreateRoom(ctx, "bbbbbb", "two", owner.ID); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := s.CreateRoom(ctx, "cccccc", "theirs", other.ID); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.AppendMessage(ctx, r1.ID, "Kai", "hey"); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	summaries, err := s.ListRoomsByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListRoomsByOwner failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(summaries))
	}

	counts := make(map[string]int64)
	for _, rs := range summaries {
		counts[rs.Code] = rs.MessageCount
	}
	if counts["aaaaaa"] != 3 || counts["bbbbbb"] != 0 {
		t.Fatalf("unexpected message counts: %v", counts)
	}
}
