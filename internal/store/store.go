package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User is a registered host account. Hosts create and manage rooms; chat
// participants stay anonymous and never appear here.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Room is a persisted chat room. Code is the short link-shareable
// identifier participants join with.
type Room struct {
	ID        int64
	Code      string
	Title     string
	OwnerID   int64
	CreatedAt time.Time
}

// RoomSummary is a room with its message count, for host dashboards.
type RoomSummary struct {
	Room
	MessageCount int64
}

// Message is a persisted chat message. Alias is the sender's display name
// at send time; there is no durable identity behind it.
type Message struct {
	ID        int64
	RoomID    int64
	Alias     string
	Body      string
	CreatedAt time.Time
}

// UserStore handles host account persistence.
type UserStore interface {
	// CreateUser creates a new host with a hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByUsername retrieves a host by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserByID retrieves a host by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

// RoomStore handles room metadata persistence.
type RoomStore interface {
	// CreateRoom creates a room with the given code and title.
	CreateRoom(ctx context.Context, code, title string, ownerID int64) (*Room, error)

	// GetRoomByCode retrieves a room by its shareable code.
	GetRoomByCode(ctx context.Context, code string) (*Room, error)

	// RoomExists reports whether a room with the code exists.
	RoomExists(ctx context.Context, code string) (bool, error)

	// ListRoomsByOwner lists a host's rooms with message counts,
	// newest first.
	ListRoomsByOwner(ctx context.Context, ownerID int64) ([]*RoomSummary, error)

	// DeleteRoom removes a room and all of its messages.
	DeleteRoom(ctx context.Context, id int64) error
}

// MessageStore handles message persistence.
type MessageStore interface {
	// AppendMessage durably stores a message for a room.
	AppendMessage(ctx context.Context, roomID int64, alias, body string) (*Message, error)

	// ListMessages retrieves a room's messages, oldest first.
	ListMessages(ctx context.Context, roomID int64) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	RoomStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
