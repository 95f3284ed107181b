package core

import "time"

// ChatEvent is a chat message as relayed to currently-connected room
// members. It is assembled at relay time and never persisted by the core;
// durable storage is the message store's concern.
type ChatEvent struct {
	ID        string
	Room      string
	Alias     string
	Text      string
	Timestamp time.Time
}
