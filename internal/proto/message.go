package proto

import "encoding/json"

// Inbound is the envelope for events coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinRoom    = "join-room"
	InboundTypeSetAlias    = "set-alias"
	InboundTypeSendMessage = "send-message"

	OutboundTypeNewMessage    = "new-message"
	OutboundTypeUsersUpdated  = "users-updated"
	OutboundTypeAliasRejected = "alias-rejected"
	OutboundTypeError         = "error"
)

// JoinRoomData requests to join a specific room.
type JoinRoomData struct {
	RoomID string `json:"roomId"`
}

// SetAliasData proposes a display name for the current room.
type SetAliasData struct {
	Alias string `json:"alias"`
}

// SendMessageData is a chat message from the client. Room and alias must
// match the connection's current state.
type SendMessageData struct {
	RoomID  string `json:"roomId"`
	Alias   string `json:"alias"`
	Message string `json:"message"`
}

// Outbound is the envelope for events sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// NewMessageData is a relayed chat message.
type NewMessageData struct {
	ID         string `json:"id"`
	ChatroomID string `json:"chatroomId"`
	Alias      string `json:"alias"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

// AliasRejectedData explains why an alias proposal was refused. Sent only
// to the proposing connection.
type AliasRejectedData struct {
	Reason string `json:"reason"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
