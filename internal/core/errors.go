package core

// Error codes surfaced to clients over the wire.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeRoomNotFound = "room_not_found"
)

// AliasTakenReason is sent with an alias rejection. The wording is part of
// the product surface; clients display it verbatim.
const AliasTakenReason = "This name is already taken in this room. Please choose a different name."
