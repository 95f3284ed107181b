package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

// Room codes are short, link-shareable identifiers. The charset excludes
// characters that read ambiguously in a URL (0, O, l, I, 1).
const (
	roomCodeLen     = 6
	roomCodeCharset = "abcdefghijkmnpqrstuvwxyz23456789"
)

var roomCodePattern = regexp.MustCompile(`^[a-z2-9]{6}$`)

// NewRoomCode generates a random 6-character room code.
func NewRoomCode() (string, error) {
	max := big.NewInt(int64(len(roomCodeCharset)))
	code := make([]byte, roomCodeLen)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = roomCodeCharset[n.Int64()]
	}
	return string(code), nil
}

// ValidRoomCode reports whether s has the shape of a room code.
func ValidRoomCode(s string) bool {
	return roomCodePattern.MatchString(s)
}
