package game

import (
	"crypto/rand"
	"encoding/hex"
)

// codeAlphabet has no 0/O/1/I so codes survive being read out loud.
// 32 characters, so indexing random bytes mod 32 is unbiased.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewRoomCode returns a random 6-character room code.
func NewRoomCode() string {
	bytes := make([]byte, RoomCodeLength)
	rand.Read(bytes)
	code := make([]byte, RoomCodeLength)
	for i, b := range bytes {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code)
}

// NewPlayerID returns a random hex identifier for a connection.
func NewPlayerID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
