package core

import (
	"crypto/rand"
	"encoding/hex"
)

// NewAuthToken returns a 256-bit random token, hex encoded.
func NewAuthToken() string {
	return randomHex(32)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
