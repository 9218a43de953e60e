package jobstore

import (
	"crypto/rand"
	"encoding/hex"
)

// NewJobID returns a 32-character random hex id. It doubles as the blob
// object name, so it must be URL and path safe.
func NewJobID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
