package canvas

import (
	"crypto/rand"
	"math/big"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomID returns a short base36 identifier, matching the shape of
// client-generated node and project ids.
func randomID(n int) string {
	if n <= 0 {
		n = 8
	}
	buf := make([]byte, n)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			buf[i] = idAlphabet[0]
			continue
		}
		buf[i] = idAlphabet[v.Int64()]
	}
	return string(buf)
}

// NewNodeID returns a fresh client-side node identifier.
func NewNodeID() string { return randomID(8) }

// NewProjectID returns a fresh project identifier.
func NewProjectID() string { return randomID(6) }
