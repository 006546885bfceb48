package pkg

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const (
	joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	joinCodeLength   = 4
)

// NewID - generates a new unique record id.
func NewID() string {
	return uuid.NewString()
}

// GenerateJoinCode - generates a short human-shareable table code of 4
// uppercase letters.
func GenerateJoinCode() string {
	code := make([]byte, joinCodeLength)
	alphabetSize := big.NewInt(int64(len(joinCodeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken; fall back to the first letter rather than panic.
			code[i] = joinCodeAlphabet[0]
			continue
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}

	return string(code)
}
