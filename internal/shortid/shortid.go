package shortid

import (
	"crypto/rand"
	"math/big"
)

const (
	// DefaultLength gives a ~2^48 identifier space with the 64 symbol
	// alphabet below. Collisions are negligible but not impossible; callers
	// must treat a store-level uniqueness conflict as retriable.
	DefaultLength = 8

	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"
)

// Generate returns a URL-safe short identifier of DefaultLength characters
// drawn from a cryptographically strong random source.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

func GenerateWithLength(length int) (string, error) {
	id := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := range id {
		randomIndex, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		id[i] = alphabet[randomIndex.Int64()]
	}

	return string(id), nil
}
