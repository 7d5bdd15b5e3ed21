package common

import (
	"math/rand"
	"time"
)

// GenerateTrxNo returns a short human-quotable transfer reference. Uniqueness
// is best-effort; the transactions table id stays the canonical key.
func GenerateTrxNo() string {
	const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	result := make([]byte, 10)
	for i := range result {
		result[i] = characters[r.Intn(len(characters))]
	}
	return string(result)
}
