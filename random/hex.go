package random

import (
	"crypto/rand"
	"encoding/hex"
)

// String returns a hex string of n random bytes.
func String(n int) string {
	bytes := make([]byte, n)

	_, err := rand.Read(bytes)
	if err != nil {
		panic(err)
	}

	return hex.EncodeToString(bytes)
}
