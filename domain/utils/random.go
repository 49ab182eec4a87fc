package utils

import (
	"crypto/rand"
	"math/big"
)

// CryptoRandom draws uniform integers from crypto/rand
type CryptoRandom struct{}

// NewCryptoRandom creates the default random source for ticket shuffles and draws
func NewCryptoRandom() *CryptoRandom {
	return &CryptoRandom{}
}

// IntN returns a uniform value in [0, n). It panics if n <= 0 or the system entropy source fails.
func (CryptoRandom) IntN(n int) int {
	if n <= 0 {
		panic("utils: IntN called with non-positive n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("utils: failed to read random bytes: " + err.Error())
	}
	return int(v.Int64())
}
