package util

import (
	"crypto/rand"
	"math/big"
)

// RandomInt generates a random integer between min and max.
func RandomInt(min, max int) int {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	if err != nil {
		panic(err)
	}
	return int(num.Int64()) + min
}

// RandomSecretKey returns a random Schnorr secret key exponent, in
// [1, 65537).
func RandomSecretKey() uint64 {
	return uint64(RandomInt(1, 65537))
}
