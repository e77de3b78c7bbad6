package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GeneratePasscode returns a uniformly random numeric code of the given
// length with no leading zero, e.g. 100000-999999 for length 6.
func GeneratePasscode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	min := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	span := new(big.Int).Sub(max, min)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate passcode: %w", err)
	}

	return new(big.Int).Add(min, n).String(), nil
}
