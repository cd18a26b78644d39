package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateCode returns a 4-digit verification code in [1000, 9999].
// Codes are short-lived and spoken aloud in person, so four digits is enough;
// crypto/rand keeps them unguessable within that space.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%04d", 1000+n.Int64()), nil
}
