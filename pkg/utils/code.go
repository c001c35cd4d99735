package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// GenerateConfirmationCode creates a numeric code of the given length.
func GenerateConfirmationCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate confirmation code: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}

// HashCode stores confirmation codes the same way passwords are stored.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash confirmation code: %w", err)
	}
	return string(hash), nil
}

func CheckCodeHash(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
