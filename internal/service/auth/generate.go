package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GeneratedPasswordLength is the length of passwords produced by GeneratePassword.
const GeneratedPasswordLength = 12

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePassword returns a uniformly random alphanumeric password of
// GeneratedPasswordLength characters drawn from crypto/rand.
func GeneratePassword() (string, error) {
	return generatePassword(GeneratedPasswordLength)
}

func generatePassword(length int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
