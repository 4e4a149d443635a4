package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the amount of randomness in a reset token (256 bits).
const ResetTokenBytes = 32

// GenerateResetToken returns a hex-encoded random token read from crypto/rand.
func GenerateResetToken() (string, error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// DigestToken returns the hex SHA-256 of token. Only digests are stored, so a
// leaked users table does not hand out working reset links.
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
