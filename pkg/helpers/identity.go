package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Identity helpers. User and device ids are salted hashes so that raw
// emails and device identifiers never become store keys.

// SaltedID returns the hex SHA-256 of salt+value. The value is lowercased
// first so that the same email always maps to the same user id.
func SaltedID(salt, value string) string {
	sum := sha256.Sum256([]byte(salt + strings.ToLower(value)))
	return hex.EncodeToString(sum[:])
}

// NewAuthToken generates an opaque authorization token.
func NewAuthToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
