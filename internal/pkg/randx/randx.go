/*
Package randx provides functions for generating cryptographically secure random
values and unique identifiers.

It generates the development-mode fallback JWT secret and the per-connection
identifiers used for presence ownership and log correlation.
*/
package randx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// SecretByteLength is the number of random bytes in a generated fallback secret.
const SecretByteLength = 32

// HexSecret generates a hex-encoded secret of SecretByteLength random bytes
// using crypto/rand. It backs the JWT secret in development when none is configured.
func HexSecret() (string, error) {
	buf := make([]byte, SecretByteLength)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// ConnectionID generates a UUID v4 string identifying a single WebSocket connection.
func ConnectionID() string {
	return uuid.New().String()
}
