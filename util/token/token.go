// Package token generates opaque URL-safe credentials.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// New returns a URL-safe token carrying nbytes of entropy.
func New(nbytes int) (string, error) {
	b := make([]byte, nbytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
