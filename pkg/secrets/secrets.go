// Package secrets covers credential digests and opaque identifier generation.
// Passwords are never stored or compared in plaintext: callers keep only the
// digest and compare digests of presented values.
package secrets

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	dErrors "upcheck/pkg/domain-errors"
)

// idAlphabet is the character set opaque identifiers are drawn from.
const idAlphabet = "a1bc2de3fg4hi5jk6lm7no8pq9rs0tuvw$xyzABCDEFGHI#JKLMNOPQRSTUVWXYZ"

// IDLength is the length of token and check identifiers.
const IDLength = 20

// Digest returns the hex-encoded HMAC-SHA256 of value keyed by key. Equal
// values under the same key always digest equally, so stored digests can be
// compared against the digest of a presented credential.
func Digest(value, key string) (string, error) {
	if value == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "value cannot be empty")
	}
	if key == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "digest key cannot be empty")
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// RandomString returns a string of exactly n characters drawn uniformly from
// idAlphabet using a cryptographically secure source.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "length must be positive")
	}
	max := big.NewInt(int64(len(idAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("could not generate random string: %w", err)
		}
		buf[i] = idAlphabet[idx.Int64()]
	}
	return string(buf), nil
}

// NewID returns a fresh opaque identifier for tokens and checks.
func NewID() (string, error) {
	return RandomString(IDLength)
}
