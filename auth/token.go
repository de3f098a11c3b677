// Package auth mints session tokens, reads them back out of Authorization
// headers, and hashes passwords.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

const (
	bearerPrefix = "Bearer "
	tokenBytes   = 32
)

var ErrMissingToken = errors.New("token missing or invalid")

// IssueToken returns a new opaque session token (256 random bits, hex).
func IssueToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearer(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMissingToken
	}
	return token, nil
}

// Expired reports whether a token issued at issuedAt has outlived ttl.
// A zero ttl disables expiry.
func Expired(issuedAt *time.Time, ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	if issuedAt == nil {
		return true
	}
	return now.After(issuedAt.Add(ttl))
}
