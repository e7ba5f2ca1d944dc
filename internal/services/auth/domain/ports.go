// Package domain defines the identity port
package domain

import "time"

// Verifier resolves a bearer token to a stable user id
type Verifier interface {
	Verify(token string) (userID string, err error)
}

// Issuer mints tokens for local tooling and tests
type Issuer interface {
	Issue(userID string, ttl time.Duration) (string, error)
}
