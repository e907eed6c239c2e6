// Package auth applies API credentials to outgoing requests.
package auth

import (
	"net/http"
	"strings"
)

// Authenticator defines the interface for applying authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request) error
	Type() Type
}

// Type represents the type of authentication.
type Type string

// Authentication types.
const (
	// BearerAuthType is a personal access or app token sent as a Bearer credential.
	BearerAuthType Type = "bearer"
)

// BearerAuth represents Bearer token authentication.
type BearerAuth struct {
	Token string
}

// ForToken returns a BearerAuth for token, or nil when token is blank so that
// requests go out anonymously.
func ForToken(token string) Authenticator {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return BearerAuth{Token: token}
}

// Apply adds a Bearer token to the Authorization header of the HTTP request.
func (b BearerAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

// Type returns the authentication type (BearerAuthType).
func (b BearerAuth) Type() Type { return BearerAuthType }
