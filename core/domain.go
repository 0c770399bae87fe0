package core

import (
	"slices"
	"strings"
	"time"
)

// Client is an OAuth2 client registration. Read-only from this package's
// perspective; mutations belong to the administrative layer.
type Client struct {
	ID           string
	ClientID     string
	ClientSecret string
	GrantTypes   string
	RedirectURI  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPublic reports whether the client has no confidential secret.
func (c Client) IsPublic() bool {
	return strings.TrimSpace(c.ClientSecret) == ""
}

// AllowsGrantType reports whether the grant type is permitted. A client
// with no configured allowlist permits every grant type; this permissive
// default is load-bearing and must not be inverted.
func (c Client) AllowsGrantType(grantType string) bool {
	allowlist := strings.TrimSpace(c.GrantTypes)
	if allowlist == "" {
		return true
	}
	return slices.Contains(strings.Split(allowlist, " "), grantType)
}

// PublicKey holds the verification key material registered for a client.
type PublicKey struct {
	ID                  string
	ClientID            string
	PublicKey           string
	EncryptionAlgorithm string
	CreatedAt           time.Time
}

// AccessToken is a persisted bearer token record. The token string is
// unique; revocation sets ExpiresAt to now rather than deleting the row.
type AccessToken struct {
	ID        string
	Token     string
	ClientID  string
	UserID    int64
	ExpiresAt time.Time
	Scope     string
	CreatedAt time.Time
}

// Valid reports whether the token expires strictly after now.
func (t AccessToken) Valid(now time.Time) bool {
	return t.ExpiresAt.After(now)
}

// ExpiresEpoch returns the expiration as unix seconds.
func (t AccessToken) ExpiresEpoch() int64 {
	return t.ExpiresAt.Unix()
}

// AuthorizationCode is an ephemeral authorization-code-flow artifact. It is
// held by the configured AuthorizationCodeStore and is never written to the
// relational store.
type AuthorizationCode struct {
	Code        string
	ClientID    string
	UserID      int64
	RedirectURI string
	ExpiresAt   time.Time
	Scope       string
}

// User is an account record owned by the authentication subsystem; this
// package only reads it to resolve usernames for token delegation.
type User struct {
	ID        int64
	UserID    int64
	Email     string
	Password  string
	CreatedAt time.Time
}

// BearerToken is the issuance result returned by CreateBearerToken.
type BearerToken struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
	Scope       string
}

const bearerTokenType = "Bearer"
