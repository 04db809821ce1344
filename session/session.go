// Package session is the single source of truth for "who is logged in".
// One Store is live per browser; every view reads it, but mutation happens
// only through Login and Logout.
package session

import (
	"github.com/chronoluxe/rental-frontend/users"
)

// StorageKey is the well-known key the serialized session lives under.
const StorageKey = "auth"

// Session is the client-held representation of the current authenticated
// identity and its bearer token.
//
// Invariant: IsAuthenticated is true iff User is non-nil and Token is
// non-empty.
type Session struct {
	IsAuthenticated bool        `json:"isAuthenticated"`
	User            *users.User `json:"user"`
	Token           string      `json:"token,omitempty"`
}

// Default returns the unauthenticated session every browser starts with.
func Default() Session {
	return Session{}
}
