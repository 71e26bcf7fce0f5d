// Package auth issues and validates the bearer tokens that protect the
// mutating API routes.
package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Scope grants access to a class of routes.
type Scope string

const (
	// ScopeWrite allows editing progress, teams and settings.
	ScopeWrite Scope = "write"
	// ScopeRead is implied for every valid token.
	ScopeRead Scope = "read"
)

// Claims are the JWT claims of a dsomm token. The subject names the person
// or system editing the assessment.
type Claims struct {
	jwt.RegisteredClaims

	// Scopes granted to the token holder.
	Scopes []Scope `json:"scopes,omitempty"`
}

// Allows reports whether the token grants scope.
func (c *Claims) Allows(scope Scope) bool {
	if scope == ScopeRead {
		return true
	}
	return slices.Contains(c.Scopes, scope)
}
