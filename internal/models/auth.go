package models

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the payload of both token kinds. Refresh tokens carry only
// the user id; role and status are filled for access tokens.
type TokenClaims struct {
	Type   string `json:"type"`
	UserID int64  `json:"id"`
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry one of the given roles.
func (c *TokenClaims) HasRole(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// Actor identifies the caller of an owner-scoped operation.
type Actor struct {
	ID   int64
	Role string
}

// ActorFromClaims builds an Actor from verified access token claims.
func ActorFromClaims(c *TokenClaims) Actor {
	return Actor{ID: c.UserID, Role: c.Role}
}

// CanManage reports whether the actor may change a row owned by ownerID.
// Privileged roles may change any row.
func (a Actor) CanManage(ownerID int64, privileged ...string) bool {
	if a.ID == ownerID {
		return true
	}
	for _, role := range privileged {
		if a.Role == role {
			return true
		}
	}
	return false
}
