package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the JWT claims accepted by the API when bearer-token
// auth is enabled. Subject carries the authenticated user ID.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}
