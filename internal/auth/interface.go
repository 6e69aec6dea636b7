package auth

import (
	"nexusops/internal/domain/models"
)

// TokenVerifier validates bearer tokens presented to the API.
type TokenVerifier interface {
	// VerifyToken validates a JWT and returns its claims
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases resources held by the verifier
	Close() error
}
