package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token. The subject is the
// user identifier.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}
