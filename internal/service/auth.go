package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/healthdiary/backend/internal/types"
)

const tokenTTL = 24 * time.Hour

// AuthService issues and validates session tokens for logged-in users.
type AuthService struct {
	jwtSecret []byte
	now       Clock
}

func NewAuthService(jwtSecret string, now Clock) *AuthService {
	if now == nil {
		now = SystemClock
	}
	return &AuthService{
		jwtSecret: []byte(jwtSecret),
		now:       now,
	}
}

// Enabled reports whether a signing secret is configured. Without one no
// tokens are issued.
func (s *AuthService) Enabled() bool {
	return len(s.jwtSecret) > 0
}

// GenerateToken signs a token whose subject is the user identifier.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	if !s.Enabled() {
		return "", errors.New("token signing is not configured")
	}
	issued := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(tokenTTL)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
