package auth

import (
	"time"
)

// TokenService defines the interface for token creation and validation.
// Implementations include PasetoService (PASETO v4.local) and JWTService (HS256).
// VerifyToken reports ErrExpiredToken for an authentic token past its
// expiry and ErrInvalidToken for anything else it rejects.
type TokenService interface {
	CreateToken(userID int64, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// PasswordHasher hashes passwords with a random per-password salt.
// Verify must use the scheme's own comparison, never a plain equality.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encodedHash, password string) bool
}

// TokenClaims represents the claims carried by a session token
type TokenClaims struct {
	UserID    int64
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
