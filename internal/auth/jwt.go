package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const jwtIssuer = "taskboard"

// jwtClaims is the payload of an HS256 session token.
type jwtClaims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// JWTService handles HS256 token creation and validation
type JWTService struct {
	secret []byte
	now    func() time.Time
}

var _ TokenService = (*JWTService)(nil)

func NewJWTService(secret []byte) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}

	return &JWTService{
		secret: secret,
		now:    time.Now,
	}, nil
}

// GenerateSecret returns a random 32-byte HMAC secret. Tokens signed with it
// stop verifying once the process exits.
func GenerateSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	return b, nil
}

// CreateToken signs a token for userID valid for duration
func (s *JWTService) CreateToken(userID int64, duration time.Duration) (string, error) {
	now := s.now()

	claims := jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken checks the signature and expiry of an HS256 token
func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	claims := &jwtClaims{}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	tc := &TokenClaims{
		UserID:    claims.UserID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	return tc, nil
}
