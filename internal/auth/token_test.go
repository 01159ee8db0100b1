package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPasetoKey = []byte("0123456789abcdef0123456789abcdef")

func newTokenServices(t *testing.T) map[string]TokenService {
	t.Helper()

	jwtSvc, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)
	pasetoSvc, err := NewPasetoService(testPasetoKey)
	require.NoError(t, err)

	return map[string]TokenService{
		"jwt":    jwtSvc,
		"paseto": pasetoSvc,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(42, 24*time.Hour)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := svc.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, int64(42), claims.UserID)
			assert.NotEmpty(t, claims.TokenID)
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt, 5*time.Second)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)

			other, err := svc.CreateToken(42, 24*time.Hour)
			require.NoError(t, err)
			assert.NotEqual(t, token, other)
		})
	}
}

func TestTokenService_Rejects(t *testing.T) {
	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(1, time.Hour)
			require.NoError(t, err)

			tampered := token[:len(token)-2] + flip(token[len(token)-2:])

			tests := []struct {
				name    string
				token   string
				wantErr error
			}{
				{name: "empty", token: "", wantErr: ErrInvalidToken},
				{name: "garbage", token: "not-a-token", wantErr: ErrInvalidToken},
				{name: "tampered", token: tampered, wantErr: ErrInvalidToken},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					_, err := svc.VerifyToken(tt.token)
					assert.ErrorIs(t, err, tt.wantErr)
				})
			}
		})
	}
}

func TestTokenService_Expired(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-48 * time.Hour) }

	jwtSvc, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)
	jwtSvc.now = past
	jwtToken, err := jwtSvc.CreateToken(1, 24*time.Hour)
	require.NoError(t, err)
	jwtSvc.now = time.Now

	pasetoSvc, err := NewPasetoService(testPasetoKey)
	require.NoError(t, err)
	pasetoSvc.now = past
	pasetoToken, err := pasetoSvc.CreateToken(1, 24*time.Hour)
	require.NoError(t, err)
	pasetoSvc.now = time.Now

	_, err = jwtSvc.VerifyToken(jwtToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = pasetoSvc.VerifyToken(pasetoToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecretOrAlgorithm(t *testing.T) {
	signer, err := NewJWTService([]byte("secret-a"))
	require.NoError(t, err)
	verifier, err := NewJWTService([]byte("secret-b"))
	require.NoError(t, err)

	token, err := signer.CreateToken(1, time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = signer.VerifyToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: jwtIssuer},
	}).SignedString([]byte("secret-a"))
	require.NoError(t, err)

	_, err = signer.VerifyToken(noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoService_WrongKey(t *testing.T) {
	signer, err := NewPasetoService(testPasetoKey)
	require.NoError(t, err)
	verifier, err := NewPasetoService([]byte("abcdef0123456789abcdef0123456789"))
	require.NoError(t, err)

	token, err := signer.CreateToken(1, time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewPasetoService([]byte("short"))
	assert.Error(t, err)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(nil)
	assert.Error(t, err)

	secret, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 32)
}

// flip changes every character of s so the result differs from s.
func flip(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
	}
	return string(b)
}
