package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/taskboard/internal/apperr"
	"github.com/redmonkez12/taskboard/internal/logging"
	"github.com/redmonkez12/taskboard/internal/user"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	tokens, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)

	return NewService(
		user.NewMemoryRepository(),
		tokens,
		NewBcryptHasher(bcrypt.MinCost),
		logging.NewLoggerWithWriter(io.Discard, false),
		24*time.Hour,
	)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantKind apperr.Kind
	}{
		{name: "valid", email: "a@x.com", password: "pw1"},
		{name: "missing email", email: "", password: "pw1", wantErr: ErrEmailRequired, wantKind: apperr.KindValidation},
		{name: "missing password", email: "a@x.com", password: "", wantErr: ErrPasswordRequired, wantKind: apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)

			token, u, err := svc.Register(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.NotEqual(t, tt.password, u.PasswordHash)

			id, err := svc.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, u.ID, id)
		})
	}
}

func TestService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, first, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "a@x.com", "pw2")
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// The first account still logs in with its original password.
	_, u, err := svc.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, u.ID)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, registered, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	token, u, err := svc.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	id, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, id)

	_, _, wrongPassword := svc.Authenticate(ctx, "a@x.com", "nope")
	_, _, unknownEmail := svc.Authenticate(ctx, "b@x.com", "pw1")
	_, _, otherCase := svc.Authenticate(ctx, "A@x.com", "pw1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail, "both failures must look the same")
	assert.ErrorIs(t, otherCase, ErrInvalidCredentials)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(unknownEmail))

	_, _, err = svc.Authenticate(ctx, "", "pw1")
	assert.ErrorIs(t, err, ErrEmailRequired)
	_, _, err = svc.Authenticate(ctx, "a@x.com", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestService_VerifyToken(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.VerifyToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = svc.VerifyToken("bogus")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	jwtSvc := svc.tokenService.(*JWTService)
	jwtSvc.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	expired, err := jwtSvc.CreateToken(1, 24*time.Hour)
	require.NoError(t, err)
	jwtSvc.now = time.Now

	_, err = svc.VerifyToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestService_GetProfile(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, registered, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	u, err := svc.GetProfile(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = svc.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
