package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redmonkez12/taskboard/internal/apperr"
	"github.com/redmonkez12/taskboard/internal/httputil"
	"github.com/redmonkez12/taskboard/internal/logging"
	"github.com/redmonkez12/taskboard/internal/user"
)

var (
	ErrEmailRequired      = apperr.New(apperr.KindValidation, httputil.CodeEmailRequired, "email is required")
	ErrPasswordRequired   = apperr.New(apperr.KindValidation, httputil.CodePasswordRequired, "password is required")
	ErrInvalidCredentials = apperr.New(apperr.KindAuth, httputil.CodeInvalidCredentials, "invalid credentials")
	ErrMissingToken       = apperr.New(apperr.KindUnauthenticated, httputil.CodeMissingAuth, "no token provided")
	ErrInvalidToken       = apperr.New(apperr.KindForbidden, httputil.CodeInvalidToken, "invalid token")
	ErrExpiredToken       = apperr.New(apperr.KindForbidden, httputil.CodeTokenExpired, "token has expired")
)

// dummyPassword is hashed once so logins for unknown emails spend the same
// time verifying as logins with a wrong password.
const dummyPassword = "taskboard-dummy-password"

// Service handles authentication business logic
type Service struct {
	userRepo      user.Repository
	tokenService  TokenService
	hasher        PasswordHasher
	logger        *logging.Logger
	tokenDuration time.Duration

	dummyOnce sync.Once
	dummyHash string
}

func NewService(
	userRepo user.Repository,
	tokenService TokenService,
	hasher PasswordHasher,
	logger *logging.Logger,
	tokenDuration time.Duration,
) *Service {
	return &Service{
		userRepo:      userRepo,
		tokenService:  tokenService,
		hasher:        hasher,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// Register creates a new user account and returns a session token for it
func (s *Service) Register(ctx context.Context, email, password string) (string, *user.User, error) {
	if email == "" {
		return "", nil, ErrEmailRequired
	}
	if password == "" {
		return "", nil, ErrPasswordRequired
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.userRepo.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return "", nil, user.ErrDuplicateEmail
		}
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokenService.CreateToken(newUser.ID, s.tokenDuration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, newUser, nil
}

// Authenticate checks credentials and returns a fresh session token.
// Unknown emails and wrong passwords fail identically.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, *user.User, error) {
	if email == "" {
		return "", nil, ErrEmailRequired
	}
	if password == "" {
		return "", nil, ErrPasswordRequired
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.hasher.Verify(s.dummyPasswordHash(), password)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(existingUser.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(existingUser.ID, s.tokenDuration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, existingUser, nil
}

// VerifyToken resolves a presented token to the user id it was issued for
func (s *Service) VerifyToken(token string) (int64, error) {
	if token == "" {
		return 0, ErrMissingToken
	}

	claims, err := s.tokenService.VerifyToken(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// GetProfile returns the stored user for id
func (s *Service) GetProfile(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Service) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("failed to prepare dummy password hash", "error", err.Error())
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
