package user

import (
	"context"

	"github.com/redmonkez12/taskboard/internal/apperr"
	"github.com/redmonkez12/taskboard/internal/httputil"
)

var (
	ErrNotFound       = apperr.New(apperr.KindNotFound, httputil.CodeUserNotFound, "user not found")
	ErrDuplicateEmail = apperr.New(apperr.KindConflict, httputil.CodeEmailAlreadyExists, "user with this email already exists")
)

// Repository stores user accounts. Emails are unique and compared
// case-sensitively. IDs are assigned by the repository, increase
// monotonically and are never reused.
type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
