package task

import (
	"context"

	"github.com/redmonkez12/taskboard/internal/apperr"
	"github.com/redmonkez12/taskboard/internal/httputil"
)

var (
	ErrNotFound      = apperr.New(apperr.KindNotFound, httputil.CodeTaskNotFound, "task not found")
	ErrTitleRequired = apperr.New(apperr.KindValidation, httputil.CodeTitleRequired, "title is required")
)

// Repository stores tasks. Every read and write other than Create is
// scoped by owner: a task that exists but belongs to someone else is
// reported as ErrNotFound.
type Repository interface {
	// Create assigns t.ID, stamps t.CreatedAt when it is zero and stores t.
	Create(ctx context.Context, t *Task) error
	// ListByOwner returns the owner's tasks in insertion order.
	ListByOwner(ctx context.Context, ownerID int64) ([]Task, error)
	Update(ctx context.Context, ownerID, taskID int64, p Patch) (*Task, error)
	Delete(ctx context.Context, ownerID, taskID int64) error
}
