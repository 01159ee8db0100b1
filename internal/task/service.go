package task

import (
	"context"
	"strings"

	"github.com/redmonkez12/taskboard/internal/user"
)

// UserLookup resolves task owners.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Service implements the task operations for an authenticated owner.
type Service struct {
	repo  Repository
	users UserLookup
}

func NewService(repo Repository, users UserLookup) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

// List returns the owner's tasks in insertion order. The result is never nil.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Create stores a new task for ownerID. The owner must still exist.
func (s *Service) Create(ctx context.Context, ownerID int64, title, description string) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	t := &Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update overwrites the supplied fields of an owned task. A blank title is
// ignored so a task never loses its title.
func (s *Service) Update(ctx context.Context, ownerID, taskID int64, p Patch) (*Task, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		p.Title = nil
	}
	return s.repo.Update(ctx, ownerID, taskID, p)
}

// Delete removes an owned task. Deleting the same task twice fails with
// ErrNotFound.
func (s *Service) Delete(ctx context.Context, ownerID, taskID int64) error {
	return s.repo.Delete(ctx, ownerID, taskID)
}
