package task

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps tasks in process memory, in insertion order.
type MemoryRepository struct {
	mu     sync.RWMutex
	tasks  []Task
	nextID int64
	now    func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		now:    time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, t *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = r.nextID
	r.nextID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.now().UTC()
	}

	r.tasks = append(r.tasks, *t)
	return nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID int64) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]Task, 0)
	for _, t := range r.tasks {
		if t.UserID == ownerID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

func (r *MemoryRepository) Update(_ context.Context, ownerID, taskID int64, p Patch) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(ownerID, taskID)
	if i < 0 {
		return nil, ErrNotFound
	}

	p.Apply(&r.tasks[i])
	updated := r.tasks[i]
	return &updated, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, taskID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(ownerID, taskID)
	if i < 0 {
		return ErrNotFound
	}

	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return nil
}

// indexOf must be called with r.mu held.
func (r *MemoryRepository) indexOf(ownerID, taskID int64) int {
	for i := range r.tasks {
		if r.tasks[i].ID == taskID && r.tasks[i].UserID == ownerID {
			return i
		}
	}
	return -1
}
