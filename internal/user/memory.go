package user

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps users in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	users   []User
	byEmail map[string]int
	nextID  int64
	now     func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byEmail: make(map[string]int),
		nextID:  1,
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, email, passwordHash string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, ErrDuplicateEmail
	}

	u := User{
		ID:           r.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    r.now().UTC(),
	}
	r.nextID++

	r.byEmail[email] = len(r.users)
	r.users = append(r.users, u)

	return &u, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}

	u := r.users[idx]
	return &u, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}

	return nil, ErrNotFound
}
