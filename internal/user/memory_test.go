package user

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first, err := repo.Create(ctx, "a@x.io", "hash-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "a@x.io", first.Email)
	assert.Equal(t, "hash-a", first.PasswordHash)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := repo.Create(ctx, "b@x.io", "hash-b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	_, err = repo.Create(ctx, "a@x.io", "other")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	third, err := repo.Create(ctx, "A@x.io", "hash-c")
	require.NoError(t, err, "email comparison is case-sensitive")
	assert.Equal(t, int64(3), third.ID)
}

func TestMemoryRepository_Lookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, "a@x.io", "hash")
	require.NoError(t, err)

	tests := []struct {
		name    string
		lookup  func() (*User, error)
		wantErr error
	}{
		{
			name:   "by email",
			lookup: func() (*User, error) { return repo.GetByEmail(ctx, "a@x.io") },
		},
		{
			name:   "by id",
			lookup: func() (*User, error) { return repo.GetByID(ctx, created.ID) },
		},
		{
			name:    "unknown email",
			lookup:  func() (*User, error) { return repo.GetByEmail(ctx, "nobody@x.io") },
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown id",
			lookup:  func() (*User, error) { return repo.GetByID(ctx, 42) },
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created, got)
		})
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, "a@x.io", "hash")
	require.NoError(t, err)
	created.Email = "mutated@x.io"

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got.Email)
}

func TestMemoryRepository_ConcurrentSignupsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := repo.Create(ctx, fmt.Sprintf("user%d@x.io", i), "hash")
			if err == nil {
				ids <- u.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestMemoryRepository_ConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Create(ctx, "same@x.io", "hash"); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}
