package task

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisRepository(client), mr
}

func TestRedisRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepo(t)

	first := &Task{UserID: 1, Title: "first"}
	other := &Task{UserID: 2, Title: "other"}
	second := &Task{UserID: 1, Title: "second", Description: "d"}
	for _, tk := range []*Task{first, other, second} {
		require.NoError(t, repo.Create(ctx, tk))
	}

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(3), second.ID)
	assert.Equal(t, "first", mr.HGet("task:1", "title"))

	owned, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "first", owned[0].Title)
	assert.Equal(t, "second", owned[1].Title)
	assert.Equal(t, "d", owned[1].Description)
	assert.True(t, second.CreatedAt.Equal(owned[1].CreatedAt))

	empty, err := repo.ListByOwner(ctx, 9)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRedisRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRedisRepo(t)

	tk := &Task{UserID: 1, Title: "X", Description: "keep"}
	require.NoError(t, repo.Create(ctx, tk))

	got, err := repo.Update(ctx, 1, tk.ID, Patch{Title: strPtr("Y")})
	require.NoError(t, err)
	assert.Equal(t, "Y", got.Title)
	assert.Equal(t, "keep", got.Description)

	_, err = repo.Update(ctx, 2, tk.ID, Patch{Title: strPtr("stolen")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(ctx, 1, 42, Patch{Title: strPtr("Y")})
	assert.ErrorIs(t, err, ErrNotFound)

	owned, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Y", owned[0].Title)
}

func TestRedisRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepo(t)

	tk := &Task{UserID: 1, Title: "X"}
	require.NoError(t, repo.Create(ctx, tk))

	assert.ErrorIs(t, repo.Delete(ctx, 2, tk.ID), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, 1, tk.ID))
	assert.ErrorIs(t, repo.Delete(ctx, 1, tk.ID), ErrNotFound)

	assert.False(t, mr.Exists("task:1"))

	owned, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, owned)
}
