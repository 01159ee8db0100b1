package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	userSeqKey = "users:seq"
)

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func emailKey(email string) string {
	return "user:email:" + email
}

// RedisRepository stores users as Redis hashes with an email index.
type RedisRepository struct {
	client *redis.Client
}

var _ Repository = (*RedisRepository)(nil)

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// Create reserves the email with SETNX before writing the user hash.
// A rejected duplicate still consumes an id, so ids may have gaps.
func (r *RedisRepository) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	id, err := r.client.Incr(ctx, userSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate user id: %w", err)
	}

	reserved, err := r.client.SetNX(ctx, emailKey(email), id, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve email: %w", err)
	}
	if !reserved {
		return nil, ErrDuplicateEmail
	}

	u := &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	err = r.client.HSet(ctx, userKey(id),
		"id", id,
		"email", u.Email,
		"password_hash", u.PasswordHash,
		"created_at", u.CreatedAt.Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		r.client.Del(ctx, emailKey(email))
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	return u, nil
}

func (r *RedisRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	raw, err := r.client.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt email index for %q: %w", email, err)
	}

	return r.GetByID(ctx, id)
}

func (r *RedisRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	fields, err := r.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt user %d: %w", id, err)
	}

	return &User{
		ID:           id,
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		CreatedAt:    createdAt,
	}, nil
}
