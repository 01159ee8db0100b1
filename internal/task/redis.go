package task

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const taskSeqKey = "tasks:seq"

func taskKey(id int64) string {
	return fmt.Sprintf("task:%d", id)
}

func ownerTasksKey(ownerID int64) string {
	return fmt.Sprintf("user:%d:tasks", ownerID)
}

// RedisRepository stores each task as a hash and keeps a per-owner list of
// task ids in insertion order.
type RedisRepository struct {
	client *redis.Client
}

var _ Repository = (*RedisRepository)(nil)

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Create(ctx context.Context, t *Task) error {
	id, err := r.client.Incr(ctx, taskSeqKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate task id: %w", err)
	}

	t.ID = id
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, taskKey(id), taskFields(t)...)
		pipe.RPush(ctx, ownerTasksKey(t.UserID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store task: %w", err)
	}

	return nil
}

func (r *RedisRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Task, error) {
	ids, err := r.client.LRange(ctx, ownerTasksKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list task ids: %w", err)
	}

	tasks := make([]Task, 0, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, raw := range ids {
			cmds[i] = pipe.HGetAll(ctx, "task:"+raw)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		t, err := parseTask(fields)
		if err != nil {
			return nil, fmt.Errorf("corrupt task %s: %w", ids[i], err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

// Update watches the task hash so a concurrent delete or update aborts the
// transaction instead of resurrecting or clobbering the record.
func (r *RedisRepository) Update(ctx context.Context, ownerID, taskID int64, p Patch) (*Task, error) {
	key := taskKey(taskID)
	var updated *Task

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		t, err := r.loadOwned(ctx, tx, key, ownerID)
		if err != nil {
			return err
		}

		p.Apply(t)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "title", t.Title, "description", t.Description)
			return nil
		})
		if err != nil {
			return err
		}

		updated = t
		return nil
	}, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return updated, nil
}

func (r *RedisRepository) Delete(ctx context.Context, ownerID, taskID int64) error {
	key := taskKey(taskID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		if _, err := r.loadOwned(ctx, tx, key, ownerID); err != nil {
			return err
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.LRem(ctx, ownerTasksKey(ownerID), 0, taskID)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (r *RedisRepository) loadOwned(ctx context.Context, tx *redis.Tx, key string, ownerID int64) (*Task, error) {
	fields, err := tx.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	t, err := parseTask(fields)
	if err != nil {
		return nil, err
	}
	if t.UserID != ownerID {
		return nil, ErrNotFound
	}
	return t, nil
}

func taskFields(t *Task) []any {
	return []any{
		"id", t.ID,
		"user_id", t.UserID,
		"title", t.Title,
		"description", t.Description,
		"created_at", t.CreatedAt.Format(time.RFC3339Nano),
	}
}

func parseTask(fields map[string]string) (*Task, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}

	return &Task{
		ID:          id,
		UserID:      userID,
		Title:       fields["title"],
		Description: fields["description"],
		CreatedAt:   createdAt,
	}, nil
}
