package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskboard/internal/database"
)

// BunRepository handles task persistence in PostgreSQL.
type BunRepository struct {
	db *bun.DB
}

var _ Repository = (*BunRepository)(nil)

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// Create inserts a new task into the database
func (r *BunRepository) Create(ctx context.Context, t *Task) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	dbTask := mapModelToDBTask(t)
	_, err := r.db.NewInsert().
		Model(dbTask).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	t.ID = dbTask.ID
	return nil
}

// ListByOwner returns the owner's tasks ordered by id, which follows
// insertion order.
func (r *BunRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Task, error) {
	var rows []database.Task
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", ownerID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, *mapDBTaskToModel(&rows[i]))
	}
	return tasks, nil
}

// Update loads the owned task and writes the patched fields in one
// transaction.
func (r *BunRepository) Update(ctx context.Context, ownerID, taskID int64, p Patch) (*Task, error) {
	var updated *Task

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		dbTask := new(database.Task)
		err := tx.NewSelect().
			Model(dbTask).
			Where("id = ?", taskID).
			Where("user_id = ?", ownerID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load task: %w", err)
		}

		t := mapDBTaskToModel(dbTask)
		p.Apply(t)

		_, err = tx.NewUpdate().
			Model(mapModelToDBTask(t)).
			Column("title", "description").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the owned task.
func (r *BunRepository) Delete(ctx context.Context, ownerID, taskID int64) error {
	res, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", taskID).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapDBTaskToModel(dbt *database.Task) *Task {
	return &Task{
		ID:          dbt.ID,
		UserID:      dbt.UserID,
		Title:       dbt.Title,
		Description: dbt.Description,
		CreatedAt:   dbt.CreatedAt,
	}
}

func mapModelToDBTask(t *Task) *database.Task {
	return &database.Task{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}
