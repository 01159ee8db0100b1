package task

import "time"

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	CreatedAt   time.Time
}

// Patch lists the fields an update may overwrite. Nil fields keep their
// stored value.
type Patch struct {
	Title       *string
	Description *string
}

// Apply overwrites the supplied fields of t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
}
