package models

import "time"

// TaskStatus enumerates staff task lifecycle states.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Valid reports whether the status is a known lifecycle state.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// Task is a staff assignment. Only admins create or delete tasks; only the
// assignee may flip the status.
type Task struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	AssignedTo  string     `db:"assigned_to" json:"assigned_to"`
	AssignedBy  string     `db:"assigned_by" json:"assigned_by"`
	Status      TaskStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
