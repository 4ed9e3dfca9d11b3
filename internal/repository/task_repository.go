package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/pkg/database"
)

const taskColumns = "id, title, description, assigned_to, assigned_by, status, created_at"

// TaskRepository provides database access for staff tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindByID returns a task by identifier.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1 LIMIT 1", taskColumns)
	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, database.Classify(fmt.Errorf("find task by id: %w", err))
	}
	return &task, nil
}

// List returns tasks, optionally restricted to an assignee.
func (r *TaskRepository) List(ctx context.Context, assignedTo string) ([]models.Task, error) {
	var tasks []models.Task
	if assignedTo != "" {
		query := fmt.Sprintf("SELECT %s FROM tasks WHERE assigned_to = $1 ORDER BY created_at DESC", taskColumns)
		if err := r.db.SelectContext(ctx, &tasks, query, assignedTo); err != nil {
			return nil, database.Classify(fmt.Errorf("list tasks by assignee: %w", err))
		}
		return tasks, nil
	}

	query := fmt.Sprintf("SELECT %s FROM tasks ORDER BY created_at DESC", taskColumns)
	if err := r.db.SelectContext(ctx, &tasks, query); err != nil {
		return nil, database.Classify(fmt.Errorf("list tasks: %w", err))
	}
	return tasks, nil
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO tasks (id, title, description, assigned_to, assigned_by, status, created_at) VALUES (:id, :title, :description, :assigned_to, :assigned_by, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return database.Classify(fmt.Errorf("create task: %w", err))
	}
	return nil
}

// SetStatus updates the task status.
func (r *TaskRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	const query = `UPDATE tasks SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return database.Classify(fmt.Errorf("set task status: %w", err))
	}
	return nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return database.Classify(fmt.Errorf("delete task: %w", err))
	}
	return nil
}
