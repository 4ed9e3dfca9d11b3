package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type taskRepository interface {
	FindByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, assignedTo string) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	SetStatus(ctx context.Context, id string, status models.TaskStatus) error
	Delete(ctx context.Context, id string) error
}

type userLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CreateTaskRequest represents payload for assigning a task.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	AssignedTo  string  `json:"assigned_to" validate:"required"`
}

// TaskService manages staff task assignments. Admins create and delete;
// only the assignee may flip a task between pending and completed.
type TaskService struct {
	repo     taskRepository
	users    userLookup
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTaskService creates an instance of TaskService.
func NewTaskService(repo taskRepository, users userLookup, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		repo:     repo,
		users:    users,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns tasks. Admins see every task; other roles only their own.
func (s *TaskService) List(ctx context.Context, actor *models.JWTClaims) ([]models.Task, error) {
	assignee := ""
	if actor.Role != models.RoleAdmin {
		assignee = actor.UserID
	}
	tasks, err := s.repo.List(ctx, assignee)
	if err != nil {
		return nil, wrapStore(err, "failed to list tasks")
	}
	return tasks, nil
}

// Create assigns a new task to a staff account. Admin only.
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest, actor *models.JWTClaims) (*models.Task, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may assign tasks")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	if _, err := s.users.FindByID(ctx, req.AssignedTo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignee account not found")
		}
		return nil, wrapStore(err, "failed to check assignee")
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  actor.UserID,
		Status:      models.TaskStatusPending,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, wrapStore(err, "failed to create task")
	}

	s.logger.Info("task assigned",
		zap.String("task_id", task.ID),
		zap.String("assigned_to", task.AssignedTo),
		zap.String("assigned_by", task.AssignedBy))
	return task, nil
}

// SetStatus moves a task between pending and completed. Only the assignee
// may change it, including an admin who is not the assignee.
func (s *TaskService) SetStatus(ctx context.Context, id string, status models.TaskStatus, actor *models.JWTClaims) (*models.Task, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending or completed")
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, wrapStore(err, "failed to load task")
	}

	if task.AssignedTo != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the assignee may update this task")
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, wrapStore(err, "failed to update task status")
	}
	task.Status = status
	return task, nil
}

// Delete removes a task. Admin only.
func (s *TaskService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "only admins may delete tasks")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return wrapStore(err, "failed to load task")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStore(err, "failed to delete task")
	}
	return nil
}
