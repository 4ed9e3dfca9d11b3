package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type fakeTaskRepo struct {
	tasks   map[string]*models.Task
	deleted []string
}

func newFakeTaskRepo(tasks ...*models.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{tasks: make(map[string]*models.Task)}
	for _, t := range tasks {
		repo.tasks[t.ID] = t
	}
	return repo
}

func (f *fakeTaskRepo) FindByID(_ context.Context, id string) (*models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) List(_ context.Context, assignedTo string) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if assignedTo == "" || t.AssignedTo == assignedTo {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, task *models.Task) error {
	task.ID = "task-new"
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) SetStatus(_ context.Context, id string, status models.TaskStatus) error {
	f.tasks[id].Status = status
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	delete(f.tasks, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUserLookup struct {
	users map[string]*models.User
}

func (f *fakeUserLookup) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Username: "admin", Role: models.RoleAdmin}
}

func staffClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Username: "staff", Role: models.RoleUser}
}

func TestTaskCreate(t *testing.T) {
	repo := newFakeTaskRepo()
	users := &fakeUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}}
	svc := NewTaskService(repo, users, nil)

	task, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:      "Distribute ballot slips",
		AssignedTo: "u1",
	}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, "admin-1", task.AssignedBy)
}

func TestTaskCreateForbiddenForStaff(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), &fakeUserLookup{}, nil)

	_, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:      "Distribute ballot slips",
		AssignedTo: "u1",
	}, staffClaims("u1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestTaskCreateUnknownAssignee(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), &fakeUserLookup{users: map[string]*models.User{}}, nil)

	_, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:      "Distribute ballot slips",
		AssignedTo: "ghost",
	}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTaskSetStatusByAssignee(t *testing.T) {
	repo := newFakeTaskRepo(&models.Task{ID: "t1", AssignedTo: "u1", Status: models.TaskStatusPending})
	svc := NewTaskService(repo, &fakeUserLookup{}, nil)

	task, err := svc.SetStatus(context.Background(), "t1", models.TaskStatusCompleted, staffClaims("u1"))
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	assert.Equal(t, models.TaskStatusCompleted, repo.tasks["t1"].Status)
}

func TestTaskSetStatusRejectsNonAssignee(t *testing.T) {
	repo := newFakeTaskRepo(&models.Task{ID: "t1", AssignedTo: "u1", Status: models.TaskStatusPending})
	svc := NewTaskService(repo, &fakeUserLookup{}, nil)

	// even an admin cannot complete someone else's task
	_, err := svc.SetStatus(context.Background(), "t1", models.TaskStatusCompleted, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.TaskStatusPending, repo.tasks["t1"].Status)
}

func TestTaskSetStatusInvalidValue(t *testing.T) {
	repo := newFakeTaskRepo(&models.Task{ID: "t1", AssignedTo: "u1"})
	svc := NewTaskService(repo, &fakeUserLookup{}, nil)

	_, err := svc.SetStatus(context.Background(), "t1", "archived", staffClaims("u1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTaskListScopedForStaff(t *testing.T) {
	repo := newFakeTaskRepo(
		&models.Task{ID: "t1", AssignedTo: "u1"},
		&models.Task{ID: "t2", AssignedTo: "u2"},
	)
	svc := NewTaskService(repo, &fakeUserLookup{}, nil)

	mine, err := svc.List(context.Background(), staffClaims("u1"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "t1", mine[0].ID)

	all, err := svc.List(context.Background(), adminClaims())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTaskDeleteAdminOnly(t *testing.T) {
	repo := newFakeTaskRepo(&models.Task{ID: "t1", AssignedTo: "u1"})
	svc := NewTaskService(repo, &fakeUserLookup{}, nil)

	err := svc.Delete(context.Background(), "t1", staffClaims("u1"))
	require.Error(t, err)

	err = svc.Delete(context.Background(), "t1", adminClaims())
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, repo.deleted)
}
