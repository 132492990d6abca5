package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
	"github.com/servankarakurt/gorev-api/internal/service"
	"github.com/servankarakurt/gorev-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTaskService satisfies service.TaskService with empty results; the
// router tests only care about routing and middleware behavior.
type stubTaskService struct{}

func (stubTaskService) CreateTask(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error) {
	return &domain.Task{ID: 1, UserID: userID, Title: input.Title, Status: domain.TaskStatusPending, CreatedAt: time.Now().UTC()}, nil
}

func (stubTaskService) GetTask(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	return nil, store.ErrTaskNotFound
}

func (stubTaskService) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return []*domain.Task{}, nil
}

func (stubTaskService) UpdateTask(ctx context.Context, userID uuid.UUID, id int64, input service.UpdateTaskInput) (*domain.Task, error) {
	return nil, store.ErrTaskNotFound
}

func (stubTaskService) ChangeStatus(ctx context.Context, userID uuid.UUID, id int64, next domain.TaskStatus) (*domain.Task, error) {
	return nil, store.ErrTaskNotFound
}

func (stubTaskService) DeleteTask(ctx context.Context, userID uuid.UUID, id int64) error {
	return store.ErrTaskNotFound
}

func (stubTaskService) Counts(ctx context.Context, userID uuid.UUID) (service.TaskCounts, error) {
	return service.TaskCounts{}, nil
}

// stubReminderService satisfies service.ReminderService the same way.
type stubReminderService struct{}

func (stubReminderService) CreateReminder(ctx context.Context, userID uuid.UUID, input service.CreateReminderInput) (*domain.Reminder, error) {
	return nil, service.ErrReminderInPast
}

func (stubReminderService) GetReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error) {
	return nil, store.ErrReminderNotFound
}

func (stubReminderService) ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	return []*domain.Reminder{}, nil
}

func (stubReminderService) UpdateReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID, input service.UpdateReminderInput) (*domain.Reminder, error) {
	return nil, store.ErrReminderNotFound
}

func (stubReminderService) CompleteReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error) {
	return nil, store.ErrReminderNotFound
}

func (stubReminderService) ReopenReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error) {
	return nil, store.ErrReminderNotFound
}

func (stubReminderService) DeleteReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	return store.ErrReminderNotFound
}

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newRouter(stubTaskService{}, stubReminderService{}, logger)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_APIRequiresOwnerHeader(t *testing.T) {
	t.Parallel()

	paths := []string{"/api/tasks", "/api/reminders"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		newTestRouter().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_OwnerHeaderReachesHandlers(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("X-User-ID", uuid.New().String())
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
