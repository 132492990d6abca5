package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/api/shared"
	"github.com/servankarakurt/gorev-api/internal/domain"
	"github.com/servankarakurt/gorev-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockTaskService mocks the service.TaskService interface
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, userID uuid.UUID, id int64, input service.UpdateTaskInput) (*domain.Task, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) ChangeStatus(ctx context.Context, userID uuid.UUID, id int64, next domain.TaskStatus) (*domain.Task, error) {
	args := m.Called(ctx, userID, id, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTaskService) Counts(ctx context.Context, userID uuid.UUID) (service.TaskCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(service.TaskCounts), args.Error(1)
}

// MockReminderService mocks the service.ReminderService interface
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) CreateReminder(ctx context.Context, userID uuid.UUID, input service.CreateReminderInput) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) GetReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) UpdateReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID, input service.UpdateReminderInput) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) CompleteReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) ReopenReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) DeleteReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serveAs runs the request through the handler with the owner ID already
// on the context, mirroring what the owner middleware does in production.
func serveAs(userID uuid.UUID, router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}
