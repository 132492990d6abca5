package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/api/shared"
	"github.com/servankarakurt/gorev-api/internal/domain"
	"github.com/servankarakurt/gorev-api/internal/platform/logger"
	"github.com/servankarakurt/gorev-api/internal/service"
)

// reminderDateLayout is the wire format for the reminder's scheduled date.
const reminderDateLayout = "2006-01-02"

// CreateReminderRequest represents the request body for creating a reminder
type CreateReminderRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
}

// UpdateReminderRequest represents the request body for updating a reminder
type UpdateReminderRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
}

// ReminderResponse represents the response data for a reminder
type ReminderResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Date             string     `json:"date"`
	Time             string     `json:"time"`
	Active           bool       `json:"active"`
	Completed        bool       `json:"completed"`
	NotificationSent bool       `json:"notification_sent"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	NotifiedAt       *time.Time `json:"notified_at,omitempty"`
}

func reminderToResponse(reminder *domain.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:               reminder.ID.String(),
		Title:            reminder.Title,
		Description:      reminder.Description,
		Date:             reminder.Date.Format(reminderDateLayout),
		Time:             reminder.TimeOfDay.String(),
		Active:           reminder.Active,
		Completed:        reminder.Completed,
		NotificationSent: reminder.NotificationSent,
		Status:           string(reminder.Status),
		CreatedAt:        reminder.CreatedAt,
		CompletedAt:      reminder.CompletedAt,
		NotifiedAt:       reminder.NotifiedAt,
	}
}

// ReminderHandler handles reminder-related HTTP requests
type ReminderHandler struct {
	reminderService service.ReminderService
	logger          *slog.Logger
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderService service.ReminderService, log *slog.Logger) *ReminderHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReminderHandler")
	}

	return &ReminderHandler{
		reminderService: reminderService,
		logger:          log.With(slog.String("component", "reminder_handler")),
	}
}

// Routes mounts the reminder endpoints on a chi router.
func (h *ReminderHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/complete", h.Complete)
	r.Post("/{id}/reopen", h.Reopen)
}

// Create handles POST /api/reminders requests
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	var req CreateReminderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input, ok := reminderInputFromRequest(w, r, req.Title, req.Description, req.Date, req.Time)
	if !ok {
		return
	}

	reminder, err := h.reminderService.CreateReminder(r.Context(), userID, service.CreateReminderInput(input))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, reminderToResponse(reminder))
}

// List handles GET /api/reminders requests
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	reminders, err := h.reminderService.ListReminders(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]ReminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		responses = append(responses, reminderToResponse(reminder))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Get handles GET /api/reminders/{id} requests
func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	id, ok := reminderIDFromPath(w, r)
	if !ok {
		return
	}

	reminder, err := h.reminderService.GetReminder(r.Context(), userID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reminderToResponse(reminder))
}

// Update handles PUT /api/reminders/{id} requests
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	id, ok := reminderIDFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateReminderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input, ok := reminderInputFromRequest(w, r, req.Title, req.Description, req.Date, req.Time)
	if !ok {
		return
	}

	reminder, err := h.reminderService.UpdateReminder(r.Context(), userID, id, service.UpdateReminderInput(input))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reminderToResponse(reminder))
}

// Complete handles POST /api/reminders/{id}/complete requests
func (h *ReminderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.flipCompletion(w, r, true)
}

// Reopen handles POST /api/reminders/{id}/reopen requests
func (h *ReminderHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.flipCompletion(w, r, false)
}

func (h *ReminderHandler) flipCompletion(w http.ResponseWriter, r *http.Request, complete bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	id, ok := reminderIDFromPath(w, r)
	if !ok {
		return
	}

	var (
		reminder *domain.Reminder
		err      error
	)
	if complete {
		reminder, err = h.reminderService.CompleteReminder(r.Context(), userID, id)
	} else {
		reminder, err = h.reminderService.ReopenReminder(r.Context(), userID, id)
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reminderToResponse(reminder))
}

// Delete handles DELETE /api/reminders/{id} requests
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	id, ok := reminderIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.reminderService.DeleteReminder(r.Context(), userID, id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// reminderInput is the parsed form of the shared create/update fields.
type reminderInput struct {
	Title       string
	Description string
	Date        time.Time
	TimeOfDay   domain.TimeOfDay
}

func reminderInputFromRequest(w http.ResponseWriter, r *http.Request, title, description, date, timeOfDay string) (reminderInput, bool) {
	parsedDate, err := time.Parse(reminderDateLayout, date)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
		return reminderInput{}, false
	}

	parsedTime, err := domain.ParseTimeOfDay(timeOfDay)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Time must be in HH:MM format")
		return reminderInput{}, false
	}

	return reminderInput{
		Title:       title,
		Description: description,
		Date:        parsedDate,
		TimeOfDay:   parsedTime,
	}, true
}

func reminderIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid reminder ID format")
		return uuid.Nil, false
	}
	return id, true
}
