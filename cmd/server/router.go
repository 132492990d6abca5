package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/servankarakurt/gorev-api/internal/api"
	"github.com/servankarakurt/gorev-api/internal/api/middleware"
	"github.com/servankarakurt/gorev-api/internal/service"
)

// newRouter assembles the HTTP routing tree. Every /api route requires
// an owner ID header; health stays open for probes.
func newRouter(
	taskService service.TaskService,
	reminderService service.ReminderService,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Error("failed to write health response", slog.String("error", err.Error()))
		}
	})

	taskHandler := api.NewTaskHandler(taskService, logger)
	reminderHandler := api.NewReminderHandler(reminderService, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.OwnerMiddleware)
		r.Route("/tasks", taskHandler.Routes)
		r.Route("/reminders", reminderHandler.Routes)
	})

	return r
}
