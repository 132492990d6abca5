// Package service provides application-level services for managing tasks,
// reminders, and users, including the status-transition write path that
// feeds the notification dispatcher.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrReminderInPast indicates a reminder was scheduled before the
	// current time, outside the allowed tolerance.
	// API layer should map this to HTTP 400 Bad Request.
	ErrReminderInPast = errors.New("reminder cannot be scheduled in the past")

	// ErrInvalidStatus indicates a status value outside the known set.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidStatus = errors.New("invalid status value")
)
