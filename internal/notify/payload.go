package notify

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
)

// TaskKey returns the per-entity dispatch key for a task.
func TaskKey(id int64) string { return "task:" + strconv.FormatInt(id, 10) }

// ReminderKey returns the per-entity dispatch key for a reminder.
func ReminderKey(id uuid.UUID) string { return "reminder:" + id.String() }

// EventKind identifies which state change triggered a notification.
type EventKind string

// Possible event kinds
const (
	EventTaskCompleted EventKind = "task_completed"
	EventReminderDue   EventKind = "reminder_due"
)

// gatewayTimeLayout is the human-readable timestamp format the gateway
// template expects (dd.MM.yyyy HH:mm).
const gatewayTimeLayout = "02.01.2006 15:04"

// descriptionPlaceholder is substituted when an entity has no description.
const descriptionPlaceholder = "No description provided"

// ErrMissingRecipient is returned by the payload builders when no
// recipient address is available. The dispatcher treats it as terminal:
// the write already succeeded and there is nobody to notify.
var ErrMissingRecipient = errors.New("notification recipient address is empty")

// ErrTaskNotCompleted is returned when a task without a completion
// timestamp reaches the payload builder. Dispatch only fires on the
// completed transition, so hitting this means the snapshot violates
// the completion invariant.
var ErrTaskNotCompleted = errors.New("task has no completion timestamp")

// Recipient is a resolved notification target.
type Recipient struct {
	Email string
	Name  string
}

// Payload is a wire-format message accepted by the notification gateway.
// Task and reminder notifications use different field names, so each has
// its own concrete shape; the gateway client serializes whichever it is
// handed.
type Payload interface {
	// Kind returns the triggering event kind.
	Kind() EventKind

	// EntityKey returns a stable identifier of the source entity,
	// unique across entity types. Used for logging and per-entity
	// dispatch serialization.
	EntityKey() string

	// RecipientEmail returns the destination address.
	RecipientEmail() string
}

// TaskPayload is the JSON body for a task-completion notification.
type TaskPayload struct {
	TaskTitle       string `json:"taskTitle"`
	TaskDescription string `json:"taskDescription"`
	UserEmail       string `json:"userEmail"`
	UserName        string `json:"userName"`
	CompletedDate   string `json:"completedDate"`
	TaskID          int64  `json:"taskId"`
}

// Kind implements Payload.
func (p *TaskPayload) Kind() EventKind { return EventTaskCompleted }

// EntityKey implements Payload.
func (p *TaskPayload) EntityKey() string { return TaskKey(p.TaskID) }

// RecipientEmail implements Payload.
func (p *TaskPayload) RecipientEmail() string { return p.UserEmail }

// ReminderPayload is the JSON body for a due-reminder notification.
type ReminderPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserEmail   string `json:"userEmail"`
	UserName    string `json:"userName"`
	DueDate     string `json:"dueDate"`
	ReminderID  string `json:"reminderId"`
}

// Kind implements Payload.
func (p *ReminderPayload) Kind() EventKind { return EventReminderDue }

// EntityKey implements Payload.
func (p *ReminderPayload) EntityKey() string { return "reminder:" + p.ReminderID }

// RecipientEmail implements Payload.
func (p *ReminderPayload) RecipientEmail() string { return p.UserEmail }

// BuildTaskPayload maps a completed task and its recipient to the
// gateway wire shape. It performs no I/O and reads no clock: the task
// snapshot must carry its completion timestamp.
func BuildTaskPayload(task *domain.Task, recipient Recipient) (*TaskPayload, error) {
	if recipient.Email == "" {
		return nil, ErrMissingRecipient
	}

	if task.CompletedAt == nil {
		return nil, ErrTaskNotCompleted
	}

	return &TaskPayload{
		TaskTitle:       task.Title,
		TaskDescription: orPlaceholder(task.Description),
		UserEmail:       recipient.Email,
		UserName:        recipient.Name,
		CompletedDate:   task.CompletedAt.Format(gatewayTimeLayout),
		TaskID:          task.ID,
	}, nil
}

// BuildReminderPayload maps a due reminder and its recipient to the
// gateway wire shape. The due timestamp is rendered in the given
// location so the user sees their own wall-clock time.
func BuildReminderPayload(reminder *domain.Reminder, recipient Recipient, loc *time.Location) (*ReminderPayload, error) {
	if recipient.Email == "" {
		return nil, ErrMissingRecipient
	}

	return &ReminderPayload{
		Title:       reminder.Title,
		Description: orPlaceholder(reminder.Description),
		UserEmail:   recipient.Email,
		UserName:    recipient.Name,
		DueDate:     reminder.DueAt(loc).Format(gatewayTimeLayout),
		ReminderID:  reminder.ID.String(),
	}, nil
}

func orPlaceholder(description string) string {
	if description == "" {
		return descriptionPlaceholder
	}
	return description
}
