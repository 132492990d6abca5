package domain

// TransitionSignal classifies the outcome of a status change and
// decides whether the change is worth a notification.
type TransitionSignal string

// Possible transition signals
const (
	// SignalNone means the change is not notification-relevant.
	SignalNone TransitionSignal = "none"

	// SignalTaskCompleted means the task just entered the completed
	// status; a completion notification should be dispatched.
	SignalTaskCompleted TransitionSignal = "task_completed"

	// SignalTaskReopened means the task just left the completed status.
	// No notification is sent; the caller clears the completion timestamp.
	SignalTaskReopened TransitionSignal = "task_reopened"

	// SignalReminderDue is produced by the due-reminder scanner, never
	// by a single write. It exists here so the dispatcher can treat
	// both notification sources uniformly.
	SignalReminderDue TransitionSignal = "reminder_due"
)

// EvaluateTransition decides whether moving a task from prev to next
// constitutes a notifiable transition. It is pure: no I/O, no clock.
func EvaluateTransition(prev, next TaskStatus) TransitionSignal {
	switch {
	case prev != TaskStatusCompleted && next == TaskStatusCompleted:
		return SignalTaskCompleted
	case prev == TaskStatusCompleted && next != TaskStatusCompleted:
		return SignalTaskReopened
	default:
		return SignalNone
	}
}
