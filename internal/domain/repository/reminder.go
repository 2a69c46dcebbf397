package repository

import (
	"context"
	"time"

	"remindee/internal/domain/constant"
	"remindee/internal/domain/entity"
)

// Rows is the operation set shared by the one-shot and cron reminder tables.
// Point lookups return (nil, nil) when no row matches.
type Rows[T any] interface {
	// FindByID retrieves a reminder by its ID.
	FindByID(ctx context.Context, id uint) (*T, error)
	// FindByMsgID retrieves the reminder created from the given chat message.
	FindByMsgID(ctx context.Context, chatID int64, msgID int) (*T, error)
	// FindByReplyID retrieves the reminder the given bot message refers to.
	FindByReplyID(ctx context.Context, chatID int64, replyID int) (*T, error)
	// FindActive retrieves unsent, unpaused reminders whose time is before now.
	FindActive(ctx context.Context, now time.Time) ([]*T, error)
	// FindPendingByChat retrieves all unsent reminders of a chat.
	FindPendingByChat(ctx context.Context, chatID int64) ([]*T, error)
	// Create inserts a new reminder in its initial state and returns its ID.
	Create(ctx context.Context, reminder *T) (uint, error)
	// Delete removes a reminder. Deleting a missing reminder is not an error.
	Delete(ctx context.Context, id uint) error
	// SetEdit makes the unsent reminder the only one in edit mode for its chat,
	// with the given mode.
	SetEdit(ctx context.Context, id uint, chatID int64, mode constant.EditMode) error
	// CommitDescription replaces the description and closes the edit slot.
	CommitDescription(ctx context.Context, id uint, desc string) error
	// TogglePaused flips the paused flag and returns the new value.
	TogglePaused(ctx context.Context, id uint) (bool, error)
	// MarkSent marks the reminder as delivered and releases its edit slot.
	// Marking twice is not an error.
	MarkSent(ctx context.Context, id uint) error
	// SetMsgID stores the chat message the reminder was created from.
	SetMsgID(ctx context.Context, id uint, msgID int) error
	// SetReplyID stores the latest bot message about the reminder.
	SetReplyID(ctx context.Context, id uint, replyID int) error
}

// ReminderRepository defines the interface for one-shot reminder data operations.
type ReminderRepository interface {
	Rows[entity.Reminder]
	// CommitTime replaces the trigger time and closes the edit slot.
	CommitTime(ctx context.Context, id uint, at time.Time) error
}

// CronReminderRepository defines the interface for cron reminder data operations.
type CronReminderRepository interface {
	Rows[entity.CronReminder]
	// CommitCronExpr replaces the expression and next trigger time and closes the edit slot.
	CommitCronExpr(ctx context.Context, id uint, expr string, next time.Time) error
	// Reschedule moves the reminder from the fired occurrence to next. It reports
	// false when the row was deleted, sent or re-timed since it fired.
	Reschedule(ctx context.Context, id uint, fired, next time.Time) (bool, error)
}

// EditRepository covers the operations spanning both reminder tables of a chat.
type EditRepository interface {
	// ResetEdit closes the edit slot of a chat.
	ResetEdit(ctx context.Context, chatID int64) error
	// SetEditMode changes the mode of the reminder in the chat's edit slot, if any.
	SetEditMode(ctx context.Context, chatID int64, mode constant.EditMode) error
	// FindEdit returns the reminder in the chat's edit slot, or nil.
	FindEdit(ctx context.Context, chatID int64) (entity.GenericReminder, error)
	// FindSortedPending merges the chat's unsent reminders of both kinds in due order.
	FindSortedPending(ctx context.Context, chatID int64, excludeOneShot, excludeCron bool) ([]entity.GenericReminder, error)
}
