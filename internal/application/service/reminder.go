package service

import (
	"context"

	"remindee/internal/application/dto"
	"remindee/internal/domain/entity"
)

// ReminderService defines the interface for reminder-related business logic.
// Operations addressing a single reminder take the chat id and fail with
// ErrNotFound when the reminder belongs to another chat.
type ReminderService interface {
	// CreateReminder creates a one-shot reminder and returns its ID.
	CreateReminder(ctx context.Context, req dto.CreateReminderRequest) (uint, error)
	// CreateCronReminder creates a recurring reminder due at the first occurrence after now.
	CreateCronReminder(ctx context.Context, req dto.CreateCronReminderRequest) (uint, error)
	// ListReminders returns the chat's unsent reminders of both kinds in due order.
	ListReminders(ctx context.Context, chatID int64, filter dto.ListFilter) ([]dto.ReminderResponse, error)
	// GetReminder retrieves one reminder of the chat.
	GetReminder(ctx context.Context, chatID int64, kind entity.Kind, id uint) (dto.ReminderResponse, error)
	// TogglePause flips the paused flag and returns the new value.
	TogglePause(ctx context.Context, chatID int64, kind entity.Kind, id uint) (bool, error)
	// DeleteReminder removes a reminder of the chat.
	DeleteReminder(ctx context.Context, chatID int64, kind entity.Kind, id uint) error
	// BeginEdit puts the reminder into the chat's edit slot, optionally choosing the field.
	BeginEdit(ctx context.Context, req dto.EditRequest) error
	// SelectEditField chooses the field of the reminder currently being edited.
	SelectEditField(ctx context.Context, chatID int64, mode string) error
	// CancelEdit closes the chat's edit slot.
	CancelEdit(ctx context.Context, chatID int64) error
	// ApplyEdit commits the value for the field selected on the edited reminder.
	ApplyEdit(ctx context.Context, chatID int64, input dto.EditInput) (dto.ReminderResponse, error)
	// AttachMessages stores chat message references on a reminder.
	AttachMessages(ctx context.Context, chatID int64, kind entity.Kind, id uint, req dto.MessageRefRequest) error
	// FindByMessage finds the reminder a chat message refers to, by origin message first and reply second.
	FindByMessage(ctx context.Context, chatID int64, msgID int) (dto.ReminderResponse, error)
}
