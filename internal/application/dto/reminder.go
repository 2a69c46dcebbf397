package dto

import (
	"time"

	"remindee/internal/domain/entity"
)

// ReminderResponse is the DTO for sending reminder information to the client (e.g., listing reminders).
type ReminderResponse struct {
	ID          uint      `json:"id"`
	Kind        string    `json:"kind"`
	ChatID      int64     `json:"chat_id"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
	CronExpr    string    `json:"cron_expr,omitempty"`
	Paused      bool      `json:"paused"`
	Editing     bool      `json:"editing"`
	EditMode    string    `json:"edit_mode,omitempty"`
	MsgID       *int      `json:"msg_id,omitempty"`
	ReplyID     *int      `json:"reply_id,omitempty"`
}

// ToReminderResponse converts either reminder kind to a ReminderResponse DTO.
func ToReminderResponse(r entity.GenericReminder) ReminderResponse {
	editing, mode := r.EditSlot()
	resp := ReminderResponse{
		ID:          r.GetID(),
		Kind:        r.Kind().String(),
		ChatID:      r.GetChatID(),
		Description: r.Description(),
		Time:        r.DueTime(),
		Paused:      r.IsPaused(),
		Editing:     editing,
	}
	if editing {
		resp.EditMode = mode.String()
	}
	switch v := r.(type) {
	case *entity.Reminder:
		resp.MsgID, resp.ReplyID = v.MsgID, v.ReplyID
	case *entity.CronReminder:
		resp.MsgID, resp.ReplyID = v.MsgID, v.ReplyID
		resp.CronExpr = v.CronExpr
	}
	return resp
}

// ToReminderResponseList converts an ordered reminder list, keeping its order.
func ToReminderResponseList(reminders []entity.GenericReminder) []ReminderResponse {
	list := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		list[i] = ToReminderResponse(r)
	}
	return list
}

// CreateReminderRequest is the DTO for creating a one-shot reminder.
type CreateReminderRequest struct {
	ChatID      int64     `json:"-"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
	MsgID       *int      `json:"msg_id,omitempty"` // Chat message the reminder was created from
}

// CreateCronReminderRequest is the DTO for creating a recurring reminder.
type CreateCronReminderRequest struct {
	ChatID      int64  `json:"-"`
	Description string `json:"description"`
	CronExpr    string `json:"cron_expr"`
	MsgID       *int   `json:"msg_id,omitempty"`
}

// ListFilter narrows a chat's reminder list to one kind.
type ListFilter struct {
	ExcludeOneShot bool
	ExcludeCron    bool
}

// EditRequest is the DTO for putting a reminder into the chat's edit slot.
type EditRequest struct {
	ChatID int64       `json:"-"`
	Kind   entity.Kind `json:"-"`
	ID     uint        `json:"-"`
	Mode   string      `json:"mode"` // "description", "time" or empty to pick later
}

// EditModeRequest is the DTO for choosing the field of the reminder being edited.
type EditModeRequest struct {
	Mode string `json:"mode"`
}

// EditInput carries the value for the field selected by the edit mode. Text is
// the new description or cron expression; Time is the new one-shot trigger.
type EditInput struct {
	Text string    `json:"text,omitempty"`
	Time time.Time `json:"time,omitempty"`
}

// MessageRefRequest is the DTO for storing chat message references of a reminder.
type MessageRefRequest struct {
	MsgID   *int `json:"msg_id,omitempty"`
	ReplyID *int `json:"reply_id,omitempty"`
}
