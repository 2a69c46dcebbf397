package entity

import (
	"time"

	"remindee/internal/domain/constant"
)

// Common holds the columns shared by one-shot and cron reminders.
type Common struct {
	ID       uint              `gorm:"primaryKey;autoIncrement"`
	ChatID   int64             `gorm:"column:chat_id;not null;index"`
	Time     time.Time         `gorm:"column:time;not null;index"` // UTC; next trigger for cron reminders
	Desc     string            `gorm:"column:description;type:text;not null"`
	Sent     bool              `gorm:"column:sent;not null"`
	Paused   bool              `gorm:"column:paused;not null"`
	Edit     bool              `gorm:"column:edit;not null"`
	EditMode constant.EditMode `gorm:"column:edit_mode;not null"`
	MsgID    *int              `gorm:"column:msg_id"`   // Chat message the reminder was created from
	ReplyID  *int              `gorm:"column:reply_id"` // Latest bot message about this reminder
}

// Fields gives kind-agnostic code access to the shared columns.
func (c *Common) Fields() *Common { return c }

func (c *Common) GetID() uint         { return c.ID }
func (c *Common) GetChatID() int64    { return c.ChatID }
func (c *Common) DueTime() time.Time  { return c.Time }
func (c *Common) Description() string { return c.Desc }
func (c *Common) IsPaused() bool      { return c.Paused }
func (c *Common) EditSlot() (bool, constant.EditMode) {
	return c.Edit, c.EditMode
}

// Reminder fires exactly once at Time.
type Reminder struct {
	Common
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "reminder"
}

func (r *Reminder) IsCron() bool { return false }
func (r *Reminder) Kind() Kind   { return KindOneShot }

// CronReminder fires at every occurrence of CronExpr. Time holds the next
// occurrence and is moved forward by the dispatcher after each firing.
type CronReminder struct {
	Common
	CronExpr string `gorm:"column:cron_expr;type:text;not null"`
}

// TableName specifies the table name for the CronReminder entity.
func (CronReminder) TableName() string {
	return "cron_reminder"
}

func (r *CronReminder) IsCron() bool { return true }
func (r *CronReminder) Kind() Kind   { return KindCron }
