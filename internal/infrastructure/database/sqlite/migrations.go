package sqlite

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// schemaMigration records an applied migration step.
type schemaMigration struct {
	ID        string    `gorm:"column:id;primaryKey"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (schemaMigration) TableName() string {
	return "schema_migration"
}

type migration struct {
	id    string
	apply func(tx *gorm.DB) error
}

// Table shapes as they were when each table was first created.

type userTimezoneV1 struct {
	UserID   int64  `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Timezone string `gorm:"column:timezone;type:text;not null"`
}

func (userTimezoneV1) TableName() string { return "user_timezone" }

type reminderV1 struct {
	ID     uint      `gorm:"primaryKey;autoIncrement"`
	UserID int64     `gorm:"column:user_id;not null"`
	Time   time.Time `gorm:"column:time;not null"`
	Desc   string    `gorm:"column:description;type:text;not null"`
	Sent   bool      `gorm:"column:sent;not null"`
	Edit   bool      `gorm:"column:edit;not null"`
}

func (reminderV1) TableName() string { return "reminder" }

type cronReminderV1 struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	UserID   int64     `gorm:"column:user_id;not null"`
	CronExpr string    `gorm:"column:cron_expr;type:text;not null"`
	Time     time.Time `gorm:"column:time;not null"`
	Desc     string    `gorm:"column:description;type:text;not null"`
	Sent     bool      `gorm:"column:sent;not null"`
	Edit     bool      `gorm:"column:edit;not null"`
}

func (cronReminderV1) TableName() string { return "cron_reminder" }

// Columns added after the initial tables.

type pausedColumn struct {
	Paused bool `gorm:"column:paused;not null;default:false"`
}

type editModeColumns struct {
	EditMode int  `gorm:"column:edit_mode;not null;default:0"`
	MsgID    *int `gorm:"column:msg_id"`
	ReplyID  *int `gorm:"column:reply_id"`
}

var reminderTables = []string{"reminder", "cron_reminder"}

// migrations is the linear, forward-only schema history. Steps are never edited
// or reordered once released; new changes are appended.
var migrations = []migration{
	{
		id: "20220101_000001_create_user_timezone_table",
		apply: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&userTimezoneV1{})
		},
	},
	{
		id: "20221111_004928_create_reminder_table",
		apply: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&reminderV1{})
		},
	},
	{
		id: "20221111_005303_create_cron_reminder_table",
		apply: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&cronReminderV1{})
		},
	},
	{
		id: "20221115_001608_rename_user_id_to_chat_id",
		apply: func(tx *gorm.DB) error {
			for _, table := range reminderTables {
				if err := tx.Exec(fmt.Sprintf("ALTER TABLE %s RENAME COLUMN user_id TO chat_id", table)).Error; err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		id: "20221119_222755_create_paused_columns",
		apply: func(tx *gorm.DB) error {
			for _, table := range reminderTables {
				if err := tx.Table(table).Migrator().AddColumn(&pausedColumn{}, "Paused"); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		id: "20230305_140210_create_edit_mode_and_message_columns",
		apply: func(tx *gorm.DB) error {
			for _, table := range reminderTables {
				m := tx.Table(table).Migrator()
				for _, field := range []string{"EditMode", "MsgID", "ReplyID"} {
					if err := m.AddColumn(&editModeColumns{}, field); err != nil {
						return err
					}
				}
				for _, col := range []string{"chat_id", "time"} {
					stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)", table, col, table, col)
					if err := tx.Exec(stmt).Error; err != nil {
						return err
					}
				}
			}
			return nil
		},
	},
}

// Migrate applies every migration step that has not been recorded yet.
// Each step commits together with its ledger row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("schema migration ledger failed: %w", err)
	}

	var applied []schemaMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("failed to read schema migration ledger: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, m := range applied {
		done[m.ID] = true
	}

	for _, m := range migrations {
		if done[m.id] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{ID: m.id, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.id, err)
		}
	}
	return nil
}
