package sqlite

import (
	"context"
	"fmt"
	"time"

	"remindee/internal/domain/constant"
	"remindee/internal/domain/entity"
	"remindee/internal/domain/repository"

	"gorm.io/gorm"
)

type cronReminderRepository struct {
	rows[entity.CronReminder, *entity.CronReminder]
}

// NewCronReminderRepository creates a new instance of CronReminderRepository.
func NewCronReminderRepository(db *gorm.DB) repository.CronReminderRepository {
	return &cronReminderRepository{rows[entity.CronReminder, *entity.CronReminder]{db: db}}
}

// CommitCronExpr replaces the expression and next trigger time and closes the edit slot.
func (r *cronReminderRepository) CommitCronExpr(ctx context.Context, id uint, expr string, next time.Time) error {
	return r.update(r.db.WithContext(ctx), id, map[string]any{
		"cron_expr": expr,
		"time":      next.UTC(),
		"edit":      false,
		"edit_mode": constant.EditModeNone.Int(),
	}, "commit cron expression of")
}

// Reschedule moves the reminder from the occurrence that fired to the next one.
// The row keeps its identity. It reports false, changing nothing, when the row
// is gone, sent or no longer at fired, so an edit made meanwhile is kept.
func (r *cronReminderRepository) Reschedule(ctx context.Context, id uint, fired, next time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.CronReminder{}).
		Where("id = ? AND sent = ? AND time = ?", id, false, fired.UTC()).
		Update("time", next.UTC())
	if res.Error != nil {
		return false, storageErr(fmt.Sprintf("reschedule cron reminder %d", id), res.Error)
	}
	return res.RowsAffected == 1, nil
}
