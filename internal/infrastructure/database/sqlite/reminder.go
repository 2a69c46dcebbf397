package sqlite

import (
	"context"
	"time"

	"remindee/internal/domain/constant"
	"remindee/internal/domain/entity"
	"remindee/internal/domain/repository"

	"gorm.io/gorm"
)

type reminderRepository struct {
	rows[entity.Reminder, *entity.Reminder]
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &reminderRepository{rows[entity.Reminder, *entity.Reminder]{db: db}}
}

// CommitTime replaces the trigger time and closes the edit slot.
func (r *reminderRepository) CommitTime(ctx context.Context, id uint, at time.Time) error {
	return r.update(r.db.WithContext(ctx), id, map[string]any{
		"time":      at.UTC(),
		"edit":      false,
		"edit_mode": constant.EditModeNone.Int(),
	}, "commit time of")
}
