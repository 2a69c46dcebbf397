package sqlite

import (
	"context"
	"fmt"

	"remindee/internal/domain/constant"
	"remindee/internal/domain/entity"
	"remindee/internal/domain/repository"
	appErrors "remindee/internal/pkg/errors"

	"gorm.io/gorm"
)

var editModels = []any{&entity.Reminder{}, &entity.CronReminder{}}

// clearEdit unconditionally closes the edit slot of every reminder of the chat.
func clearEdit(tx *gorm.DB, chatID int64) error {
	for _, model := range editModels {
		err := tx.Model(model).Where("chat_id = ?", chatID).Updates(map[string]any{
			"edit":      false,
			"edit_mode": constant.EditModeNone.Int(),
		}).Error
		if err != nil {
			return storageErr(fmt.Sprintf("reset edit for chat %d", chatID), err)
		}
	}
	return nil
}

// countEditRows counts the chat's rows in edit mode across both tables.
func countEditRows(tx *gorm.DB, chatID int64) (int64, error) {
	var total int64
	for _, model := range editModels {
		var n int64
		if err := tx.Model(model).Where("chat_id = ? AND edit = ?", chatID, true).Count(&n).Error; err != nil {
			return 0, storageErr(fmt.Sprintf("count edit rows for chat %d", chatID), err)
		}
		total += n
	}
	return total, nil
}

func verifyEditSlot(tx *gorm.DB, chatID int64) error {
	n, err := countEditRows(tx, chatID)
	if err != nil {
		return err
	}
	if n > 1 {
		return fmt.Errorf("%w: chat %d has %d", appErrors.ErrEditStateViolation, chatID, n)
	}
	return nil
}

type editRepository struct {
	db       *gorm.DB
	oneShots rows[entity.Reminder, *entity.Reminder]
	crons    rows[entity.CronReminder, *entity.CronReminder]
}

// NewEditRepository creates the repository for operations spanning both reminder tables.
func NewEditRepository(db *gorm.DB) repository.EditRepository {
	return &editRepository{
		db:       db,
		oneShots: rows[entity.Reminder, *entity.Reminder]{db: db},
		crons:    rows[entity.CronReminder, *entity.CronReminder]{db: db},
	}
}

// ResetEdit closes the chat's edit slot.
func (r *editRepository) ResetEdit(ctx context.Context, chatID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return clearEdit(tx, chatID)
	})
}

// SetEditMode updates the mode of the row holding the edit slot. Without such a
// row nothing matches and nothing changes.
func (r *editRepository) SetEditMode(ctx context.Context, chatID int64, mode constant.EditMode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range editModels {
			err := tx.Model(model).
				Where("chat_id = ? AND edit = ?", chatID, true).
				Update("edit_mode", mode.Int()).Error
			if err != nil {
				return storageErr(fmt.Sprintf("set edit mode for chat %d", chatID), err)
			}
		}
		return nil
	})
}

// FindEdit returns the unsent reminder holding the chat's edit slot, or nil.
func (r *editRepository) FindEdit(ctx context.Context, chatID int64) (entity.GenericReminder, error) {
	op := fmt.Sprintf("find edit reminder of chat %d", chatID)
	q := "chat_id = ? AND edit = ? AND sent = ?"

	rem, err := r.oneShots.take(r.db.WithContext(ctx).Where(q, chatID, true, false), op)
	if err != nil {
		return nil, err
	}
	if rem != nil {
		return rem, nil
	}
	cron, err := r.crons.take(r.db.WithContext(ctx).Where(q, chatID, true, false), op)
	if err != nil {
		return nil, err
	}
	if cron != nil {
		return cron, nil
	}
	return nil, nil
}

// FindSortedPending merges the chat's unsent reminders of both kinds in due order.
func (r *editRepository) FindSortedPending(ctx context.Context, chatID int64, excludeOneShot, excludeCron bool) ([]entity.GenericReminder, error) {
	var (
		oneShots []*entity.Reminder
		crons    []*entity.CronReminder
		err      error
	)
	if !excludeOneShot {
		if oneShots, err = r.oneShots.FindPendingByChat(ctx, chatID); err != nil {
			return nil, err
		}
	}
	if !excludeCron {
		if crons, err = r.crons.FindPendingByChat(ctx, chatID); err != nil {
			return nil, err
		}
	}
	return entity.Merge(oneShots, crons, excludeOneShot, excludeCron), nil
}
