package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remindee/internal/domain/constant"
	"remindee/internal/domain/entity"
	appErrors "remindee/internal/pkg/errors"

	"gorm.io/gorm"
)

// record is satisfied by *entity.Reminder and *entity.CronReminder.
type record[T any] interface {
	*T
	Fields() *entity.Common
	Kind() entity.Kind
}

// rows implements the operations both reminder tables share.
type rows[T any, P record[T]] struct {
	db *gorm.DB
}

func (r *rows[T, P]) kind() entity.Kind {
	var zero T
	return P(&zero).Kind()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", appErrors.ErrStorage, op, err)
}

func notFound(kind entity.Kind, id uint) error {
	return fmt.Errorf("%w: %s reminder %d", appErrors.ErrNotFound, kind, id)
}

// take runs q and returns the single matching row, or nil when there is none.
func (r *rows[T, P]) take(q *gorm.DB, op string) (*T, error) {
	var row T
	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return &row, nil
}

// FindByID retrieves a reminder by its ID.
func (r *rows[T, P]) FindByID(ctx context.Context, id uint) (*T, error) {
	return r.take(r.db.WithContext(ctx).Where("id = ?", id),
		fmt.Sprintf("find %s reminder %d", r.kind(), id))
}

func (r *rows[T, P]) FindByMsgID(ctx context.Context, chatID int64, msgID int) (*T, error) {
	return r.take(r.db.WithContext(ctx).Where("chat_id = ? AND msg_id = ?", chatID, msgID).Order("id desc"),
		fmt.Sprintf("find %s reminder by msg_id %d", r.kind(), msgID))
}

func (r *rows[T, P]) FindByReplyID(ctx context.Context, chatID int64, replyID int) (*T, error) {
	return r.take(r.db.WithContext(ctx).Where("chat_id = ? AND reply_id = ?", chatID, replyID).Order("id desc"),
		fmt.Sprintf("find %s reminder by reply_id %d", r.kind(), replyID))
}

// FindActive retrieves the due set: unsent, unpaused and strictly before now.
func (r *rows[T, P]) FindActive(ctx context.Context, now time.Time) ([]*T, error) {
	var out []*T
	err := r.db.WithContext(ctx).
		Where("sent = ? AND paused = ? AND time < ?", false, false, now.UTC()).
		Order("time asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, storageErr(fmt.Sprintf("find active %s reminders", r.kind()), err)
	}
	return out, nil
}

// FindPendingByChat retrieves every unsent reminder of a chat, paused ones included.
func (r *rows[T, P]) FindPendingByChat(ctx context.Context, chatID int64) ([]*T, error) {
	var out []*T
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND sent = ?", chatID, false).
		Order("time asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, storageErr(fmt.Sprintf("find pending %s reminders of chat %d", r.kind(), chatID), err)
	}
	return out, nil
}

// Create inserts the reminder in its initial state and returns the new ID.
func (r *rows[T, P]) Create(ctx context.Context, row *T) (uint, error) {
	c := P(row).Fields()
	c.ID = 0
	c.Time = c.Time.UTC()
	c.Sent = false
	c.Paused = false
	c.Edit = false
	c.EditMode = constant.EditModeNone
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, storageErr(fmt.Sprintf("create %s reminder for chat %d", r.kind(), c.ChatID), err)
	}
	return c.ID, nil
}

// Delete removes the reminder; a missing row is not an error.
func (r *rows[T, P]) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return storageErr(fmt.Sprintf("delete %s reminder %d", r.kind(), id), err)
	}
	return nil
}

// update applies values to one row and reports ErrNotFound when nothing matched.
func (r *rows[T, P]) update(db *gorm.DB, id uint, values map[string]any, op string) error {
	res := db.Model(new(T)).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return storageErr(fmt.Sprintf("%s %s reminder %d", op, r.kind(), id), res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(r.kind(), id)
	}
	return nil
}

// SetEdit clears the edit slot of the chat in both tables and gives it to this
// unsent reminder with the given mode, inside one immediate transaction.
func (r *rows[T, P]) SetEdit(ctx context.Context, id uint, chatID int64, mode constant.EditMode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearEdit(tx, chatID); err != nil {
			return err
		}
		res := tx.Model(new(T)).
			Where("id = ? AND chat_id = ? AND sent = ?", id, chatID, false).
			Updates(map[string]any{"edit": true, "edit_mode": mode.Int()})
		if res.Error != nil {
			return storageErr(fmt.Sprintf("set edit on %s reminder %d", r.kind(), id), res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(r.kind(), id)
		}
		return verifyEditSlot(tx, chatID)
	})
}

func (r *rows[T, P]) CommitDescription(ctx context.Context, id uint, desc string) error {
	return r.update(r.db.WithContext(ctx), id, map[string]any{
		"description": desc,
		"edit":        false,
		"edit_mode":   constant.EditModeNone.Int(),
	}, "commit description of")
}

// TogglePaused flips paused against the current row and returns the new value.
func (r *rows[T, P]) TogglePaused(ctx context.Context, id uint) (bool, error) {
	var paused bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.take(tx.Where("id = ?", id), fmt.Sprintf("find %s reminder %d", r.kind(), id))
		if err != nil {
			return err
		}
		if row == nil {
			return notFound(r.kind(), id)
		}
		paused = !P(row).Fields().Paused
		return r.update(tx, id, map[string]any{"paused": paused}, "toggle paused on")
	})
	if err != nil {
		return false, err
	}
	return paused, nil
}

// MarkSent sets sent and releases the edit slot if the reminder held it.
// Marking an already sent reminder is a no-op.
func (r *rows[T, P]) MarkSent(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.take(tx.Where("id = ?", id), fmt.Sprintf("find %s reminder %d", r.kind(), id))
		if err != nil {
			return err
		}
		if row == nil {
			return notFound(r.kind(), id)
		}
		if P(row).Fields().Sent {
			return nil
		}
		return r.update(tx, id, map[string]any{
			"sent":      true,
			"edit":      false,
			"edit_mode": constant.EditModeNone.Int(),
		}, "mark sent")
	})
}

func (r *rows[T, P]) SetMsgID(ctx context.Context, id uint, msgID int) error {
	return r.update(r.db.WithContext(ctx), id, map[string]any{"msg_id": msgID}, "set msg_id on")
}

func (r *rows[T, P]) SetReplyID(ctx context.Context, id uint, replyID int) error {
	return r.update(r.db.WithContext(ctx), id, map[string]any{"reply_id": replyID}, "set reply_id on")
}
