package sqlite

import (
	"context"
	"errors"
	"fmt"

	"remindee/internal/domain/entity"
	"remindee/internal/domain/repository"

	"gorm.io/gorm"
)

type timezoneRepository struct {
	db *gorm.DB
}

// NewTimezoneRepository creates a new instance of TimezoneRepository.
func NewTimezoneRepository(db *gorm.DB) repository.TimezoneRepository {
	return &timezoneRepository{db: db}
}

func findTimezone(db *gorm.DB, userID int64) (*entity.UserTimezone, error) {
	var tz entity.UserTimezone
	if err := db.Where("user_id = ?", userID).Take(&tz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(fmt.Sprintf("find timezone of user %d", userID), err)
	}
	return &tz, nil
}

// Get returns the user's timezone name and whether one is stored.
func (r *timezoneRepository) Get(ctx context.Context, userID int64) (string, bool, error) {
	tz, err := findTimezone(r.db.WithContext(ctx), userID)
	if err != nil || tz == nil {
		return "", false, err
	}
	return tz.Timezone, true, nil
}

// Upsert inserts the user's timezone or updates the existing row in place.
func (r *timezoneRepository) Upsert(ctx context.Context, userID int64, timezone string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findTimezone(tx, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := tx.Create(&entity.UserTimezone{UserID: userID, Timezone: timezone}).Error; err != nil {
				return storageErr(fmt.Sprintf("insert timezone of user %d", userID), err)
			}
			return nil
		}
		err = tx.Model(&entity.UserTimezone{}).Where("user_id = ?", userID).Update("timezone", timezone).Error
		if err != nil {
			return storageErr(fmt.Sprintf("update timezone of user %d", userID), err)
		}
		return nil
	})
}
