package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // Zone database for hosts without one

	"remindee/internal/domain/repository"
	appErrors "remindee/internal/pkg/errors"
	"remindee/internal/pkg/logger"
)

type timezoneService struct {
	timezoneRepo repository.TimezoneRepository
	log          logger.Logger
}

// NewTimezoneService creates a new instance of TimezoneService implementation.
func NewTimezoneService(timezoneRepo repository.TimezoneRepository, log logger.Logger) TimezoneService {
	return &timezoneService{
		timezoneRepo: timezoneRepo,
		log:          log,
	}
}

func (s *timezoneService) SetTimezone(ctx context.Context, userID int64, name string) error {
	name = strings.TrimSpace(name)
	// LoadLocation maps "" to UTC and "Local" to the host zone; neither is a user choice.
	if name == "" || name == "Local" {
		return fmt.Errorf("%w: %q", appErrors.ErrInvalidTimezone, name)
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("%w: %q", appErrors.ErrInvalidTimezone, name)
	}
	if err := s.timezoneRepo.Upsert(ctx, userID, name); err != nil {
		s.log.Error(fmt.Sprintf("Failed to store timezone for user %d", userID), err)
		return err
	}
	s.log.Info(fmt.Sprintf("User %d timezone set to %s", userID, name))
	return nil
}

func (s *timezoneService) GetTimezone(ctx context.Context, userID int64) (string, bool, error) {
	return s.timezoneRepo.Get(ctx, userID)
}

func (s *timezoneService) Location(ctx context.Context, userID int64) (*time.Location, error) {
	name, ok, err := s.timezoneRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.log.Warn(fmt.Sprintf("Stored timezone %q of user %d does not load, using UTC", name, userID))
		return time.UTC, nil
	}
	return loc, nil
}
