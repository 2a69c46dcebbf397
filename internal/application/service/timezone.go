package service

import (
	"context"
	"time"
)

// TimezoneService defines the interface for per-user timezone settings.
type TimezoneService interface {
	// SetTimezone validates an IANA timezone name and stores it for the user.
	SetTimezone(ctx context.Context, userID int64, name string) error
	// GetTimezone returns the stored timezone name and whether one is set.
	GetTimezone(ctx context.Context, userID int64) (string, bool, error)
	// Location resolves the user's timezone. A user without one, or with a name
	// that no longer loads, gets UTC; storage failures are returned.
	Location(ctx context.Context, userID int64) (*time.Location, error)
}
