package repository

import "context"

// TimezoneRepository defines the interface for user timezone data operations.
type TimezoneRepository interface {
	// Get returns the user's timezone name and whether one is stored.
	Get(ctx context.Context, userID int64) (string, bool, error)
	// Upsert stores the user's timezone, replacing any previous one.
	Upsert(ctx context.Context, userID int64, timezone string) error
}
