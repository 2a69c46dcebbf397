package service

import (
	"context"
	"time"
)

// CycleReport summarises one dispatch cycle.
type CycleReport struct {
	Due         int // Reminders found due
	Delivered   int // Notifications the transport accepted
	Failed      int // Delivery attempts that failed
	Rescheduled int // Cron reminders moved to their next occurrence
	Frozen      int // Cron reminders marked sent because their expression no longer yields a time
	Dropped     int // Reminders given up on after too many failed deliveries
}

// DispatchService defines the interface for delivering due reminders.
type DispatchService interface {
	// RunCycle delivers every reminder due before now. Failures are isolated per
	// reminder; the returned error joins all of them.
	RunCycle(ctx context.Context, now time.Time) (CycleReport, error)
	// Start runs a cycle on every poll interval until Stop.
	Start(ctx context.Context) error
	// Stop halts the polling and waits for a running cycle to finish.
	Stop()
}
