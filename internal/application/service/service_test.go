package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"remindee/internal/domain/repository"
	"remindee/internal/infrastructure/database/sqlite"
	"remindee/internal/infrastructure/scheduler"
	"remindee/internal/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}

type fixture struct {
	db        *gorm.DB
	reminders repository.ReminderRepository
	crons     repository.CronReminderRepository
	edits     repository.EditRepository
	timezones TimezoneService
	notifier  *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "remindee.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	return &fixture{
		db:        db,
		reminders: sqlite.NewReminderRepository(db),
		crons:     sqlite.NewCronReminderRepository(db),
		edits:     sqlite.NewEditRepository(db),
		timezones: NewTimezoneService(sqlite.NewTimezoneRepository(db), logger.Nop()),
		notifier:  &fakeNotifier{nextID: 100},
	}
}

func (f *fixture) reminderService(now time.Time) ReminderService {
	return NewReminderService(f.reminders, f.crons, f.edits, f.timezones, fixedClock(now), logger.Nop())
}

func (f *fixture) dispatcher(cfg DispatchConfig) DispatchService {
	return NewDispatchService(scheduler.NewScheduler(logger.Nop()), f.reminders, f.crons, f.timezones,
		f.notifier, SystemClock, cfg, logger.Nop())
}

// fakeNotifier records notifications and fails those its fail func rejects.
type fakeNotifier struct {
	mu     sync.Mutex
	sent   []Notification
	fail   func(Notification) bool
	nextID int
}

var errTransport = errors.New("transport down")

func (n *fakeNotifier) Notify(_ context.Context, msg Notification) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail != nil && n.fail(msg) {
		return 0, errTransport
	}
	n.sent = append(n.sent, msg)
	n.nextID++
	return n.nextID, nil
}

func (n *fakeNotifier) delivered() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}

func intPtr(v int) *int { return &v }

// breakTimezones makes every timezone read fail until the returned func restores the table.
func (f *fixture) breakTimezones(t *testing.T) (restore func()) {
	t.Helper()
	require.NoError(t, f.db.Exec("ALTER TABLE user_timezone RENAME TO user_timezone_moved").Error)
	return func() {
		require.NoError(t, f.db.Exec("ALTER TABLE user_timezone_moved RENAME TO user_timezone").Error)
	}
}
