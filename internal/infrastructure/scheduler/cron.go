package scheduler

import (
	"fmt"
	"strings"
	"sync"

	"remindee/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron jobs. Every job runs under SkipIfStillRunning: a
// trigger that fires while the previous run is still busy is dropped, not queued.
type Scheduler struct {
	cron    *cron.Cron
	log     logger.Logger
	mu      sync.Mutex // To protect access to job management
	started bool
}

// NewScheduler creates a stopped scheduler. Specs accept an optional seconds
// field and descriptors such as "@every 1s".
func NewScheduler(log logger.Logger) *Scheduler {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{cron: c, log: log}
}

// AddJob adds a new job to the scheduler.
// Returns the EntryID of the added job and an error if any.
func (s *Scheduler) AddJob(spec string, cmd func()) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, cmd)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to add cron job with spec %q", spec), err)
		return 0, fmt.Errorf("failed to add cron job: %w", err)
	}
	s.log.Debug(fmt.Sprintf("Added cron job with ID %d, spec: %s", id, spec))
	return id, nil
}

// RemoveJob removes a job from the scheduler by its EntryID.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(id)
	s.log.Debug(fmt.Sprintf("Removed cron job with ID %d", id))
}

// Start begins firing jobs. Starting twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.cron.Start()
	s.started = true
	s.log.Info("Cron scheduler started.")
}

// Stop stops the cron scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	ctx := s.cron.Stop()
	s.mu.Unlock()

	<-ctx.Done()
	s.log.Info("Cron scheduler stopped.")
}

// cronLogger adapts logger.Logger to cron.Logger. Routine cron chatter
// (including skipped ticks) is logged at debug level.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(formatKV(msg, keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(formatKV(msg, keysAndValues), err)
}

func formatKV(msg string, keysAndValues []interface{}) string {
	if len(keysAndValues) == 0 {
		return "cron: " + msg
	}
	var b strings.Builder
	b.WriteString("cron: ")
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}
