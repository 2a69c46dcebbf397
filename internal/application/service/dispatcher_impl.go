package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"remindee/internal/domain/entity"
	"remindee/internal/domain/repository"
	"remindee/internal/infrastructure/scheduler"
	appErrors "remindee/internal/pkg/errors"
	"remindee/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// DispatchConfig tunes the dispatcher.
type DispatchConfig struct {
	PollInterval        time.Duration
	MaxDeliveryAttempts int // 0 retries forever
}

type attemptKey struct {
	kind entity.Kind
	id   uint
}

type dispatchService struct {
	cronScheduler *scheduler.Scheduler
	reminderRepo  repository.ReminderRepository
	cronRepo      repository.CronReminderRepository
	timezoneSvc   TimezoneService
	notifier      Notifier
	now           Clock
	cfg           DispatchConfig
	log           logger.Logger

	mu       sync.Mutex // Protects attempts and entryID
	attempts map[attemptKey]int
	entryID  cron.EntryID
}

// NewDispatchService creates a new instance of DispatchService implementation.
func NewDispatchService(
	cronScheduler *scheduler.Scheduler,
	reminderRepo repository.ReminderRepository,
	cronRepo repository.CronReminderRepository,
	timezoneSvc TimezoneService,
	notifier Notifier,
	now Clock,
	cfg DispatchConfig,
	log logger.Logger,
) DispatchService {
	return &dispatchService{
		cronScheduler: cronScheduler,
		reminderRepo:  reminderRepo,
		cronRepo:      cronRepo,
		timezoneSvc:   timezoneSvc,
		notifier:      notifier,
		now:           now,
		cfg:           cfg,
		log:           log,
		attempts:      make(map[attemptKey]int),
	}
}

// Start registers the poll job. Ticks that fire while a cycle is still running are skipped.
func (s *dispatchService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		return nil
	}
	spec := fmt.Sprintf("@every %s", s.cfg.PollInterval)
	id, err := s.cronScheduler.AddJob(spec, func() { s.tick(ctx) })
	if err != nil {
		return err
	}
	s.entryID = id
	s.cronScheduler.Start()
	s.log.Info(fmt.Sprintf("Dispatcher polling every %s", s.cfg.PollInterval))
	return nil
}

func (s *dispatchService) Stop() {
	s.mu.Lock()
	id := s.entryID
	s.entryID = 0
	s.mu.Unlock()

	if id != 0 {
		s.cronScheduler.RemoveJob(id)
	}
	s.cronScheduler.Stop()
}

func (s *dispatchService) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := s.RunCycle(ctx, s.now())
	if err != nil {
		s.log.Error(fmt.Sprintf("Dispatch cycle finished with errors: %+v", report), err)
		return
	}
	if report.Due > 0 {
		s.log.Info(fmt.Sprintf("Dispatch cycle: %+v", report))
	}
}

func (s *dispatchService) RunCycle(ctx context.Context, now time.Time) (CycleReport, error) {
	var (
		report CycleReport
		errs   []error
	)

	due, err := s.reminderRepo.FindActive(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}
	report.Due += len(due)
	for _, rem := range due {
		if err := s.dispatchOneShot(ctx, rem, &report); err != nil {
			errs = append(errs, err)
		}
	}

	cronDue, err := s.cronRepo.FindActive(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}
	report.Due += len(cronDue)
	for _, rem := range cronDue {
		if err := s.dispatchCron(ctx, rem, &report); err != nil {
			errs = append(errs, err)
		}
	}

	return report, errors.Join(errs...)
}

func notification(r entity.GenericReminder, replyTo *int) Notification {
	return Notification{
		ChatID:      r.GetChatID(),
		Description: r.Description(),
		Recurring:   r.IsCron(),
		ReplyTo:     replyTo,
	}
}

// failed records a failed delivery and reports whether the reminder has used up its attempts.
func (s *dispatchService) failed(key attemptKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[key]++
	if s.cfg.MaxDeliveryAttempts > 0 && s.attempts[key] >= s.cfg.MaxDeliveryAttempts {
		delete(s.attempts, key)
		return true
	}
	return false
}

func (s *dispatchService) delivered(key attemptKey) {
	s.mu.Lock()
	delete(s.attempts, key)
	s.mu.Unlock()
}

func (s *dispatchService) dispatchOneShot(ctx context.Context, rem *entity.Reminder, report *CycleReport) error {
	key := attemptKey{entity.KindOneShot, rem.ID}
	msgID, err := s.notifier.Notify(ctx, notification(rem, rem.MsgID))
	if err != nil {
		report.Failed++
		err = fmt.Errorf("deliver reminder %d to chat %d: %w", rem.ID, rem.ChatID, err)
		if !s.failed(key) {
			return err
		}
		s.log.Warn(fmt.Sprintf("Giving up on reminder %d after %d failed deliveries", rem.ID, s.cfg.MaxDeliveryAttempts))
		if mErr := s.reminderRepo.MarkSent(ctx, rem.ID); mErr != nil && !errors.Is(mErr, appErrors.ErrNotFound) {
			return errors.Join(err, mErr)
		}
		report.Dropped++
		return err
	}
	s.delivered(key)
	report.Delivered++

	if err := s.reminderRepo.MarkSent(ctx, rem.ID); err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			// Deleted while the notification was in flight.
			return nil
		}
		return err
	}
	s.log.Debug(fmt.Sprintf("Reminder %d delivered to chat %d", rem.ID, rem.ChatID))
	return s.storeReply(ctx, s.reminderRepo, rem.ID, msgID)
}

func (s *dispatchService) dispatchCron(ctx context.Context, rem *entity.CronReminder, report *CycleReport) error {
	// The zone is needed to advance the row after delivery. Without it the
	// reminder stays due and is retried next cycle rather than moved to a wrong instant.
	loc, err := s.timezoneSvc.Location(ctx, rem.ChatID)
	if err != nil {
		return fmt.Errorf("timezone of chat %d for cron reminder %d: %w", rem.ChatID, rem.ID, err)
	}

	key := attemptKey{entity.KindCron, rem.ID}
	msgID, err := s.notifier.Notify(ctx, notification(rem, rem.MsgID))
	if err != nil {
		report.Failed++
		err = fmt.Errorf("deliver cron reminder %d to chat %d: %w", rem.ID, rem.ChatID, err)
		if !s.failed(key) {
			return err
		}
		s.log.Warn(fmt.Sprintf("Skipping occurrence of cron reminder %d after %d failed deliveries", rem.ID, s.cfg.MaxDeliveryAttempts))
		report.Dropped++
		return errors.Join(err, s.advance(ctx, rem, loc, 0, report))
	}
	s.delivered(key)
	report.Delivered++
	return s.advance(ctx, rem, loc, msgID, report)
}

// advance moves a fired cron reminder to its next occurrence, computed from the
// instant that fired in loc. A row deleted, sent or given a new time while the
// notification was in flight is left alone; a paused row is still advanced.
func (s *dispatchService) advance(ctx context.Context, fired *entity.CronReminder, loc *time.Location, msgID int, report *CycleReport) error {
	current, err := s.cronRepo.FindByID(ctx, fired.ID)
	if err != nil {
		return err
	}
	if current == nil || current.Sent || !current.Time.Equal(fired.Time) {
		return nil
	}

	next, err := scheduler.NextOccurrence(current.CronExpr, fired.Time.In(loc))
	if err != nil {
		report.Frozen++
		s.log.Warn(fmt.Sprintf("Cron reminder %d has no next occurrence, marking it sent", current.ID))
		if mErr := s.cronRepo.MarkSent(ctx, current.ID); mErr != nil && !errors.Is(mErr, appErrors.ErrNotFound) {
			return errors.Join(fmt.Errorf("cron reminder %d: %w", current.ID, err), mErr)
		}
		return fmt.Errorf("cron reminder %d: %w", current.ID, err)
	}

	moved, err := s.cronRepo.Reschedule(ctx, current.ID, fired.Time, next)
	if err != nil {
		return err
	}
	if !moved {
		s.log.Debug(fmt.Sprintf("Cron reminder %d changed during delivery, keeping the new schedule", current.ID))
		return nil
	}
	report.Rescheduled++
	s.log.Debug(fmt.Sprintf("Cron reminder %d rescheduled to %s", current.ID, next.Format(time.RFC3339)))
	return s.storeReply(ctx, s.cronRepo, current.ID, msgID)
}

// storeReply records the delivered message so replies to it can be traced back.
func (s *dispatchService) storeReply(ctx context.Context, repo kindOps, id uint, msgID int) error {
	if msgID == 0 {
		return nil
	}
	if err := repo.SetReplyID(ctx, id, msgID); err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return err
	}
	return nil
}
