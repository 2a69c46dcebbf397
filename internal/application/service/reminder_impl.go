package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"remindee/internal/application/dto"
	"remindee/internal/domain/constant"
	"remindee/internal/domain/entity"
	"remindee/internal/domain/repository"
	"remindee/internal/infrastructure/scheduler"
	appErrors "remindee/internal/pkg/errors"
	"remindee/internal/pkg/logger"
)

// kindOps is the part of the reminder repositories that does not depend on the row type.
type kindOps interface {
	Delete(ctx context.Context, id uint) error
	SetEdit(ctx context.Context, id uint, chatID int64, mode constant.EditMode) error
	CommitDescription(ctx context.Context, id uint, desc string) error
	TogglePaused(ctx context.Context, id uint) (bool, error)
	SetMsgID(ctx context.Context, id uint, msgID int) error
	SetReplyID(ctx context.Context, id uint, replyID int) error
}

type reminderService struct {
	reminderRepo repository.ReminderRepository
	cronRepo     repository.CronReminderRepository
	editRepo     repository.EditRepository
	timezoneSvc  TimezoneService
	now          Clock
	log          logger.Logger
}

// NewReminderService creates a new instance of ReminderService implementation.
func NewReminderService(
	reminderRepo repository.ReminderRepository,
	cronRepo repository.CronReminderRepository,
	editRepo repository.EditRepository,
	timezoneSvc TimezoneService,
	now Clock,
	log logger.Logger,
) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		cronRepo:     cronRepo,
		editRepo:     editRepo,
		timezoneSvc:  timezoneSvc,
		now:          now,
		log:          log,
	}
}

func (s *reminderService) ops(kind entity.Kind) kindOps {
	if kind == entity.KindCron {
		return s.cronRepo
	}
	return s.reminderRepo
}

// find loads a reminder of either kind. Rows of other chats are reported as missing.
func (s *reminderService) find(ctx context.Context, chatID int64, kind entity.Kind, id uint) (entity.GenericReminder, error) {
	var (
		found entity.GenericReminder
		err   error
	)
	if kind == entity.KindCron {
		found, err = wrap[entity.CronReminder](s.cronRepo.FindByID(ctx, id))
	} else {
		found, err = wrap[entity.Reminder](s.reminderRepo.FindByID(ctx, id))
	}
	if err != nil {
		return nil, err
	}
	if found == nil || found.GetChatID() != chatID {
		return nil, fmt.Errorf("%w: %s reminder %d in chat %d", appErrors.ErrNotFound, kind, id, chatID)
	}
	return found, nil
}

func validDescription(desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", fmt.Errorf("%w: empty description", appErrors.ErrInvalidReminder)
	}
	return desc, nil
}

// CreateReminder creates a one-shot reminder.
func (s *reminderService) CreateReminder(ctx context.Context, req dto.CreateReminderRequest) (uint, error) {
	desc, err := validDescription(req.Description)
	if err != nil {
		return 0, err
	}
	if req.Time.IsZero() {
		return 0, fmt.Errorf("%w: missing time", appErrors.ErrInvalidReminder)
	}
	rem := &entity.Reminder{Common: entity.Common{
		ChatID: req.ChatID,
		Time:   req.Time,
		Desc:   desc,
		MsgID:  req.MsgID,
	}}
	id, err := s.reminderRepo.Create(ctx, rem)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to create reminder for chat %d", req.ChatID), err)
		return 0, err
	}
	s.log.Info(fmt.Sprintf("Created reminder %d for chat %d at %s", id, req.ChatID, rem.Time.Format("2006-01-02 15:04:05")))
	return id, nil
}

// firstOccurrence returns the next trigger of expr after now in the chat's timezone.
func (s *reminderService) firstOccurrence(ctx context.Context, chatID int64, expr string) (time.Time, error) {
	if err := scheduler.ValidateCron(expr); err != nil {
		return time.Time{}, err
	}
	loc, err := s.timezoneSvc.Location(ctx, chatID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to read timezone of chat %d", chatID), err)
		return time.Time{}, err
	}
	return scheduler.NextOccurrence(expr, s.now().In(loc))
}

// CreateCronReminder creates a recurring reminder. Its first trigger is the
// next occurrence after now in the chat's timezone.
func (s *reminderService) CreateCronReminder(ctx context.Context, req dto.CreateCronReminderRequest) (uint, error) {
	desc, err := validDescription(req.Description)
	if err != nil {
		return 0, err
	}
	expr := strings.TrimSpace(req.CronExpr)
	next, err := s.firstOccurrence(ctx, req.ChatID, expr)
	if err != nil {
		return 0, err
	}
	rem := &entity.CronReminder{
		Common: entity.Common{
			ChatID: req.ChatID,
			Time:   next,
			Desc:   desc,
			MsgID:  req.MsgID,
		},
		CronExpr: expr,
	}
	id, err := s.cronRepo.Create(ctx, rem)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to create cron reminder for chat %d", req.ChatID), err)
		return 0, err
	}
	s.log.Info(fmt.Sprintf("Created cron reminder %d (%s) for chat %d, first at %s", id, expr, req.ChatID, next.Format("2006-01-02 15:04:05")))
	return id, nil
}

func (s *reminderService) ListReminders(ctx context.Context, chatID int64, filter dto.ListFilter) ([]dto.ReminderResponse, error) {
	list, err := s.editRepo.FindSortedPending(ctx, chatID, filter.ExcludeOneShot, filter.ExcludeCron)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to list reminders of chat %d", chatID), err)
		return nil, err
	}
	return dto.ToReminderResponseList(list), nil
}

func (s *reminderService) GetReminder(ctx context.Context, chatID int64, kind entity.Kind, id uint) (dto.ReminderResponse, error) {
	rem, err := s.find(ctx, chatID, kind, id)
	if err != nil {
		return dto.ReminderResponse{}, err
	}
	return dto.ToReminderResponse(rem), nil
}

func (s *reminderService) TogglePause(ctx context.Context, chatID int64, kind entity.Kind, id uint) (bool, error) {
	if _, err := s.find(ctx, chatID, kind, id); err != nil {
		return false, err
	}
	paused, err := s.ops(kind).TogglePaused(ctx, id)
	if err != nil {
		return false, err
	}
	s.log.Info(fmt.Sprintf("%s reminder %d of chat %d paused=%t", kind, id, chatID, paused))
	return paused, nil
}

func (s *reminderService) DeleteReminder(ctx context.Context, chatID int64, kind entity.Kind, id uint) error {
	if _, err := s.find(ctx, chatID, kind, id); err != nil {
		return err
	}
	if err := s.ops(kind).Delete(ctx, id); err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete %s reminder %d", kind, id), err)
		return err
	}
	s.log.Info(fmt.Sprintf("Deleted %s reminder %d of chat %d", kind, id, chatID))
	return nil
}

func (s *reminderService) BeginEdit(ctx context.Context, req dto.EditRequest) error {
	mode, ok := constant.ParseEditMode(req.Mode)
	if !ok {
		return fmt.Errorf("%w: unknown edit mode %q", appErrors.ErrInvalidEditInput, req.Mode)
	}
	return s.ops(req.Kind).SetEdit(ctx, req.ID, req.ChatID, mode)
}

func (s *reminderService) SelectEditField(ctx context.Context, chatID int64, mode string) error {
	m, ok := constant.ParseEditMode(mode)
	if !ok {
		return fmt.Errorf("%w: unknown edit mode %q", appErrors.ErrInvalidEditInput, mode)
	}
	current, err := s.editRepo.FindEdit(ctx, chatID)
	if err != nil {
		return err
	}
	if current == nil {
		return appErrors.ErrNoEditInProgress
	}
	return s.editRepo.SetEditMode(ctx, chatID, m)
}

func (s *reminderService) CancelEdit(ctx context.Context, chatID int64) error {
	return s.editRepo.ResetEdit(ctx, chatID)
}

// ApplyEdit commits input to the reminder in the chat's edit slot. A description
// edit takes Text; a time edit takes Time for one-shot reminders and a new cron
// expression in Text for recurring ones.
func (s *reminderService) ApplyEdit(ctx context.Context, chatID int64, input dto.EditInput) (dto.ReminderResponse, error) {
	current, err := s.editRepo.FindEdit(ctx, chatID)
	if err != nil {
		return dto.ReminderResponse{}, err
	}
	if current == nil {
		return dto.ReminderResponse{}, appErrors.ErrNoEditInProgress
	}
	_, mode := current.EditSlot()
	id, kind := current.GetID(), current.Kind()

	switch {
	case mode == constant.EditModeDescription:
		desc := strings.TrimSpace(input.Text)
		if desc == "" {
			return dto.ReminderResponse{}, fmt.Errorf("%w: empty description", appErrors.ErrInvalidEditInput)
		}
		err = s.ops(kind).CommitDescription(ctx, id, desc)
	case mode == constant.EditModeTime && kind == entity.KindCron:
		expr := strings.TrimSpace(input.Text)
		if expr == "" {
			return dto.ReminderResponse{}, fmt.Errorf("%w: empty cron expression", appErrors.ErrInvalidEditInput)
		}
		next, perr := s.firstOccurrence(ctx, chatID, expr)
		if perr != nil {
			return dto.ReminderResponse{}, perr
		}
		err = s.cronRepo.CommitCronExpr(ctx, id, expr, next)
	case mode == constant.EditModeTime:
		if input.Time.IsZero() {
			return dto.ReminderResponse{}, fmt.Errorf("%w: missing time", appErrors.ErrInvalidEditInput)
		}
		err = s.reminderRepo.CommitTime(ctx, id, input.Time)
	default:
		return dto.ReminderResponse{}, fmt.Errorf("%w: no field selected", appErrors.ErrInvalidEditInput)
	}
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to apply %s edit to %s reminder %d", mode, kind, id), err)
		return dto.ReminderResponse{}, err
	}
	s.log.Info(fmt.Sprintf("Applied %s edit to %s reminder %d of chat %d", mode, kind, id, chatID))
	return s.GetReminder(ctx, chatID, kind, id)
}

func (s *reminderService) AttachMessages(ctx context.Context, chatID int64, kind entity.Kind, id uint, req dto.MessageRefRequest) error {
	if req.MsgID == nil && req.ReplyID == nil {
		return fmt.Errorf("%w: no message reference", appErrors.ErrInvalidReminder)
	}
	if _, err := s.find(ctx, chatID, kind, id); err != nil {
		return err
	}
	ops := s.ops(kind)
	if req.MsgID != nil {
		if err := ops.SetMsgID(ctx, id, *req.MsgID); err != nil {
			return err
		}
	}
	if req.ReplyID != nil {
		if err := ops.SetReplyID(ctx, id, *req.ReplyID); err != nil {
			return err
		}
	}
	return nil
}

func (s *reminderService) FindByMessage(ctx context.Context, chatID int64, msgID int) (dto.ReminderResponse, error) {
	lookups := []func() (entity.GenericReminder, error){
		func() (entity.GenericReminder, error) {
			return wrap[entity.Reminder](s.reminderRepo.FindByMsgID(ctx, chatID, msgID))
		},
		func() (entity.GenericReminder, error) {
			return wrap[entity.CronReminder](s.cronRepo.FindByMsgID(ctx, chatID, msgID))
		},
		func() (entity.GenericReminder, error) {
			return wrap[entity.Reminder](s.reminderRepo.FindByReplyID(ctx, chatID, msgID))
		},
		func() (entity.GenericReminder, error) {
			return wrap[entity.CronReminder](s.cronRepo.FindByReplyID(ctx, chatID, msgID))
		},
	}
	for _, lookup := range lookups {
		rem, err := lookup()
		if err != nil {
			return dto.ReminderResponse{}, err
		}
		if rem != nil {
			return dto.ToReminderResponse(rem), nil
		}
	}
	return dto.ReminderResponse{}, fmt.Errorf("%w: no reminder for message %d in chat %d", appErrors.ErrNotFound, msgID, chatID)
}

// reminderRow is satisfied by *entity.Reminder and *entity.CronReminder.
type reminderRow[T any] interface {
	*T
	entity.GenericReminder
}

// wrap converts a typed lookup result into the interface without a typed nil.
func wrap[T any, P reminderRow[T]](row *T, err error) (entity.GenericReminder, error) {
	if err != nil || row == nil {
		return nil, err
	}
	return P(row), nil
}
