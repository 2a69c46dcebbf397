package service

import (
	"context"
	"fmt"
	"time"

	"remindee/internal/pkg/logger"
)

// Clock supplies the current instant.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// Notification is what the dispatcher hands to the chat transport for one due reminder.
type Notification struct {
	ChatID      int64
	Description string
	Recurring   bool
	ReplyTo     *int // Message to thread the notification under, if known
}

// Notifier delivers notifications. It returns the id of the delivered message,
// or 0 when the transport has none.
type Notifier interface {
	Notify(ctx context.Context, n Notification) (msgID int, err error)
}

type logNotifier struct {
	log logger.Logger
}

// NewLogNotifier returns a Notifier that only logs. It stands in when no chat
// transport is configured.
func NewLogNotifier(log logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(ctx context.Context, msg Notification) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n.log.Info(fmt.Sprintf("Reminder for chat %d (recurring=%t): %s", msg.ChatID, msg.Recurring, msg.Description))
	return 0, nil
}
