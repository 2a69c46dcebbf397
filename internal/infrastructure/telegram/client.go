package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"remindee/internal/application/service"
	"remindee/internal/pkg/logger"

	tele "gopkg.in/telebot.v4"
)

// recurringMark prefixes notifications of cron reminders.
const recurringMark = "🔁 "

// Settings configures the Telegram client.
type Settings struct {
	Token       string
	URL         string // Bot API endpoint; empty for the public one
	PollTimeout time.Duration
	Offline     bool // Skip the getMe handshake
}

// Client delivers reminder notifications through the Telegram Bot API.
type Client struct {
	bot *tele.Bot
	log logger.Logger
}

var _ service.Notifier = (*Client)(nil)

// NewClient creates a Telegram bot client.
func NewClient(s Settings, log logger.Logger) (*Client, error) {
	if strings.TrimSpace(s.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	timeout := s.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		URL:     s.URL,
		Token:   s.Token,
		Poller:  &tele.LongPoller{Timeout: timeout},
		Offline: s.Offline,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Info(fmt.Sprintf("Telegram bot client ready (%s)", b.Me.Username))
	return &Client{bot: b, log: log}, nil
}

// Notify sends the reminder to its chat, threaded under the origin message when
// there is one, and returns the id of the sent message.
func (c *Client) Notify(ctx context.Context, n service.Notification) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	opts := &tele.SendOptions{AllowWithoutReply: true}
	if n.ReplyTo != nil {
		opts.ReplyTo = &tele.Message{ID: *n.ReplyTo}
	}
	msg, err := c.bot.Send(&tele.Chat{ID: n.ChatID}, Text(n), opts)
	if err != nil {
		return 0, fmt.Errorf("telegram send to chat %d: %w", n.ChatID, err)
	}
	c.log.Debug(fmt.Sprintf("Sent message %d to chat %d", msg.ID, n.ChatID))
	return msg.ID, nil
}

// Text renders the notification body.
func Text(n service.Notification) string {
	if n.Recurring {
		return recurringMark + n.Description
	}
	return n.Description
}
