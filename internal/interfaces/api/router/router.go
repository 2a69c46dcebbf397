package router

import (
	"fmt"
	"net/http"

	"remindee/internal/interfaces/api/handler"
	"remindee/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
type Config struct {
	ReminderHandler *handler.ReminderHandler
	TimezoneHandler *handler.TimezoneHandler
	Logger          logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Debug(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Routes
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	chats := e.Group("/chats/:chat")
	chats.GET("/reminders", cfg.ReminderHandler.List)
	chats.POST("/reminders", cfg.ReminderHandler.Create)
	chats.POST("/cron-reminders", cfg.ReminderHandler.CreateCron)
	chats.GET("/reminders/:kind/:id", cfg.ReminderHandler.Get)
	chats.DELETE("/reminders/:kind/:id", cfg.ReminderHandler.Delete)
	chats.POST("/reminders/:kind/:id/pause", cfg.ReminderHandler.TogglePause)
	chats.POST("/reminders/:kind/:id/edit", cfg.ReminderHandler.BeginEdit)
	chats.PUT("/reminders/:kind/:id/messages", cfg.ReminderHandler.AttachMessages)
	chats.GET("/messages/:msg", cfg.ReminderHandler.FindByMessage)
	chats.PUT("/edit", cfg.ReminderHandler.ApplyEdit)
	chats.PUT("/edit/mode", cfg.ReminderHandler.SelectEditField)
	chats.DELETE("/edit", cfg.ReminderHandler.CancelEdit)

	users := e.Group("/users/:user")
	users.GET("/timezone", cfg.TimezoneHandler.Get)
	users.PUT("/timezone", cfg.TimezoneHandler.Set)

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
