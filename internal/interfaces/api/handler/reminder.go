package handler

import (
	"net/http"
	"strconv"

	"remindee/internal/application/dto"
	"remindee/internal/application/service"
	"remindee/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReminderHandler serves the chat-scoped reminder endpoints.
type ReminderHandler struct {
	reminderService service.ReminderService
	log             logger.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService service.ReminderService, log logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		log:             log,
	}
}

// List handles GET /chats/:chat/reminders?only=oneshot|cron.
func (h *ReminderHandler) List(c echo.Context) error {
	chatID, err := int64Param(c, "chat")
	if err != nil {
		return badRequest(c, "%v", err)
	}
	var filter dto.ListFilter
	switch only := c.QueryParam("only"); only {
	case "":
	case "oneshot":
		filter.ExcludeCron = true
	case "cron":
		filter.ExcludeOneShot = true
	default:
		return badRequest(c, "invalid filter %q", only)
	}
	list, err := h.reminderService.ListReminders(c.Request().Context(), chatID, filter)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Create handles POST /chats/:chat/reminders.
func (h *ReminderHandler) Create(c echo.Context) error {
	chatID, err := int64Param(c, "chat")
	if err != nil {
		return badRequest(c, "%v", err)
	}
	var req dto.CreateReminderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.ChatID = chatID
	id, err := h.reminderService.CreateReminder(c.Request().Context(), req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return h.created(c, chatID, "oneshot", id)
}

// CreateCron handles POST /chats/:chat/cron-reminders.
func (h *ReminderHandler) CreateCron(c echo.Context) error {
	chatID, err := int64Param(c, "chat")
	if err != nil {
		return badRequest(c, "%v", err)
	}
	var req dto.CreateCronReminderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.ChatID = chatID
	id, err := h.reminderService.CreateCronReminder(c.Request().Context(), req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return h.created(c, chatID, "cron", id)
}

func (h *ReminderHandler) created(c echo.Context, chatID int64, kind string, id uint) error {
	c.Response().Header().Set(echo.HeaderLocation,
		"/chats/"+strconv.FormatInt(chatID, 10)+"/reminders/"+kind+"/"+strconv.FormatUint(uint64(id), 10))
	return c.JSON(http.StatusCreated, map[string]any{"id": id, "kind": kind})
}

// Get handles GET /chats/:chat/reminders/:kind/:id.
func (h *ReminderHandler) Get(c echo.Context) error {
	chatID, kind, id, err := target(c)
	if err != nil {
		return badRequest(c, "%v", err)
	}
	rem, err := h.reminderService.GetReminder(c.Request().Context(), chatID, kind, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rem)
}

// Delete handles DELETE /chats/:chat/reminders/:kind/:id.
func (h *ReminderHandler) Delete(c echo.Context) error {
	chatID, kind, id, err := target(c)
	if err != nil {
		return badRequest(c, "%v", err)
	}
	if err := h.reminderService.DeleteReminder(c.Request().Context(), chatID, kind, id); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TogglePause handles POST /chats/:chat/reminders/:kind/:id/pause.
func (h *ReminderHandler) TogglePause(c echo.Context) error {
	chatID, kind, id, err := target(c)
	if err != nil {
		return badRequest(c, "%v", err)
	}
	paused, err := h.reminderService.TogglePause(c.Request().Context(), chatID, kind, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"paused": paused})
}

// BeginEdit handles POST /chats/:chat/reminders/:kind/:id/edit.
func (h *ReminderHandler) BeginEdit(c echo.Context) error {
	chatID, kind, id, err := target(c)
	if err != nil {
		return badRequest(c, "%v", err)
	}
	var req dto.EditRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
	}
	req.ChatID, req.Kind, req.ID = chatID, kind, id
	if err := h.reminderService.BeginEdit(c.Request().Context(), req); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SelectEditField handles PUT /chats/:chat/edit/mode.
func (h *ReminderHandler) SelectEditField(c echo.Context) error {
	chatID, err := int64Param(c, "chat")
	if err != nil {
		return badRequest(c, "%v", err)
	}
	var req dto.EditModeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.reminderService.SelectEditField(c.Request().Context(), chatID, req.Mode); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CancelEdit handles DELETE /chats/:chat/edit.
func (h *ReminderHandler) CancelEdit(c echo.Context) error {
	chatID, err := int64Param(c, "chat")
	if err != nil {
		return badRequest(c, "%v", err)
	}
	if err := h.reminderService.CancelEdit(c.Request().Context(), chatID); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ApplyEdit handles PUT /chats/:chat/edit.
func (h *ReminderHandler) ApplyEdit(c echo.Context) error {
	chatID, err := int64Param(c, "chat")
	if err != nil {
		return badRequest(c, "%v", err)
	}
	var input dto.EditInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "invalid body")
	}
	rem, err := h.reminderService.ApplyEdit(c.Request().Context(), chatID, input)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rem)
}

// AttachMessages handles PUT /chats/:chat/reminders/:kind/:id/messages.
func (h *ReminderHandler) AttachMessages(c echo.Context) error {
	chatID, kind, id, err := target(c)
	if err != nil {
		return badRequest(c, "%v", err)
	}
	var req dto.MessageRefRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.reminderService.AttachMessages(c.Request().Context(), chatID, kind, id, req); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// FindByMessage handles GET /chats/:chat/messages/:msg.
func (h *ReminderHandler) FindByMessage(c echo.Context) error {
	chatID, err := int64Param(c, "chat")
	if err != nil {
		return badRequest(c, "%v", err)
	}
	msgID, err := strconv.Atoi(c.Param("msg"))
	if err != nil {
		return badRequest(c, "invalid msg %q", c.Param("msg"))
	}
	rem, err := h.reminderService.FindByMessage(c.Request().Context(), chatID, msgID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rem)
}
