package handler

import (
	"fmt"
	"net/http"

	"remindee/internal/application/dto"
	"remindee/internal/application/service"
	appErrors "remindee/internal/pkg/errors"
	"remindee/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TimezoneHandler serves per-user timezone settings.
type TimezoneHandler struct {
	timezoneService service.TimezoneService
	log             logger.Logger
}

// NewTimezoneHandler creates a new TimezoneHandler.
func NewTimezoneHandler(timezoneService service.TimezoneService, log logger.Logger) *TimezoneHandler {
	return &TimezoneHandler{
		timezoneService: timezoneService,
		log:             log,
	}
}

// Get handles GET /users/:user/timezone.
func (h *TimezoneHandler) Get(c echo.Context) error {
	userID, err := int64Param(c, "user")
	if err != nil {
		return badRequest(c, "%v", err)
	}
	name, ok, err := h.timezoneService.GetTimezone(c.Request().Context(), userID)
	if err != nil {
		return fail(c, h.log, err)
	}
	if !ok {
		return fail(c, h.log, fmt.Errorf("%w: no timezone for user %d", appErrors.ErrNotFound, userID))
	}
	return c.JSON(http.StatusOK, dto.TimezoneResponse{UserID: userID, Timezone: name})
}

// Set handles PUT /users/:user/timezone.
func (h *TimezoneHandler) Set(c echo.Context) error {
	userID, err := int64Param(c, "user")
	if err != nil {
		return badRequest(c, "%v", err)
	}
	var req dto.TimezoneRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.timezoneService.SetTimezone(c.Request().Context(), userID, req.Timezone); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto.TimezoneResponse{UserID: userID, Timezone: req.Timezone})
}
