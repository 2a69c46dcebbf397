package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"remindee/internal/domain/entity"
	appErrors "remindee/internal/pkg/errors"
	"remindee/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusOf maps application errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErrors.ErrNoEditInProgress):
		return http.StatusConflict
	case errors.Is(err, appErrors.ErrInvalidReminder),
		errors.Is(err, appErrors.ErrInvalidEditInput),
		errors.Is(err, appErrors.ErrInvalidTimezone),
		errors.Is(err, appErrors.ErrCronParse):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c echo.Context, log logger.Logger, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error(fmt.Sprintf("%s %s failed", c.Request().Method, c.Path()), err)
		return c.JSON(status, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}

func badRequest(c echo.Context, format string, args ...any) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf(format, args...)})
}

func int64Param(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, c.Param(name))
	}
	return v, nil
}

// target parses the :chat, :kind and :id path parameters.
func target(c echo.Context) (chatID int64, kind entity.Kind, id uint, err error) {
	if chatID, err = int64Param(c, "chat"); err != nil {
		return 0, 0, 0, err
	}
	kind, ok := entity.ParseKind(c.Param("kind"))
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid kind %q", c.Param("kind"))
	}
	n, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return chatID, kind, uint(n), nil
}
