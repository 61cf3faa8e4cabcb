package v1

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hussleai/chatd/internal/assistant"
	"github.com/hussleai/chatd/internal/service"
)

type errorBody struct {
	// Error carries a generic, localized user-facing message. The specific
	// failure detail goes to the log only.
	Error string `json:"error"`
	// Kind is a stable machine-readable failure category.
	Kind string `json:"kind"`
}

// classify maps a failure to an HTTP status and a kind label.
func classify(err error) (int, string) {
	var runFailed *assistant.RunFailedError
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		return http.StatusUnprocessableEntity, "validation"
	case errors.Is(err, service.ErrMessageRejected):
		return http.StatusUnprocessableEntity, "rejected"
	case errors.Is(err, service.ErrUnsupportedLocale):
		return http.StatusUnprocessableEntity, "unsupported_locale"
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, service.ErrSessionCleared):
		return http.StatusConflict, "cleared"
	case errors.Is(err, assistant.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.As(err, &runFailed):
		return http.StatusBadGateway, "run_failed"
	case errors.Is(err, assistant.ErrEmptyReply),
		errors.Is(err, assistant.ErrThreadCreationFailed),
		errors.Is(err, assistant.ErrWriteFailed),
		errors.Is(err, assistant.ErrRunCreationFailed):
		return http.StatusBadGateway, "upstream"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// fail logs the failure detail and answers with the generic localized
// notification. Every failure outcome collapses to this single shape; the
// session stays usable and the user may simply try again.
func (h *Handler) fail(c echo.Context, err error) error {
	status, kind := classify(err)
	log.Printf("ERROR: %s %s failed (%s): %v", c.Request().Method, c.Path(), kind, err)
	return c.JSON(status, errorBody{
		Error: h.catalog.T(h.locale(c), "error.generic"),
		Kind:  kind,
	})
}
