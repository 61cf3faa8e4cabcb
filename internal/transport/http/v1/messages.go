package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hussleai/chatd/internal/domain"
)

type sendMessageRequest struct {
	Content string `json:"content"`
}

type sendMessageResponse struct {
	UserMessage      *domain.Message `json:"user_message"`
	AssistantMessage *domain.Message `json:"assistant_message"`
}

// SendMessage runs one conversation turn.
// POST /v1/sessions/:session_id/messages
func (h *Handler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: h.catalog.T(h.locale(c), "error.generic"), Kind: "bad_request"})
	}

	userMsg, assistantMsg, err := h.service.SendMessage(c.Request().Context(), c.Param("session_id"), req.Content)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, sendMessageResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	})
}

// GetMessages returns the session log in conversation order. An optional
// ?limit=N truncates the log to its first N messages.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetMessages(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, errorBody{Error: h.catalog.T(h.locale(c), "error.generic"), Kind: "bad_request"})
		}
		limit = n
	}

	messages, err := h.service.GetMessages(c.Request().Context(), c.Param("session_id"), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]domain.Message{
		"messages": messages,
	})
}

// ClearMessages empties the log and detaches the remote thread.
// DELETE /v1/sessions/:session_id/messages
func (h *Handler) ClearMessages(c echo.Context) error {
	if err := h.service.ClearSession(c.Request().Context(), c.Param("session_id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
