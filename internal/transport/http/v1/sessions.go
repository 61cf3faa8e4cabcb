package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type createSessionRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Locale string `json:"locale"`
}

// CreateSession starts a new chat session after user identification.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: h.catalog.T(h.locale(c), "error.generic"), Kind: "bad_request"})
	}
	if req.Locale == "" {
		req.Locale = h.locale(c)
	}

	session, err := h.service.CreateSession(c.Request().Context(), req.Name, req.Email, req.Locale)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// GetSession returns the session snapshot.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

type setLocaleRequest struct {
	Locale string `json:"locale"`
}

// SetLocale switches the session locale.
// PUT /v1/sessions/:session_id/locale
func (h *Handler) SetLocale(c echo.Context) error {
	var req setLocaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: h.catalog.T(h.locale(c), "error.generic"), Kind: "bad_request"})
	}

	session, err := h.service.SetLocale(c.Request().Context(), c.Param("session_id"), req.Locale)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, session)
}
