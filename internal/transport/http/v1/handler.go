// Package v1 provides the HTTP handlers for the chat API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hussleai/chatd/internal/i18n"
	"github.com/hussleai/chatd/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	catalog *i18n.Catalog
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, catalog *i18n.Catalog) *Handler {
	return &Handler{
		service: service,
		catalog: catalog,
	}
}

// RegisterRoutes registers the chat widget routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.PUT("/v1/sessions/:session_id/locale", h.SetLocale)

	e.POST("/v1/sessions/:session_id/messages", h.SendMessage)
	e.GET("/v1/sessions/:session_id/messages", h.GetMessages)
	e.DELETE("/v1/sessions/:session_id/messages", h.ClearMessages)

	e.GET("/v1/strings", h.GetStrings)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// locale picks the display locale for a request from the Accept-Language
// header; error notifications are localized with it when no session locale
// is at hand.
func (h *Handler) locale(c echo.Context) string {
	return h.catalog.Negotiate(c.Request().Header.Get("Accept-Language"))
}
