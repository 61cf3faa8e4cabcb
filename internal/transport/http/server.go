// Package http provides the HTTP server for the chat service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hussleai/chatd/internal/i18n"
	"github.com/hussleai/chatd/internal/service"
	v1 "github.com/hussleai/chatd/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server serving the chat widget.
func NewServer(svc *service.Service, catalog *i18n.Catalog) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc, catalog)
	v1Handler.RegisterRoutes(e)

	return e
}
