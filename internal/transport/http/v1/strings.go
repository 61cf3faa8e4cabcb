package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type stringsResponse struct {
	Locale  string            `json:"locale"`
	Strings map[string]string `json:"strings"`
}

// GetStrings returns the UI string table for a locale. The locale comes from
// ?lang= when present, otherwise from Accept-Language negotiation.
// GET /v1/strings
func (h *Handler) GetStrings(c echo.Context) error {
	locale := c.QueryParam("lang")
	if locale == "" {
		locale = h.locale(c)
	}
	if !h.catalog.Has(locale) {
		return c.JSON(http.StatusUnprocessableEntity, errorBody{
			Error: h.catalog.T(h.locale(c), "error.generic"),
			Kind:  "unsupported_locale",
		})
	}

	return c.JSON(http.StatusOK, stringsResponse{
		Locale:  locale,
		Strings: h.catalog.Table(locale),
	})
}
