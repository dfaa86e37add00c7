package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Metrics returns the scalar KPIs for the requested range.
func (h *Handler) Metrics(c echo.Context) error {
	r, err := parseRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid range"})
	}
	m, err := h.analytics.Metrics(c.Request().Context(), r)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, m)
}

// ChartData returns every breakdown and time series for the requested
// range. The locale query parameter drives geo/language display names.
func (h *Handler) ChartData(c echo.Context) error {
	r, err := parseRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid range"})
	}
	locale := c.QueryParam("locale")
	if locale == "" {
		locale = h.config.DefaultLocale
	}
	cd, err := h.analytics.ChartData(c.Request().Context(), r, locale)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cd)
}

// ExportCSV streams the filtered CSV export. An empty range yields an
// empty body.
func (h *Handler) ExportCSV(c echo.Context) error {
	r, err := parseRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid range"})
	}
	text, err := h.exporter.ExportCSV(c.Request().Context(), r)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sessions.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(text))
}
