// Package api provides the HTTP surface the dashboard consumes.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sessionlens/sessionlens/analytics"
	"github.com/sessionlens/sessionlens/config"
	"github.com/sessionlens/sessionlens/export"
	"github.com/sessionlens/sessionlens/loader"
	"github.com/sessionlens/sessionlens/store"
)

// Handler handles HTTP requests.
type Handler struct {
	store     *store.Store
	loader    *loader.Loader
	analytics *analytics.Engine
	exporter  *export.Exporter
	config    *config.Config
}

// NewHandler creates a new handler around one store.
func NewHandler(st *store.Store, cfg *config.Config) *Handler {
	return &Handler{
		store:     st,
		loader:    loader.New(st),
		analytics: analytics.New(st),
		exporter:  export.New(st),
		config:    cfg,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/sessions/batch", h.LoadBatch)
	e.DELETE("/v1/sessions", h.Clear)

	e.GET("/v1/metrics", h.Metrics)
	e.GET("/v1/charts", h.ChartData)
	e.GET("/v1/export.csv", h.ExportCSV)
	e.GET("/v1/stats", h.Stats)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
