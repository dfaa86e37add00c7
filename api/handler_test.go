package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/sessionlens/sessionlens/api"
	"github.com/sessionlens/sessionlens/config"
	"github.com/sessionlens/sessionlens/domain"
	"github.com/sessionlens/sessionlens/loader"
	"github.com/sessionlens/sessionlens/store"
	"github.com/sessionlens/sessionlens/tests/helpers"
)

var base = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) (*api.Handler, *store.Store) {
	t.Helper()
	st, _ := helpers.NewTestStore(t)
	return api.NewHandler(st, &config.Config{DefaultLocale: "en"}), st
}

func TestLoadBatchEndpoint(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t)

	batch := []domain.SessionRecord{
		helpers.Record("s1", base),
		helpers.Record("", base),
	}
	body, _ := json.Marshal(batch)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/batch", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.LoadBatch(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp["received"])
	assert.Equal(t, 1, resp["inserted"])

	assert.Equal(t, 1, st.Stats(context.Background()).TotalSessions)
}

func TestMetricsEndpoint(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t)

	_, err := loader.New(st).LoadBatch(context.Background(), []domain.SessionRecord{
		helpers.Record("s1", base),
	})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/metrics?start=2024-03-01&end=2024-03-31", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.Metrics(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var m domain.Metrics
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, 1, m.TotalSessions)
	assert.Equal(t, "09:00", m.PeakUsageTime)
}

func TestMetricsEndpointBadRange(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/metrics?start=yesterday&end=today", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.Metrics(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpointEmpty(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/export.csv?start=2024-03-01&end=2024-03-31", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.ExportCSV(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", rec.Body.String())
}

func TestClearEndpoint(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t)

	_, err := loader.New(st).LoadBatch(context.Background(), []domain.SessionRecord{
		helpers.Record("s1", base),
	})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.Clear(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, st.Stats(context.Background()).TotalSessions)
}
