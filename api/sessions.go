package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sessionlens/sessionlens/domain"
)

// LoadBatch ingests a JSON array of session records. Malformed records
// inside the batch are skipped by the loader; only a transaction-control
// failure produces an error response.
func (h *Handler) LoadBatch(c echo.Context) error {
	var records []domain.SessionRecord
	if err := c.Bind(&records); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid batch payload"})
	}

	inserted, err := h.loader.LoadBatch(c.Request().Context(), records)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]int{
		"received": len(records),
		"inserted": inserted,
	})
}

// Clear purges all rows and the persisted snapshot.
func (h *Handler) Clear(c echo.Context) error {
	h.store.Clear(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Stats reports the unfiltered session count and date bounds.
func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Stats(c.Request().Context()))
}

// parseRange reads the start/end query parameters, accepting RFC 3339
// timestamps or plain dates. A date-only end is widened to the end of
// that day so the range stays inclusive.
func parseRange(c echo.Context) (domain.Range, error) {
	start, err := parseRangeParam(c.QueryParam("start"), false)
	if err != nil {
		return domain.Range{}, err
	}
	end, err := parseRangeParam(c.QueryParam("end"), true)
	if err != nil {
		return domain.Range{}, err
	}
	return domain.Range{Start: start, End: end}, nil
}

func parseRangeParam(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}
