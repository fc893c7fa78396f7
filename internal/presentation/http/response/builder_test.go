package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/hiretrack/pkg/errorbank"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return echo.New().NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestBuilder(t *testing.T) {
	t.Run("should wrap data and meta", func(t *testing.T) {
		c, rec := newContext()
		require.NoError(t, New(c).WithStatus(http.StatusCreated).WithCount(2).WithData([]int{1, 2}).Build())

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, []any{float64(1), float64(2)}, body["data"])
		assert.Equal(t, map[string]any{"count": float64(2)}, body["meta"])
		assert.NotContains(t, body, "error")
	})

	t.Run("should render app errors with their status and details", func(t *testing.T) {
		c, rec := newContext()
		err := errorbank.Unprocessable("order form is invalid", errorbank.WithDetail("how_many", "How many must be at least 1"))
		require.NoError(t, New(c).WithStatus(http.StatusCreated).WithError(err).Build())

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, map[string]any{
			"kind":    "unprocessable_entity",
			"message": "order form is invalid",
			"details": map[string]any{"how_many": "How many must be at least 1"},
		}, body["error"])
	})

	t.Run("should hide the cause of unexpected errors", func(t *testing.T) {
		c, rec := newContext()
		require.NoError(t, New(c).WithError(errors.New("disk I/O error")).Build())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "disk")
	})

	t.Run("should reply 204 without a body", func(t *testing.T) {
		c, rec := newContext()
		require.NoError(t, New(c).NoContent())
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Zero(t, rec.Body.Len())

		c, rec = newContext()
		require.NoError(t, New(c).WithError(errorbank.NotFound("order not found")).NoContent())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
