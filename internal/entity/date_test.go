package entity

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("should parse a zero padded date", func(t *testing.T) {
		d, err := ParseDate("2025-03-18")
		require.NoError(t, err)
		assert.Equal(t, 2025, d.Year())
		assert.Equal(t, time.March, d.Month())
		assert.Equal(t, 18, d.Day())
	})

	t.Run("should accept unpadded components", func(t *testing.T) {
		d, err := ParseDate("1-1-1")
		require.NoError(t, err)
		assert.Equal(t, "0001-01-01", d.String())

		d, err = ParseDate("2024-3-4")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-04", d.String())
	})

	t.Run("should reject malformed text", func(t *testing.T) {
		for _, raw := range []string{"", "2024/03-asdf", "2024-03", "2024-03-18-1", "2024-003-18", "2024-03-x", "20 24-03-18", "2024-03-18T00:00:00Z"} {
			_, err := ParseDate(raw)
			assert.True(t, errors.Is(err, ErrInvalidDate), "input %q", raw)
		}
	})

	t.Run("should reject dates that do not exist", func(t *testing.T) {
		for _, raw := range []string{"2023-02-29", "2024-13-01", "2024-04-31", "2024-00-10", "2024-01-00"} {
			_, err := ParseDate(raw)
			assert.ErrorIs(t, err, ErrInvalidDate, "input %q", raw)
		}
	})

	t.Run("should only accept years 0 through 9999", func(t *testing.T) {
		for _, raw := range []string{"10000-01-01", "-0001-01-01", "+2024-01-01", "02024-01-01"} {
			_, err := ParseDate(raw)
			assert.ErrorIs(t, err, ErrInvalidDate, "input %q", raw)
		}

		d, err := ParseDate("9999-12-31")
		require.NoError(t, err)
		assert.Equal(t, "9999-12-31", d.String())

		d, err = ParseDate("0-1-1")
		require.NoError(t, err)
		assert.Equal(t, "0000-01-01", d.String())
	})

	t.Run("should accept leap days", func(t *testing.T) {
		d, err := ParseDate("2024-02-29")
		require.NoError(t, err)
		assert.Equal(t, 29, d.Day())
	})
}

func TestDateOrdering(t *testing.T) {
	a := MustParseDate("2024-03-01")
	b := a.AddDays(1)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, b.Equal(MustParseDate("2024-03-02")))
	assert.True(t, Date{}.IsZero())
}

func TestDateSQL(t *testing.T) {
	t.Run("should store as YYYY-MM-DD text", func(t *testing.T) {
		v, err := MustParseDate("2024-3-9").Value()
		require.NoError(t, err)
		assert.Equal(t, "2024-03-09", v)
	})

	t.Run("should scan supported source types", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan("2024-03-09"))
		assert.Equal(t, "2024-03-09", d.String())

		require.NoError(t, d.Scan([]byte("2025-12-31")))
		assert.Equal(t, "2025-12-31", d.String())

		require.NoError(t, d.Scan(time.Date(2020, 6, 7, 13, 0, 0, 0, time.UTC)))
		assert.Equal(t, "2020-06-07", d.String())

		require.NoError(t, d.Scan("2021-01-02T00:00:00Z"))
		assert.Equal(t, "2021-01-02", d.String())

		require.NoError(t, d.Scan(nil))
		assert.True(t, d.IsZero())
	})

	t.Run("should fail on unsupported types", func(t *testing.T) {
		var d Date
		assert.Error(t, d.Scan(42))
	})
}

func TestDateJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		On Date `json:"on"`
	}{On: MustParseDate("2024-03-24")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":"2024-03-24"}`, string(payload))

	var decoded struct {
		On Date `json:"on"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"on":"2024-3-4"}`), &decoded))
	assert.Equal(t, "2024-03-04", decoded.On.String())

	assert.Error(t, json.Unmarshal([]byte(`{"on":"soon"}`), &decoded))
}
