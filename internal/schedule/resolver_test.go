package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("combines date and time in the local zone", func(t *testing.T) {
		datePart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
		timePart := time.Date(0, 1, 1, 14, 30, 0, 0, time.UTC)

		got, err := Resolve(datePart, timePart)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local), got)
	})

	t.Run("discards stray components from either part", func(t *testing.T) {
		// The date input carries a bogus clock time and the time input a
		// bogus calendar date; neither may leak into the instant.
		datePart := time.Date(2025, 3, 10, 23, 59, 58, 123, time.Local)
		timePart := time.Date(1999, 12, 31, 14, 30, 45, 999, time.Local)

		got, err := Resolve(datePart, timePart)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local), got)
	})

	t.Run("missing date never defaults to now", func(t *testing.T) {
		_, err := Resolve(time.Time{}, time.Date(0, 1, 1, 14, 30, 0, 0, time.Local))
		var ite *IncompleteTimeError
		require.ErrorAs(t, err, &ite)
		assert.Equal(t, "date", ite.Part)
	})

	t.Run("missing time never defaults to now", func(t *testing.T) {
		_, err := Resolve(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local), time.Time{})
		var ite *IncompleteTimeError
		require.ErrorAs(t, err, &ite)
		assert.Equal(t, "time", ite.Part)
	})
}

func TestWindowEnd(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)

	t.Run("default window is thirty minutes", func(t *testing.T) {
		end := WindowEnd(start, DefaultWindowMinutes)
		assert.Equal(t, time.Date(2025, 3, 10, 15, 0, 0, 0, time.Local), end)
	})

	t.Run("non-positive duration falls back to the default", func(t *testing.T) {
		assert.Equal(t, WindowEnd(start, DefaultWindowMinutes), WindowEnd(start, 0))
		assert.Equal(t, WindowEnd(start, DefaultWindowMinutes), WindowEnd(start, -10))
	})

	t.Run("custom duration is honored", func(t *testing.T) {
		end := WindowEnd(start, 90)
		assert.Equal(t, start.Add(90*time.Minute), end)
	})
}
