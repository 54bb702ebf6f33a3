package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		month string
		start string
		end   string
	}{
		{"2026-01", "2026-01-01", "2026-01-31"},
		{"2026-02", "2026-02-01", "2026-02-28"},
		{"2024-02", "2024-02-01", "2024-02-29"}, // leap year
		{"2026-04", "2026-04-01", "2026-04-30"},
		{"2025-12", "2025-12-01", "2025-12-31"},
	}
	for _, tt := range tests {
		start, end, err := MonthRange(tt.month)
		require.NoError(t, err, tt.month)
		require.Equal(t, tt.start, start)
		require.Equal(t, tt.end, end)
	}
}

func TestMonthRangeInvalid(t *testing.T) {
	for _, month := range []string{"", "2026", "02/2026", "2026-13", "2026-2"} {
		_, _, err := MonthRange(month)
		require.Error(t, err, month)
	}
}

func TestIsLastDayOfMonth(t *testing.T) {
	loc := Location()
	require.True(t, IsLastDayOfMonth(time.Date(2026, 2, 28, 12, 0, 0, 0, loc)))
	require.False(t, IsLastDayOfMonth(time.Date(2026, 2, 27, 12, 0, 0, 0, loc)))
	require.True(t, IsLastDayOfMonth(time.Date(2024, 2, 29, 12, 0, 0, 0, loc)))
	require.False(t, IsLastDayOfMonth(time.Date(2024, 2, 28, 12, 0, 0, 0, loc)))
	require.True(t, IsLastDayOfMonth(time.Date(2026, 1, 31, 0, 0, 0, 0, loc)))
}

func TestPreviousMonth(t *testing.T) {
	prev, err := PreviousMonth("2026-01")
	require.NoError(t, err)
	require.Equal(t, "2025-12", prev)

	prev, err = PreviousMonth("2026-03")
	require.NoError(t, err)
	require.Equal(t, "2026-02", prev)
}

func TestFormatDisplayDate(t *testing.T) {
	require.Equal(t, "28/02/2026", FormatDisplayDate("2026-02-28"))
	require.Equal(t, "01/01/2024", FormatDisplayDate("2024-01-01"))
	// Malformed input is passed through untouched.
	require.Equal(t, "2026-02", FormatDisplayDate("2026-02"))
}
