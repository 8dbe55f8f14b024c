package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthsToDate(t *testing.T) {
	runDate := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.Local)
	assert.Equal(t, []string{"2025.01", "2025.02", "2025.03"}, MonthsToDate(runDate))
	assert.Equal(t, "2025.03", CurrentMonthTag(runDate))

	jan := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)
	assert.Equal(t, []string{"2026.01"}, MonthsToDate(jan))
}

func TestParseMonthTag(t *testing.T) {
	y, m, ok := ParseMonthTag("2025.11")
	require.True(t, ok)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 11, m)

	for _, bad := range []string{"2025.13", "2025.1", "2025-01", "25.01", ""} {
		_, _, ok := ParseMonthTag(bad)
		assert.False(t, ok, bad)
	}
}
