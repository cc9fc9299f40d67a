package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatesSkipsUnparseable(t *testing.T) {
	parsed := ParseDates([]string{"2026-03-01", "not-a-date", "2026-03-15", ""})
	require.Len(t, parsed, 2)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), parsed[0])
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), parsed[1])
}

func TestDayRanges(t *testing.T) {
	dates := []time.Time{time.Date(2026, 3, 1, 13, 45, 0, 0, time.UTC)}
	ranges := DayRanges(dates)
	require.Len(t, ranges, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ranges[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), ranges[0].End)
}
