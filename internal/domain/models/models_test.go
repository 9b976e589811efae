package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterActivePreservesOrder(t *testing.T) {
	hospitals := []Hospital{
		{ID: "h-1", Active: true},
		{ID: "h-2", Active: false},
		{ID: "h-3", Active: true},
		{ID: "h-4", Active: false},
	}

	active := FilterActive(hospitals)
	require.Len(t, active, 2)
	assert.Equal(t, "h-1", active[0].ID)
	assert.Equal(t, "h-3", active[1].ID)

	assert.Empty(t, FilterActive(nil))
}

func TestTotalKgDisplayRoundsToOneDecimal(t *testing.T) {
	row := ProductionRow{StarchProduced: 2.5, VegetablesProduced: 1.25}
	assert.Equal(t, 3.75, row.TotalKg())
	assert.Equal(t, "3.8", row.TotalKgDisplay())

	assert.Equal(t, "0.0", ProductionRow{}.TotalKgDisplay())
}

func TestWeekOfComputesMondayWindow(t *testing.T) {
	// A Wednesday.
	ref := time.Date(2026, time.August, 26, 14, 30, 0, 0, time.UTC)
	week := WeekOf(ref)

	assert.Equal(t, 2026, week.Year)
	assert.Equal(t, 35, week.WeekNumber)
	assert.Equal(t, int(time.August), week.Month)
	assert.Equal(t, time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC), week.StartDate)
	assert.Equal(t, time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC), week.EndDate)
}

func TestWeekOfSundayBelongsToPrecedingMonday(t *testing.T) {
	ref := time.Date(2026, time.August, 30, 8, 0, 0, 0, time.UTC)
	week := WeekOf(ref)

	assert.Equal(t, time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC), week.StartDate)
	assert.Equal(t, 35, week.WeekNumber)
}

func TestWeekOfYearBoundaryUsesISOYear(t *testing.T) {
	// 2027-01-01 is a Friday and falls in ISO week 2026-W53.
	ref := time.Date(2027, time.January, 1, 12, 0, 0, 0, time.UTC)
	week := WeekOf(ref)

	assert.Equal(t, 2026, week.Year)
	assert.Equal(t, 53, week.WeekNumber)
	assert.Equal(t, time.Date(2026, time.December, 28, 0, 0, 0, 0, time.UTC), week.StartDate)
}
