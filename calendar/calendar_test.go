package calendar_test

import (
	"testing"
	"time"

	"github.com/meenmo/pricelib/calendar"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDaySkipsWeekends(t *testing.T) {
	sat := date(2026, 7, 25)
	assert.False(t, calendar.IsBusinessDay(calendar.NONE, sat))
	mon := date(2026, 7, 27)
	assert.True(t, calendar.IsBusinessDay(calendar.NONE, mon))
}

func TestIsBusinessDaySkipsHolidays(t *testing.T) {
	newYear := date(2026, 1, 1)
	assert.False(t, calendar.IsBusinessDay(calendar.KOR, newYear))
}

func TestAdjustModifiedFollowingStaysInMonth(t *testing.T) {
	// 2026-01-31 is a Saturday; Following would roll into February.
	saturday := date(2026, 1, 31)
	adj := calendar.Adjust(calendar.NONE, saturday, calendar.ModifiedFollowing)
	assert.Equal(t, time.January, adj.Month())
	assert.True(t, calendar.IsBusinessDay(calendar.NONE, adj))
}

func TestAddBusinessDaysRoundTrip(t *testing.T) {
	start := date(2026, 7, 29) // Wednesday
	fwd := calendar.AddBusinessDays(calendar.NONE, start, 5)
	back := calendar.AddBusinessDays(calendar.NONE, fwd, -5)
	assert.True(t, back.Equal(start))
}

func TestBusinessDaysBetweenSign(t *testing.T) {
	a := date(2026, 7, 1)
	b := date(2026, 7, 31)
	fwd := calendar.BusinessDaysBetween(calendar.NONE, a, b)
	bwd := calendar.BusinessDaysBetween(calendar.NONE, b, a)
	assert.Equal(t, -fwd, bwd)
	assert.Greater(t, fwd, 0)
}

func TestAddYearsWithRollLandsOnPriorFebruaryEndAcrossLeapDay(t *testing.T) {
	leapDay := date(2024, 2, 29)
	rolled := calendar.AddYearsWithRoll(calendar.NONE, leapDay, 1, calendar.Unadjusted)
	assert.Equal(t, date(2025, 2, 28), rolled)
}

func TestCalendarInterfaceAdapter(t *testing.T) {
	cal := calendar.New(calendar.NONE)
	start := date(2026, 7, 29)
	assert.True(t, cal.IsBusinessDay(start))
	assert.True(t, cal.Advance(start, 1).After(start))
}
