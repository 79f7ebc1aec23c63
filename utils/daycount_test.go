package utils_test

import (
	"testing"
	"time"

	"github.com/meenmo/pricelib/utils"
	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestYearFractionAct365(t *testing.T) {
	yf := utils.YearFraction(d(2026, 1, 1), d(2027, 1, 1), "ACT/365F")
	assert.InDelta(t, 1.0, yf, 0.01)
}

func TestYearFraction30360(t *testing.T) {
	yf := utils.YearFraction(d(2026, 1, 1), d(2026, 7, 1), "30/360")
	assert.InDelta(t, 0.5, yf, 1e-9)
}

func TestYearFractionAnnualDays(t *testing.T) {
	assert.InDelta(t, 1.0, utils.YearFractionAnnualDays(243, utils.AnnualDays243), 1e-9)
}

func TestAddMonthEndOfMonth(t *testing.T) {
	jan31 := d(2026, 1, 31)
	feb := utils.AddMonth(jan31, 1)
	assert.Equal(t, time.February, feb.Month())
	assert.Equal(t, 28, feb.Day())
}

func TestAdjacentDatesBrackets(t *testing.T) {
	dates := []time.Time{d(2026, 1, 1), d(2026, 6, 1), d(2027, 1, 1)}
	lo, hi := utils.AdjacentDates(d(2026, 3, 1), dates)
	assert.True(t, lo.Equal(dates[0]))
	assert.True(t, hi.Equal(dates[1]))
}
