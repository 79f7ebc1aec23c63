package schedule_test

import (
	"testing"
	"time"

	"github.com/meenmo/pricelib/calendar"
	"github.com/meenmo/pricelib/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateMonthlyAutocallSchedule(t *testing.T) {
	s := schedule.Spec{
		Start:      date(2026, 1, 15),
		End:        date(2027, 1, 15),
		Freq:       schedule.Monthly,
		StepCount:  1,
		Calendar:   calendar.NONE,
		Convention: calendar.ModifiedFollowing,
		LockTerm:   3,
	}
	dates, err := schedule.Generate(s)
	require.NoError(t, err)
	assert.Len(t, dates, 12)
	assert.True(t, dates[0].Locked)
	assert.True(t, dates[2].Locked)
	assert.False(t, dates[3].Locked)
	assert.True(t, dates[len(dates)-1].Unadjusted.Equal(s.End))
}

func TestGenerateRejectsInvertedRange(t *testing.T) {
	s := schedule.Spec{
		Start:     date(2027, 1, 1),
		End:       date(2026, 1, 1),
		Freq:      schedule.Monthly,
		StepCount: 1,
	}
	_, err := schedule.Generate(s)
	assert.Error(t, err)
}

func TestTradingDaysMonotonic(t *testing.T) {
	s := schedule.Spec{
		Start:      date(2026, 1, 1),
		End:        date(2026, 6, 1),
		Freq:       schedule.Monthly,
		StepCount:  1,
		Calendar:   calendar.NONE,
		Convention: calendar.Following,
	}
	dates, err := schedule.Generate(s)
	require.NoError(t, err)
	tds := schedule.TradingDays(dates, calendar.NONE)
	for i := 1; i < len(tds); i++ {
		assert.Greater(t, tds[i], tds[i-1])
	}
}

func TestYearFractionsStartsAtZero(t *testing.T) {
	s := schedule.Spec{
		Start:      date(2026, 1, 1),
		End:        date(2026, 12, 1),
		Freq:       schedule.Quarterly,
		StepCount:  1,
		Calendar:   calendar.NONE,
		Convention: calendar.Unadjusted,
	}
	dates, err := schedule.Generate(s)
	require.NoError(t, err)
	yfs := schedule.YearFractions(dates, "ACT/365F")
	assert.InDelta(t, 0.0, yfs[0], 1e-9)
	assert.Greater(t, yfs[len(yfs)-1], 0.5)
}
