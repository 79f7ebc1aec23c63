// Package schedule generates observation-date schedules for
// path-dependent structured products: autocall/knock-in observation
// dates, averaging dates for Asian payoffs, and accrual-period grids for
// range accruals. Grounded on swap/common.go's GenerateSchedule, with the
// payment-leg domain (fixing lag, reset position, stub conventions)
// replaced by the equity-observation domain (frequency, lock-out,
// trading-day vs. calendar-day stepping).
package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/pricelib/calendar"
	"github.com/meenmo/pricelib/internal/plog"
	"github.com/meenmo/pricelib/utils"
)

// Frequency is the observation-stepping unit.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Quarterly
	Annually
)

// Spec describes how to build an observation schedule.
type Spec struct {
	Start      time.Time
	End        time.Time
	Freq       Frequency
	StepCount  int // e.g. 3 with Monthly => every 3 months
	Calendar   calendar.ID
	Convention calendar.Convention
	LockTerm   int // number of leading observation dates to suppress (no-call period)
	EOMRoll    bool
}

// Date is a single scheduled observation, carrying both the unadjusted
// roll date and the business-day adjusted date actually used for pricing.
type Date struct {
	Unadjusted time.Time
	Adjusted   time.Time
	Index      int
	Locked     bool // true if this date falls within the spec's lock-out term
}

// Generate builds the full observation-date list per Spec, mirroring
// swap/common.go's forward-roll loop: step the unadjusted date by the
// frequency unit, adjust each for business days, and tag the leading
// LockTerm dates so autocall/knock-out engines can skip them per spec's
// "no call before lock-out" invariant.
func Generate(s Spec) ([]Date, error) {
	if s.End.Before(s.Start) {
		return nil, fmt.Errorf("schedule: end %s before start %s",
			s.End.Format("2006-01-02"), s.Start.Format("2006-01-02"))
	}
	if s.StepCount <= 0 {
		return nil, fmt.Errorf("schedule: non-positive step count %d", s.StepCount)
	}
	plog.Infof("schedule: generating %s schedule from %s to %s (lock_term=%d)",
		freqName(s.Freq), s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"), s.LockTerm)

	var dates []Date
	cur := s.Start
	idx := 0
	for {
		next, err := step(cur, s.Freq, s.StepCount, s.EOMRoll)
		if err != nil {
			return nil, err
		}
		if next.After(s.End) {
			break
		}
		adjusted := calendar.Adjust(s.Calendar, next, s.Convention)
		dates = append(dates, Date{
			Unadjusted: next,
			Adjusted:   adjusted,
			Index:      idx,
			Locked:     idx < s.LockTerm,
		})
		cur = next
		idx++
	}
	if len(dates) == 0 || !dates[len(dates)-1].Unadjusted.Equal(s.End) {
		adjusted := calendar.Adjust(s.Calendar, s.End, s.Convention)
		dates = append(dates, Date{
			Unadjusted: s.End,
			Adjusted:   adjusted,
			Index:      idx,
			Locked:     idx < s.LockTerm,
		})
	}
	return dates, nil
}

func freqName(f Frequency) string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Annually:
		return "annually"
	default:
		return "unknown"
	}
}

func step(from time.Time, freq Frequency, count int, eom bool) (time.Time, error) {
	switch freq {
	case Daily:
		return from.AddDate(0, 0, count), nil
	case Weekly:
		return from.AddDate(0, 0, 7*count), nil
	case Monthly:
		if eom {
			return utils.AddMonth(from, count), nil
		}
		return from.AddDate(0, count, 0), nil
	case Quarterly:
		if eom {
			return utils.AddMonth(from, 3*count), nil
		}
		return from.AddDate(0, 3*count, 0), nil
	case Annually:
		return from.AddDate(count, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("schedule: unsupported frequency %d", freq)
	}
}

// TradingDays returns, for each business-day-adjusted date, the number of
// business days on cal elapsed since the first date, for engines that need a Δt grid in
// trading-day units rather than calendar-day units (spec §4.A/C note on
// trading-day vs. calendar-day time conventions for MC/PDE steppers).
func TradingDays(dates []Date, cal calendar.ID) []int {
	out := make([]int, len(dates))
	for i, d := range dates {
		out[i] = calendar.BusinessDaysBetween(cal, dates[0].Adjusted, d.Adjusted)
	}
	return out
}

// YearFractions converts a schedule into year-fraction offsets from the
// first date, under the given day-count convention, for use as the τ
// argument to Process.Drift/Diffusion/DiscFactor.
func YearFractions(dates []Date, convention string) []float64 {
	out := make([]float64, len(dates))
	if len(dates) == 0 {
		return out
	}
	base := dates[0].Adjusted
	for i, d := range dates {
		out[i] = utils.YearFraction(base, d.Adjusted, convention)
	}
	return out
}

// StepIndices maps a schedule's year-fraction offsets (as returned by
// YearFractions) onto discrete path-step indices on a uniform grid of
// nSteps subdivisions spanning [0, tau], rounding each observation to
// its nearest step. This is how a business-day-adjusted observation
// schedule gets aligned onto the fixed-size time grid an MC/PDE/
// quadrature engine actually steps on, per spec §3/§4.C.
func StepIndices(obsTaus []float64, tau float64, nSteps int) []int {
	out := make([]int, len(obsTaus))
	if tau <= 0 {
		return out
	}
	for i, ot := range obsTaus {
		step := int(math.Round(ot / tau * float64(nSteps)))
		if step > nSteps {
			step = nSteps
		}
		if step < 0 {
			step = 0
		}
		out[i] = step
	}
	return out
}
