// Package product holds immutable descriptors for every priceable
// structured product family: vanilla options, barrier/double-barrier
// options, digitals, Asian options, accumulators, range accruals,
// airbags, double sharks, and autocallables (snowball/phoenix/FCN/DCN).
// Descriptors never mutate during pricing and never hold a reference to
// the engine that prices them, per spec §9's engine/product decoupling
// note; engines take a descriptor and a process as explicit parameters.
package product

import (
	"time"

	"github.com/meenmo/pricelib/schedule"
	"github.com/meenmo/pricelib/utils"
)

// CallPut is the option-direction sign.
type CallPut int

const (
	Call CallPut = 1
	Put  CallPut = -1
)

// Status is the tagged union §9 calls for: NoTouch is the default for a
// freshly booked trade; KnockedIn/KnockedOut are terminal-ish states a
// caller may price from directly (e.g. revaluing a seasoned trade).
// Engines branch on Status at entry; they never transition it themselves.
type Status int

const (
	NoTouch Status = iota
	KnockedIn
	KnockedOut
)

func (s Status) String() string {
	switch s {
	case NoTouch:
		return "NoTouch"
	case KnockedIn:
		return "KnockedIn"
	case KnockedOut:
		return "KnockedOut"
	default:
		return "Unknown"
	}
}

// AveragingMethod distinguishes Asian-style averaging conventions.
type AveragingMethod int

const (
	Arithmetic AveragingMethod = iota
	Geometric
)

// Base carries the attributes every product descriptor shares: a date
// range, a steps-per-year density, a day-count/annual-days convention,
// and a status. Product-specific structs embed Base and add their own
// strike/barrier/coupon fields, per spec §3's data model.
type Base struct {
	Start         time.Time
	End           time.Time
	StepsPerYear  int
	DayCount      string // "ACT/360" | "ACT/365F" | "30/360" | "30E/360"
	Status        Status
	ObsDates      []schedule.Date // observation schedule, empty for terminal-only products
}

// Maturity returns the year-fraction from Start to End under DayCount,
// falling back to ACT/365F when DayCount is unset.
func (b Base) Maturity() float64 {
	dc := b.DayCount
	if dc == "" {
		dc = "ACT/365F"
	}
	return utils.YearFraction(b.Start, b.End, dc)
}

// NSteps returns the MC/PDE/tree step count implied by steps-per-year
// and the product's maturity, per spec §4.C's ⌈τ·steps_per_year⌉ rule.
func (b Base) NSteps() int {
	n := int(b.Maturity()*float64(b.StepsPerYear) + 0.999999)
	if n < 1 {
		n = 1
	}
	return n
}
