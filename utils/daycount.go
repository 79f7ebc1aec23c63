package utils

import "time"

// AnnualDays enumerates the natural-day-per-year conventions spec §3
// names (365, 243, 244 calendar/trading-day bases used by different
// product conventions).
type AnnualDays int

const (
	AnnualDays365 AnnualDays = 365
	AnnualDays243 AnnualDays = 243
	AnnualDays244 AnnualDays = 244
)

// YearFraction computes the year fraction between two dates using the
// named day count convention, extended from the teacher's ACT/360 /
// ACT/365F pair to also cover 30/360 and 30E/360, the bond-market
// conventions referenced throughout the swap package this was adapted
// from.
func YearFraction(start, end time.Time, convention string) float64 {
	switch convention {
	case "ACT/360":
		return Days(start, end) / 360.0
	case "ACT/365F", "ACT/365":
		return Days(start, end) / 365.0
	case "30/360":
		return thirty360(start, end, false) / 360.0
	case "30E/360":
		return thirty360(start, end, true) / 360.0
	default:
		return Days(start, end) / 365.0
	}
}

// YearFractionAnnualDays computes a year fraction against a fixed
// annual-day count (product-level convention) rather than a day-count
// name — used by option products whose maturity is quoted directly as
// days / annual_days.
func YearFractionAnnualDays(days int, annual AnnualDays) float64 {
	return float64(days) / float64(annual)
}

func thirty360(start, end time.Time, eu bool) float64 {
	d1, d2 := start.Day(), end.Day()
	m1, m2 := int(start.Month()), int(end.Month())
	y1, y2 := start.Year(), end.Year()

	if eu {
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 {
			d2 = 30
		}
	} else {
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
	}
	return float64(360*(y2-y1) + 30*(m2-m1) + (d2 - d1))
}
