package product

// RangeAccrual pays a fixed coupon per observation date spot spends
// within [Lower, Upper], per the glossary's range-accrual entry.
type RangeAccrual struct {
	Base
	Lower, Upper float64
	DailyCoupon  float64
	Notional     float64
}

// NewRangeAccrual builds a range-accrual descriptor.
func NewRangeAccrual(base Base, lower, upper, dailyCoupon, notional float64) RangeAccrual {
	return RangeAccrual{Base: base, Lower: lower, Upper: upper, DailyCoupon: dailyCoupon, Notional: notional}
}

// InRange reports whether spot lies within the accrual band.
func (r RangeAccrual) InRange(spot float64) bool {
	return spot >= r.Lower && spot <= r.Upper
}
