package product

// CouponStyle selects the coupon-payment condition that distinguishes
// autocallable sub-families (glossary: Phoenix/FCN/DCN differ only in
// this), per spec §2's product-layer responsibility.
type CouponStyle int

const (
	// StepDownCoupon pays the full accrued coupon on early redemption
	// (vanilla autocallable / snowball style), with no memory feature.
	StepDownCoupon CouponStyle = iota
	// MemoryCoupon pays all missed coupons since the last payment once
	// the observation clears the coupon barrier (Phoenix style).
	MemoryCoupon
	// FixedCoupon pays a fixed coupon on every surviving observation
	// regardless of a separate coupon barrier (FCN style).
	FixedCoupon
	// DigitalCoupon pays a coupon only if spot clears a digital
	// condition independent of the knock-out barrier (DCN style).
	DigitalCoupon
)

// Autocallable is the descriptor for snowball/phoenix/FCN/DCN
// structures: an observation schedule of decreasing knock-out barriers
// (or a flat one), a coupon barrier, a downside knock-in, and a coupon
// style governing payment conditions. A bare knock-in put (the
// KnockedIn-status terminal payoff) is expressed via CallPut/Strike/
// Participation on the embedded downside leg.
type Autocallable struct {
	Base
	Notional       float64
	KOBarrier      []float64 // per-observation knock-out level, one per ObsDates entry (flat if all equal)
	CouponBarrier  float64
	KnockInLevel   float64
	Coupon         float64 // per-period coupon rate
	LockTerm       int     // number of leading observations with no call, mirrors schedule.Spec.LockTerm
	Style          CouponStyle
	CallPut        CallPut // direction of the downside leg once knocked in
	Participation  float64
}

// NewSnowball builds a standard snowball descriptor: step-down coupon,
// short-put downside on knock-in.
func NewSnowball(base Base, notional float64, koBarrier []float64, knockInLevel, coupon float64, lockTerm int) Autocallable {
	return Autocallable{
		Base: base, Notional: notional, KOBarrier: koBarrier,
		CouponBarrier: koBarrier[len(koBarrier)-1], KnockInLevel: knockInLevel,
		Coupon: coupon, LockTerm: lockTerm, Style: StepDownCoupon,
		CallPut: Put, Participation: 1.0,
	}
}

// NewPhoenix builds a phoenix descriptor with a memory coupon and a
// separate (lower) coupon barrier from the knock-out barrier.
func NewPhoenix(base Base, notional float64, koBarrier []float64, couponBarrier, knockInLevel, coupon float64, lockTerm int) Autocallable {
	return Autocallable{
		Base: base, Notional: notional, KOBarrier: koBarrier,
		CouponBarrier: couponBarrier, KnockInLevel: knockInLevel,
		Coupon: coupon, LockTerm: lockTerm, Style: MemoryCoupon,
		CallPut: Put, Participation: 1.0,
	}
}

// NewFCN builds a fixed-coupon-note descriptor: coupon paid on every
// surviving observation, independent of any coupon barrier.
func NewFCN(base Base, notional float64, koBarrier []float64, knockInLevel, coupon float64, lockTerm int) Autocallable {
	return Autocallable{
		Base: base, Notional: notional, KOBarrier: koBarrier,
		CouponBarrier: 0, KnockInLevel: knockInLevel,
		Coupon: coupon, LockTerm: lockTerm, Style: FixedCoupon,
		CallPut: Put, Participation: 1.0,
	}
}

// NewDCN builds a digital-coupon-note descriptor.
func NewDCN(base Base, notional float64, koBarrier []float64, couponBarrier, knockInLevel, coupon float64, lockTerm int) Autocallable {
	return Autocallable{
		Base: base, Notional: notional, KOBarrier: koBarrier,
		CouponBarrier: couponBarrier, KnockInLevel: knockInLevel,
		Coupon: coupon, LockTerm: lockTerm, Style: DigitalCoupon,
		CallPut: Put, Participation: 1.0,
	}
}

// BarrierAt returns the knock-out level at observation index i, falling
// back to the last entry if KOBarrier is shorter than the schedule
// (flat-barrier shorthand).
func (a Autocallable) BarrierAt(i int) float64 {
	if i < len(a.KOBarrier) {
		return a.KOBarrier[i]
	}
	return a.KOBarrier[len(a.KOBarrier)-1]
}
