package product

// BarrierType tags the four single-barrier combinations (in/out x
// up/down), matching the Reiner-Rubinstein formula family named in
// spec §4.G.
type BarrierType int

const (
	UpOut BarrierType = iota
	DownOut
	UpIn
	DownIn
)

func (t BarrierType) IsUp() bool {
	return t == UpOut || t == UpIn
}

func (t BarrierType) IsKnockIn() bool {
	return t == UpIn || t == DownIn
}

// Barrier is a single-barrier option descriptor. ObservationInterval, if
// nonzero, marks a discretely-monitored barrier (spec §4.G's
// Broadie-Glasserman-Kou shift applies); zero means continuous
// monitoring.
type Barrier struct {
	Base
	Strike              float64
	Level               float64
	CallPut             CallPut
	Type                BarrierType
	Rebate              float64
	RebateAtHit         bool // true: rebate paid at breach; false: paid at expiry
	ObservationInterval float64 // year-fraction between discrete observations; 0 = continuous
}

// NewBarrier builds a single-barrier descriptor.
func NewBarrier(base Base, strike, level float64, cp CallPut, bt BarrierType, rebate float64, rebateAtHit bool) Barrier {
	return Barrier{Base: base, Strike: strike, Level: level, CallPut: cp, Type: bt, Rebate: rebate, RebateAtHit: rebateAtHit}
}

// Breached reports whether spot has crossed the barrier in the
// direction this descriptor cares about.
func (b Barrier) Breached(spot float64) bool {
	if b.Type.IsUp() {
		return spot >= b.Level
	}
	return spot <= b.Level
}

// DoubleBarrierType distinguishes payoff timing at the bounds.
type DoubleBarrierType int

const (
	DoubleKnockOut DoubleBarrierType = iota
	DoubleNoTouch
)

// DoubleBarrier is a two-sided barrier descriptor (spec §4.G's
// Ikeda-Kunitomo / Haug family, and spec §8 scenario 5's double-no-touch).
type DoubleBarrier struct {
	Base
	Strike       float64
	Lower, Upper float64
	CallPut      CallPut
	Type         DoubleBarrierType
	RebateLower  float64
	RebateUpper  float64
	RebateAtHit  bool
	American     bool // rebate paid on first touch (American) vs. only if still out at expiry
}

// NewDoubleNoTouch builds a double-no-touch descriptor paying
// rebateLower/rebateUpper depending on which bound is (or would be)
// touched, per spec §8 scenario 5.
func NewDoubleNoTouch(base Base, lower, upper, rebateLower, rebateUpper float64, american bool) DoubleBarrier {
	return DoubleBarrier{
		Base: base, Lower: lower, Upper: upper, Type: DoubleNoTouch,
		RebateLower: rebateLower, RebateUpper: rebateUpper, American: american,
	}
}

// Breached reports whether spot lies outside [Lower, Upper].
func (d DoubleBarrier) Breached(spot float64) bool {
	return spot <= d.Lower || spot >= d.Upper
}
