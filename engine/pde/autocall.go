package pde

import "github.com/meenmo/pricelib/product"

// AutocallSpec builds a pde.Spec pricing a product.Autocallable
// descriptor, mirroring mc.AutocallKernel's observation loop as a
// sequence of KnockOutEvent/digitalAutocallEvent rollback events fired
// at each observation's elapsed-time-from-maturity offset, plus a
// knock-in-conditional Terminal matching the embedded downside leg.
//
// MemoryCoupon (Phoenix-style) is priced here as a flat per-observation
// coupon (the same event AutocallEvent fires for StepDownCoupon/
// FixedCoupon): a single spot-dimension grid has no state dimension to
// track coupons accrued-but-unpaid from earlier missed observations, so
// the PDE path approximates the memory feature by assuming every
// cleared observation pays its own coupon outright rather than the
// accumulated arrears MC's AutocallKernel can track exactly. See
// DESIGN.md for the Markovian-state-limitation rationale.
func AutocallSpec(a product.Autocallable, obsElapsed []float64, nSpotPoints int, nSmax float64, nTimeSteps int) Spec {
	var events []Event
	for i, elapsed := range obsElapsed {
		if i < a.LockTerm {
			continue
		}
		barrier := a.BarrierAt(i)
		switch a.Style {
		case product.DigitalCoupon:
			events = append(events, digitalAutocallEvent(elapsed, barrier, a.CouponBarrier, a.Coupon, a.Notional))
		default: // StepDownCoupon, FixedCoupon, MemoryCoupon (flat-coupon approximation)
			payoff := a.Coupon*a.Notional + a.Notional
			events = append(events, AutocallEvent(elapsed, barrier, payoff))
		}
	}
	return Spec{
		NSpotPoints: nSpotPoints,
		NSmax:       nSmax,
		NTimeSteps:  nTimeSteps,
		Terminal: func(spot float64) float64 {
			if spot > a.KnockInLevel {
				return a.Notional
			}
			embedded := 1 + float64(a.CallPut)*a.Participation*(spot-a.KnockInLevel)/a.KnockInLevel
			return a.Notional * embedded
		},
		Events:        events,
		LowerBoundary: Boundary{Kind: Dirichlet, Value: func(float64) float64 { return 0 }},
		UpperBoundary: Boundary{Kind: LinearExtrapolation},
	}
}

// digitalAutocallEvent overwrites every node clearing barrier with the
// redemption notional, adding the digital coupon on top wherever the
// node also clears couponBarrier, mirroring AutocallKernel's
// DigitalCoupon branch.
func digitalAutocallEvent(elapsed, barrier, couponBarrier, coupon, notional float64) Event {
	return Event{Elapsed: elapsed, Apply: func(v []float64, g *Grid) []float64 {
		out := append([]float64(nil), v...)
		for i, s := range g.Spot {
			if s >= barrier {
				payout := notional
				if s >= couponBarrier {
					payout += coupon * notional
				}
				out[i] = payout
			}
		}
		return out
	}}
}
