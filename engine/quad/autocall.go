package quad

import "github.com/meenmo/pricelib/product"

// AutocallSpec builds a quad.Spec pricing a product.Autocallable
// descriptor, mirroring pde.AutocallSpec's event construction (same
// MemoryCoupon flat-coupon approximation, documented in DESIGN.md)
// against the quadrature engine's density-rolling rather than
// finite-difference rollback. Each observation's barrier is also fed
// into Spec.BarrierLevels so the mesh-narrowing heuristic concentrates
// resolution around the knock-out levels for free.
func AutocallSpec(a product.Autocallable, obsElapsed []float64, nSpotPoints, nTimeSteps int) Spec {
	var events []Event
	var barrierLevels []float64
	for i, elapsed := range obsElapsed {
		if i < a.LockTerm {
			continue
		}
		barrier := a.BarrierAt(i)
		barrierLevels = append(barrierLevels, barrier)
		switch a.Style {
		case product.DigitalCoupon:
			events = append(events, digitalAutocallEvent(elapsed, barrier, a.CouponBarrier, a.Coupon, a.Notional))
		default: // StepDownCoupon, FixedCoupon, MemoryCoupon (flat-coupon approximation)
			payoff := a.Coupon*a.Notional + a.Notional
			events = append(events, knockOutEvent(elapsed, barrier, payoff))
		}
	}
	return Spec{
		NSpotPoints:   nSpotPoints,
		NTimeSteps:    nTimeSteps,
		BarrierLevels: barrierLevels,
		Terminal: func(spot float64) float64 {
			if spot > a.KnockInLevel {
				return a.Notional
			}
			embedded := 1 + float64(a.CallPut)*a.Participation*(spot-a.KnockInLevel)/a.KnockInLevel
			return a.Notional * embedded
		},
		Events: events,
	}
}

// knockOutEvent overwrites every node clearing level with payoff,
// mirroring engine/pde's KnockOutEvent(elapsed, level, rebate, true).
func knockOutEvent(elapsed, level, payoff float64) Event {
	return Event{Elapsed: elapsed, Apply: func(v []float64, g *Grid) []float64 {
		out := append([]float64(nil), v...)
		for i, s := range g.Spot {
			if s >= level {
				out[i] = payoff
			}
		}
		return out
	}}
}

// digitalAutocallEvent mirrors engine/pde's digitalAutocallEvent.
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
