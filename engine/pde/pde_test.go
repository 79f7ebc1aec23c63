package pde_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/pricelib/engine/analytic"
	"github.com/meenmo/pricelib/engine/pde"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProc(spot, r, q, sigma float64) *process.Process {
	return process.NewProcess(
		process.NewQuote(spot, "SPOT"),
		process.NewConstantRate(r),
		process.NewConstantRate(q),
		process.NewConstantVol(sigma),
	)
}

func baseFor(days int) product.Base {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return product.Base{Start: start, End: start.AddDate(0, 0, days), StepsPerYear: 243, DayCount: "ACT/365F"}
}

func TestPDEVanillaCallAgreesWithAnalytic(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	v := product.NewEuropeanVanilla(baseFor(365), 100, product.Call)
	tau := v.Maturity()

	want, err := analytic.VanillaEngine{}.Price(proc, v, proc.Spot())
	require.NoError(t, err)

	eng := &pde.Engine{}
	res, err := eng.PriceBSM(proc, tau, pde.Spec{
		NSpotPoints: 401,
		NTimeSteps:  400,
		Terminal: func(spot float64) float64 {
			payoff := float64(v.CallPut) * (spot - v.Strike)
			if payoff < 0 {
				return 0
			}
			return payoff
		},
		LowerBoundary: pde.Boundary{Kind: pde.Dirichlet, Value: func(float64) float64 { return 0 }},
		UpperBoundary: pde.Boundary{Kind: pde.LinearExtrapolation},
	})
	require.NoError(t, err)
	assert.InDelta(t, want, res.PV, 0.05)
}

func TestPDEUpOutBarrierAgreesWithReinerRubinstein(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	b := product.NewBarrier(baseFor(365), 100, 130, product.Call, product.UpOut, 0, false)
	tau := b.Maturity()

	want, err := analytic.BarrierEngine{}.Price(proc, b, proc.Spot())
	require.NoError(t, err)

	eng := &pde.Engine{}
	res, err := eng.PriceBSM(proc, tau, pde.Spec{
		NSmax:       b.Level / proc.Spot() * 1.002,
		NSpotPoints: 601,
		NTimeSteps:  600,
		Terminal: func(spot float64) float64 {
			if spot >= b.Level {
				return b.Rebate
			}
			payoff := float64(b.CallPut) * (spot - b.Strike)
			if payoff < 0 {
				return 0
			}
			return payoff
		},
		UpperBoundary: pde.Boundary{Kind: pde.Dirichlet, Value: func(float64) float64 { return b.Rebate }},
	})
	require.NoError(t, err)
	assert.InDelta(t, want, res.PV, 0.15)
}

func TestRannacherSmoothingDampsInitialOscillation(t *testing.T) {
	proc := newProc(100, 0.01, 0.0, 0.3)
	v := product.NewEuropeanVanilla(baseFor(30), 100, product.Call)
	tau := v.Maturity()

	eng := &pde.Engine{}
	res, err := eng.PriceBSM(proc, tau, pde.Spec{
		NSpotPoints: 301,
		NTimeSteps:  50,
		Terminal: func(spot float64) float64 {
			payoff := spot - v.Strike
			if payoff < 0 {
				return 0
			}
			return payoff
		},
		LowerBoundary: pde.Boundary{Kind: pde.Dirichlet, Value: func(float64) float64 { return 0 }},
	})
	require.NoError(t, err)

	gammas := pde.GammaMatrix(res)
	atmIdx := res.Grid.NearestIndex(100)
	for i := atmIdx - 3; i <= atmIdx+3; i++ {
		assert.False(t, math.IsNaN(gammas[i]))
		assert.Less(t, math.Abs(gammas[i]), 5.0, "gamma spike near strike should be damped by Rannacher smoothing")
	}
}

func TestDeltaAndGammaMonotoneForCall(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	v := product.NewEuropeanVanilla(baseFor(365), 100, product.Call)
	tau := v.Maturity()

	eng := &pde.Engine{}
	res, err := eng.PriceBSM(proc, tau, pde.Spec{
		NSpotPoints: 401,
		NTimeSteps:  300,
		Terminal: func(spot float64) float64 {
			payoff := spot - v.Strike
			if payoff < 0 {
				return 0
			}
			return payoff
		},
		LowerBoundary: pde.Boundary{Kind: pde.Dirichlet, Value: func(float64) float64 { return 0 }},
	})
	require.NoError(t, err)

	delta := pde.Delta(res, proc.Spot())
	assert.Greater(t, delta, 0.0)
	assert.Less(t, delta, 1.0)

	gamma := pde.Gamma(res, proc.Spot())
	assert.Greater(t, gamma, 0.0)
}

func TestAutocallEventRedeemsEarly(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	base := baseFor(365)
	tau := base.Maturity()
	eng := &pde.Engine{}

	res, err := eng.PriceBSM(proc, tau, pde.Spec{
		NSpotPoints: 301,
		NTimeSteps:  300,
		Terminal: func(spot float64) float64 {
			if spot >= 100 {
				return 111.2
			}
			return spot
		},
		Events: []pde.Event{
			pde.AutocallEvent(tau/2, 100, 105.6),
		},
		LowerBoundary: pde.Boundary{Kind: pde.Dirichlet, Value: func(float64) float64 { return 0 }},
	})
	require.NoError(t, err)
	assert.Greater(t, res.PV, 0.0)
	assert.Less(t, res.PV, 111.2)
}

func TestPDEDoubleNoTouchAgreesWithAnalytic(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	d := product.NewDoubleNoTouch(baseFor(182), 80, 120, 1.0, 1.0, false)
	tau := d.Maturity()

	want, err := analytic.DoubleBarrierEngine{}.Price(proc, d, proc.Spot())
	require.NoError(t, err)

	eng := &pde.Engine{}
	res, err := eng.PriceBSM(proc, tau, pde.Spec{
		NSpotPoints: 401,
		NTimeSteps:  400,
		LowerSpot:   d.Lower,
		UpperSpot:   d.Upper,
		Terminal: func(spot float64) float64 {
			return d.RebateUpper // survives to expiry without touching either bound
		},
		LowerBoundary: pde.Boundary{Kind: pde.Dirichlet, Value: func(float64) float64 { return 0 }},
		UpperBoundary: pde.Boundary{Kind: pde.Dirichlet, Value: func(float64) float64 { return 0 }},
	})
	require.NoError(t, err)
	assert.InDelta(t, want, res.PV, 0.05)
}

func TestAutocallSpecRedeemsOnClearedBarrier(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	auto := product.NewSnowball(baseFor(365), 100, []float64{103}, 80, 0.112, 0)
	tau := auto.Maturity()

	eng := &pde.Engine{}
	spec := pde.AutocallSpec(auto, []float64{tau * 0.25, tau * 0.5, tau * 0.75, tau}, 301, 2.5, 300)
	res, err := eng.PriceBSM(proc, tau, spec)
	require.NoError(t, err)
	assert.Greater(t, res.PV, 0.0)
	assert.Less(t, res.PV, (auto.Coupon*auto.Notional+auto.Notional)*1.01)
}

func TestKnockInTransferRaisesValueBelowBarrier(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.25)
	base := baseFor(365)
	tau := base.Maturity()
	eng := &pde.Engine{}

	spec := pde.TwoStateSpec{
		NSpotPoints: 301,
		NTimeSteps:  300,
		NoTouchTerminal: func(spot float64) float64 {
			return 100.0 // principal protected if never knocked in
		},
		KnockedInTerminal: func(spot float64) float64 {
			if spot < 100 {
				return spot // short-put downside
			}
			return 100.0
		},
		Events: []pde.TwoStateEvent{
			pde.KnockInTransferEvent(tau*0.3, 80, false),
		},
		LowerBoundary: pde.Boundary{Kind: pde.LinearExtrapolation},
	}
	res, err := eng.PriceBSMTwoState(proc, tau, spec)
	require.NoError(t, err)
	assert.Less(t, res.PV, 100.0*proc.DiscFactor(0)+1e-6)
	assert.Greater(t, res.PV, 0.0)
}
