package quad_test

import (
	"testing"
	"time"

	"github.com/meenmo/pricelib/engine/analytic"
	"github.com/meenmo/pricelib/engine/quad"
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

func TestQuadVanillaCallAgreesWithAnalytic(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	v := product.NewEuropeanVanilla(baseFor(365), 100, product.Call)
	tau := v.Maturity()

	want, err := analytic.VanillaEngine{}.Price(proc, v, proc.Spot())
	require.NoError(t, err)

	eng := &quad.Engine{}
	res, err := eng.PriceBSM(proc, tau, quad.Spec{
		NSpotPoints: 401,
		NTimeSteps:  48,
		Terminal: func(spot float64) float64 {
			payoff := spot - v.Strike
			if payoff < 0 {
				return 0
			}
			return payoff
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, want, res.PV, 0.1)
}

func TestQuadKernelCacheReusedAcrossSteps(t *testing.T) {
	proc := newProc(100, 0.01, 0.0, 0.2)
	v := product.NewEuropeanVanilla(baseFor(180), 100, product.Call)
	tau := v.Maturity()
	eng := &quad.Engine{}

	res1, err := eng.PriceBSM(proc, tau, quad.Spec{
		NSpotPoints: 101,
		NTimeSteps:  10,
		Terminal: func(spot float64) float64 {
			payoff := spot - v.Strike
			if payoff < 0 {
				return 0
			}
			return payoff
		},
	})
	require.NoError(t, err)

	// Rerunning with the identical config should reuse the cached
	// kernel and produce the exact same PV.
	res2, err := eng.PriceBSM(proc, tau, quad.Spec{
		NSpotPoints: 101,
		NTimeSteps:  10,
		Terminal: func(spot float64) float64 {
			payoff := spot - v.Strike
			if payoff < 0 {
				return 0
			}
			return payoff
		},
	})
	require.NoError(t, err)
	assert.Equal(t, res1.PV, res2.PV)
}

func TestQuadBarrierLevelsNarrowMeshRange(t *testing.T) {
	highMult := 4.0
	proc := newProc(100, 0.02, 0.0, 0.2)
	eng := &quad.Engine{}
	res, err := eng.PriceBSM(proc, 1.0, quad.Spec{
		NSpotPoints:   201,
		NTimeSteps:    20,
		BarrierLevels: []float64{130},
		Terminal: func(spot float64) float64 {
			if spot >= 130 {
				return 0
			}
			payoff := spot - 100
			if payoff < 0 {
				return 0
			}
			return payoff
		},
	})
	require.NoError(t, err)
	assert.Less(t, res.Grid.Spot[res.Grid.N()-1], 100*highMult)
	assert.Greater(t, res.PV, 0.0)
}

func TestAutocallSpecRedeemsOnClearedBarrier(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	auto := product.NewSnowball(baseFor(365), 100, []float64{103}, 80, 0.112, 0)
	tau := auto.Maturity()
	eng := &quad.Engine{}

	spec := quad.AutocallSpec(auto, []float64{tau * 0.25, tau * 0.5, tau * 0.75, tau}, 201, 40)
	res, err := eng.PriceBSM(proc, tau, spec)
	require.NoError(t, err)
	assert.Greater(t, res.PV, 0.0)
	assert.Less(t, res.PV, (auto.Coupon*auto.Notional+auto.Notional)*1.01)
}

func TestQuadDeltaPositiveForCall(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	v := product.NewEuropeanVanilla(baseFor(365), 100, product.Call)
	tau := v.Maturity()
	eng := &quad.Engine{}

	priceFn := func(p *process.Process, t float64) (quad.Result, error) {
		return eng.PriceBSM(p, t, quad.Spec{
			NSpotPoints: 201,
			NTimeSteps:  20,
			Terminal: func(spot float64) float64 {
				payoff := spot - v.Strike
				if payoff < 0 {
					return 0
				}
				return payoff
			},
		})
	}
	delta, err := quad.Delta(proc, tau, priceFn)
	require.NoError(t, err)
	assert.Greater(t, delta, 0.0)
	assert.Less(t, delta, 1.0)
}
