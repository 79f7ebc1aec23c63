package tree_test

import (
	"testing"
	"time"

	"github.com/meenmo/pricelib/engine/analytic"
	"github.com/meenmo/pricelib/engine/tree"
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

func TestCRRCallAgreesWithAnalytic(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	v := product.NewEuropeanVanilla(baseFor(365), 100, product.Call)
	tau := v.Maturity()

	want, err := analytic.VanillaEngine{}.Price(proc, v, proc.Spot())
	require.NoError(t, err)

	eng := &tree.Engine{}
	got, err := eng.Price(proc, tau, tree.Spec{
		NSteps: 600,
		Terminal: func(spot float64) float64 {
			payoff := spot - v.Strike
			if payoff < 0 {
				return 0
			}
			return payoff
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, want, got, 0.1)
}

func TestAmericanPutAtLeastEuropean(t *testing.T) {
	proc := newProc(100, 0.05, 0.0, 0.25)
	v := product.NewAmericanVanilla(baseFor(365), 90, product.Put, "BAW")
	tau := v.Maturity()

	euro, err := analytic.VanillaEngine{}.Price(proc, product.NewEuropeanVanilla(v.Base, v.Strike, v.CallPut), proc.Spot())
	require.NoError(t, err)

	eng := &tree.Engine{}
	amer, err := eng.Price(proc, tau, tree.Spec{
		NSteps:   500,
		American: true,
		Terminal: func(spot float64) float64 {
			payoff := v.Strike - spot
			if payoff < 0 {
				return 0
			}
			return payoff
		},
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, amer, euro-1e-6)
}

func TestTreeUpOutBarrierCheaperThanVanilla(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	strike, level := 100.0, 130.0
	tau := baseFor(365).Maturity()
	eng := &tree.Engine{}

	vanilla, err := eng.Price(proc, tau, tree.Spec{
		NSteps: 400,
		Terminal: func(spot float64) float64 {
			p := spot - strike
			if p < 0 {
				return 0
			}
			return p
		},
	})
	require.NoError(t, err)

	barrier, err := eng.Price(proc, tau, tree.Spec{
		NSteps: 400,
		Terminal: func(spot float64) float64 {
			p := spot - strike
			if p < 0 {
				return 0
			}
			return p
		},
		KOBarrier: &tree.Barrier{Level: level, IsUp: true, Rebate: 0},
	})
	require.NoError(t, err)

	assert.Less(t, barrier, vanilla)
	assert.Greater(t, barrier, 0.0)
}

func TestPriceKnockInConvergesBelowPrincipal(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.25)
	tau := baseFor(365).Maturity()
	eng := &tree.Engine{}

	pv, err := eng.PriceKnockIn(proc, tau, tree.KnockInSpec{
		NSteps:          400,
		NoTouchTerminal: func(spot float64) float64 { return 100 },
		KnockedInTerminal: func(spot float64) float64 {
			if spot < 100 {
				return spot
			}
			return 100
		},
		KILevel: 80,
		KIIsUp:  false,
	})
	require.NoError(t, err)
	assert.Greater(t, pv, 0.0)
	assert.LessOrEqual(t, pv, 100.0*proc.DiscFactor(0)+1e-6)
}

func TestHullWhiteAsianPositiveAndBounded(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	tau := baseFor(365).Maturity()
	eng := &tree.Engine{}

	pv, err := eng.PriceAsian(proc, tau, tree.AsianSpec{
		NSteps:   60,
		NBuckets: 25,
		Strike:   100,
		CallPut:  product.Call,
	})
	require.NoError(t, err)
	assert.Greater(t, pv, 0.0)
	assert.Less(t, pv, proc.Spot())
}
