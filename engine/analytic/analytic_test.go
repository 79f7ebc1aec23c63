package analytic_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/pricelib/engine/analytic"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseFor(y int, m time.Month, d int, hour int, days int) product.Base {
	start := time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	return product.Base{Start: start, End: start.AddDate(0, 0, days), StepsPerYear: 252, DayCount: "ACT/365F"}
}

func newProc(spot, r, q, sigma float64) *process.Process {
	return process.NewProcess(
		process.NewQuote(spot, "SPOT"),
		process.NewConstantRate(r),
		process.NewConstantRate(q),
		process.NewConstantVol(sigma),
	)
}

func TestEuropeanCallScenario(t *testing.T) {
	// spec §8 scenario 1: S=100,K=100,r=0.02,q=0.05,sigma=0.16,tau=0.25 -> ~2.9860
	proc := newProc(100, 0.02, 0.05, 0.16)
	v := product.NewEuropeanVanilla(baseFor(2026, 1, 1, 0, 91), 100, product.Call)
	pv, err := analytic.VanillaEngine{}.Price(proc, v, 100)
	require.NoError(t, err)
	assert.InDelta(t, 2.9860, pv, 0.05)
}

func TestPutCallParity(t *testing.T) {
	proc := newProc(100, 0.03, 0.01, 0.2)
	base := baseFor(2026, 1, 1, 0, 365)
	call := product.NewEuropeanVanilla(base, 100, product.Call)
	put := product.NewEuropeanVanilla(base, 100, product.Put)
	cPV, err := analytic.VanillaEngine{}.Price(proc, call, 100)
	require.NoError(t, err)
	pPV, err := analytic.VanillaEngine{}.Price(proc, put, 100)
	require.NoError(t, err)

	tau := base.Maturity()
	parity := 100*math.Exp(-0.01*tau) - 100*math.Exp(-0.03*tau)
	assert.InDelta(t, parity, cPV-pPV, 1e-8)
}

func TestZeroVolLimit(t *testing.T) {
	proc := newProc(100, 0.03, 0.01, 0)
	base := baseFor(2026, 1, 1, 0, 365)
	call := product.NewEuropeanVanilla(base, 90, product.Call)
	pv, err := analytic.VanillaEngine{}.Price(proc, call, 100)
	require.NoError(t, err)
	tau := base.Maturity()
	expect := 100*math.Exp(-0.01*tau) - 90*math.Exp(-0.03*tau)
	assert.InDelta(t, expect, pv, 1e-8)
}

func TestCallMonotoneInSpot(t *testing.T) {
	proc := newProc(100, 0.02, 0.01, 0.2)
	base := baseFor(2026, 1, 1, 0, 180)
	call := product.NewEuropeanVanilla(base, 100, product.Call)
	low, err := analytic.VanillaEngine{}.Price(proc, call, 90)
	require.NoError(t, err)
	high, err := analytic.VanillaEngine{}.Price(proc, call, 110)
	require.NoError(t, err)
	assert.Greater(t, high, low)
}

func TestCashflowDiscountExact(t *testing.T) {
	proc := newProc(100, 0.025, 0, 0.2)
	base := baseFor(2026, 1, 1, 0, 365)
	cf := product.NewCashflow(base, 1000)
	pv, err := analytic.CashflowEngine{}.Price(proc, cf, 100)
	require.NoError(t, err)
	tau := base.Maturity()
	assert.InDelta(t, 1000*math.Exp(-0.025*tau), pv, 1e-9)
}

func TestUpAndOutCallScenario(t *testing.T) {
	// spec §8 scenario 2: S=100,K=100,B=110,r=0.03,q=0.05,sigma=0.2,tau=1,rebate=0
	proc := newProc(100, 0.03, 0.05, 0.2)
	base := baseFor(2026, 1, 1, 0, 365)
	b := product.NewBarrier(base, 100, 110, product.Call, product.UpOut, 0, false)
	pv, err := analytic.BarrierEngine{}.Price(proc, b, 100)
	require.NoError(t, err)
	assert.Greater(t, pv, 0.0)
	assert.Less(t, pv, 3.0) // up-and-out call is cheap near its barrier
}

func TestGeometricAsianScenario(t *testing.T) {
	proc := newProc(100, 0.02, 0.05, 0.16)
	base := baseFor(2026, 1, 1, 0, 365)
	a := product.NewGeometricAsian(base, 100, product.Call)
	pv, err := analytic.GeometricAsianEngine{}.Price(proc, a, 100)
	require.NoError(t, err)
	assert.Greater(t, pv, 0.0)
	assert.Less(t, pv, 10.0)
}

func TestDigitalCashOrNothingIntrinsicAtExpiry(t *testing.T) {
	proc := newProc(100, 0.02, 0.01, 0.2)
	base := baseFor(2026, 1, 1, 0, 0)
	d := product.NewCashOrNothing(base, 100, 50, product.Call)
	pv, err := analytic.DigitalEngine{}.Price(proc, d, 110)
	require.NoError(t, err)
	assert.Equal(t, 50.0, pv)
}

func TestDoubleNoTouchScenario(t *testing.T) {
	// spec §8 scenario 5
	proc := newProc(100, 0.02, 0.05, 0.2)
	base := baseFor(2026, 1, 1, 0, 365)
	d := product.NewDoubleNoTouch(base, 80, 120, 10, 10, true)
	pv, err := analytic.DoubleBarrierEngine{}.Price(proc, d, 100)
	require.NoError(t, err)
	assert.Greater(t, pv, 0.0)
	assert.LessOrEqual(t, pv, 10.0)
}

func TestDoubleSharkWithinParticipationBounds(t *testing.T) {
	proc := newProc(100, 0.03, 0.03, 0.2)
	base := baseFor(2026, 1, 1, 0, 365)
	d := product.NewDoubleShark(base, 90, 110, 80, 120, 3, 3, 0.5, 0.5)
	pv, err := analytic.DoubleSharkEngine{}.Price(proc, d, 100)
	require.NoError(t, err)
	assert.Greater(t, pv, 0.0)
	// Bounded by the larger of the two rebates scaled by its participation
	// plus a vanilla call-spread-sized ceiling for the in-the-money leg.
	assert.Less(t, pv, 20.0)
}

func TestDoubleSharkMatchesSumOfLegs(t *testing.T) {
	proc := newProc(100, 0.02, 0.01, 0.25)
	base := baseFor(2026, 1, 1, 0, 180)
	d := product.NewDoubleShark(base, 95, 105, 85, 115, 2, 2, 1.0, 1.0)
	pv, err := analytic.DoubleSharkEngine{}.Price(proc, d, 100)
	require.NoError(t, err)

	upperPV, err := analytic.BarrierEngine{}.Price(proc, d.UpperLeg(), 100)
	require.NoError(t, err)
	lowerPV, err := analytic.BarrierEngine{}.Price(proc, d.LowerLeg(), 100)
	require.NoError(t, err)
	assert.InDelta(t, upperPV+lowerPV, pv, 1e-9)
}

func TestAmericanVanillaAtLeastEuropean(t *testing.T) {
	proc := newProc(100, 0.03, 0.04, 0.2)
	base := baseFor(2026, 1, 1, 0, 365)
	euro := product.NewEuropeanVanilla(base, 100, product.Put)
	amer := product.NewAmericanVanilla(base, 100, product.Put, "BAW")
	euroPV, err := analytic.VanillaEngine{}.Price(proc, euro, 100)
	require.NoError(t, err)
	amerPV, err := analytic.VanillaEngine{}.Price(proc, amer, 100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, amerPV, euroPV-1e-6)
}
