package mc_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/pricelib/engine/mc"
	"github.com/meenmo/pricelib/internal/kernel"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseFor(days int) product.Base {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return product.Base{Start: start, End: start.AddDate(0, 0, days), StepsPerYear: 243, DayCount: "ACT/365F"}
}

func newProc(spot, r, q, sigma float64) *process.Process {
	return process.NewProcess(
		process.NewQuote(spot, "SPOT"),
		process.NewConstantRate(r),
		process.NewConstantRate(q),
		process.NewConstantVol(sigma),
	)
}

func TestEuropeanCallMCNearAnalytic(t *testing.T) {
	// spec §8 scenario 1, sobol + antithetic, seed 0.
	proc := newProc(100, 0.02, 0.05, 0.16)
	v := product.NewEuropeanVanilla(baseFor(91), 100, product.Call)
	eng := &mc.Engine{Cfg: mc.Config{
		NPaths:       20000,
		StepsPerYear: 243,
		Source:       mc.Source{Method: mc.LowDiscrepancy, LD: mc.Sobol, Antithetic: true, Seed: 0},
	}}
	res, err := eng.PriceBSM(proc, v.Maturity(), mc.EuropeanVanillaKernel(v))
	require.NoError(t, err)
	assert.InDelta(t, 2.9860, res.PV, 3*res.StdErr+0.3)
}

func TestMCPriceIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	proc := newProc(100, 0.02, 0.05, 0.2)
	v := product.NewEuropeanVanilla(baseFor(180), 100, product.Call)
	eng := &mc.Engine{Cfg: mc.Config{
		NPaths:       4000,
		StepsPerYear: 100,
		Source:       mc.Source{Method: mc.Pseudorandom, Seed: 42},
	}}
	r1, err := eng.PriceBSM(proc, v.Maturity(), mc.EuropeanVanillaKernel(v))
	require.NoError(t, err)
	r2, err := eng.PriceBSM(proc, v.Maturity(), mc.EuropeanVanillaKernel(v))
	require.NoError(t, err)
	assert.Equal(t, r1.PV, r2.PV)
}

func TestBumpedDeltaRestoresExactly(t *testing.T) {
	proc := newProc(100, 0.02, 0.05, 0.2)
	orig := proc.Spot()
	restore := proc.SpotQuote().Bump(1.0)
	restore()
	assert.Equal(t, orig, proc.Spot())
}

func TestAsianKernelGeometricVsArithmetic(t *testing.T) {
	path := []float64{100, 102, 98, 105, 110}
	geo := product.NewGeometricAsian(baseFor(100), 100, product.Call)
	ari := product.NewArithmeticAsian(baseFor(100), 100, product.Call)
	geoPayoff := mc.AsianKernel(geo, nil)(path, nil)
	ariPayoff := mc.AsianKernel(ari, nil)(path, nil)
	assert.NotEqual(t, geoPayoff, ariPayoff)
}

func TestBarrierKernelKnockOut(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	b := product.NewBarrier(baseFor(365), 100, 110, product.Call, product.UpOut, 5, false)
	dt := b.Maturity() / 4
	pathBreached := []float64{100, 105, 112, 108, 106}
	pathSafe := []float64{100, 102, 104, 103, 106}
	assert.Equal(t, 5.0, mc.BarrierKernel(proc, b, 1, dt)(pathBreached, nil))
	assert.Greater(t, mc.BarrierKernel(proc, b, 1, dt)(pathSafe, nil), 0.0)
}

func TestBarrierKernelDiscountsRebateFromBreachWhenRebateAtHit(t *testing.T) {
	proc := newProc(100, 0.05, 0.0, 0.2)
	bAtHit := product.NewBarrier(baseFor(365), 100, 110, product.Call, product.UpOut, 5, true)
	bAtExpiry := product.NewBarrier(baseFor(365), 100, 110, product.Call, product.UpOut, 5, false)
	dt := bAtHit.Maturity() / 4
	// breaches at the first step: an at-hit rebate discounted from
	// breach to maturity and back out by PriceBSM's outer disc(tau)
	// multiply should be worth MORE pre-discount than the flat,
	// paid-at-expiry rebate (since it is economically paid sooner).
	path := []float64{100, 112, 108, 106, 104}
	atHit := mc.BarrierKernel(proc, bAtHit, 1, dt)(path, nil)
	atExpiry := mc.BarrierKernel(proc, bAtExpiry, 1, dt)(path, nil)
	assert.Greater(t, atHit, atExpiry)
}

func TestDoubleBarrierKernelPaysLowerOrUpperRebate(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	d := product.NewDoubleNoTouch(baseFor(365), 80, 120, 1.0, 2.0, false)
	dt := d.Maturity() / 4
	pathHitsLower := []float64{100, 90, 75, 85, 90}
	pathHitsUpper := []float64{100, 110, 125, 115, 110}
	pathSurvives := []float64{100, 95, 105, 98, 102}
	assert.Equal(t, 1.0, mc.DoubleBarrierKernel(proc, d, 1, dt)(pathHitsLower, nil))
	assert.Equal(t, 2.0, mc.DoubleBarrierKernel(proc, d, 1, dt)(pathHitsUpper, nil))
	assert.Equal(t, 2.0, mc.DoubleBarrierKernel(proc, d, 1, dt)(pathSurvives, nil))
}

func TestAccumulatorKernelStopsAtKnockOut(t *testing.T) {
	proc := newProc(100, 0.01, 0.0, 0.2)
	acc := product.NewAccumulator(baseFor(10), 100, 105, 1.0)
	path := []float64{100, 101, 102, 106, 107} // breaches at index 3
	kernelFn := mc.AccumulatorKernel(proc, acc, 1.0/252)
	total := kernelFn(path, nil)
	assert.Greater(t, total, 0.0)
}

func TestRangeAccrualKernelCountsDays(t *testing.T) {
	r := product.NewRangeAccrual(baseFor(10), 90, 110, 0.001, 1000)
	path := []float64{100, 95, 120, 105, 108}
	total := mc.RangeAccrualKernel(r)(path, nil)
	assert.InDelta(t, 3*0.001*1000, total, 1e-9)
}

func TestAirbagKernelFloorsOnlyAfterKnockIn(t *testing.T) {
	a := product.NewAirbag(baseFor(365), 100, 70, 0.7, 1.0)
	knockedInPath := []float64{100, 80, 65, 68, 60}
	safePath := []float64{100, 95, 110, 105, 120}
	knockedInPayoff := mc.AirbagKernel(a, 1)(knockedInPath, nil)
	safePayoff := mc.AirbagKernel(a, 1)(safePath, nil)
	assert.InDelta(t, 1.0*(70-60), knockedInPayoff, 1e-9)
	assert.InDelta(t, 0.7*(120-100), safePayoff, 1e-9)
}

func TestPriceHestonRejectsNonHestonProcess(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	v := product.NewEuropeanVanilla(baseFor(91), 100, product.Call)
	eng := &mc.Engine{Cfg: mc.Config{NPaths: 1000, StepsPerYear: 50, Source: mc.Source{Seed: 1}}}
	_, err := eng.PriceHeston(proc, v.Maturity(), mc.EuropeanVanillaKernel(v))
	assert.Error(t, err)
}

func TestPriceHestonNearBSMUnderFlatVolOfVol(t *testing.T) {
	hv := process.NewHestonVol(kernel.HestonParams{V0: 0.04, Kappa: 1.5, Theta: 0.04, SigmaV: 0.3, Rho: -0.6})
	proc := process.NewProcess(
		process.NewQuote(100, "SPOT"),
		process.NewConstantRate(0.02),
		process.NewConstantRate(0.0),
		hv,
	)
	v := product.NewEuropeanVanilla(baseFor(91), 100, product.Call)
	eng := &mc.Engine{Cfg: mc.Config{
		NPaths:       8000,
		StepsPerYear: 100,
		Source:       mc.Source{Method: mc.Pseudorandom, Antithetic: true, Seed: 7},
	}}
	res, err := eng.PriceHeston(proc, v.Maturity(), mc.EuropeanVanillaKernel(v))
	require.NoError(t, err)
	assert.Greater(t, res.PV, 0.0)
	assert.NotEmpty(t, res.Session)
}

func TestResultSessionReflectsCacheReuse(t *testing.T) {
	proc := newProc(100, 0.02, 0.05, 0.2)
	v := product.NewEuropeanVanilla(baseFor(180), 100, product.Call)
	eng := &mc.Engine{Cfg: mc.Config{
		NPaths:       2000,
		StepsPerYear: 50,
		Source:       mc.Source{Method: mc.Pseudorandom, Seed: 11},
	}}
	r1, err := eng.PriceBSM(proc, v.Maturity(), mc.EuropeanVanillaKernel(v))
	require.NoError(t, err)
	r2, err := eng.PriceBSM(proc, v.Maturity(), mc.EuropeanVanillaKernel(v))
	require.NoError(t, err)
	assert.Equal(t, r1.Session, r2.Session, "repeated calls with an unchanged cache key should reuse the cached shock matrix's session")

	restore := proc.SpotQuote().Bump(5.0)
	defer restore()
	r3, err := eng.PriceBSM(proc, v.Maturity(), mc.EuropeanVanillaKernel(v))
	require.NoError(t, err)
	assert.Equal(t, r1.Session, r3.Session, "bumping a quote for Greeks must still reuse the cached shock matrix (common random numbers), not force a rebuild")

	eng2 := &mc.Engine{Cfg: eng.Cfg}
	tauDouble := v.Maturity() * 2
	r4, err := eng2.PriceBSM(proc, tauDouble, mc.EuropeanVanillaKernel(v))
	require.NoError(t, err)
	r5, err := eng2.PriceBSM(proc, tauDouble/2, mc.EuropeanVanillaKernel(v))
	require.NoError(t, err)
	assert.NotEqual(t, r4.Session, r5.Session, "a changed step count must still force a shock-matrix rebuild under a new session")
}

func TestAutocallKernelRedeemsOnClearedBarrier(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	auto := product.NewSnowball(baseFor(365), 100, []float64{103}, 80, 0.112, 0)
	path := make([]float64, 6)
	for i := range path {
		path[i] = 105
	}
	obsSteps := []int{1, 2, 3, 4, 5}
	obsTaus := []float64{0.2, 0.4, 0.6, 0.8, 1.0}
	kernelFn := mc.AutocallKernel(proc, auto, obsSteps, obsTaus)
	pv := kernelFn(path, nil)
	expect := (auto.Coupon*auto.Notional + auto.Notional) * math.Exp(-0.02*0.2)
	assert.InDelta(t, expect, pv, 1e-6)
}

func TestAutocallKernelMemoryCouponPaysMissedArrearsOnClearance(t *testing.T) {
	proc := newProc(100, 0.02, 0.0, 0.2)
	phoenix := product.NewPhoenix(baseFor(365), 100, []float64{100, 100}, 90, 80, 0.05, 0)
	path := []float64{100, 85, 105}
	obsSteps := []int{1, 2}
	obsTaus := []float64{0.5, 1.0}
	kernelFn := mc.AutocallKernel(proc, phoenix, obsSteps, obsTaus)
	pv := kernelFn(path, nil)
	// Observation 1 misses the coupon barrier (85 < 90): arrears accrue.
	// Observation 2 clears both the coupon and knock-out barriers, so it
	// must pay the current coupon plus the one missed coupon in arrears.
	expect := (2*phoenix.Coupon*phoenix.Notional + phoenix.Notional) * math.Exp(-0.02*1.0)
	assert.InDelta(t, expect, pv, 1e-6)
}
