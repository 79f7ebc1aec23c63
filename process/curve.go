package process

import (
	"math"
	"sort"
)

// RateCurve is a piecewise-linear mapping from year-fraction to rate,
// with a lookup r(τ) and a discount factor D(τ) = exp(-r(τ)·τ). Constant
// rate is the degenerate single-pillar case. Grounded on
// swap/curve.Curve's bracket-search + log-linear discount-factor
// interpolation, simplified to a direct-pillar curve since bootstrapping
// is a named Non-goal (spec §1).
type RateCurve struct {
	tenors  []float64
	rates   []float64
	version uint64
}

// NewConstantRate returns a flat RateCurve at rate r.
func NewConstantRate(r float64) *RateCurve {
	return &RateCurve{tenors: []float64{0}, rates: []float64{r}}
}

// NewRateCurve builds a piecewise-linear curve from (year-fraction, rate)
// pillars. Pillars need not be sorted on input.
func NewRateCurve(pillars map[float64]float64) *RateCurve {
	tenors := make([]float64, 0, len(pillars))
	for t := range pillars {
		tenors = append(tenors, t)
	}
	sort.Float64s(tenors)
	rates := make([]float64, len(tenors))
	for i, t := range tenors {
		rates[i] = pillars[t]
	}
	return &RateCurve{tenors: tenors, rates: rates}
}

// Rate returns the interpolated (or flat-extrapolated) rate at tau.
func (c *RateCurve) Rate(tau float64) float64 {
	n := len(c.tenors)
	if n == 0 {
		return 0
	}
	if n == 1 || tau <= c.tenors[0] {
		return c.rates[0]
	}
	if tau >= c.tenors[n-1] {
		return c.rates[n-1]
	}
	i := sort.SearchFloat64s(c.tenors, tau)
	t0, t1 := c.tenors[i-1], c.tenors[i]
	r0, r1 := c.rates[i-1], c.rates[i]
	w := (tau - t0) / (t1 - t0)
	return r0 + w*(r1-r0)
}

// DiscFactor returns D(τ) = exp(-r(τ)·τ).
func (c *RateCurve) DiscFactor(tau float64) float64 {
	if tau <= 0 {
		return 1.0
	}
	return math.Exp(-c.Rate(tau) * tau)
}

// Set replaces the curve's pillars in place, bumping its version so
// dependent process fingerprints invalidate.
func (c *RateCurve) Set(pillars map[float64]float64) {
	updated := NewRateCurve(pillars)
	c.tenors, c.rates = updated.tenors, updated.rates
	c.version++
}

// Version returns the mutation counter used by Process.Fingerprint.
func (c *RateCurve) Version() uint64 { return c.version }

// Bump shifts every pillar rate by delta (parallel shift), returning a
// restore func — the standard shape for the bump-and-reprice rho Greek.
func (c *RateCurve) Bump(delta float64) (restore func()) {
	origRates := append([]float64(nil), c.rates...)
	for i := range c.rates {
		c.rates[i] += delta
	}
	c.version++
	return func() {
		c.rates = origRates
		c.version++
	}
}
