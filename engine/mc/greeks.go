package mc

import (
	"github.com/meenmo/pricelib/engine"
	"github.com/meenmo/pricelib/process"
)

// PriceFn reprices a product under the given process and maturity. The
// bump-and-reprice Greeks below call it around one market-data bump and
// reuse the cached shock matrix from the base price call (spec §4.C/§5's
// "same shock matrix and seed" ordering guarantee): shocksFor/
// hestonShocksFor key their caches on the step count alone, not on the
// process fingerprint, so a Bump()'s version bump never forces a
// shock-matrix rebuild between the base/up/down calls.
type PriceFn func(proc *process.Process, tau float64) (Result, error)

// Delta bumps spot by engine.SpotBumpRelative and central-differences.
func (e *Engine) Delta(proc *process.Process, tau float64, priceFn PriceFn) (float64, error) {
	spot := proc.SpotQuote()
	h := spot.Value() * engine.SpotBumpRelative
	restoreUp := spot.Bump(h)
	up, err := priceFn(proc, tau)
	restoreUp()
	if err != nil {
		return 0, err
	}
	restoreDown := spot.Bump(-h)
	down, err := priceFn(proc, tau)
	restoreDown()
	if err != nil {
		return 0, err
	}
	return (up.PV - down.PV) / (2 * h), nil
}

// Gamma central-differences Delta's bump twice.
func (e *Engine) Gamma(proc *process.Process, tau float64, priceFn PriceFn) (float64, error) {
	spot := proc.SpotQuote()
	h := spot.Value() * engine.SpotBumpRelative
	base, err := priceFn(proc, tau)
	if err != nil {
		return 0, err
	}
	restoreUp := spot.Bump(h)
	up, err := priceFn(proc, tau)
	restoreUp()
	if err != nil {
		return 0, err
	}
	restoreDown := spot.Bump(-h)
	down, err := priceFn(proc, tau)
	restoreDown()
	if err != nil {
		return 0, err
	}
	return (up.PV - 2*base.PV + down.PV) / (h * h), nil
}

// Vega bumps the vol model by ±engine.VolBump through the caller-supplied
// bumpVol (for example a ConstantVol's Bump or a LocalVolSurface's
// BumpParallel), which returns the restore function, and central-differences
// priceFn around the two bumps.
func (e *Engine) Vega(proc *process.Process, tau float64, priceFn PriceFn, bumpVol func(delta float64) func()) (float64, error) {
	restore := bumpVol(engine.VolBump)
	up, err := priceFn(proc, tau)
	restore()
	if err != nil {
		return 0, err
	}
	restore = bumpVol(-engine.VolBump)
	down, err := priceFn(proc, tau)
	restore()
	if err != nil {
		return 0, err
	}
	return (up.PV - down.PV) / (2 * engine.VolBump), nil
}

// Rho bumps the rate curve by engine.RateBump.
func (e *Engine) Rho(proc *process.Process, tau float64, priceFn PriceFn) (float64, error) {
	rate := proc.RateCurve()
	restoreUp := rate.Bump(engine.RateBump)
	up, err := priceFn(proc, tau)
	restoreUp()
	if err != nil {
		return 0, err
	}
	restoreDown := rate.Bump(-engine.RateBump)
	down, err := priceFn(proc, tau)
	restoreDown()
	if err != nil {
		return 0, err
	}
	return (up.PV - down.PV) / (2 * engine.RateBump), nil
}

// Theta advances tau backward by one calendar day and reprices,
// per spec §4.C's "theta by advancing t one calendar day".
func (e *Engine) Theta(proc *process.Process, tau float64, priceFn PriceFn) (float64, error) {
	base, err := priceFn(proc, tau)
	if err != nil {
		return 0, err
	}
	shifted, err := priceFn(proc, tau-engine.ThetaBumpDays)
	if err != nil {
		return 0, err
	}
	return (shifted.PV - base.PV) / engine.ThetaBumpDays, nil
}
