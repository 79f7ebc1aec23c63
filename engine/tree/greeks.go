package tree

import (
	"github.com/meenmo/pricelib/engine"
	"github.com/meenmo/pricelib/process"
)

// PriceFn reprices a product under the given process/maturity.
type PriceFn func(proc *process.Process, tau float64) (float64, error)

// Delta, Gamma, Vega, Rho, and Theta are bump-and-reprice Greeks per
// spec §4.F; the American-exercise overlay makes a clean analytic/grid
// differencing approach unreliable near the exercise boundary, so the
// tree engine reprices for every Greek like MC and quadrature.

func Delta(proc *process.Process, tau float64, priceFn PriceFn) (float64, error) {
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
	return (up - down) / (2 * h), nil
}

func Gamma(proc *process.Process, tau float64, priceFn PriceFn) (float64, error) {
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
	return (up - 2*base + down) / (h * h), nil
}

func Vega(proc *process.Process, tau float64, priceFn PriceFn, bumpVol func(delta float64) func()) (float64, error) {
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
	return (up - down) / (2 * engine.VolBump), nil
}

func Rho(proc *process.Process, tau float64, priceFn PriceFn) (float64, error) {
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
	return (up - down) / (2 * engine.RateBump), nil
}

func Theta(proc *process.Process, tau float64, priceFn PriceFn) (float64, error) {
	base, err := priceFn(proc, tau)
	if err != nil {
		return 0, err
	}
	shifted, err := priceFn(proc, tau-engine.ThetaBumpDays)
	if err != nil {
		return 0, err
	}
	return (shifted - base) / engine.ThetaBumpDays, nil
}
