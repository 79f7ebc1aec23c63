package quad

import (
	"github.com/meenmo/pricelib/engine"
	"github.com/meenmo/pricelib/process"
)

// PriceFn reprices a product under the given process/maturity.
type PriceFn func(proc *process.Process, tau float64) (Result, error)

// Delta, Gamma, Vega, Rho, and Theta are bump-and-reprice Greeks, per
// spec §4.E: unlike engine/pde, the quadrature engine does not expose a
// full grid for central-difference extraction (each bump rebuilds the
// density kernel around a different spot), so every Greek reprices.

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
	return (up.PV - down.PV) / (2 * h), nil
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
	return (up.PV - 2*base.PV + down.PV) / (h * h), nil
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
	return (up.PV - down.PV) / (2 * engine.VolBump), nil
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
	return (up.PV - down.PV) / (2 * engine.RateBump), nil
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
	return (shifted.PV - base.PV) / engine.ThetaBumpDays, nil
}
