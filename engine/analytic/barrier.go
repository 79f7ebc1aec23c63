package analytic

import (
	"math"

	"github.com/meenmo/pricelib/internal/kernel"
	"github.com/meenmo/pricelib/internal/perrors"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
)

// BarrierEngine prices single-barrier options via the Reiner-Rubinstein
// (1991) eight-formula decomposition, with the Broadie-Glasserman-Kou
// (1997) discrete-observation barrier shift applied first when the
// descriptor specifies a nonzero ObservationInterval. Grounded on
// original_source's analytic_barrier_engine.py, carried over formula for
// formula rather than reimplemented from the textbook.
type BarrierEngine struct{}

// bgkShiftBeta = -zeta(1/2)/sqrt(2*pi), the Broadie-Glasserman-Kou
// correction exponent (spec §4.G); preserved unconditionally per spec
// §9's open question on rebate-at-hit vs rebate-at-expiry combinations.
const bgkShiftBeta = 0.5826

// Price returns the barrier option's present value. KnockedOut status
// reduces to the discounted rebate (spec §8); KnockedIn reduces to the
// corresponding vanilla.
func (BarrierEngine) Price(proc *process.Process, b product.Barrier, spot float64) (float64, error) {
	tau := b.Maturity()
	if tau < 0 {
		return 0, perrors.Configuration("analytic.BarrierEngine.Price", "negative maturity %.6f", tau)
	}

	r := proc.RateCurve().Rate(tau)
	q := proc.DivCurve().Rate(tau)

	switch b.Status {
	case product.KnockedOut:
		if b.RebateAtHit {
			return b.Rebate, nil
		}
		return b.Rebate * math.Exp(-r*tau), nil
	case product.KnockedIn:
		vanilla := product.NewEuropeanVanilla(b.Base, b.Strike, b.CallPut)
		return VanillaEngine{}.Price(proc, vanilla, spot)
	}

	if tau == 0 {
		return barrierIntrinsic(b, spot), nil
	}

	vol := proc.Diffusion(tau, spot)
	drift := r - q

	barrier := b.Level
	if b.ObservationInterval > 0 {
		sign := 1.0
		if !b.Type.IsUp() {
			sign = -1.0
		}
		barrier = b.Level * math.Exp(sign*bgkShiftBeta*vol*math.Sqrt(b.ObservationInterval))
	}

	return reinerRubinstein(b, spot, barrier, tau, r, q, drift, vol), nil
}

func barrierIntrinsic(b product.Barrier, spot float64) float64 {
	if b.Breached(spot) {
		if b.Type == product.UpIn || b.Type == product.DownIn {
			payoff := float64(b.CallPut) * (spot - b.Strike)
			if payoff < 0 {
				payoff = 0
			}
			return payoff
		}
		return b.Rebate
	}
	if b.Type == product.UpOut || b.Type == product.DownOut {
		payoff := float64(b.CallPut) * (spot - b.Strike)
		if payoff < 0 {
			payoff = 0
		}
		return payoff
	}
	return b.Rebate
}

// reinerRubinstein implements the eight UIC/UIP/UOC/UOP/DIC/DIP/DOC/DOP
// formulas from the A,B,C,D,E,F helper decomposition.
func reinerRubinstein(b product.Barrier, spot, barrier, tau, r, q, drift, vol float64) float64 {
	mu := drift/(vol*vol) - 0.5
	lambda := math.Sqrt(mu*mu + 2*r/(vol*vol))
	a := math.Pow(barrier/spot, 2*mu)
	bb := math.Pow(barrier/spot, 2*mu+2)
	c := math.Pow(barrier/spot, mu+lambda)
	d := math.Pow(barrier/spot, mu-lambda)

	a1 := math.Log(spot / b.Strike)
	a2 := math.Log(spot / barrier)
	a3 := math.Log(spot * b.Strike / (barrier * barrier))
	a4 := drift + 0.5*vol*vol
	a5 := drift - 0.5*vol*vol
	a7 := vol * math.Sqrt(tau)

	d1 := (a1 + a4*tau) / a7
	d2 := (a1 + a5*tau) / a7
	d3 := (a2 + a4*tau) / a7
	d4 := (a2 + a5*tau) / a7
	d5 := (a2 - a5*tau) / a7
	d6 := (a2 - a4*tau) / a7
	d7 := (a3 - a5*tau) / a7
	d8 := (a3 - a4*tau) / a7
	d9 := -a2/a7 + lambda*a7
	d10 := -a2/a7 - lambda*a7

	expQT := math.Exp(-q * tau)
	expRT := math.Exp(-r * tau)
	N := kernel.NormCDF

	A := func(phi float64) float64 {
		return phi*spot*expQT*N(phi*d1) - phi*b.Strike*expRT*N(phi*d2)
	}
	B := func(phi float64) float64 {
		return phi*spot*expQT*N(phi*d3) - phi*b.Strike*expRT*N(phi*d4)
	}
	C := func(phi, eta float64) float64 {
		return phi*spot*expQT*bb*N(-eta*d8) - phi*b.Strike*expRT*a*N(-eta*d7)
	}
	D := func(phi, eta float64) float64 {
		return phi*spot*expQT*bb*N(-eta*d6) - phi*b.Strike*expRT*a*N(-eta*d5)
	}
	E := func(eta float64) float64 {
		return b.Rebate * expRT * (N(eta*d4) - a*N(-eta*d5))
	}
	F := func(eta float64) float64 {
		return b.Rebate * (c*N(eta*d9) + d*N(eta*d10))
	}

	inTheMoney := b.Strike >= barrier

	switch b.Type {
	case product.UpIn:
		if b.CallPut == product.Call {
			phi, eta := 1.0, -1.0
			if inTheMoney {
				return A(phi) + E(eta)
			}
			return (B(phi) - C(phi, eta) + D(phi, eta)) + E(eta)
		}
		phi, eta := -1.0, -1.0
		if inTheMoney {
			return (A(phi) - B(phi) + D(phi, eta)) + E(eta)
		}
		return C(phi, eta) + E(eta)
	case product.UpOut:
		if b.CallPut == product.Call {
			phi, eta := 1.0, -1.0
			if inTheMoney {
				return F(eta)
			}
			return (A(phi) - B(phi) + C(phi, eta) - D(phi, eta)) + F(eta)
		}
		phi, eta := -1.0, -1.0
		if inTheMoney {
			return (B(phi) - D(phi, eta)) + F(eta)
		}
		return (A(phi) - C(phi, eta)) + F(eta)
	case product.DownIn:
		if b.CallPut == product.Call {
			phi, eta := 1.0, 1.0
			if inTheMoney {
				return C(phi, eta) + E(eta)
			}
			return (A(phi) - B(phi) + D(phi, eta)) + E(eta)
		}
		phi, eta := -1.0, 1.0
		if inTheMoney {
			return (B(phi) - C(phi, eta) + D(phi, eta)) + E(eta)
		}
		return A(phi) + E(eta)
	case product.DownOut:
		if b.CallPut == product.Call {
			phi, eta := 1.0, 1.0
			if inTheMoney {
				return (A(phi) - C(phi, eta)) + F(eta)
			}
			return (B(phi) - D(phi, eta)) + F(eta)
		}
		phi, eta := -1.0, 1.0
		if inTheMoney {
			return (A(phi) - B(phi) + C(phi, eta) - D(phi, eta)) + F(eta)
		}
		return F(eta)
	}
	return 0
}
