package analytic

import (
	"math"

	"github.com/meenmo/pricelib/internal/kernel"
	"github.com/meenmo/pricelib/internal/perrors"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
)

// DigitalEngine prices cash-or-nothing (European) and one-touch
// (American) digitals, per spec §4.G.
type DigitalEngine struct{}

func (DigitalEngine) Price(proc *process.Process, dig product.Digital, spot float64) (float64, error) {
	tau := dig.Maturity()
	if tau < 0 {
		return 0, perrors.Configuration("analytic.DigitalEngine.Price", "negative maturity %.6f", tau)
	}

	r := proc.RateCurve().Rate(tau)
	q := proc.DivCurve().Rate(tau)

	switch dig.Status {
	case product.KnockedOut:
		return 0, nil
	case product.KnockedIn:
		return dig.Payout * math.Exp(-r*tau), nil
	}

	if tau == 0 {
		return digitalIntrinsic(dig, spot), nil
	}
	vol := proc.Diffusion(tau, spot)

	switch dig.Style {
	case product.DigitalEuropean:
		return cashOrNothing(dig, spot, tau, r, q, vol), nil
	case product.DigitalAmericanTouch:
		return oneTouch(dig, spot, tau, r, q, vol), nil
	case product.DigitalAmericanNoTouch:
		touch := oneTouch(dig, spot, tau, r, q, vol)
		return dig.Payout*math.Exp(-r*tau) - touch, nil
	}
	return 0, perrors.Configuration("analytic.DigitalEngine.Price", "unsupported digital style %d", dig.Style)
}

func digitalIntrinsic(dig product.Digital, spot float64) float64 {
	itm := (dig.CallPut == product.Call && spot >= dig.Strike) || (dig.CallPut == product.Put && spot <= dig.Strike)
	if itm {
		return dig.Payout
	}
	return 0
}

// cashOrNothing is the standard Black-Scholes cash-or-nothing formula:
// pay Payout at expiry if spot finishes in-the-money.
func cashOrNothing(dig product.Digital, spot, tau, r, q, vol float64) float64 {
	_, d2 := d1d2(spot, dig.Strike, tau, r, q, vol)
	if dig.CallPut == product.Call {
		return dig.Payout * math.Exp(-r*tau) * kernel.NormCDF(d2)
	}
	return dig.Payout * math.Exp(-r*tau) * kernel.NormCDF(-d2)
}

// oneTouch prices a single-barrier American touch option (rebate paid
// immediately on the first crossing of Strike, treated as the touch
// level), reusing the Reiner-Rubinstein rebate terms E/F via the
// barrier engine's knock-out decomposition: a one-touch-up is
// economically a down-and-out's complement, priced here directly via
// the standard Reiner-Rubinstein binary-barrier formula.
func oneTouch(dig product.Digital, spot, tau, r, q, vol float64) float64 {
	level := dig.Strike
	up := level >= spot
	mu := (r - q) / (vol * vol) - 0.5
	lambda := math.Sqrt(mu*mu + 2*r/(vol*vol))
	z := math.Log(level/spot) / (vol * math.Sqrt(tau)) + lambda*vol*math.Sqrt(tau)

	var eta float64
	if up {
		eta = -1
	} else {
		eta = 1
	}
	x := math.Pow(level/spot, mu+lambda)*kernel.NormCDF(eta*z) +
		math.Pow(level/spot, mu-lambda)*kernel.NormCDF(eta*(z-2*lambda*vol*math.Sqrt(tau)))
	return dig.Payout * x
}
