package analytic

import (
	"math"

	"github.com/meenmo/pricelib/internal/kernel"
	"github.com/meenmo/pricelib/internal/pconfig"
	"github.com/meenmo/pricelib/product"
)

// baroneAdesiWhaley prices an American vanilla via the BAW (1987)
// quadratic approximation: European value plus an early-exercise
// premium solved from a quadratic in the critical exercise boundary.
func baroneAdesiWhaley(spot, strike, tau, r, q, sigma float64, cp product.CallPut) float64 {
	european := europeanValue(spot, strike, tau, r, q, sigma, cp)

	if cp == product.Put {
		return baroneAdesiWhaleyPut(spot, strike, tau, r, q, sigma, european)
	}
	return baroneAdesiWhaleyCall(spot, strike, tau, r, q, sigma, european)
}

func europeanValue(spot, strike, tau, r, q, sigma float64, cp product.CallPut) float64 {
	d1, d2 := d1d2(spot, strike, tau, r, q, sigma)
	expQT := math.Exp(-q * tau)
	expRT := math.Exp(-r * tau)
	if cp == product.Call {
		return spot*expQT*kernel.NormCDF(d1) - strike*expRT*kernel.NormCDF(d2)
	}
	return strike*expRT*kernel.NormCDF(-d2) - spot*expQT*kernel.NormCDF(-d1)
}

func baroneAdesiWhaleyCall(spot, strike, tau, r, q, sigma, european float64) float64 {
	if q <= 0 {
		// no early exercise premium for a call with no dividend drag
		return european
	}
	m := 2 * r / (sigma * sigma)
	n := 2 * (r - q) / (sigma * sigma)
	k := 1 - math.Exp(-r*tau)
	q2 := (-(n - 1) + math.Sqrt((n-1)*(n-1)+4*m/k)) / 2

	sStar := newtonCriticalPriceCall(strike, tau, r, q, sigma, q2)
	if spot >= sStar {
		return spot - strike
	}
	d1, _ := d1d2(sStar, strike, tau, r, q, sigma)
	a2 := (sStar / q2) * (1 - math.Exp(-q*tau)*kernel.NormCDF(d1))
	return european + a2*math.Pow(spot/sStar, q2)
}

func baroneAdesiWhaleyPut(spot, strike, tau, r, q, sigma, european float64) float64 {
	m := 2 * r / (sigma * sigma)
	n := 2 * (r - q) / (sigma * sigma)
	k := 1 - math.Exp(-r*tau)
	q1 := (-(n - 1) - math.Sqrt((n-1)*(n-1)+4*m/k)) / 2

	sStar := newtonCriticalPricePut(strike, tau, r, q, sigma, q1)
	if spot <= sStar {
		return strike - spot
	}
	d1, _ := d1d2(sStar, strike, tau, r, q, sigma)
	a1 := -(sStar / q1) * (1 - math.Exp(-q*tau)*kernel.NormCDF(-d1))
	return european + a1*math.Pow(spot/sStar, q1)
}

// newtonCriticalPriceCall / Put solve S* from the BAW value-matching
// condition by Newton iteration, seeded at the strike.
func newtonCriticalPriceCall(strike, tau, r, q, sigma, q2 float64) float64 {
	cfg := pconfig.GetConfig()
	s := strike
	for i := 0; i < cfg.MaxNewtonIterations; i++ {
		d1, _ := d1d2(s, strike, tau, r, q, sigma)
		euro := europeanValue(s, strike, tau, r, q, sigma, product.Call)
		lhs := s - strike
		rhs := euro + (s/q2)*(1-math.Exp(-q*tau)*kernel.NormCDF(d1))
		f := lhs - rhs
		if math.Abs(f) < cfg.NewtonTolerance {
			break
		}
		fPrime := 1 - math.Exp(-q*tau)*kernel.NormCDF(d1)*(1-1/q2) - (1/q2)*math.Exp(-q*tau)*kernel.NormPDF(d1)/(sigma*math.Sqrt(tau))
		if fPrime == 0 {
			break
		}
		s -= f / fPrime
		if s <= 0 {
			s = strike / 2
		}
	}
	return s
}

func newtonCriticalPricePut(strike, tau, r, q, sigma, q1 float64) float64 {
	cfg := pconfig.GetConfig()
	s := strike
	for i := 0; i < cfg.MaxNewtonIterations; i++ {
		d1, _ := d1d2(s, strike, tau, r, q, sigma)
		euro := europeanValue(s, strike, tau, r, q, sigma, product.Put)
		lhs := strike - s
		rhs := euro - (s/q1)*(1-math.Exp(-q*tau)*kernel.NormCDF(-d1))
		f := lhs - rhs
		if math.Abs(f) < cfg.NewtonTolerance {
			break
		}
		fPrime := -1 - math.Exp(-q*tau)*kernel.NormCDF(-d1)*(1-1/q1) + (1/q1)*math.Exp(-q*tau)*kernel.NormPDF(-d1)/(sigma*math.Sqrt(tau))
		if fPrime == 0 {
			break
		}
		s -= f / fPrime
		if s <= 0 {
			s = strike / 2
		}
	}
	return s
}

// bjerksundStensland2002 prices an American vanilla via the
// Bjerksund-Stensland (2002) two-step flat-boundary approximation.
// Puts are priced via the call-put symmetry S<->K, r<->q.
func bjerksundStensland2002(spot, strike, tau, r, q, sigma float64, cp product.CallPut) float64 {
	if cp == product.Put {
		return bjerksundStensland2002Call(strike, spot, tau, q, r, sigma)
	}
	return bjerksundStensland2002Call(spot, strike, tau, r, q, sigma)
}

func bjerksundStensland2002Call(spot, strike, tau, r, q, sigma float64) float64 {
	if q <= 0 {
		return europeanValue(spot, strike, tau, r, q, sigma, product.Call)
	}

	v2 := sigma * sigma
	beta := (0.5 - (r-q)/v2) + math.Sqrt(math.Pow((r-q)/v2-0.5, 2)+2*r/v2)
	bInfinity := beta / (beta - 1) * strike
	bZero := math.Max(strike, (r/(r-q))*strike)

	hT := -((r-q)*tau + 2*sigma*math.Sqrt(tau)) * (bZero / (bInfinity - bZero))
	trigger := bZero + (bInfinity-bZero)*(1-math.Exp(hT))

	if spot >= trigger {
		return spot - strike
	}

	return phiBS(spot, tau, beta, trigger, trigger, r, q, sigma) -
		phiBS(spot, tau, beta, trigger, strike, r, q, sigma) +
		strike*phiBS(spot, tau, 0, trigger, strike, r, q, sigma) -
		strike
}

// phiBS is the Bjerksund-Stensland auxiliary function used to combine
// the flat-boundary exercise region with a correction term.
func phiBS(spot, tau, gamma, h, x, r, q, sigma float64) float64 {
	v2 := sigma * sigma
	lambda := -r + gamma*(r-q) + 0.5*gamma*(gamma-1)*v2
	sqrtTau := math.Sqrt(tau)
	d := -(math.Log(spot/h) + (r-q+(gamma-0.5)*v2)*tau) / (sigma * sqrtTau)
	kappa := 2*(r-q)/v2 + (2*gamma - 1)

	scale := math.Exp(lambda*tau) * math.Pow(spot, gamma)
	return scale * (kernel.NormCDF(d) - math.Pow(x/spot, kappa)*kernel.NormCDF(d-2*math.Log(x/spot)/(sigma*sqrtTau)))
}
