package mc

import (
	"math"

	"github.com/meenmo/pricelib/internal/kernel"
	"github.com/meenmo/pricelib/internal/perrors"
	"github.com/meenmo/pricelib/internal/plog"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
)

// Config holds the MC-specific engine parameters spec §6 names:
// n_path, rands_method, antithetic_variate, ld_method, seed,
// steps_per_year.
type Config struct {
	NPaths        int
	Source        Source
	StepsPerYear  int
}

// Engine is the Monte Carlo pricing engine, per spec §4.C. It caches the
// last base-case shock matrix, keyed only on step count, so bump-and-
// reprice Greeks reuse the same pathwise shocks across the base/up/down
// calls even though each bump advances the process's own fingerprint
// (spec §5 ordering guarantee).
type Engine struct {
	Cfg Config

	cachedShocks [][]float64
	cachedNSteps int

	cachedHestonZV     [][]float64
	cachedHestonZS     [][]float64
	cachedHestonU      [][]float64
	cachedHestonNSteps int

	// session tags the shock matrix currently cached by this Engine: a
	// fresh id is minted every time shocksFor/hestonShocksFor rebuilds
	// the cache, and carried onto Result.Session so a caller can compare
	// two Results' Session fields to tell whether a reprice reused the
	// cached shocks or forced a rebuild, without re-deriving the cache
	// key itself.
	session process.Session
}

// Result carries the PV plus the MC standard error, per spec §4.C step 5.
type Result struct {
	PV      float64
	StdErr  float64
	Session string
}

// shocksFor returns the cached (N_paths, n_step) shock matrix, rebuilding
// it only when the step count changes. The matrix is a pure function of
// Cfg (paths, seed, RNG method) and n_step alone — it never depends on
// market data — so bump-and-reprice Greeks, which mutate the process
// and therefore its Fingerprint between the base/up/down calls, reuse
// the identical cached matrix instead of forcing a rebuild on every
// bump. proc is accepted (and its fingerprint logged) purely for
// diagnostics; it is not part of the cache key.
func (e *Engine) shocksFor(proc *process.Process, nSteps int) [][]float64 {
	if e.cachedShocks != nil && nSteps == e.cachedNSteps {
		return e.cachedShocks
	}
	e.session = process.NewSession()
	plog.Infof("mc[%s]: rebuilding shock matrix (paths=%d steps=%d fingerprint=%d)",
		e.session, e.Cfg.NPaths, nSteps, proc.Fingerprint())
	shocks := e.Cfg.Source.Matrix(e.Cfg.NPaths, nSteps)
	e.cachedShocks = shocks
	e.cachedNSteps = nSteps
	return shocks
}

// NSteps returns the ⌈τ·steps_per_year⌉ path-step count spec §4.C fixes
// for a given maturity and steps-per-year density; callers that need to
// align an observation schedule onto the same grid (schedule.StepIndices)
// must derive their step count the identical way PriceBSM does.
func NSteps(tau float64, stepsPerYear int) int {
	n := int(math.Ceil(tau * float64(stepsPerYear)))
	if n < 1 {
		n = 1
	}
	return n
}

// PriceBSM runs the MC procedure of spec §4.C steps 1-5 for a payoff
// kernel operating on BSM paths.
func (e *Engine) PriceBSM(proc *process.Process, tau float64, kernelFn PayoffKernel) (Result, error) {
	if tau < 0 {
		return Result{}, perrors.Configuration("mc.Engine.PriceBSM", "negative maturity %.6f", tau)
	}
	nSteps := NSteps(tau, e.Cfg.StepsPerYear)
	shocks := e.shocksFor(proc, nSteps)
	paths, err := GenerateBSM(proc, proc.Spot(), tau, shocks)
	if err != nil {
		return Result{}, err
	}

	payoffs := make([]float64, len(paths.Spot))
	disc := proc.DiscFactor(tau)
	for i, path := range paths.Spot {
		payoffs[i] = disc * kernelFn(path, nil)
	}
	mean, stderr := kernel.MeanStdErr(payoffs)
	return Result{PV: mean, StdErr: stderr, Session: e.session.String()}, nil
}

// PayoffKernel evaluates a single path's discounted-at-the-end payoff;
// variance path (under Heston) is passed through when non-nil.
type PayoffKernel func(spotPath, varPath []float64) float64

// EuropeanVanillaKernel builds the terminal-payoff kernel for a Vanilla
// descriptor.
func EuropeanVanillaKernel(v product.Vanilla) PayoffKernel {
	return func(spotPath, _ []float64) float64 {
		terminal := spotPath[len(spotPath)-1]
		payoff := float64(v.CallPut) * (terminal - v.Strike)
		if payoff < 0 {
			return 0
		}
		return payoff
	}
}

// AsianKernel builds the averaging-payoff kernel for an Asian
// descriptor, averaging over obsIndices into the path (or every step if
// obsIndices is empty).
func AsianKernel(a product.Asian, obsIndices []int) PayoffKernel {
	return func(spotPath, _ []float64) float64 {
		idx := obsIndices
		if len(idx) == 0 {
			idx = make([]int, len(spotPath)-1)
			for i := range idx {
				idx[i] = i + 1
			}
		}
		var avg float64
		if a.Method == product.Geometric {
			logSum := 0.0
			for _, i := range idx {
				logSum += math.Log(spotPath[i])
			}
			avg = math.Exp(logSum / float64(len(idx)))
		} else {
			sum := 0.0
			for _, i := range idx {
				sum += spotPath[i]
			}
			avg = sum / float64(len(idx))
		}
		payoff := float64(a.CallPut) * (avg - a.Strike)
		if payoff < 0 {
			payoff = 0
		}
		if a.Cap > 0 && payoff > a.Cap {
			payoff = a.Cap
		}
		return payoff
	}
}

// BarrierKernel builds the knock-in/out payoff kernel for a Barrier
// descriptor, testing every discreteStep-th node (or every node when
// discreteStep<=1) as the continuous-monitoring approximation, per spec
// §4.C. dt is the path's per-step year fraction (tau/len(spotPath)-1);
// when b.RebateAtHit is set, a knock-out rebate is forward-valued from
// the breach step to maturity so PriceBSM's single outer disc(tau)
// multiply discounts it back to its true breach-time PV, matching
// engine/analytic/barrier.go's RebateAtHit branch instead of always
// treating the rebate as maturity-paid.
func BarrierKernel(proc *process.Process, b product.Barrier, discreteStep int, dt float64) PayoffKernel {
	if discreteStep < 1 {
		discreteStep = 1
	}
	tau := b.Maturity()
	discTau := proc.DiscFactor(tau)
	return func(spotPath, _ []float64) float64 {
		breachedAt := -1
		for i := 0; i < len(spotPath); i += discreteStep {
			if b.Breached(spotPath[i]) {
				breachedAt = i
				break
			}
		}
		terminal := spotPath[len(spotPath)-1]
		vanillaPayoff := func() float64 {
			p := float64(b.CallPut) * (terminal - b.Strike)
			if p < 0 {
				return 0
			}
			return p
		}
		rebateValue := func() float64 {
			if !b.RebateAtHit || discTau == 0 {
				return b.Rebate
			}
			tBreach := float64(breachedAt) * dt
			return b.Rebate * proc.DiscFactor(tBreach) / discTau
		}

		switch b.Type {
		case product.UpIn, product.DownIn:
			if breachedAt >= 0 {
				return vanillaPayoff()
			}
			return b.Rebate
		default: // UpOut, DownOut
			if breachedAt >= 0 {
				return rebateValue()
			}
			return vanillaPayoff()
		}
	}
}

// DoubleBarrierKernel builds the two-sided knock-out payoff kernel for a
// DoubleBarrier descriptor, mirroring BarrierKernel's breach tracking and
// RebateAtHit forward-valuing for whichever bound is struck first. A path
// that survives to maturity pays the upper rebate, per
// engine/analytic/double_barrier.go's no-touch survival payoff (this
// module does not distinguish RebateLower/RebateUpper on survival since
// the analytic engine itself only ever pays RebateUpper there).
func DoubleBarrierKernel(proc *process.Process, d product.DoubleBarrier, discreteStep int, dt float64) PayoffKernel {
	if discreteStep < 1 {
		discreteStep = 1
	}
	tau := d.Maturity()
	discTau := proc.DiscFactor(tau)
	return func(spotPath, _ []float64) float64 {
		breachedAt := -1
		hitLower := false
		for i := 0; i < len(spotPath); i += discreteStep {
			s := spotPath[i]
			if s <= d.Lower || s >= d.Upper {
				breachedAt = i
				hitLower = s <= d.Lower
				break
			}
		}
		if breachedAt < 0 {
			return d.RebateUpper
		}
		rebate := d.RebateUpper
		if hitLower {
			rebate = d.RebateLower
		}
		if !d.RebateAtHit || discTau == 0 {
			return rebate
		}
		tBreach := float64(breachedAt) * dt
		return rebate * proc.DiscFactor(tBreach) / discTau
	}
}

// AirbagKernel builds the knock-in-contingent payoff kernel for an
// Airbag descriptor, testing every discreteStep-th node (or every node
// when discreteStep<=1) as the continuous-monitoring approximation.
func AirbagKernel(a product.Airbag, discreteStep int) PayoffKernel {
	if discreteStep < 1 {
		discreteStep = 1
	}
	return func(spotPath, _ []float64) float64 {
		knockedIn := false
		for i := 0; i < len(spotPath); i += discreteStep {
			if a.Breached(spotPath[i]) {
				knockedIn = true
				break
			}
		}
		return a.Payoff(spotPath[len(spotPath)-1], knockedIn)
	}
}

// AccumulatorKernel builds the daily-accrual kernel for an Accumulator
// descriptor, summing discounted daily accruals until knock-out.
func AccumulatorKernel(proc *process.Process, a product.Accumulator, dt float64) PayoffKernel {
	return func(spotPath, _ []float64) float64 {
		total := 0.0
		for i, s := range spotPath {
			if a.Terminated(s) {
				break
			}
			tRemaining := float64(len(spotPath)-1-i) * dt
			total += a.DailyAccrual(s) * proc.DiscFactor(tRemaining)
		}
		return total
	}
}

// RangeAccrualKernel builds the per-day coupon kernel for a
// RangeAccrual descriptor.
func RangeAccrualKernel(r product.RangeAccrual) PayoffKernel {
	return func(spotPath, _ []float64) float64 {
		days := 0
		for _, s := range spotPath[1:] {
			if r.InRange(s) {
				days++
			}
		}
		return float64(days) * r.DailyCoupon * r.Notional
	}
}

// AutocallKernel builds the observation-driven payoff kernel for an
// Autocallable descriptor: on the first surviving observation whose
// spot clears the knock-out barrier, emit the accrued coupon and stop;
// otherwise fall through to the knock-in-conditional terminal payoff.
// obsSteps gives the path-index of each observation date.
func AutocallKernel(proc *process.Process, a product.Autocallable, obsSteps []int, obsTaus []float64) PayoffKernel {
	return func(spotPath, _ []float64) float64 {
		memoryCoupons := 0.0
		missedCoupons := 0
		for i, step := range obsSteps {
			if i < a.LockTerm {
				continue
			}
			s := spotPath[step]
			barrier := a.BarrierAt(i)
			cleared := s >= barrier

			switch a.Style {
			case product.FixedCoupon:
				if cleared {
					return (a.Coupon*a.Notional + a.Notional) * proc.DiscFactor(obsTaus[i])
				}
			case product.MemoryCoupon:
				// A coupon-barrier clearance pays the current coupon plus
				// every coupon missed since the last payment (the
				// "memory" feature); a miss just accrues arrears.
				if s >= a.CouponBarrier {
					memoryCoupons += a.Coupon * float64(missedCoupons+1) * a.Notional * proc.DiscFactor(obsTaus[i])
					missedCoupons = 0
				} else {
					missedCoupons++
				}
				if cleared {
					return memoryCoupons + a.Notional*proc.DiscFactor(obsTaus[i])
				}
			case product.DigitalCoupon:
				if cleared {
					payout := a.Notional
					if s >= a.CouponBarrier {
						payout += a.Coupon * a.Notional
					}
					return payout * proc.DiscFactor(obsTaus[i])
				}
			default: // StepDownCoupon
				if cleared {
					return (a.Coupon*a.Notional + a.Notional) * proc.DiscFactor(obsTaus[i])
				}
			}
		}

		terminal := spotPath[len(spotPath)-1]
		tau := obsTaus[len(obsTaus)-1]
		if terminal > a.KnockInLevel {
			return memoryCoupons + a.Notional*proc.DiscFactor(tau)
		}
		// Knocked in: the holder's downside converts to a levered
		// position in CallPut direction struck at KnockInLevel.
		embedded := 1 + float64(a.CallPut)*a.Participation*(terminal-a.KnockInLevel)/a.KnockInLevel
		return memoryCoupons + a.Notional*embedded*proc.DiscFactor(tau)
	}
}

// AutocallPriceKernel wraps AutocallKernel so it can be handed straight
// to PriceBSM: AutocallKernel's returned values are already discounted
// to the valuation date at each observation's own tau, but PriceBSM
// multiplies every kernel output by a single outer disc(tau_maturity).
// Dividing by that same factor here cancels it, leaving PriceBSM's
// outer multiply as a no-op and the per-observation discounting intact.
// This replaces the cmd/pricecli-local wrapper the two call sites used
// to duplicate.
func AutocallPriceKernel(proc *process.Process, a product.Autocallable, obsSteps []int, obsTaus []float64) PayoffKernel {
	inner := AutocallKernel(proc, a, obsSteps, obsTaus)
	tau := obsTaus[len(obsTaus)-1]
	discMaturity := proc.DiscFactor(tau)
	return func(spotPath, varPath []float64) float64 {
		return inner(spotPath, varPath) / discMaturity
	}
}
