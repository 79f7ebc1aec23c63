package tree

import (
	"math"

	"github.com/meenmo/pricelib/internal/perrors"
	"github.com/meenmo/pricelib/process"
)

// Barrier describes an optional knock-out overlay applied during
// rollback: every node whose spot has crossed Level is forced to
// Rebate, per spec §4.F's barrier handling ("rebate-forcing" applied
// directly at each node rather than a second coupled tree, which this
// package reserves for knock-in via PriceKnockIn).
type Barrier struct {
	Level float64
	IsUp  bool
	Rebate float64
}

func (b *Barrier) breached(spot float64) bool {
	if b == nil {
		return false
	}
	if b.IsUp {
		return spot >= b.Level
	}
	return spot <= b.Level
}

// Spec describes one CRR tree pricing run.
type Spec struct {
	NSteps   int
	Terminal func(spot float64) float64
	// Intrinsic, when American is true, is compared against the
	// continuation value at every node (max(intrinsic, continuation)
	// overlay per spec §4.F); defaults to Terminal when nil.
	Intrinsic func(spot float64) float64
	American  bool
	KOBarrier *Barrier
}

// Engine is the CRR binomial-tree pricing engine.
type Engine struct{}

// Price rolls spec.Terminal backward through a CRR lattice built from
// proc's current drift/diffusion, applying the American early-exercise
// overlay and/or a knock-out barrier rebate at every node.
func (e *Engine) Price(proc *process.Process, tau float64, spec Spec) (float64, error) {
	if tau <= 0 {
		return 0, perrors.Configuration("tree.Engine.Price", "non-positive maturity %.6f", tau)
	}
	nSteps := spec.NSteps
	if nSteps < 1 {
		nSteps = 200
	}
	r := proc.RateCurve().Rate(tau)
	q := proc.DivCurve().Rate(tau)
	sigma := proc.Diffusion(tau, proc.Spot())
	lat := NewLattice(proc.Spot(), sigma, r, q, tau, nSteps)
	disc := math.Exp(-r * lat.Dt)

	intrinsic := spec.Intrinsic
	if intrinsic == nil {
		intrinsic = spec.Terminal
	}

	values := make([]float64, nSteps+1)
	for i := range values {
		spot := lat.SpotAt(nSteps, i)
		values[i] = spec.Terminal(spot)
		if spec.KOBarrier.breached(spot) {
			values[i] = spec.KOBarrier.Rebate
		}
	}

	for step := nSteps - 1; step >= 0; step-- {
		next := make([]float64, step+1)
		for i := 0; i <= step; i++ {
			cont := disc * (lat.P*values[i+1] + (1-lat.P)*values[i])
			spot := lat.SpotAt(step, i)
			if spec.KOBarrier.breached(spot) {
				next[i] = spec.KOBarrier.Rebate
				continue
			}
			if spec.American {
				if iv := intrinsic(spot); iv > cont {
					cont = iv
				}
			}
			next[i] = cont
		}
		values = next
	}
	return values[0], nil
}

// KnockInSpec prices a knock-in-contingent payoff via a coupled
// no-touch/knocked-in tree rollback, mirroring engine/pde's two-vector
// technique: a knock-in changes the payoff function for the remainder
// of the tree's life rather than terminating it.
type KnockInSpec struct {
	NSteps            int
	NoTouchTerminal   func(spot float64) float64
	KnockedInTerminal func(spot float64) float64
	KILevel           float64
	KIIsUp            bool
}

// PriceKnockIn rolls NoTouchTerminal and KnockedInTerminal back
// together, overwriting the no-touch value with the knocked-in value at
// every node that has crossed KILevel.
func (e *Engine) PriceKnockIn(proc *process.Process, tau float64, spec KnockInSpec) (float64, error) {
	if tau <= 0 {
		return 0, perrors.Configuration("tree.Engine.PriceKnockIn", "non-positive maturity %.6f", tau)
	}
	nSteps := spec.NSteps
	if nSteps < 1 {
		nSteps = 200
	}
	r := proc.RateCurve().Rate(tau)
	q := proc.DivCurve().Rate(tau)
	sigma := proc.Diffusion(tau, proc.Spot())
	lat := NewLattice(proc.Spot(), sigma, r, q, tau, nSteps)
	disc := math.Exp(-r * lat.Dt)

	noTouch := make([]float64, nSteps+1)
	knockedIn := make([]float64, nSteps+1)
	for i := range noTouch {
		spot := lat.SpotAt(nSteps, i)
		noTouch[i] = spec.NoTouchTerminal(spot)
		knockedIn[i] = spec.KnockedInTerminal(spot)
		if breachedKI(spec, spot) {
			noTouch[i] = knockedIn[i]
		}
	}

	for step := nSteps - 1; step >= 0; step-- {
		nextNoTouch := make([]float64, step+1)
		nextKnockedIn := make([]float64, step+1)
		for i := 0; i <= step; i++ {
			nextKnockedIn[i] = disc * (lat.P*knockedIn[i+1] + (1-lat.P)*knockedIn[i])
			contNoTouch := disc * (lat.P*noTouch[i+1] + (1-lat.P)*noTouch[i])
			spot := lat.SpotAt(step, i)
			if breachedKI(spec, spot) {
				contNoTouch = nextKnockedIn[i]
			}
			nextNoTouch[i] = contNoTouch
		}
		noTouch, knockedIn = nextNoTouch, nextKnockedIn
	}
	return noTouch[0], nil
}

func breachedKI(spec KnockInSpec, spot float64) bool {
	if spec.KIIsUp {
		return spot >= spec.KILevel
	}
	return spot <= spec.KILevel
}
