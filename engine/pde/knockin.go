package pde

import (
	"sort"

	"github.com/meenmo/pricelib/internal/perrors"
	"github.com/meenmo/pricelib/process"
)

// TwoStateEvent fires during a coupled no-touch/knocked-in rollback; it
// can transfer value from the no-touch vector into the knocked-in one
// at nodes that have crossed the knock-in barrier.
type TwoStateEvent struct {
	Elapsed float64
	Apply   func(noTouch, knockedIn []float64, g *Grid) (newNoTouch, newKnockedIn []float64)
}

// TwoStateSpec describes a knock-in-contingent product: two value
// vectors (NoTouch and KnockedIn) rolled back simultaneously under the
// same PDE operator, since a knock-in changes the payoff function for
// the remainder of the contract's life rather than terminating it, per
// spec §4.D's coupled-vector knock-in handling.
type TwoStateSpec struct {
	NSpotPoints                  int
	NSmax                        float64
	NTimeSteps                   int
	NoTouchTerminal              func(spot float64) float64
	KnockedInTerminal            func(spot float64) float64
	Events                       []TwoStateEvent
	LowerBoundary, UpperBoundary Boundary
}

// PriceBSMTwoState rolls NoTouchTerminal and KnockedInTerminal backward
// together, applying Events (typically a KnockInTransferEvent per
// observation date) between steps.
func (e *Engine) PriceBSMTwoState(proc *process.Process, tau float64, spec TwoStateSpec) (Result, error) {
	if tau <= 0 {
		return Result{}, perrors.Configuration("pde.Engine.PriceBSMTwoState", "non-positive maturity %.6f", tau)
	}
	nSteps := spec.NTimeSteps
	if nSteps < 2 {
		nSteps = 2
	}

	grid := NewGrid(proc.Spot(), spec.NSmax, spec.NSpotPoints)
	n := grid.N()
	dt := tau / float64(nSteps)

	noTouch := make([]float64, n)
	knockedIn := make([]float64, n)
	for i, s := range grid.Spot {
		noTouch[i] = spec.NoTouchTerminal(s)
		knockedIn[i] = spec.KnockedInTerminal(s)
	}

	events := append([]TwoStateEvent(nil), spec.Events...)
	sort.Slice(events, func(i, j int) bool { return events[i].Elapsed < events[j].Elapsed })
	eventIdx := 0

	aArr := make([]float64, n)
	bArr := make([]float64, n)

	elapsed := 0.0
	for s := 0; s < nSteps; s++ {
		tauRemaining := tau - elapsed
		r := proc.RateCurve().Rate(tauRemaining)
		drift := proc.Drift(tauRemaining)
		for i, spot := range grid.Spot {
			sigma := proc.Diffusion(tauRemaining, spot)
			aArr[i] = 0.5 * sigma * sigma * spot * spot
			bArr[i] = drift * spot
		}
		theta := 0.5
		if s < 2 {
			theta = 1.0
		}

		noTouch = step(noTouch, grid.DX, dt, aArr, bArr, r, theta, elapsed, spec.LowerBoundary, spec.UpperBoundary)
		knockedIn = step(knockedIn, grid.DX, dt, aArr, bArr, r, theta, elapsed, spec.LowerBoundary, spec.UpperBoundary)
		elapsed += dt

		for eventIdx < len(events) && events[eventIdx].Elapsed <= elapsed+1e-9 {
			noTouch, knockedIn = events[eventIdx].Apply(noTouch, knockedIn, grid)
			eventIdx++
		}
	}

	pv := grid.Interpolate(noTouch, proc.Spot())
	return Result{PV: pv, Grid: grid, Value: noTouch}, nil
}

// KnockInTransferEvent overwrites the no-touch vector with the
// knocked-in vector's value at every node that has breached the
// knock-in barrier, per spec §4.D. isUp selects the breach direction.
func KnockInTransferEvent(elapsed, level float64, isUp bool) TwoStateEvent {
	return TwoStateEvent{Elapsed: elapsed, Apply: func(noTouch, knockedIn []float64, g *Grid) ([]float64, []float64) {
		newNoTouch := append([]float64(nil), noTouch...)
		for i, spot := range g.Spot {
			breached := spot >= level
			if !isUp {
				breached = spot <= level
			}
			if breached {
				newNoTouch[i] = knockedIn[i]
			}
		}
		return newNoTouch, knockedIn
	}}
}
