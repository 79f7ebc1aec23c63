// Package tree implements the CRR binomial-tree pricing engine of spec
// §4.F: vanilla/American/barrier pricing by vectorized terminal payoff
// and backward rollback, plus a Hull-White bucketed-average lattice for
// arithmetic Asian options.
package tree

import "math"

// Lattice holds the per-step up/down multipliers and risk-neutral
// probability of a CRR binomial tree, per spec §4.F: u=exp(σ√Δt),
// d=1/u, p=(exp((r-q)Δt)-d)/(u-d).
type Lattice struct {
	Spot0  float64
	U, D   float64
	P      float64
	Dt     float64
	NSteps int
}

// NewLattice builds a CRR lattice over [0, tau] with nSteps steps.
func NewLattice(spot0, sigma, r, q, tau float64, nSteps int) *Lattice {
	if nSteps < 1 {
		nSteps = 1
	}
	dt := tau / float64(nSteps)
	u := math.Exp(sigma * math.Sqrt(dt))
	d := 1 / u
	growth := math.Exp((r - q) * dt)
	p := (growth - d) / (u - d)
	return &Lattice{Spot0: spot0, U: u, D: d, P: p, Dt: dt, NSteps: nSteps}
}

// SpotAt returns the spot level at the node with `upMoves` up moves out
// of `step` total moves.
func (l *Lattice) SpotAt(step, upMoves int) float64 {
	downMoves := step - upMoves
	return l.Spot0 * math.Pow(l.U, float64(upMoves)) * math.Pow(l.D, float64(downMoves))
}

// TerminalSpots returns the nSteps+1 terminal spot levels, upMoves
// ascending.
func (l *Lattice) TerminalSpots() []float64 {
	out := make([]float64, l.NSteps+1)
	for i := range out {
		out[i] = l.SpotAt(l.NSteps, i)
	}
	return out
}
