package tree

import (
	"math"

	"github.com/meenmo/pricelib/internal/perrors"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
)

// AsianSpec describes a Hull-White (1993) bucketed-average binomial
// Asian run: at each lattice node, nBuckets representative running
// averages spanning the min/max average reachable from that node are
// tracked, and continuation values are linearly interpolated between
// buckets since an actual transition's resulting average rarely lands
// exactly on a neighboring node's bucket grid, per spec §4.F.
type AsianSpec struct {
	NSteps   int
	NBuckets int
	Strike   float64
	CallPut  product.CallPut
}

// PriceAsian prices an arithmetic Asian option via the bucketed-average
// binomial approximation.
func (e *Engine) PriceAsian(proc *process.Process, tau float64, spec AsianSpec) (float64, error) {
	if tau <= 0 {
		return 0, perrors.Configuration("tree.Engine.PriceAsian", "non-positive maturity %.6f", tau)
	}
	nSteps := spec.NSteps
	if nSteps < 1 {
		nSteps = 100
	}
	nBuckets := spec.NBuckets
	if nBuckets < 3 {
		nBuckets = 21
	}
	r := proc.RateCurve().Rate(tau)
	q := proc.DivCurve().Rate(tau)
	sigma := proc.Diffusion(tau, proc.Spot())
	lat := NewLattice(proc.Spot(), sigma, r, q, tau, nSteps)
	disc := math.Exp(-r * lat.Dt)

	// averageBounds[step][upMoves] = (min, max) running average
	// (including S0) reachable at that node.
	minAvg := make([][]float64, nSteps+1)
	maxAvg := make([][]float64, nSteps+1)
	for step := 0; step <= nSteps; step++ {
		minAvg[step] = make([]float64, step+1)
		maxAvg[step] = make([]float64, step+1)
		for j := 0; j <= step; j++ {
			minAvg[step][j] = extremeAverage(lat, step, j, false)
			maxAvg[step][j] = extremeAverage(lat, step, j, true)
		}
	}

	buckets := func(step, j int) []float64 {
		lo, hi := minAvg[step][j], maxAvg[step][j]
		out := make([]float64, nBuckets)
		if nBuckets == 1 {
			out[0] = (lo + hi) / 2
			return out
		}
		for k := 0; k < nBuckets; k++ {
			out[k] = lo + (hi-lo)*float64(k)/float64(nBuckets-1)
		}
		return out
	}

	// values[j][k] at the current step.
	values := make([][]float64, nSteps+1)
	for j := 0; j <= nSteps; j++ {
		bs := buckets(nSteps, j)
		row := make([]float64, nBuckets)
		for k, avg := range bs {
			row[k] = payoff(avg, spec.Strike, spec.CallPut)
		}
		values[j] = row
	}

	for step := nSteps - 1; step >= 0; step-- {
		next := make([][]float64, step+1)
		for j := 0; j <= step; j++ {
			bs := buckets(step, j)
			row := make([]float64, nBuckets)
			spotUp := lat.SpotAt(step+1, j+1)
			spotDown := lat.SpotAt(step+1, j)
			childUpBuckets := buckets(step+1, j+1)
			childDownBuckets := buckets(step+1, j)
			for k, avg := range bs {
				avgUp := (avg*float64(step+1) + spotUp) / float64(step+2)
				avgDown := (avg*float64(step+1) + spotDown) / float64(step+2)
				vUp := interpolate(childUpBuckets, values[j+1], avgUp)
				vDown := interpolate(childDownBuckets, values[j], avgDown)
				row[k] = disc * (lat.P*vUp + (1-lat.P)*vDown)
			}
			next[j] = row
		}
		values = next
	}

	return values[0][0], nil
}

// extremeAverage computes the minimum or maximum running average
// (including S0) reachable at node (step, upMoves) by front-loading the
// down moves then the up moves (minimum) or the up moves then the down
// moves (maximum) — the path that respectively spends the least or most
// time at high spot levels before settling at this node.
func extremeAverage(lat *Lattice, step, upMoves int, maximize bool) float64 {
	downMoves := step - upMoves
	sum := 0.0
	spot := lat.Spot0
	sum += spot
	if maximize {
		for i := 0; i < upMoves; i++ {
			spot *= lat.U
			sum += spot
		}
		for i := 0; i < downMoves; i++ {
			spot *= lat.D
			sum += spot
		}
	} else {
		for i := 0; i < downMoves; i++ {
			spot *= lat.D
			sum += spot
		}
		for i := 0; i < upMoves; i++ {
			spot *= lat.U
			sum += spot
		}
	}
	return sum / float64(step+1)
}

func interpolate(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 1 {
		return ys[0]
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i := 0
	for i < n-1 && xs[i+1] < x {
		i++
	}
	if xs[i+1] == xs[i] {
		return ys[i]
	}
	w := (x - xs[i]) / (xs[i+1] - xs[i])
	return ys[i] + w*(ys[i+1]-ys[i])
}

func payoff(avg, strike float64, cp product.CallPut) float64 {
	p := float64(cp) * (avg - strike)
	if p < 0 {
		return 0
	}
	return p
}
