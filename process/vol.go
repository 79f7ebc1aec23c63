package process

import (
	"math"
	"sort"

	"github.com/meenmo/pricelib/internal/kernel"
)

// Vol is the capability set every volatility model exposes: evaluate
// σ(τ, S). Heston additionally exposes its raw parameters for engines
// that advance variance directly (MC/PDE/quadrature under Heston).
type Vol interface {
	Sigma(tau, spot float64) float64
	Version() uint64
}

// ConstantVol is a flat scalar volatility.
type ConstantVol struct {
	sigma   float64
	version uint64
}

// NewConstantVol constructs a flat volatility surface.
func NewConstantVol(sigma float64) *ConstantVol { return &ConstantVol{sigma: sigma} }

func (v *ConstantVol) Sigma(tau, spot float64) float64 { return v.sigma }
func (v *ConstantVol) Version() uint64                 { return v.version }

// Set mutates the flat vol level (used by the vega bump-and-reprice Greek).
func (v *ConstantVol) Set(sigma float64) { v.sigma = sigma; v.version++ }

// Bump shifts the vol level by delta, returning a restore func.
func (v *ConstantVol) Bump(delta float64) (restore func()) {
	orig := v.sigma
	v.Set(orig + delta)
	return func() { v.Set(orig) }
}

// LocalVolSurface is a 2-D grid indexed by (expiry, strike) with
// bilinear interpolation, grounded on process/curve.go's bracket-search
// pattern generalized to two axes.
type LocalVolSurface struct {
	expiries []float64
	strikes  []float64
	grid     [][]float64 // grid[i][j] = sigma(expiries[i], strikes[j])
	version  uint64
}

// NewLocalVolSurface builds a local-vol grid. expiries and strikes must
// each be strictly increasing, and grid must be len(expiries) x len(strikes).
func NewLocalVolSurface(expiries, strikes []float64, grid [][]float64) *LocalVolSurface {
	return &LocalVolSurface{expiries: expiries, strikes: strikes, grid: grid}
}

func bracket(xs []float64, x float64) (i0, i1 int, w float64) {
	n := len(xs)
	if n == 1 {
		return 0, 0, 0
	}
	if x <= xs[0] {
		return 0, 1, 0
	}
	if x >= xs[n-1] {
		return n - 2, n - 1, 1
	}
	i := sort.SearchFloat64s(xs, x)
	return i - 1, i, (x - xs[i-1]) / (xs[i] - xs[i-1])
}

// Sigma bilinearly interpolates the local-vol grid at (tau, spot),
// treating strike as a proxy axis for spot (standard local-vol usage:
// sigma(tau, S_t) reads the grid at the current spot level).
func (v *LocalVolSurface) Sigma(tau, spot float64) float64 {
	ei0, ei1, ew := bracket(v.expiries, tau)
	si0, si1, sw := bracket(v.strikes, spot)

	v00 := v.grid[ei0][si0]
	v01 := v.grid[ei0][si1]
	v10 := v.grid[ei1][si0]
	v11 := v.grid[ei1][si1]

	top := v00 + sw*(v01-v00)
	bot := v10 + sw*(v11-v10)
	return top + ew*(bot-top)
}

func (v *LocalVolSurface) Version() uint64 { return v.version }

// BumpParallel shifts every grid node by delta, returning a restore func.
func (v *LocalVolSurface) BumpParallel(delta float64) (restore func()) {
	orig := make([][]float64, len(v.grid))
	for i, row := range v.grid {
		orig[i] = append([]float64(nil), row...)
		for j := range row {
			v.grid[i][j] += delta
		}
	}
	v.version++
	return func() {
		v.grid = orig
		v.version++
	}
}

// HestonVol wraps the Heston parameter set and satisfies Vol via the
// Black-Scholes-equivalent instantaneous vol sqrt(v0) for engines that
// only need a scalar (e.g. closed-form approximations used as a sanity
// baseline); engines that simulate the full Heston dynamics use Params()
// directly.
type HestonVol struct {
	params  kernel.HestonParams
	version uint64
}

// NewHestonVol constructs a Heston volatility model.
func NewHestonVol(p kernel.HestonParams) *HestonVol { return &HestonVol{params: p} }

func (v *HestonVol) Sigma(tau, spot float64) float64 {
	if v.params.V0 <= 0 {
		return 0
	}
	return math.Sqrt(v.params.V0)
}

func (v *HestonVol) Version() uint64 { return v.version }

// Params returns the raw Heston parameter set for the Andersen-QE stepper.
func (v *HestonVol) Params() kernel.HestonParams { return v.params }

// Set replaces the Heston parameters (used by vega-equivalent bumps of v0).
func (v *HestonVol) Set(p kernel.HestonParams) { v.params = p; v.version++ }
