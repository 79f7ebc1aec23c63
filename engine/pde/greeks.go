package pde

import (
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/pricelib/engine"
	"github.com/meenmo/pricelib/internal/pconfig"
	"github.com/meenmo/pricelib/process"
)

// Delta reads the first central difference of Value against Spot at
// the node spot0 landed on exactly when the grid was built (Grid's
// linear S_i=i·ΔS mesh guarantees this is never an approximate nearest-
// node snap), per spec §4.D's off-the-grid Greek extraction. Since the
// grid's x-coordinate is S itself, dV/dS = dV/dx directly.
func Delta(res Result, spot float64) float64 {
	i := res.Grid.NearestIndex(spot)
	i = clampInterior(i, len(res.Value))
	return (res.Value[i+1] - res.Value[i-1]) / (2 * res.Grid.DX)
}

// Gamma reads the second central difference at the same node Delta
// uses; d²V/dS² = d²V/dx² directly since x=S.
func Gamma(res Result, spot float64) float64 {
	i := res.Grid.NearestIndex(spot)
	i = clampInterior(i, len(res.Value))
	return (res.Value[i+1] - 2*res.Value[i] + res.Value[i-1]) / (res.Grid.DX * res.Grid.DX)
}

// DeltaMatrix returns Delta at every interior grid node, per spec
// §4.D's full-surface delta_matrix exposure, extracted in node batches
// of pconfig.Config.PDEGreeksNodeBatch across goroutines.
func DeltaMatrix(res Result) []float64 {
	out := make([]float64, len(res.Value))
	nodeBatches(len(res.Value), func(i int) {
		out[i] = (res.Value[i+1] - res.Value[i-1]) / (2 * res.Grid.DX)
	})
	out[0], out[len(out)-1] = out[1], out[len(out)-2]
	return out
}

// GammaMatrix returns Gamma at every interior grid node, extracted the
// same way as DeltaMatrix.
func GammaMatrix(res Result) []float64 {
	out := make([]float64, len(res.Value))
	nodeBatches(len(res.Value), func(i int) {
		out[i] = (res.Value[i+1] - 2*res.Value[i] + res.Value[i-1]) / (res.Grid.DX * res.Grid.DX)
	})
	out[0], out[len(out)-1] = out[1], out[len(out)-2]
	return out
}

// nodeBatches runs fn over every interior index [1, n-2] of an
// n-length value vector, sharding the range into
// pconfig.Config.PDEGreeksNodeBatch-sized chunks across goroutines via
// errgroup, the same data-parallel extraction strategy the MC engine
// uses for path-row generation.
func nodeBatches(n int, fn func(i int)) {
	if n <= 2 {
		return
	}
	batch := pconfig.GetConfig().PDEGreeksNodeBatch
	if batch <= 0 {
		batch = n
	}
	var g errgroup.Group
	for start := 1; start < n-1; start += batch {
		end := start + batch
		if end > n-1 {
			end = n - 1
		}
		s, e := start, end
		g.Go(func() error {
			for i := s; i < e; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func clampInterior(i, n int) int {
	if i < 1 {
		return 1
	}
	if i > n-2 {
		return n - 2
	}
	return i
}

// PriceFn reprices a product under the given process/maturity.
type PriceFn func(proc *process.Process, tau float64) (Result, error)

// Vega bumps the vol model by engine.VolBump and reprices.
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

// Rho bumps the rate curve by engine.RateBump and reprices.
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

// Theta advances tau backward by one calendar day and reprices on the
// same grid.
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
