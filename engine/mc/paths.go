package mc

import (
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/pricelib/internal/pconfig"
	"github.com/meenmo/pricelib/process"
)

// PathSet holds simulated spot (and, under Heston, variance) paths on a
// uniform time grid, per spec §4.C step 3.
type PathSet struct {
	Spot [][]float64 // [path][step], step 0 is the initial spot
	Var  [][]float64   // nil under BSM
	Dt   float64
	Tau  float64
}

// GenerateBSM builds nPaths BSM paths over nSteps using the given shock
// matrix, parallelizing path-row generation in batches of
// pconfig.Config.MCWorkerBatch rows per goroutine, grounded on
// golang.org/x/sync/errgroup for data-parallel MC path generation.
func GenerateBSM(proc *process.Process, spot0, tau float64, shocks [][]float64) (*PathSet, error) {
	nPaths := len(shocks)
	if nPaths == 0 {
		return &PathSet{Dt: 0, Tau: tau}, nil
	}
	nSteps := len(shocks[0])
	dt := tau / float64(nSteps)

	paths := make([][]float64, nPaths)
	cfg := pconfig.GetConfig()
	batch := cfg.MCWorkerBatch
	if batch <= 0 {
		batch = nPaths
	}

	var g errgroup.Group
	for start := 0; start < nPaths; start += batch {
		end := start + batch
		if end > nPaths {
			end = nPaths
		}
		s, e := start, end
		g.Go(func() error {
			for i := s; i < e; i++ {
				row := make([]float64, nSteps+1)
				row[0] = spot0
				spot := spot0
				for step := 0; step < nSteps; step++ {
					t := float64(step) * dt
					spot = proc.StepBSM(spot, tau-t, dt, shocks[i][step])
					row[step+1] = spot
				}
				paths[i] = row
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &PathSet{Spot: paths, Dt: dt, Tau: tau}, nil
}

// GenerateHeston builds nPaths coupled (S,v) paths via the Andersen QE
// scheme, requiring an independent shock and uniform matrix for the
// variance/spot/mixture draws respectively.
func GenerateHeston(proc *process.Process, spot0, v0, tau float64, zv, zs [][]float64, uniforms [][]float64) (*PathSet, error) {
	nPaths := len(zv)
	if nPaths == 0 {
		return &PathSet{Dt: 0, Tau: tau}, nil
	}
	nSteps := len(zv[0])
	dt := tau / float64(nSteps)

	spotPaths := make([][]float64, nPaths)
	varPaths := make([][]float64, nPaths)
	cfg := pconfig.GetConfig()
	batch := cfg.MCWorkerBatch
	if batch <= 0 {
		batch = nPaths
	}

	var g errgroup.Group
	var firstErr error
	for start := 0; start < nPaths; start += batch {
		end := start + batch
		if end > nPaths {
			end = nPaths
		}
		s, e := start, end
		g.Go(func() error {
			for i := s; i < e; i++ {
				sRow := make([]float64, nSteps+1)
				vRow := make([]float64, nSteps+1)
				sRow[0], vRow[0] = spot0, v0
				spot, v := spot0, v0
				for step := 0; step < nSteps; step++ {
					t := float64(step) * dt
					next, vNext, err := proc.StepHeston(spot, v, tau-t, dt, zv[i][step], zs[i][step], uniforms[i][step])
					if err != nil {
						return err
					}
					spot, v = next, vNext
					sRow[step+1], vRow[step+1] = spot, v
				}
				spotPaths[i] = sRow
				varPaths[i] = vRow
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		firstErr = err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return &PathSet{Spot: spotPaths, Var: varPaths, Dt: dt, Tau: tau}, nil
}
