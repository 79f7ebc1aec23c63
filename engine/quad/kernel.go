package quad

import "math"

// densityKernel caches the per-step BSM transition-density matrix
// (n×n, row i holds the density from node i to every node j) so a
// multi-step rollback with a repeated (n, dt, drift, vol) tuple rebuilds
// it once rather than once per step, per spec §4.E's exp-table reuse
// note.
type densityKernel struct {
	n      int
	dt     float64
	drift  float64
	vol    float64
	matrix [][]float64
}

func buildDensityKernel(grid *Grid, dt, drift, vol float64) *densityKernel {
	n := grid.N()
	meanDrift := (drift - 0.5*vol*vol) * dt
	sigmaSqrtT := vol * math.Sqrt(dt)
	norm := 1 / (sigmaSqrtT * math.Sqrt(2*math.Pi))

	m := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		xi := grid.LogSpot[i]
		for j := 0; j < n; j++ {
			z := (grid.LogSpot[j] - xi - meanDrift) / sigmaSqrtT
			row[j] = norm * math.Exp(-0.5*z*z)
		}
		m[i] = row
	}
	return &densityKernel{n: n, dt: dt, drift: drift, vol: vol, matrix: m}
}

func (k *densityKernel) matches(n int, dt, drift, vol float64) bool {
	return k != nil && k.n == n && k.dt == dt && k.drift == drift && k.vol == vol
}
