package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormCDFSymmetry(t *testing.T) {
	assert.InDelta(t, 0.5, NormCDF(0), 1e-12)
	assert.InDelta(t, 1.0, NormCDF(0)+NormCDF(-0), 1e-12)
	assert.InDelta(t, 1-NormCDF(1.0), NormCDF(-1.0), 1e-12)
}

func TestInvNormCDFRoundTrip(t *testing.T) {
	for _, p := range []float64{0.001, 0.05, 0.25, 0.5, 0.75, 0.95, 0.999} {
		x := InvNormCDF(p)
		got := NormCDF(x)
		assert.InDelta(t, p, got, 1e-9)
	}
}

func TestThomasSolvesIdentity(t *testing.T) {
	// Diagonal-only system is trivial: x_i = d_i / diag_i.
	n := 5
	lower := make([]float64, n)
	diag := make([]float64, n)
	upper := make([]float64, n)
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		diag[i] = float64(i + 1)
		d[i] = float64(2 * (i + 1))
	}
	x := Thomas(lower, diag, upper, d)
	for i := 0; i < n; i++ {
		assert.InDelta(t, 2.0, x[i], 1e-9)
	}
}

func TestThomasSolvesTridiagonal(t *testing.T) {
	// A = [[2,-1,0],[-1,2,-1],[0,-1,2]], x = [1,2,3] => d = A x
	lower := []float64{0, -1, -1}
	diag := []float64{2, 2, 2}
	upper := []float64{-1, -1, 0}
	x := []float64{1, 2, 3}
	d := make([]float64, 3)
	d[0] = diag[0]*x[0] + upper[0]*x[1]
	d[1] = lower[1]*x[0] + diag[1]*x[1] + upper[1]*x[2]
	d[2] = lower[2]*x[1] + diag[2]*x[2]

	got := Thomas(lower, diag, upper, d)
	for i := range x {
		assert.InDelta(t, x[i], got[i], 1e-9)
	}
}

func TestSobolMatrixBounded(t *testing.T) {
	s := NewSobol(4)
	m := s.Matrix(100)
	assert.Len(t, m, 100)
	for _, row := range m {
		assert.Len(t, row, 4)
		for _, z := range row {
			assert.False(t, math.IsNaN(z))
			assert.False(t, math.IsInf(z, 0))
		}
	}
}

func TestHaltonMatrixBounded(t *testing.T) {
	h := NewHalton(4)
	m := h.Matrix(100)
	assert.Len(t, m, 100)
	for _, row := range m {
		for _, z := range row {
			assert.False(t, math.IsNaN(z))
		}
	}
}

func TestMT19937Normality(t *testing.T) {
	gen := NewMT19937(42)
	n := 20000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = gen.NextStdNormal()
	}
	mean, _ := MeanStdErr(samples)
	assert.InDelta(t, 0.0, mean, 0.05)
}

func TestAndersenQEStepNonNegativeVariance(t *testing.T) {
	p := HestonParams{V0: 0.04, Kappa: 2.0, Theta: 0.04, SigmaV: 0.5, Rho: -0.6}
	s, v := 100.0, p.V0
	for i := 0; i < 100; i++ {
		s, v = AndersenQEStep(p, s, v, 1.0/252, 0.02, 0.3, -0.1, 0.5)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Greater(t, s, 0.0)
	}
}
