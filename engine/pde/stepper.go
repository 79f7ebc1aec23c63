package pde

import "github.com/meenmo/pricelib/internal/kernel"

// BoundaryKind selects how the mesh edge is closed off.
type BoundaryKind int

const (
	// LinearExtrapolation enforces zero curvature at the edge using the
	// prior time step's third node (explicit, since a tridiagonal row
	// can only couple two unknowns).
	LinearExtrapolation BoundaryKind = iota
	// Dirichlet pins the edge value to Value(tauElapsed) every step.
	Dirichlet
)

// Boundary describes one mesh edge's closure.
type Boundary struct {
	Kind  BoundaryKind
	Value func(tauElapsed float64) float64
}

// step advances the value vector vOld by one θ-scheme time step of size
// dt, under per-node diffusion coefficients aArr=σ(S_i)²·S_i²/2, drift
// coefficients bArr=(r-q)·S_i on the linear S mesh (node-dependent so a
// LocalVolSurface process is handled correctly), and discount rate r, per
// spec §4.D.
// theta=1 is fully implicit (used for Rannacher's first two steps);
// theta=0.5 is Crank-Nicolson.
func step(vOld []float64, dx, dt float64, aArr, bArr []float64, r, theta, tauElapsed float64, lower, upper Boundary) []float64 {
	n := len(vOld)
	invDx2 := 1 / (dx * dx)
	invDx := 1 / (2 * dx)

	subDiag := make([]float64, n)
	diag := make([]float64, n)
	superDiag := make([]float64, n)
	rhs := make([]float64, n)

	for i := 1; i < n-1; i++ {
		a, b := aArr[i], bArr[i]
		lOp := a*invDx2 - b*invDx
		dOp := -2*a*invDx2 - r
		uOp := a*invDx2 + b*invDx

		subDiag[i] = -theta * dt * lOp
		diag[i] = 1 - theta*dt*dOp
		superDiag[i] = -theta * dt * uOp
		explicit := (1 - theta) * dt * (lOp*vOld[i-1] + dOp*vOld[i] + uOp*vOld[i+1])
		rhs[i] = vOld[i] + explicit
	}

	applyLowerEdge(lower, subDiag, diag, superDiag, rhs, vOld, tauElapsed)
	applyUpperEdge(upper, subDiag, diag, superDiag, rhs, vOld, tauElapsed)

	return kernel.Thomas(subDiag, diag, superDiag, rhs)
}

func applyLowerEdge(b Boundary, subDiag, diag, superDiag, rhs, vOld []float64, tauElapsed float64) {
	switch b.Kind {
	case Dirichlet:
		diag[0], superDiag[0] = 1, 0
		rhs[0] = b.Value(tauElapsed)
	default: // LinearExtrapolation: V0 - 2V1 + V2 = 0, V2 taken from vOld
		diag[0], superDiag[0] = 1, -2
		rhs[0] = -vOld[2]
	}
}

func applyUpperEdge(b Boundary, subDiag, diag, superDiag, rhs, vOld []float64, tauElapsed float64) {
	n := len(vOld)
	switch b.Kind {
	case Dirichlet:
		diag[n-1] = 1
		rhs[n-1] = b.Value(tauElapsed)
	default: // LinearExtrapolation: V_{n-1} - 2V_{n-2} + V_{n-3} = 0
		subDiag[n-1], diag[n-1] = -2, 1
		rhs[n-1] = -vOld[n-3]
	}
}
