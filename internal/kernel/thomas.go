package kernel

// Thomas solves a tridiagonal system A·x = d where A has sub-diagonal
// `lower`, diagonal `diag`, and super-diagonal `upper` (all length n,
// with lower[0] and upper[n-1] unused), in O(n). Used by the PDE engine's
// θ-scheme stepper once per time step.
//
// lower, diag, upper, d are not mutated; Thomas allocates its own working
// copies so callers may reuse coefficient slices across time steps.
func Thomas(lower, diag, upper, d []float64) []float64 {
	n := len(diag)
	cPrime := make([]float64, n)
	dPrime := make([]float64, n)
	x := make([]float64, n)

	cPrime[0] = upper[0] / diag[0]
	dPrime[0] = d[0] / diag[0]

	for i := 1; i < n; i++ {
		m := diag[i] - lower[i]*cPrime[i-1]
		if i < n-1 {
			cPrime[i] = upper[i] / m
		}
		dPrime[i] = (d[i] - lower[i]*dPrime[i-1]) / m
	}

	x[n-1] = dPrime[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = dPrime[i] - cPrime[i]*x[i+1]
	}
	return x
}
