package kernel

// Halton generates a (n_paths, n_dims) low-discrepancy matrix using a
// permuted base-p radical-inverse (digit) expansion per dimension, per
// spec §4.B. Each dimension uses the next prime as its base and a fixed
// digit permutation (a simple scrambling) to reduce correlation between
// dimensions — the well-known defect of plain Halton sequences in higher
// dimensions.
type Halton struct {
	dims  int
	bases []uint64
	perms [][]int
	index uint32
}

// NewHalton constructs a Halton sequence generator for the given dimension.
func NewHalton(dims int) *Halton {
	h := &Halton{dims: dims, bases: make([]uint64, dims), perms: make([][]int, dims)}
	for d := 0; d < dims; d++ {
		base := primeTable[d%len(primeTable)]
		h.bases[d] = base
		h.perms[d] = permutedDigits(int(base), d)
	}
	return h
}

// permutedDigits returns a deterministic permutation of {0, ..., base-1}
// seeded by the dimension index, used to scramble the radical-inverse
// digit expansion.
func permutedDigits(base, seed int) []int {
	p := make([]int, base)
	for i := range p {
		p[i] = i
	}
	// Simple deterministic shuffle (Fisher-Yates driven by a cheap LCG).
	state := uint32(seed*2654435761 + 1)
	for i := base - 1; i > 0; i-- {
		state = state*1664525 + 1013904223
		j := int(state % uint32(i+1))
		p[i], p[j] = p[j], p[i]
	}
	return p
}

func radicalInverse(n uint64, base uint64, perm []int) float64 {
	var f, denom float64 = 0, 1
	nn := n + 1
	for nn > 0 {
		denom *= float64(base)
		digit := nn % base
		f += float64(perm[digit]) / denom
		nn /= base
	}
	return f
}

// Next advances the sequence by one index and returns a dims-length
// vector of uniforms in [0,1).
func (h *Halton) Next() []float64 {
	out := make([]float64, h.dims)
	for d := 0; d < h.dims; d++ {
		out[d] = radicalInverse(uint64(h.index), h.bases[d], h.perms[d])
	}
	h.index++
	return out
}

// Matrix generates an (n, dims) matrix of standard-normal shocks via the
// inverse-CDF transform.
func (h *Halton) Matrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := h.Next()
		z := make([]float64, len(row))
		for j, u := range row {
			if u <= 0 {
				u = 1e-12
			}
			if u >= 1 {
				u = 1 - 1e-12
			}
			z[j] = InvNormCDF(u)
		}
		m[i] = z
	}
	return m
}
