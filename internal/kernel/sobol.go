package kernel

// Sobol generates a (n_paths, n_dims) low-discrepancy matrix of [0,1)
// uniforms using direction numbers and Gray-code updates, per spec §4.B.
//
// Direction numbers for the first nine dimensions come from primitive-
// polynomial initialization values (hardcoded literal tables, in the same
// "data table baked into the source" style the teacher uses for
// calendar/korea.go's holiday list). Dimensions beyond the hardcoded table
// fall back to an unscrambled van der Corput sequence in the next prime
// base — still low-discrepancy, but not strict Sobol.
type Sobol struct {
	dims      int
	direction [][]uint32 // direction[d][bit] = v_{bit+1} for dimension d, scaled to 32 bits
	fallback  []bool
	x         []uint32 // running Sobol state per dimension
	count     uint32
}

// sobolPoly describes a primitive polynomial's degree and its initial
// direction numbers m_1..m_s (Joe & Kuo style).
type sobolPoly struct {
	degree int
	a      uint32 // polynomial coefficients packed as bits (excluding leading/trailing 1)
	m      []uint32
}

// First dimensions beyond the trivial base-2 van der Corput dimension.
var sobolPolys = []sobolPoly{
	{degree: 1, a: 0, m: []uint32{1}},
	{degree: 2, a: 1, m: []uint32{1, 3}},
	{degree: 3, a: 1, m: []uint32{1, 3, 7}},
	{degree: 3, a: 2, m: []uint32{1, 1, 5}},
	{degree: 4, a: 1, m: []uint32{1, 1, 3, 13}},
	{degree: 4, a: 4, m: []uint32{1, 3, 5, 9}},
	{degree: 5, a: 2, m: []uint32{1, 3, 5, 15, 17}},
	{degree: 5, a: 4, m: []uint32{1, 1, 5, 5, 5}},
}

const sobolBits = 32

// NewSobol constructs a Sobol sequence generator for the given dimension.
func NewSobol(dims int) *Sobol {
	s := &Sobol{dims: dims, x: make([]uint32, dims)}
	s.direction = make([][]uint32, dims)
	s.fallback = make([]bool, dims)

	for d := 0; d < dims; d++ {
		if d == 0 {
			// Dimension 0: base-2 van der Corput, v_i = 1 << (32 - i).
			v := make([]uint32, sobolBits)
			for i := 0; i < sobolBits; i++ {
				v[i] = 1 << (sobolBits - 1 - i)
			}
			s.direction[d] = v
			continue
		}
		polyIdx := d - 1
		if polyIdx >= len(sobolPolys) {
			s.fallback[d] = true
			continue
		}
		s.direction[d] = buildDirectionNumbers(sobolPolys[polyIdx])
	}
	return s
}

func buildDirectionNumbers(p sobolPoly) []uint32 {
	v := make([]uint32, sobolBits)
	deg := p.degree
	for i := 0; i < deg && i < len(p.m); i++ {
		v[i] = p.m[i] << (sobolBits - 1 - uint32(i))
	}
	// Coefficients a_1..a_{s-1} of the primitive polynomial, MSB first.
	coeffs := make([]uint32, deg)
	for k := 0; k < deg-1; k++ {
		coeffs[k] = (p.a >> uint(deg-2-k)) & 1
	}

	for i := deg; i < sobolBits; i++ {
		vi := v[i-deg] ^ (v[i-deg] >> uint(deg))
		for k := 1; k < deg; k++ {
			if coeffs[k-1] == 1 {
				vi ^= v[i-k]
			}
		}
		v[i] = vi
	}
	return v
}

// primeTable supplies fallback bases for dimensions with no hardcoded
// direction numbers.
var primeTable = []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71}

func vanDerCorput(n uint32, base uint64) float64 {
	var f, denom float64 = 0, 1
	nn := uint64(n) + 1
	for nn > 0 {
		denom *= float64(base)
		f += float64(nn%base) / denom
		nn /= base
	}
	return f
}

// Next advances the sequence by one index and returns a dims-length
// vector of uniforms in [0,1).
func (s *Sobol) Next() []float64 {
	out := make([]float64, s.dims)
	// Gray code: the bit that flips going from count to count+1 is the
	// lowest zero bit of count.
	c := s.count
	bit := 0
	for (c>>uint(bit))&1 == 1 {
		bit++
	}
	for d := 0; d < s.dims; d++ {
		if s.fallback[d] {
			base := primeTable[d%len(primeTable)]
			out[d] = vanDerCorput(s.count, base)
			continue
		}
		if bit < len(s.direction[d]) {
			s.x[d] ^= s.direction[d][bit]
		}
		out[d] = float64(s.x[d]) / 4294967296.0
	}
	s.count++
	return out
}

// Matrix generates an (n, dims) matrix of standard-normal shocks via the
// inverse-CDF transform.
func (s *Sobol) Matrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := s.Next()
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
