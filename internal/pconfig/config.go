// Package pconfig holds package-level solver tunables shared across engine
// families, in the same shape as the teacher's swap/config package: a
// Config struct, a DefaultConfig value, and SetConfig/GetConfig accessors.
package pconfig

// Config holds solver tolerances and iteration caps for every numerical
// engine. These were scattered magic numbers in the source material this
// module is grounded on; centralizing them here lets callers tune
// convergence behaviour without touching engine code.
type Config struct {
	// NewtonTolerance is the residual tolerance for Newton-Raphson solves
	// (American exercise boundary, implied-vol style inversions).
	NewtonTolerance float64

	// MaxNewtonIterations caps root-finding iterations before giving up
	// with a NumericalError.
	MaxNewtonIterations int

	// DampingFactor is a Newton step limit, as a fraction of the current
	// guess. No solver in this module reads it; Newton steps are undamped.
	DampingFactor float64

	// MinDiscountFactor is a floor for discount factors. No code in this
	// module reads it; discount factors are not floored.
	MinDiscountFactor float64

	// PDEStabilityWarnRatio is an advisory threshold for Δt·σ²·S_N²/ΔS²
	// with θ < 0.5. The PDE engine does not read it and logs no stability
	// warning.
	PDEStabilityWarnRatio float64

	// MCWorkerBatch is the number of path rows assigned per goroutine when
	// the Monte Carlo simulator parallelizes path generation.
	MCWorkerBatch int

	// IkedaKunitomoTerms is the truncation length for the double-barrier
	// infinite series.
	IkedaKunitomoTerms int

	// PDEGreeksNodeBatch is the number of interior grid nodes assigned per
	// goroutine when DeltaMatrix/GammaMatrix parallelize full-surface
	// Greek extraction.
	PDEGreeksNodeBatch int
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	NewtonTolerance:       1e-10,
	MaxNewtonIterations:   100,
	DampingFactor:         0.5,
	MinDiscountFactor:     1e-9,
	PDEStabilityWarnRatio: 5.0,
	MCWorkerBatch:         4096,
	IkedaKunitomoTerms:    10,
	PDEGreeksNodeBatch:    64,
}

var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
