// Package engine declares a uniform pricing contract, per spec §6's
// external interface: price / delta / gamma / vega / theta / rho, all
// computed against an explicit product descriptor and process passed at
// call time rather than held by reference (spec §9), together with the
// finite-difference bump sizes the engine families share. The engine
// packages (analytic, MC, PDE, quadrature, tree) do not implement the
// Engine interface; each exposes its own typed entry points.
package engine

import "github.com/meenmo/pricelib/process"

// Engine is the uniform capability set of the pricing contract. Product
// is passed as `any` because each engine family only understands a subset
// of the product descriptors in package product. No type in this module
// implements it: analytic engines take a typed product in Price(proc,
// product, spot), and mc/pde/quad/tree take a process, maturity and a
// kernel or Spec.
type Engine interface {
	Price(proc *process.Process, valuationDate float64, product any) (float64, error)
	Delta(proc *process.Process, valuationDate float64, product any) (float64, error)
	Gamma(proc *process.Process, valuationDate float64, product any) (float64, error)
	Vega(proc *process.Process, valuationDate float64, product any) (float64, error)
	Theta(proc *process.Process, valuationDate float64, product any) (float64, error)
	Rho(proc *process.Process, valuationDate float64, product any) (float64, error)
}

// BumpSizes are the standard finite-difference bump sizes spec §4.C
// fixes for bump-and-reprice Greeks across MC, quadrature, and the
// non-PDE portion of the tree engine.
const (
	SpotBumpRelative = 0.01     // Δspot/s0 = 1%
	VolBump          = 0.01    // Δvol = 1%
	RateBump         = 0.0001  // Δr = 1bp
	ThetaBumpDays    = 1.0 / 365.0
)

// CacheKey bundles path/grid size, seed, and the process fingerprint
// into one cache identifier (spec §5). No engine in this module uses it:
// mc's shock caches are keyed on the step count alone, and quad's density
// kernel on (mesh size, Δt, drift, vol).
type CacheKey struct {
	NPaths      int
	NSteps      int
	Seed        int64
	Fingerprint uint64
}
