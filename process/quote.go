// Package process implements the market-data and stochastic-process
// layer: Quote, RateCurve, Vol, and the BSM/Heston Process types that
// expose drift/diffusion/step primitives to every engine family, per
// spec §3/§4.A.
package process

// Quote is a scalar observable with a numeric value and an optional
// label, mutated only by the bump engine during Greek computation.
// Grounded in shape on swap/curve.Curve's scalar fields, generalized
// into its own versioned type per spec §9's fingerprinting design.
type Quote struct {
	value   float64
	label   string
	version uint64
}

// NewQuote constructs a Quote at the given value.
func NewQuote(value float64, label string) *Quote {
	return &Quote{value: value, label: label}
}

// Value returns the current quoted value.
func (q *Quote) Value() float64 { return q.value }

// Label returns the quote's label, if any.
func (q *Quote) Label() string { return q.label }

// Set mutates the quote and bumps its version, invalidating any engine
// cache keyed on this quote's fingerprint contribution.
func (q *Quote) Set(value float64) {
	q.value = value
	q.version++
}

// Version returns the monotonically increasing mutation counter used by
// Process.Fingerprint.
func (q *Quote) Version() uint64 { return q.version }

// Bump returns a Set call that adds delta to the current value and
// returns a restore func, used by the bump-and-reprice Greeks machinery
// shared across engines.
func (q *Quote) Bump(delta float64) (restore func()) {
	orig := q.value
	q.Set(orig + delta)
	return func() { q.Set(orig) }
}
