package product

// Cashflow is a pure discounted-payment product: a fixed amount paid at
// End regardless of spot, grounded on original_source's cashflow.py.
// Used by spec §8's discount-limit invariant (PV == cashflow * D(τ)
// exactly) and as a building block for autocallable coupon legs.
type Cashflow struct {
	Base
	Amount float64
}

// NewCashflow builds a pure-cashflow descriptor.
func NewCashflow(base Base, amount float64) Cashflow {
	return Cashflow{Base: base, Amount: amount}
}
