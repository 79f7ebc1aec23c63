package analytic

import (
	"github.com/meenmo/pricelib/internal/perrors"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
)

// CashflowEngine prices a pure discounted payment, grounded on
// original_source's cashflow_engine.py: PV = amount * D(tau), exactly,
// per spec §8's discount-limit invariant.
type CashflowEngine struct{}

func (CashflowEngine) Price(proc *process.Process, c product.Cashflow, spot float64) (float64, error) {
	tau := c.Maturity()
	if tau < 0 {
		return 0, perrors.Configuration("analytic.CashflowEngine.Price", "negative maturity %.6f", tau)
	}
	return c.Amount * proc.DiscFactor(tau), nil
}
