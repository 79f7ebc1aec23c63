package analytic

import (
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
)

// DoubleSharkEngine prices a DoubleShark by decomposing it into its
// up-and-out call leg and down-and-out put leg, pricing each with
// BarrierEngine's Reiner-Rubinstein formulas and summing the
// participation-scaled results. Grounded on double_shark_demo.py's
// Ikeda&Kunitomo1992/Haug1998 engines, which likewise treat the two
// legs as independent barrier options rather than deriving a joint
// closed form.
type DoubleSharkEngine struct{}

// Price returns the double-shark structure's present value.
func (DoubleSharkEngine) Price(proc *process.Process, d product.DoubleShark, spot float64) (float64, error) {
	be := BarrierEngine{}

	upper, err := be.Price(proc, d.UpperLeg(), spot)
	if err != nil {
		return 0, err
	}
	lower, err := be.Price(proc, d.LowerLeg(), spot)
	if err != nil {
		return 0, err
	}
	return d.UpperParticipation*upper + d.LowerParticipation*lower, nil
}
