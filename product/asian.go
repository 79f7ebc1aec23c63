package product

// Asian is an averaging-option descriptor. When Base.ObsDates is set the
// average is taken over those dates; otherwise engines average over
// every MC/tree step.
type Asian struct {
	Base
	Strike    float64
	CallPut   CallPut
	Method    AveragingMethod
	// Cap, if > 0, enables the "enhanced" capped-payoff variant spec
	// §4.C mentions for Asian engines.
	Cap float64
}

// NewGeometricAsian builds a geometric-average descriptor (Kemna-Vorst
// closed form applies, spec §4.G).
func NewGeometricAsian(base Base, strike float64, cp CallPut) Asian {
	return Asian{Base: base, Strike: strike, CallPut: cp, Method: Geometric}
}

// NewArithmeticAsian builds an arithmetic-average descriptor (MC/tree
// engines only; no closed form).
func NewArithmeticAsian(base Base, strike float64, cp CallPut) Asian {
	return Asian{Base: base, Strike: strike, CallPut: cp, Method: Arithmetic}
}
