package product

// DoubleShark is a double-barrier bull-and-bear structure: an
// up-and-out call leg above UpperStrike paying UpperRebate on breach of
// UpperBound, combined with a down-and-out put leg below LowerStrike
// paying LowerRebate on breach of LowerBound, each leg scaled by its own
// participation. Grounded on original_source's double_shark_demo.py
// DoubleShark(strike=(lower,upper), bound=(lower,upper), rebate=(lower,
// upper), parti=(lower,upper)).
type DoubleShark struct {
	Base
	LowerStrike, UpperStrike               float64
	LowerBound, UpperBound                 float64
	LowerRebate, UpperRebate               float64
	LowerParticipation, UpperParticipation float64
	RebateAtHit                            bool
	ObservationInterval                    float64 // year-fraction between discrete observations; 0 = continuous
}

// NewDoubleShark builds a double-shark descriptor.
func NewDoubleShark(base Base, lowerStrike, upperStrike, lowerBound, upperBound,
	lowerRebate, upperRebate, lowerParticipation, upperParticipation float64) DoubleShark {
	return DoubleShark{
		Base: base,
		LowerStrike: lowerStrike, UpperStrike: upperStrike,
		LowerBound: lowerBound, UpperBound: upperBound,
		LowerRebate: lowerRebate, UpperRebate: upperRebate,
		LowerParticipation: lowerParticipation, UpperParticipation: upperParticipation,
	}
}

// UpperLeg returns the up-and-out call barrier descriptor for the
// bullish side of the structure.
func (d DoubleShark) UpperLeg() Barrier {
	return Barrier{
		Base: d.Base, Strike: d.UpperStrike, Level: d.UpperBound, CallPut: Call,
		Type: UpOut, Rebate: d.UpperRebate, RebateAtHit: d.RebateAtHit,
		ObservationInterval: d.ObservationInterval,
	}
}

// LowerLeg returns the down-and-out put barrier descriptor for the
// bearish side of the structure.
func (d DoubleShark) LowerLeg() Barrier {
	return Barrier{
		Base: d.Base, Strike: d.LowerStrike, Level: d.LowerBound, CallPut: Put,
		Type: DownOut, Rebate: d.LowerRebate, RebateAtHit: d.RebateAtHit,
		ObservationInterval: d.ObservationInterval,
	}
}
