package product

// Airbag blends a call on the underlying with a protective floor below
// a downside barrier, per the glossary's airbag entry: above the
// barrier the holder is long a participating call; below it, a levered put
// replaces the floor to cushion (not eliminate) the loss.
type Airbag struct {
	Base
	Strike        float64
	KnockInLevel  float64
	Participation float64
	PutLeverage   float64
}

// NewAirbag builds an airbag descriptor.
func NewAirbag(base Base, strike, knockInLevel, participation, putLeverage float64) Airbag {
	return Airbag{Base: base, Strike: strike, KnockInLevel: knockInLevel, Participation: participation, PutLeverage: putLeverage}
}

// Breached reports whether spot has crossed into knock-in territory.
func (a Airbag) Breached(spot float64) bool {
	return spot <= a.KnockInLevel
}

// Payoff returns the terminal payoff given the terminal spot and
// whether the path ever knocked in (crossed KnockInLevel) during its
// life. Never knocked in, or knocked in but recovered above the
// barrier by maturity, the holder holds an uncapped Participation-scaled
// call on Strike; still
// below the barrier at maturity after knocking in, a levered put
// floor replaces it (the "airbag" cushioning, not eliminating, the loss).
func (a Airbag) Payoff(terminal float64, knockedIn bool) float64 {
	if knockedIn && terminal < a.KnockInLevel {
		return a.PutLeverage * (a.KnockInLevel - terminal)
	}
	payoff := a.Participation * (terminal - a.Strike)
	if payoff < 0 {
		return 0
	}
	return payoff
}
