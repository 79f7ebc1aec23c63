package product_test

import (
	"testing"
	"time"

	"github.com/meenmo/pricelib/product"
	"github.com/stretchr/testify/assert"
)

func baseFor(days int) product.Base {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return product.Base{
		Start:        start,
		End:          start.AddDate(0, 0, days),
		StepsPerYear: 243,
		DayCount:     "ACT/365F",
	}
}

func TestMaturityAndNSteps(t *testing.T) {
	b := baseFor(365)
	assert.InDelta(t, 1.0, b.Maturity(), 0.01)
	assert.Greater(t, b.NSteps(), 200)
}

func TestVanillaIntrinsic(t *testing.T) {
	v := product.NewEuropeanVanilla(baseFor(90), 100, product.Call)
	assert.Equal(t, 10.0, v.Intrinsic(110))
	assert.Equal(t, 0.0, v.Intrinsic(90))
}

func TestBarrierBreached(t *testing.T) {
	b := product.NewBarrier(baseFor(365), 100, 110, product.Call, product.UpOut, 0, false)
	assert.True(t, b.Breached(111))
	assert.False(t, b.Breached(109))
}

func TestDoubleBarrierBreached(t *testing.T) {
	d := product.NewDoubleNoTouch(baseFor(365), 80, 120, 10, 10, true)
	assert.True(t, d.Breached(79))
	assert.True(t, d.Breached(121))
	assert.False(t, d.Breached(100))
}

func TestSnowballBarrierAtFlattens(t *testing.T) {
	s := product.NewSnowball(baseFor(365), 100, []float64{103}, 80, 0.112, 3)
	assert.Equal(t, 103.0, s.BarrierAt(0))
	assert.Equal(t, 103.0, s.BarrierAt(5))
}

func TestAccumulatorAccrualSign(t *testing.T) {
	acc := product.NewAccumulator(baseFor(365), 100, 120, 2.0)
	assert.Equal(t, 20.0, acc.DailyAccrual(110))
	dec := product.NewDecumulator(baseFor(365), 100, 80, 2.0)
	assert.Equal(t, 20.0, dec.DailyAccrual(90))
}

func TestRangeAccrualInRange(t *testing.T) {
	r := product.NewRangeAccrual(baseFor(365), 90, 110, 0.0005, 100)
	assert.True(t, r.InRange(100))
	assert.False(t, r.InRange(111))
}

func TestAirbagPayoffFloorsOnlyWhenKnockedInAndStillBelow(t *testing.T) {
	a := product.NewAirbag(baseFor(365), 100, 70, 0.7, 1.0)
	// Never knocked in: plain participating call, even below strike.
	assert.Equal(t, 0.0, a.Payoff(90, false))
	assert.InDelta(t, 0.7*10, a.Payoff(110, false), 1e-9)
	// Knocked in and still below the barrier at maturity: levered floor.
	assert.InDelta(t, 1.0*(70-60), a.Payoff(60, true), 1e-9)
	// Knocked in but recovered above the barrier by maturity: the call resumes.
	assert.InDelta(t, 0.7*10, a.Payoff(110, true), 1e-9)
}

func TestDoubleSharkLegs(t *testing.T) {
	d := product.NewDoubleShark(baseFor(365), 90, 110, 80, 120, 3, 3, 0.5, 0.5)
	upper := d.UpperLeg()
	assert.Equal(t, product.Call, upper.CallPut)
	assert.Equal(t, product.UpOut, upper.Type)
	assert.Equal(t, 110.0, upper.Strike)
	assert.Equal(t, 120.0, upper.Level)

	lower := d.LowerLeg()
	assert.Equal(t, product.Put, lower.CallPut)
	assert.Equal(t, product.DownOut, lower.Type)
	assert.Equal(t, 90.0, lower.Strike)
	assert.Equal(t, 80.0, lower.Level)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "NoTouch", product.NoTouch.String())
	assert.Equal(t, "KnockedIn", product.KnockedIn.String())
	assert.Equal(t, "KnockedOut", product.KnockedOut.String())
}
