package process_test

import (
	"testing"

	"github.com/meenmo/pricelib/internal/kernel"
	"github.com/meenmo/pricelib/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBSMProcess() *process.Process {
	spot := process.NewQuote(100.0, "SPOT")
	rate := process.NewConstantRate(0.03)
	div := process.NewConstantRate(0.01)
	vol := process.NewConstantVol(0.2)
	return process.NewProcess(spot, rate, div, vol)
}

func TestDriftAndDiscFactor(t *testing.T) {
	p := newBSMProcess()
	assert.InDelta(t, 0.02, p.Drift(1.0), 1e-9)
	assert.InDelta(t, 0.970446, p.DiscFactor(1.0), 1e-5)
}

func TestStepBSMDeterministicAtZeroShock(t *testing.T) {
	p := newBSMProcess()
	next := p.StepBSM(100.0, 1.0, 1.0, 0.0)
	assert.Greater(t, next, 100.0) // positive drift pushes spot up
}

func TestFingerprintChangesOnQuoteMutation(t *testing.T) {
	p := newBSMProcess()
	fp0 := p.Fingerprint()
	p.SpotQuote().Set(105.0)
	fp1 := p.Fingerprint()
	assert.NotEqual(t, fp0, fp1)
}

func TestFingerprintChangesOnCurveMutation(t *testing.T) {
	p := newBSMProcess()
	fp0 := p.Fingerprint()
	restore := p.RateCurve().Bump(0.01)
	fp1 := p.Fingerprint()
	assert.NotEqual(t, fp0, fp1)
	restore()
	fp2 := p.Fingerprint()
	assert.NotEqual(t, fp1, fp2) // version still advances, restore is not a rollback of version
}

func TestStepHestonRequiresHestonVol(t *testing.T) {
	p := newBSMProcess()
	_, _, err := p.StepHeston(100.0, 0.04, 1.0, 1.0/252, 0.1, -0.2, 0.5)
	assert.Error(t, err)
}

func TestStepHestonAdvancesWithHestonVol(t *testing.T) {
	spot := process.NewQuote(100.0, "SPOT")
	rate := process.NewConstantRate(0.03)
	div := process.NewConstantRate(0.0)
	hv := process.NewHestonVol(kernel.HestonParams{V0: 0.04, Kappa: 1.5, Theta: 0.04, SigmaV: 0.3, Rho: -0.6})
	p := process.NewProcess(spot, rate, div, hv)
	sNext, _, err := p.StepHeston(100.0, 0.04, 1.0, 1.0/252, 0.1, -0.2, 0.5)
	require.NoError(t, err)
	assert.Greater(t, sNext, 0.0)
}

func TestSessionProducesDistinctIDs(t *testing.T) {
	a := process.NewSession()
	b := process.NewSession()
	assert.NotEqual(t, a.String(), b.String())
}
