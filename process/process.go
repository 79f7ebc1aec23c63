package process

import (
	"hash/fnv"
	"math"

	"github.com/meenmo/pricelib/internal/kernel"
)

// Process owns a spot quote, a rate curve, a dividend curve, and a vol
// model, and exposes the drift/diffusion/discount/step primitives every
// engine family needs, per spec §3/§4.A.
type Process struct {
	spot *Quote
	rate *RateCurve
	div  *RateCurve
	vol  Vol
}

// NewProcess constructs a process from its four market-data components.
func NewProcess(spot *Quote, rate, div *RateCurve, vol Vol) *Process {
	return &Process{spot: spot, rate: rate, div: div, vol: vol}
}

// Spot returns the current spot quote value.
func (p *Process) Spot() float64 { return p.spot.Value() }

// SpotQuote exposes the underlying Quote for bump-and-reprice Greeks.
func (p *Process) SpotQuote() *Quote { return p.spot }

// RateCurve exposes the rate curve for bump-and-reprice rho.
func (p *Process) RateCurve() *RateCurve { return p.rate }

// DivCurve exposes the dividend curve.
func (p *Process) DivCurve() *RateCurve { return p.div }

// VolModel exposes the vol model.
func (p *Process) VolModel() Vol { return p.vol }

// Drift returns r(τ) - q(τ).
func (p *Process) Drift(tau float64) float64 {
	return p.rate.Rate(tau) - p.div.Rate(tau)
}

// Diffusion returns σ(τ, S).
func (p *Process) Diffusion(tau, spot float64) float64 {
	return p.vol.Sigma(tau, spot)
}

// DiscFactor returns D(τ) = exp(-r(τ)·τ).
func (p *Process) DiscFactor(tau float64) float64 {
	return p.rate.DiscFactor(tau)
}

// StepBSM advances spot one Δt step under the BSM log-Euler scheme:
// S_{t+Δt} = S_t * exp((r-q-½σ²)Δt + σ√Δt·z), per spec §4.A. σ may be
// state-dependent when vol is a LocalVolSurface.
func (p *Process) StepBSM(spot, tau, dt, z float64) float64 {
	sigma := p.Diffusion(tau, spot)
	drift := p.Drift(tau)
	logStep := (drift-0.5*sigma*sigma)*dt + sigma*math.Sqrt(dt)*z
	return spot * math.Exp(logStep)
}

// StepHeston advances (S, v) one Δt step via the Andersen QE scheme,
// requiring vol to be a *HestonVol.
func (p *Process) StepHeston(spot, v, tau, dt, zv, zs, uSpot float64) (float64, float64, error) {
	hv, ok := p.vol.(*HestonVol)
	if !ok {
		return 0, 0, errNotHeston
	}
	drift := p.Drift(tau)
	sNext, vNext := kernel.AndersenQEStep(hv.Params(), spot, v, dt, drift, zv, zs, uSpot)
	return sNext, vNext, nil
}

// Fingerprint returns a hash of the process's component versions, used
// as an engine cache-key component per spec §9: mutating any quote,
// curve, or vol bumps its own version counter, which changes this hash
// without retaining any subscriber list.
func (p *Process) Fingerprint() uint64 {
	h := fnv.New64a()
	writeUint64(h, p.spot.Version())
	writeUint64(h, p.rate.Version())
	writeUint64(h, p.div.Version())
	writeUint64(h, p.vol.Version())
	return h.Sum64()
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}
