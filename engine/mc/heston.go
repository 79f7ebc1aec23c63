package mc

import (
	"github.com/meenmo/pricelib/internal/kernel"
	"github.com/meenmo/pricelib/internal/perrors"
	"github.com/meenmo/pricelib/internal/plog"
	"github.com/meenmo/pricelib/process"
)

// PriceHeston runs the MC procedure of spec §4.C steps 1-5 for a payoff
// kernel operating on coupled (S,v) Andersen-QE paths, for a process
// carrying a *process.HestonVol. It caches its three shock matrices
// (variance normals, spot-residual normals, mixture-draw uniforms)
// keyed only on step count, the same way PriceBSM caches its single BSM
// matrix, so bump-and-reprice Greeks reuse them across process bumps.
func (e *Engine) PriceHeston(proc *process.Process, tau float64, kernelFn PayoffKernel) (Result, error) {
	if tau < 0 {
		return Result{}, perrors.Configuration("mc.Engine.PriceHeston", "negative maturity %.6f", tau)
	}
	hv, ok := proc.VolModel().(*process.HestonVol)
	if !ok {
		return Result{}, perrors.Configuration("mc.Engine.PriceHeston", "process vol model is not Heston")
	}
	nSteps := NSteps(tau, e.Cfg.StepsPerYear)
	zv, zs, uniforms := e.hestonShocksFor(proc, nSteps)

	paths, err := GenerateHeston(proc, proc.Spot(), hv.Params().V0, tau, zv, zs, uniforms)
	if err != nil {
		return Result{}, err
	}

	payoffs := make([]float64, len(paths.Spot))
	disc := proc.DiscFactor(tau)
	for i := range paths.Spot {
		payoffs[i] = disc * kernelFn(paths.Spot[i], paths.Var[i])
	}
	mean, stderr := kernel.MeanStdErr(payoffs)
	return Result{PV: mean, StdErr: stderr, Session: e.session.String()}, nil
}

// hestonShocksFor mirrors shocksFor's cache-key choice: the (zv, zs,
// uniforms) matrices are a pure function of Cfg and nSteps, never of
// market data, so the cache key omits the process fingerprint and
// bump-and-reprice Greeks reuse the identical matrices across the
// base/up/down calls. proc is accepted for diagnostic logging only.
func (e *Engine) hestonShocksFor(proc *process.Process, nSteps int) (zv, zs, uniforms [][]float64) {
	if e.cachedHestonZV != nil && nSteps == e.cachedHestonNSteps {
		return e.cachedHestonZV, e.cachedHestonZS, e.cachedHestonU
	}
	e.session = process.NewSession()
	plog.Infof("mc[%s]: rebuilding heston shock matrices (paths=%d steps=%d fingerprint=%d)",
		e.session, e.Cfg.NPaths, nSteps, proc.Fingerprint())

	zvSource := e.Cfg.Source
	zsSource := e.Cfg.Source
	zsSource.Seed = e.Cfg.Source.Seed + 1
	zv = zvSource.Matrix(e.Cfg.NPaths, nSteps)
	zs = zsSource.Matrix(e.Cfg.NPaths, nSteps)
	uniforms = uniformMatrix(e.Cfg.NPaths, nSteps, e.Cfg.Source.Seed+2)

	e.cachedHestonZV = zv
	e.cachedHestonZS = zs
	e.cachedHestonU = uniforms
	e.cachedHestonNSteps = nSteps
	return zv, zs, uniforms
}

// uniformMatrix draws nPaths rows of nSteps independent U(0,1) variates
// for the Andersen QE scheme's ψ>ψc exponential/atom mixture draw, kept
// separate from Source.Matrix since that always returns standard
// normals.
func uniformMatrix(nPaths, nSteps int, seed int64) [][]float64 {
	rng := kernel.NewMT19937(uint32(seed))
	out := make([][]float64, nPaths)
	for i := range out {
		row := make([]float64, nSteps)
		for j := range row {
			row[j] = rng.NextFloat64()
		}
		out[i] = row
	}
	return out
}
