// Package mc implements the Monte Carlo path simulator and per-product
// payoff kernels of spec §4.C: a configurable random source (pseudo or
// low-discrepancy), path generation under BSM or Heston, and
// bump-and-reprice Greeks sharing the base call's shock matrix and seed.
package mc

import (
	"github.com/meenmo/pricelib/internal/kernel"
	"gonum.org/v1/gonum/floats"
)

// RandMethod selects pseudo-random vs. low-discrepancy draws.
type RandMethod int

const (
	Pseudorandom RandMethod = iota
	LowDiscrepancy
)

// LDMethod selects the low-discrepancy sequence when RandMethod is
// LowDiscrepancy.
type LDMethod int

const (
	Sobol LDMethod = iota
	Halton
)

// Source produces an (n_paths, n_steps) matrix of standard normals, per
// spec §4.B, optionally halving the independent draws via antithetic
// pairing.
type Source struct {
	Method     RandMethod
	LD         LDMethod
	Antithetic bool
	Seed       int64
}

// Matrix returns nPaths rows of nSteps standard normals.
func (s Source) Matrix(nPaths, nSteps int) [][]float64 {
	if s.Antithetic {
		return s.antitheticMatrix(nPaths, nSteps)
	}
	return s.rawMatrix(nPaths, nSteps)
}

func (s Source) rawMatrix(nPaths, nSteps int) [][]float64 {
	switch s.Method {
	case LowDiscrepancy:
		return s.lowDiscrepancyMatrix(nPaths, nSteps)
	default:
		return s.pseudoMatrix(nPaths, nSteps)
	}
}

func (s Source) pseudoMatrix(nPaths, nSteps int) [][]float64 {
	rng := kernel.NewMT19937(uint32(s.Seed))
	out := make([][]float64, nPaths)
	for i := range out {
		row := make([]float64, nSteps)
		for j := range row {
			row[j] = rng.NextStdNormal()
		}
		out[i] = row
	}
	return out
}

func (s Source) lowDiscrepancyMatrix(nPaths, nSteps int) [][]float64 {
	switch s.LD {
	case Halton:
		h := kernel.NewHalton(nSteps)
		uniforms := h.Matrix(nPaths)
		return toStdNormal(uniforms)
	default:
		so := kernel.NewSobol(nSteps)
		uniforms := so.Matrix(nPaths)
		return toStdNormal(uniforms)
	}
}

func toStdNormal(uniforms [][]float64) [][]float64 {
	out := make([][]float64, len(uniforms))
	for i, row := range uniforms {
		converted := make([]float64, len(row))
		for j, u := range row {
			if u <= 0 {
				u = 1e-12
			}
			if u >= 1 {
				u = 1 - 1e-12
			}
			converted[j] = kernel.InvNormCDF(u)
		}
		out[i] = converted
	}
	return out
}

// antitheticMatrix draws half the requested path count independently
// and emits ±z pairs, per spec §4.B.
func (s Source) antitheticMatrix(nPaths, nSteps int) [][]float64 {
	half := (nPaths + 1) / 2
	base := s.rawMatrix(half, nSteps)
	out := make([][]float64, 0, nPaths)
	for _, row := range base {
		out = append(out, row)
		if len(out) >= nPaths {
			break
		}
		mirrored := append([]float64(nil), row...)
		floats.Scale(-1, mirrored)
		out = append(out, mirrored)
	}
	return out[:nPaths]
}
