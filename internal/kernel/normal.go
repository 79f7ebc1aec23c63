// Package kernel holds the numerical primitives shared by every pricing
// engine: tridiagonal solves, normal CDF/PDF, inverse normal CDF, Sobol
// direction numbers, Halton tables, the Mersenne Twister PRNG, and the
// Andersen-QE Heston stepper. No package here has any product knowledge.
package kernel

import "math"

// NormCDF is the standard normal cumulative distribution function,
// grounded on ag-enzo-black-scholes-greeks-multilang/go/bsm_greeks.go.
func NormCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// NormPDF is the standard normal probability density function.
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
