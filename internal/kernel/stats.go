package kernel

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MeanStdErr returns the sample mean and the standard error of the mean
// (sample stddev / sqrt(N)) for a vector of discounted path payoffs,
// grounded on bcdannyboy/dquant's gonum.org/v1/gonum dependency — the
// only pack/other_examples member pulling in a numerical computing
// library for exactly this kind of reduction.
func MeanStdErr(samples []float64) (mean, stdErr float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	mean = stat.Mean(samples, nil)
	if len(samples) < 2 {
		return mean, 0
	}
	sd := stat.StdDev(samples, nil)
	return mean, sd / math.Sqrt(float64(len(samples)))
}
