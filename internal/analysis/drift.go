package analysis

import (
	"gonum.org/v1/gonum/stat"
)

// DriftRate fits values against times by least squares and returns the
// slope: the secular change per unit time. Conserved quantities of a well
// behaved symplectic run fit to a slope near zero even when the series
// oscillates.
func DriftRate(times, values []float64) (float64, error) {
	if len(times) != len(values) {
		return 0, ErrLengthMismatch
	}
	if len(times) < 2 {
		return 0, ErrSeriesTooShort
	}
	_, slope := stat.LinearRegression(times, values, nil, false)
	return slope, nil
}
