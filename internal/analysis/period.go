package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrSeriesTooShort indicates too few samples for the requested analysis.
	ErrSeriesTooShort = errors.New("analysis: series too short")

	// ErrNoPeriodicSignal indicates a spectrum with no power above the mean.
	ErrNoPeriodicSignal = errors.New("analysis: no periodic signal above the mean")

	// ErrLengthMismatch indicates paired series of different lengths.
	ErrLengthMismatch = errors.New("analysis: series lengths differ")
)

// minPeriodSamples is the shortest series the spectral estimate accepts.
const minPeriodSamples = 8

// DominantPeriod estimates the strongest periodicity of a uniformly sampled
// series, in the units of dt. The series is demeaned, transformed, and the
// magnitude peak refined by parabolic interpolation of the neighboring
// bins, which recovers off-bin frequencies to a small fraction of the bin
// width.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	if len(series) < minPeriodSamples {
		return 0, ErrSeriesTooShort
	}
	if dt <= 0 {
		return 0, fmt.Errorf("analysis: dt must be positive, got %g", dt)
	}

	n := len(series)
	demeaned := make([]float64, n)
	mean := stat.Mean(series, nil)
	for i, v := range series {
		demeaned[i] = v - mean
	}

	spectrum := fft.FFTReal(demeaned)

	// Skip the DC bin; keep the positive frequency half.
	half := n / 2
	mags := make([]float64, half)
	for k := 1; k <= half; k++ {
		mags[k-1] = cmplx.Abs(spectrum[k])
	}

	idx := floats.MaxIdx(mags)
	if mags[idx] == 0 {
		return 0, ErrNoPeriodicSignal
	}
	k := idx + 1

	// Parabolic refinement around the peak bin.
	prev := cmplx.Abs(spectrum[k-1])
	peak := mags[idx]
	next := cmplx.Abs(spectrum[k+1])
	delta := 0.0
	if denom := prev - 2*peak + next; denom != 0 {
		delta = 0.5 * (prev - next) / denom
		if delta > 0.5 {
			delta = 0.5
		} else if delta < -0.5 {
			delta = -0.5
		}
	}

	return float64(n) * dt / (float64(k) + delta), nil
}
