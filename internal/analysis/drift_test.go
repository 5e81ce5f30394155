package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestDriftRateRecoversSlope(t *testing.T) {
	times := make([]float64, 20)
	values := make([]float64, 20)
	for i := range times {
		times[i] = 0.5 * float64(i)
		values[i] = 3 + 0.5*times[i]
	}
	slope, err := DriftRate(times, values)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(slope-0.5) > 1e-10 {
		t.Errorf("slope = %v, want 0.5", slope)
	}
}

func TestDriftRateIgnoresOscillation(t *testing.T) {
	times := make([]float64, 40)
	values := make([]float64, 40)
	for i := range times {
		times[i] = 0.25 * float64(i)
		values[i] = 0.5*times[i] + 0.01*math.Sin(2*math.Pi*times[i])
	}
	slope, err := DriftRate(times, values)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(slope-0.5) > 0.02 {
		t.Errorf("slope = %v, want about 0.5", slope)
	}
}

func TestDriftRateValidation(t *testing.T) {
	if _, err := DriftRate([]float64{1, 2}, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("error = %v, want ErrLengthMismatch", err)
	}
	if _, err := DriftRate([]float64{1}, []float64{1}); !errors.Is(err, ErrSeriesTooShort) {
		t.Fatalf("error = %v, want ErrSeriesTooShort", err)
	}
}
