package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/thomasantony/rebound/internal/sim"
)

// ErrShadowCollapse indicates the shadow trajectory became identical to
// the reference, leaving no separation to renormalize.
var ErrShadowCollapse = errors.New("analysis: shadow trajectory collapsed onto the reference")

// LyapunovExponent estimates the largest Lyapunov exponent by the shadow
// trajectory method: build is called twice for two identical simulations,
// the shadow copy is displaced by d0 along x of the indexed particle, and
// after every step the phase-space separation is logged and rescaled back
// to d0. The average log growth rate per unit time is returned.
//
// The integrators must re-read inertial coordinates each step for the
// rescaling to take effect, so run them in safe mode.
func LyapunovExponent(build func() *sim.Simulation, index int, d0 float64, steps int) (float64, error) {
	if d0 <= 0 {
		return 0, fmt.Errorf("analysis: perturbation must be positive, got %g", d0)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("analysis: steps must be positive, got %d", steps)
	}
	ref := build()
	shadow := build()
	if index < 0 || index >= len(ref.Particles) {
		return 0, fmt.Errorf("analysis: particle index %d out of range", index)
	}
	shadow.Particles[index].X += d0

	sumLog := 0.0
	for i := 0; i < steps; i++ {
		if err := ref.Step(); err != nil {
			return 0, err
		}
		if err := shadow.Step(); err != nil {
			return 0, err
		}

		sep := phaseSeparation(ref, shadow)
		if sep == 0 {
			return 0, ErrShadowCollapse
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for j := range shadow.Particles {
			sp := &shadow.Particles[j]
			rp := ref.Particles[j]
			sp.X = rp.X + (sp.X-rp.X)*scale
			sp.Y = rp.Y + (sp.Y-rp.Y)*scale
			sp.Z = rp.Z + (sp.Z-rp.Z)*scale
			sp.Vx = rp.Vx + (sp.Vx-rp.Vx)*scale
			sp.Vy = rp.Vy + (sp.Vy-rp.Vy)*scale
			sp.Vz = rp.Vz + (sp.Vz-rp.Vz)*scale
		}
	}

	return sumLog / (float64(steps) * math.Abs(ref.Dt)), nil
}

func phaseSeparation(a, b *sim.Simulation) float64 {
	sum := 0.0
	for i := range a.Particles {
		pa, pb := a.Particles[i], b.Particles[i]
		for _, d := range []float64{
			pb.X - pa.X, pb.Y - pa.Y, pb.Z - pa.Z,
			pb.Vx - pa.Vx, pb.Vy - pa.Vy, pb.Vz - pa.Vz,
		} {
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}
