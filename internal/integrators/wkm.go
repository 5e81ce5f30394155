package integrators

import (
	"fmt"
	"math"

	"github.com/thomasantony/rebound/internal/jacobi"
	"github.com/thomasantony/rebound/internal/particle"
	"github.com/thomasantony/rebound/internal/sim"
)

// Kernel selects how WKM evaluates the interaction between Kepler drifts.
type Kernel int

const (
	// KernelComposition applies the interaction through a nine stage
	// composition of kicks and drifts within the step.
	KernelComposition Kernel = iota
	// KernelLazy is the lazy implementer's kernel: a single kick evaluated
	// at positions displaced by dt^2/12 times the interaction acceleration.
	KernelLazy
)

func (k Kernel) String() string {
	switch k {
	case KernelComposition:
		return "composition"
	case KernelLazy:
		return "lazy"
	}
	return fmt.Sprintf("kernel(%d)", int(k))
}

// wkmCorrector2B is the kick fraction of the second order corrector.
const wkmCorrector2B = 0.03486083443891981449909050107438281205803

// WKM is the Wisdom-Holman kernel method: a Wisdom-Holman splitting whose
// interaction step is replaced by a higher order kernel, pushing the
// dominant error terms one order higher in the planetary mass ratio. It
// drives the WHFast primitive layer and requires Jacobi coordinates.
type WKM struct {
	WHFast WHFast

	Kernel Kernel

	// CorrectorOrder selects the correctors applied when entering and
	// leaving a synchronized state: 0 none, 1 the eleventh order kick
	// corrector, 2 or more additionally the second order corrector.
	CorrectorOrder int

	// SafeMode synchronizes after every step.
	SafeMode bool

	// KeepUnsynchronized preserves the internal state across an explicit
	// Synchronize so a continued run is bit identical to one that never
	// synchronized.
	KeepUnsynchronized bool

	IsSynchronized bool

	temp       []particle.Particle
	allocatedN int
}

func NewWKM() *WKM {
	return &WKM{
		WHFast: WHFast{
			Coordinates:    JacobiCoordinates,
			IsSynchronized: true,
		},
		Kernel:         KernelComposition,
		CorrectorOrder: 1,
		SafeMode:       true,
		IsSynchronized: true,
	}
}

func (w *WKM) Name() string { return "wkm" }

func (w *WKM) Part1(s *sim.Simulation) error {
	s.GravityIgnoreTerms = 1
	if s.NVar > 0 {
		return ErrVariational
	}
	if w.WHFast.Coordinates != JacobiCoordinates {
		return ErrJacobiRequired
	}
	if w.Kernel != KernelComposition && w.Kernel != KernelLazy {
		return ErrUnsupportedKernel
	}
	wh := &w.WHFast
	wh.Init(s)
	if w.SafeMode || wh.RecalculateCoordinatesThisTimestep {
		wh.FromInertial(s)
		wh.RecalculateCoordinatesThisTimestep = false
	}
	dt := s.Dt
	if w.IsSynchronized {
		if w.CorrectorOrder >= 1 {
			applyCorrector(s, 1, 11, wh.correctorZ)
		}
		if w.CorrectorOrder >= 2 {
			w.corrector2(s, dt)
		}
		lead := dt / 2
		if w.Kernel == KernelComposition {
			lead = dt * 5.0 / 8.0
		}
		wh.KeplerStep(s, lead)
		wh.COMStep(lead)
	} else {
		// Trailing drift of the previous step and leading drift of this
		// one fused into a single whole step drift.
		wh.KeplerStep(s, dt)
		wh.COMStep(dt)
	}
	wh.ToInertialPos(s)
	return nil
}

func (w *WKM) Part2(s *sim.Simulation) {
	if w.WHFast.PJ == nil {
		// Part1 failed or never ran. Do not advance time.
		return
	}
	dt := s.Dt
	if w.Kernel == KernelComposition {
		w.kernelComposition(s, dt)
	} else {
		w.kernelLazy(s, dt)
	}
	w.IsSynchronized = false
	if w.SafeMode {
		w.Synchronize(s)
	}
	s.T += dt
	s.DtLastDone = dt
}

// kernelComposition applies the interaction through nine alternating kicks
// and drifts. The outer drifts of the composition live in Part1 and
// Synchronize, which is why the leading drift there is 5/8 dt and the
// trailing one 3/8 dt. The first kick consumes the accelerations already
// evaluated for this step.
func (w *WKM) kernelComposition(s *sim.Simulation, dt float64) {
	wh := &w.WHFast
	wh.InteractionStep(s, -dt/6)
	w.compositionDrift(s, -dt/4)
	wh.InteractionStep(s, dt/6)
	w.compositionDrift(s, dt/8)
	wh.InteractionStep(s, dt)
	w.compositionDrift(s, -dt/8)
	wh.InteractionStep(s, -dt/6)
	w.compositionDrift(s, dt/4)
	wh.InteractionStep(s, dt/6)
}

// compositionDrift moves the system along the Kepler flow and re-evaluates
// accelerations at the drifted positions for the kick that follows.
func (w *WKM) compositionDrift(s *sim.Simulation, dt float64) {
	wh := &w.WHFast
	wh.KeplerStep(s, dt)
	wh.COMStep(dt)
	wh.ToInertialPos(s)
	s.UpdateAcceleration()
}

// kernelLazy kicks at positions displaced by dt^2/12 times the interaction
// acceleration, then puts the positions back. The displaced evaluation
// cancels the leading error commutator without any extra force evaluations
// beyond the one kick.
func (w *WKM) kernelLazy(s *sim.Simulation, dt float64) {
	wh := &w.WHFast
	n := len(s.Particles)
	if w.allocatedN != n {
		w.temp = make([]particle.Particle, n)
		w.allocatedN = n
	}
	jacobi.FromInertialAcc(wh.PJ, s.Particles)
	copy(w.temp, wh.PJ)

	// Add the indirect term to the interaction accelerations, then
	// displace the Jacobi positions along them.
	pref := dt * dt / 12
	eta := s.Particles[0].M
	for i := 1; i < n; i++ {
		eta += s.Particles[i].M
		if i > 1 {
			ti := w.temp[i]
			r2 := ti.X*ti.X + ti.Y*ti.Y + ti.Z*ti.Z
			rInv := 1 / math.Sqrt(r2)
			rj3iM := s.G * eta * rInv / r2
			w.temp[i].Ax += rj3iM * ti.X
			w.temp[i].Ay += rj3iM * ti.Y
			w.temp[i].Az += rj3iM * ti.Z
		}
		wh.PJ[i].X += pref * w.temp[i].Ax
		wh.PJ[i].Y += pref * w.temp[i].Ay
		wh.PJ[i].Z += pref * w.temp[i].Az
	}

	wh.ToInertialPos(s)
	s.UpdateAcceleration()
	wh.InteractionStep(s, dt)

	// Restore positions; only the velocities keep the kick.
	for i := 1; i < n; i++ {
		wh.PJ[i].X = w.temp[i].X
		wh.PJ[i].Y = w.temp[i].Y
		wh.PJ[i].Z = w.temp[i].Z
	}
}

func (w *WKM) Synchronize(s *sim.Simulation) {
	if w.IsSynchronized {
		return
	}
	s.GravityIgnoreTerms = 1
	wh := &w.WHFast
	var snapshot []particle.Particle
	if w.KeepUnsynchronized {
		snapshot = particle.Clone(wh.PJ)
	}
	dt := s.Dt
	trail := dt / 2
	if w.Kernel == KernelComposition {
		trail = dt * 3.0 / 8.0
	}
	wh.KeplerStep(s, trail)
	wh.COMStep(trail)
	if w.CorrectorOrder >= 2 {
		w.corrector2(s, -dt)
	}
	if w.CorrectorOrder >= 1 {
		applyCorrector(s, -1, 11, wh.correctorZ)
	}
	wh.ToInertialPosVel(s)
	if w.KeepUnsynchronized {
		copy(wh.PJ, snapshot)
	} else {
		w.IsSynchronized = true
	}
}

func (w *WKM) Reset(s *sim.Simulation) {
	w.Kernel = KernelComposition
	w.CorrectorOrder = 1
	w.SafeMode = true
	w.KeepUnsynchronized = false
	w.IsSynchronized = true
	w.WHFast.Reset(s)
	w.temp = nil
	w.allocatedN = 0
}

// operatorC kicks at a Kepler offset: drift by a, kick by b with fresh
// accelerations, drift back.
func (w *WKM) operatorC(s *sim.Simulation, a, b float64) {
	wh := &w.WHFast
	wh.KeplerStep(s, a)
	wh.COMStep(a)
	wh.ToInertialPos(s)
	s.UpdateAcceleration()
	wh.InteractionStep(s, b)
	wh.KeplerStep(s, -a)
	wh.COMStep(-a)
}

// operatorY composes C with its parameter mirrored counterpart.
func (w *WKM) operatorY(s *sim.Simulation, a, b float64) {
	w.operatorC(s, a, b)
	w.operatorC(s, -a, -b)
}

// operatorU conjugates a Y pair by a Kepler drift.
func (w *WKM) operatorU(s *sim.Simulation, a, b float64) {
	wh := &w.WHFast
	wh.KeplerStep(s, a)
	wh.COMStep(a)
	w.operatorY(s, a, b)
	w.operatorY(s, a, -b)
	wh.KeplerStep(s, -a)
	wh.COMStep(-a)
}

// corrector2 is the second order corrector. The backward direction passes
// -dt.
func (w *WKM) corrector2(s *sim.Simulation, dt float64) {
	a := dt / 2
	b := wkmCorrector2B * dt
	w.operatorU(s, a, b)
	w.operatorU(s, -a, b)
}
