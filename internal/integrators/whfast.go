package integrators

import (
	"fmt"
	"math"

	"github.com/thomasantony/rebound/internal/jacobi"
	"github.com/thomasantony/rebound/internal/particle"
	"github.com/thomasantony/rebound/internal/sim"
)

// Coordinates selects the canonical coordinate system of a Wisdom-Holman
// splitting. Only Jacobi coordinates are implemented; the other values
// exist so configurations naming them are rejected cleanly.
type Coordinates int

const (
	JacobiCoordinates Coordinates = iota
	DemocraticHeliocentric
	WHDS
)

func (c Coordinates) String() string {
	switch c {
	case JacobiCoordinates:
		return "jacobi"
	case DemocraticHeliocentric:
		return "democratic-heliocentric"
	case WHDS:
		return "whds"
	}
	return fmt.Sprintf("coordinates(%d)", int(c))
}

// WHFast is a Wisdom-Holman splitting integrator: Kepler drifts along the
// dominant central force alternate with interaction kicks. Between steps
// the state of record lives in PJ, the particle set in Jacobi coordinates;
// the inertial particles only hold synchronized output. WHFast also serves
// as the primitive step library for the kernel method integrator.
type WHFast struct {
	// PJ holds the particles in Jacobi coordinates between steps. It is
	// nil until the first step allocates it.
	PJ []particle.Particle

	Coordinates Coordinates

	// Corrector selects the symplectic corrector order applied at
	// synchronization boundaries: 0 (none), 3, 5, 7 or 11.
	Corrector int

	// SafeMode synchronizes after every step. Turning it off keeps the
	// state in Jacobi coordinates between steps, trading inspection
	// convenience for speed and one less roundoff source per step.
	SafeMode bool

	// KeepUnsynchronized preserves the Jacobi state across an explicit
	// Synchronize so a later continuation is bit identical to a run that
	// never synchronized.
	KeepUnsynchronized bool

	// RecalculateCoordinatesThisTimestep forces the next Part1 to rebuild
	// PJ from the inertial particles. Set it after modifying particles
	// directly while running with SafeMode off.
	RecalculateCoordinatesThisTimestep bool

	IsSynchronized bool

	// TimestepWarning counts steps whose timestep exceeded an orbital
	// period. Only the first occurrence is recorded.
	TimestepWarning int

	allocatedN int
}

func NewWHFast() *WHFast {
	return &WHFast{
		Coordinates:    JacobiCoordinates,
		SafeMode:       true,
		IsSynchronized: true,
	}
}

func (w *WHFast) Name() string { return "whfast" }

// Init sizes the Jacobi buffer to the particle count. A resize forces a
// coordinate recalculation since old Jacobi state cannot be reused.
func (w *WHFast) Init(s *sim.Simulation) {
	if w.allocatedN != len(s.Particles) {
		w.PJ = make([]particle.Particle, len(s.Particles))
		w.allocatedN = len(s.Particles)
		w.RecalculateCoordinatesThisTimestep = true
	}
}

// KeplerStep advances every Jacobi particle along its osculating two-body
// orbit by dt. The gravitational parameter of particle i is G times the
// cumulative mass of particles 0..i.
func (w *WHFast) KeplerStep(s *sim.Simulation, dt float64) {
	eta := s.Particles[0].M
	for i := 1; i < len(s.Particles); i++ {
		eta += s.Particles[i].M
		w.keplerSolver(w.PJ, s.G*eta, i, dt)
	}
}

// COMStep drifts the center of mass, which moves freely.
func (w *WHFast) COMStep(dt float64) {
	w.PJ[0].X += dt * w.PJ[0].Vx
	w.PJ[0].Y += dt * w.PJ[0].Vy
	w.PJ[0].Z += dt * w.PJ[0].Vz
}

// InteractionStep kicks the Jacobi velocities with the interaction part of
// the Hamiltonian: the inertial accelerations transformed to Jacobi
// coordinates, plus for i>1 the indirect term G*eta_i/r^3 that the
// coordinate change moves out of the Kepler part.
func (w *WHFast) InteractionStep(s *sim.Simulation, dt float64) {
	jacobi.FromInertialAcc(w.PJ, s.Particles)
	eta := s.Particles[0].M
	for i := 1; i < len(s.Particles); i++ {
		pji := w.PJ[i]
		eta += s.Particles[i].M
		if i > 1 {
			rj2i := 1.0 / (pji.X*pji.X + pji.Y*pji.Y + pji.Z*pji.Z)
			rji := math.Sqrt(rj2i)
			rj3iM := rji * rj2i * s.G * eta
			w.PJ[i].Vx += dt * (pji.Ax + rj3iM*pji.X)
			w.PJ[i].Vy += dt * (pji.Ay + rj3iM*pji.Y)
			w.PJ[i].Vz += dt * (pji.Az + rj3iM*pji.Z)
		} else {
			w.PJ[i].Vx += dt * pji.Ax
			w.PJ[i].Vy += dt * pji.Ay
			w.PJ[i].Vz += dt * pji.Az
		}
	}
}

func (w *WHFast) FromInertial(s *sim.Simulation) {
	jacobi.FromInertialPosVel(w.PJ, s.Particles)
}

func (w *WHFast) ToInertialPos(s *sim.Simulation) {
	jacobi.ToInertialPos(s.Particles, w.PJ)
}

func (w *WHFast) ToInertialPosVel(s *sim.Simulation) {
	jacobi.ToInertialPosVel(s.Particles, w.PJ)
}

// correctorZ is the corrector stage kernel: an interaction kick of size b
// evaluated at Kepler offset +a, undone at offset -a. Its inverse is
// correctorZ(-a, b).
func (w *WHFast) correctorZ(s *sim.Simulation, a, b float64) {
	w.KeplerStep(s, a)
	w.ToInertialPos(s)
	s.UpdateAcceleration()
	w.InteractionStep(s, -b)
	w.KeplerStep(s, -2*a)
	w.ToInertialPos(s)
	s.UpdateAcceleration()
	w.InteractionStep(s, b)
	w.KeplerStep(s, a)
}

func (w *WHFast) Part1(s *sim.Simulation) error {
	s.GravityIgnoreTerms = 1
	if s.NVar > 0 {
		return ErrVariational
	}
	if w.Coordinates != JacobiCoordinates {
		return ErrJacobiRequired
	}
	switch w.Corrector {
	case 0, 3, 5, 7, 11:
	default:
		return ErrUnknownCorrector
	}
	w.Init(s)
	if w.SafeMode || w.RecalculateCoordinatesThisTimestep {
		w.FromInertial(s)
		w.RecalculateCoordinatesThisTimestep = false
	}
	dt := s.Dt
	if w.IsSynchronized {
		if w.Corrector != 0 {
			applyCorrector(s, 1, w.Corrector, w.correctorZ)
		}
		w.KeplerStep(s, dt/2)
		w.COMStep(dt / 2)
	} else {
		// The trailing half drift of the previous step and the leading
		// half drift of this one combine into a single full drift.
		w.KeplerStep(s, dt)
		w.COMStep(dt)
	}
	w.ToInertialPos(s)
	return nil
}

func (w *WHFast) Part2(s *sim.Simulation) {
	if w.PJ == nil {
		return
	}
	w.InteractionStep(s, s.Dt)
	w.IsSynchronized = false
	if w.SafeMode {
		w.Synchronize(s)
	}
	s.T += s.Dt
	s.DtLastDone = s.Dt
}

func (w *WHFast) Synchronize(s *sim.Simulation) {
	if w.IsSynchronized {
		return
	}
	var snapshot []particle.Particle
	if w.KeepUnsynchronized {
		snapshot = particle.Clone(w.PJ)
	}
	w.KeplerStep(s, s.Dt/2)
	w.COMStep(s.Dt / 2)
	if w.Corrector != 0 {
		applyCorrector(s, -1, w.Corrector, w.correctorZ)
	}
	w.ToInertialPosVel(s)
	if w.KeepUnsynchronized {
		copy(w.PJ, snapshot)
	} else {
		w.IsSynchronized = true
	}
}

func (w *WHFast) Reset(s *sim.Simulation) {
	w.Corrector = 0
	w.Coordinates = JacobiCoordinates
	w.SafeMode = true
	w.KeepUnsynchronized = false
	w.RecalculateCoordinatesThisTimestep = false
	w.IsSynchronized = true
	w.TimestepWarning = 0
	w.PJ = nil
	w.allocatedN = 0
}
