// Package orbit converts between cartesian particle state and osculating
// Keplerian elements. All angles are in radians; elements are relative to
// a primary body, not to the barycenter.
package orbit

import (
	"errors"
	"math"

	"github.com/thomasantony/rebound/internal/particle"
)

var (
	// ErrMasslessPrimary indicates the primary carries no mass, leaving
	// the gravitational parameter undefined.
	ErrMasslessPrimary = errors.New("orbit: primary has no mass")

	// ErrZeroSeparation indicates the particle sits on top of the primary.
	ErrZeroSeparation = errors.New("orbit: zero separation from primary")

	// ErrRadialOrbit indicates e=1, which orbital elements cannot express.
	ErrRadialOrbit = errors.New("orbit: radial orbits have no element representation")

	// ErrNegativeEccentricity indicates e<0.
	ErrNegativeEccentricity = errors.New("orbit: eccentricity must not be negative")

	// ErrElementMismatch indicates the signs of a and e-1 disagree: bound
	// orbits need a>0 and e<1, unbound orbits a<0 and e>1.
	ErrElementMismatch = errors.New("orbit: semi-major axis sign inconsistent with eccentricity")

	// ErrAnomalyOutOfRange indicates a true anomaly beyond the asymptotes
	// of an unbound orbit.
	ErrAnomalyOutOfRange = errors.New("orbit: true anomaly beyond hyperbolic asymptotes")
)

// Orbit holds osculating Keplerian elements plus a few derived scalars.
// For unbound orbits the mean motion and period carry a negative sign.
type Orbit struct {
	D     float64 // separation from the primary
	V     float64 // relative speed
	H     float64 // specific angular momentum
	P     float64 // orbital period
	N     float64 // mean motion
	A     float64 // semi-major axis, negative for unbound orbits
	E     float64 // eccentricity
	Inc   float64 // inclination
	Node  float64 // longitude of ascending node
	Peri  float64 // argument of pericenter
	F     float64 // true anomaly
	M     float64 // mean anomaly
	Theta float64 // true longitude
	L     float64 // mean longitude
}

// minInc is the inclination below which an orbit counts as planar: the
// node referenced angles degrade there, while the longitude based ones
// match them to machine precision.
const minInc = 1e-8

// acos2 returns the angle whose cosine is num/denom, negated when the
// disambiguator is negative. Degenerate ratios (denominator zero, cosine
// outside [-1,1]) clamp to 0 or pi, which maps undefined angles to zero.
func acos2(num, denom, disambiguator float64) float64 {
	cosine := num / denom
	if cosine > -1 && cosine < 1 {
		v := math.Acos(cosine)
		if disambiguator < 0 {
			v = -v
		}
		return v
	}
	if cosine <= -1 {
		return math.Pi
	}
	return 0
}

// FromParticle computes the osculating elements of p relative to primary
// under gravitational constant g.
func FromParticle(g float64, p, primary particle.Particle) (Orbit, error) {
	var o Orbit
	if primary.M == 0 {
		return o, ErrMasslessPrimary
	}
	mu := g * (p.M + primary.M)
	dx := p.X - primary.X
	dy := p.Y - primary.Y
	dz := p.Z - primary.Z
	dvx := p.Vx - primary.Vx
	dvy := p.Vy - primary.Vy
	dvz := p.Vz - primary.Vz

	o.D = math.Sqrt(dx*dx + dy*dy + dz*dz)
	if o.D == 0 {
		return Orbit{}, ErrZeroSeparation
	}
	v2 := dvx*dvx + dvy*dvy + dvz*dvz
	o.V = math.Sqrt(v2)
	vCirc2 := mu / o.D
	o.A = -mu / (v2 - 2*vCirc2)

	hx := dy*dvz - dz*dvy
	hy := dz*dvx - dx*dvz
	hz := dx*dvy - dy*dvx
	o.H = math.Sqrt(hx*hx + hy*hy + hz*hz)

	// Eccentricity vector, pointing at pericenter.
	vr := (dx*dvx + dy*dvy + dz*dvz) / o.D
	rvr := o.D * vr
	vDiff2 := v2 - vCirc2
	ex := (vDiff2*dx - rvr*dvx) / mu
	ey := (vDiff2*dy - rvr*dvy) / mu
	ez := (vDiff2*dz - rvr*dvz) / mu
	o.E = math.Sqrt(ex*ex + ey*ey + ez*ez)

	o.N = math.Copysign(math.Sqrt(math.Abs(mu/(o.A*o.A*o.A))), o.A)
	o.P = 2 * math.Pi / o.N

	o.Inc = acos2(hz, o.H, 1)

	// Ascending node vector zhat x h lies in the plane.
	nx := -hy
	ny := hx
	n := math.Sqrt(nx*nx + ny*ny)
	o.Node = acos2(nx, n, ny)

	if o.E < 1 {
		ea := acos2(1-o.D/o.A, o.E, vr)
		o.M = ea - o.E*math.Sin(ea)
	} else {
		ea := math.Acosh((1 - o.D/o.A) / o.E)
		if vr < 0 {
			ea = -ea
		}
		o.M = o.E*math.Sinh(ea) - ea
	}

	if o.Inc < minInc || o.Inc > math.Pi-minInc {
		// Nearly planar. The node is ill defined, but the true longitude
		// and the longitude of pericenter are not; derive the node
		// referenced angles from those.
		pomega := acos2(ex, o.E, ey)
		o.Theta = acos2(dx, o.D, dy)
		if o.Inc < math.Pi/2 {
			o.Peri = pomega - o.Node
			o.F = o.Theta - pomega
			o.L = pomega + o.M
		} else {
			o.Peri = o.Node - pomega
			o.F = pomega - o.Theta
			o.L = pomega - o.M
		}
	} else {
		// Inclined. Measure pericenter and position from the ascending
		// node within the orbital plane.
		wpf := acos2(nx*dx+ny*dy, n*o.D, dz)
		o.Peri = acos2(nx*ex+ny*ey, n*o.E, ez)
		o.F = wpf - o.Peri
		if o.Inc < math.Pi/2 {
			o.Theta = o.Node + wpf
			o.L = o.Node + o.Peri + o.M
		} else {
			o.Theta = o.Node - wpf
			o.L = o.Node - o.Peri - o.M
		}
	}
	return o, nil
}

// NewParticle places a body of mass m on the orbit described by the given
// elements around primary. The anomaly f fixes the position along the
// orbit.
func NewParticle(g float64, primary particle.Particle, m, a, e, inc, node, peri, f float64) (particle.Particle, error) {
	switch {
	case e == 1:
		return particle.Particle{}, ErrRadialOrbit
	case e < 0:
		return particle.Particle{}, ErrNegativeEccentricity
	case e > 1 && a > 0, e < 1 && a < 0:
		return particle.Particle{}, ErrElementMismatch
	case e*math.Cos(f) < -1:
		return particle.Particle{}, ErrAnomalyOutOfRange
	case primary.M == 0:
		return particle.Particle{}, ErrMasslessPrimary
	}

	r := a * (1 - e*e) / (1 + e*math.Cos(f))
	v0 := math.Sqrt(g * (m + primary.M) / a / (1 - e*e))

	cO := math.Cos(node)
	sO := math.Sin(node)
	co := math.Cos(peri)
	so := math.Sin(peri)
	cf := math.Cos(f)
	sf := math.Sin(f)
	ci := math.Cos(inc)
	si := math.Sin(inc)

	// Murray & Dermott Eq. 2.122: rotate the in-plane position by
	// argument of pericenter, inclination and node.
	p := particle.Particle{M: m}
	p.X = primary.X + r*(cO*(co*cf-so*sf)-sO*(so*cf+co*sf)*ci)
	p.Y = primary.Y + r*(sO*(co*cf-so*sf)+cO*(so*cf+co*sf)*ci)
	p.Z = primary.Z + r*(so*cf+co*sf)*si

	// Murray & Dermott Eq. 2.36 with the same rotations applied to the
	// in-plane velocity.
	p.Vx = primary.Vx + v0*((e+cf)*(-ci*co*sO-cO*so)-sf*(co*cO-ci*so*sO))
	p.Vy = primary.Vy + v0*((e+cf)*(ci*co*cO-sO*so)-sf*(co*sO+ci*so*cO))
	p.Vz = primary.Vz + v0*((e+cf)*co*si-sf*si*so)
	return p, nil
}
