package orbit

import (
	"errors"
	"math"
	"testing"

	"github.com/thomasantony/rebound/internal/particle"
)

func angleDiff(a, b float64) float64 {
	return math.Abs(math.Remainder(a-b, 2*math.Pi))
}

func TestCircularOrbitElements(t *testing.T) {
	primary := particle.Particle{M: 1}
	p := particle.Particle{X: 1, Vy: 1}
	o, err := FromParticle(1, p, primary)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(o.A-1) > 1e-14 {
		t.Errorf("a = %.16g, want 1", o.A)
	}
	if o.E > 1e-14 {
		t.Errorf("e = %.3g, want 0", o.E)
	}
	if o.Inc != 0 {
		t.Errorf("inc = %.3g, want 0", o.Inc)
	}
	if math.Abs(o.P-2*math.Pi) > 1e-13 {
		t.Errorf("period = %.16g, want 2pi", o.P)
	}
	if math.Abs(o.D-1) > 1e-15 || math.Abs(o.V-1) > 1e-15 {
		t.Errorf("d = %v, v = %v, want 1, 1", o.D, o.V)
	}
}

func TestElementsRoundTrip(t *testing.T) {
	primary := particle.Particle{M: 1.2}
	cases := []struct {
		name                     string
		a, e, inc, node, peri, f float64
	}{
		{"planar", 1.3, 0.2, 0, 0, 0.9, 1.7},
		{"inclined", 1.0, 0.1, 0.2, 0.3, 0.4, 0.5},
		{"eccentric", 2.5, 0.85, 1.1, -0.7, 2.0, -1.2},
		{"retrograde", 1.7, 0.3, 2.8, 0.5, -1.0, 2.2},
		{"hyperbolic", -2.0, 1.4, 0.4, 1.0, -2.0, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewParticle(1, primary, 1e-3, tc.a, tc.e, tc.inc, tc.node, tc.peri, tc.f)
			if err != nil {
				t.Fatal(err)
			}
			o, err := FromParticle(1, p, primary)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(o.A-tc.a) > 1e-12*math.Abs(tc.a) {
				t.Errorf("a = %.15g, want %g", o.A, tc.a)
			}
			if math.Abs(o.E-tc.e) > 1e-12 {
				t.Errorf("e = %.15g, want %g", o.E, tc.e)
			}
			if math.Abs(o.Inc-tc.inc) > 1e-12 {
				t.Errorf("inc = %.15g, want %g", o.Inc, tc.inc)
			}
			if tc.inc != 0 && angleDiff(o.Node, tc.node) > 1e-12 {
				t.Errorf("node = %.15g, want %g", o.Node, tc.node)
			}
			if angleDiff(o.Peri, tc.peri) > 1e-11 {
				t.Errorf("peri = %.15g, want %g", o.Peri, tc.peri)
			}
			if angleDiff(o.F, tc.f) > 1e-11 {
				t.Errorf("f = %.15g, want %g", o.F, tc.f)
			}
		})
	}
}

func TestSemiMajorAxisMatchesVisViva(t *testing.T) {
	primary := particle.Particle{M: 2}
	p := particle.Particle{X: 0.5, Y: 0.1, Z: -0.2, Vx: 0.3, Vy: 1.2, Vz: 0.1}
	g := 1.3
	o, err := FromParticle(g, p, primary)
	if err != nil {
		t.Fatal(err)
	}
	mu := g * primary.M
	r := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	v2 := p.Vx*p.Vx + p.Vy*p.Vy + p.Vz*p.Vz
	want := -mu / (2 * (v2/2 - mu/r))
	if math.Abs(o.A-want) > 1e-12*math.Abs(want) {
		t.Errorf("a = %.15g, vis-viva gives %.15g", o.A, want)
	}
}

func TestMeanAnomalyZeroAtPericenter(t *testing.T) {
	primary := particle.Particle{M: 1}
	p, err := NewParticle(1, primary, 0, 2.0, 0.6, 0.3, 0.1, 0.2, 0)
	if err != nil {
		t.Fatal(err)
	}
	o, err := FromParticle(1, p, primary)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(o.M) > 1e-12 {
		t.Errorf("mean anomaly at pericenter = %.3g, want 0", o.M)
	}
	if math.Abs(o.F) > 1e-12 {
		t.Errorf("true anomaly at pericenter = %.3g, want 0", o.F)
	}
}

func TestNewParticleValidation(t *testing.T) {
	primary := particle.Particle{M: 1}
	cases := []struct {
		name    string
		primary particle.Particle
		a, e, f float64
		want    error
	}{
		{"radial", primary, 1, 1, 0, ErrRadialOrbit},
		{"negative e", primary, 1, -0.1, 0, ErrNegativeEccentricity},
		{"unbound needs negative a", primary, 1, 1.5, 0, ErrElementMismatch},
		{"bound needs positive a", primary, -1, 0.5, 0, ErrElementMismatch},
		{"beyond asymptote", primary, -1, 1.5, 2.8, ErrAnomalyOutOfRange},
		{"massless primary", particle.Particle{}, 1, 0.1, 0, ErrMasslessPrimary},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParticle(1, tc.primary, 0, tc.a, tc.e, 0, 0, 0, tc.f)
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFromParticleValidation(t *testing.T) {
	if _, err := FromParticle(1, particle.Particle{X: 1}, particle.Particle{}); !errors.Is(err, ErrMasslessPrimary) {
		t.Errorf("massless primary: error = %v", err)
	}
	if _, err := FromParticle(1, particle.Particle{}, particle.Particle{M: 1}); !errors.Is(err, ErrZeroSeparation) {
		t.Errorf("zero separation: error = %v", err)
	}
}
