package gravity

import (
	"math"
	"testing"

	"github.com/thomasantony/rebound/internal/particle"
)

func twoBody() []particle.Particle {
	return []particle.Particle{
		{M: 1},
		{X: 1, M: 1e-3},
	}
}

func TestAccelerationTwoBody(t *testing.T) {
	ps := twoBody()
	Acceleration(Basic, ps, 1, 0, 0)

	// Unit separation: |a_1| = G*m_0, |a_0| = G*m_1, directed inward.
	if math.Abs(ps[1].Ax+1.0) > 1e-15 {
		t.Errorf("a1x = %v, want -1", ps[1].Ax)
	}
	if math.Abs(ps[0].Ax-1e-3) > 1e-18 {
		t.Errorf("a0x = %v, want 1e-3", ps[0].Ax)
	}
	if ps[0].Ay != 0 || ps[0].Az != 0 || ps[1].Ay != 0 || ps[1].Az != 0 {
		t.Error("off-axis accelerations should vanish")
	}
}

func TestAccelerationIgnoresInnerPair(t *testing.T) {
	ps := twoBody()
	Acceleration(Basic, ps, 1, 0, 1)
	for i := range ps {
		if ps[i].Ax != 0 || ps[i].Ay != 0 || ps[i].Az != 0 {
			t.Fatalf("particle %d should feel no force with the 0-1 pair skipped: %+v", i, ps[i])
		}
	}

	// A third body still interacts with both.
	ps = append(twoBody(), particle.Particle{Y: 2, M: 1e-3})
	Acceleration(Basic, ps, 1, 0, 1)
	if ps[2].Ay == 0 {
		t.Error("outer particle should still be attracted")
	}
	if ps[0].Ay == 0 || ps[1].Ax == 0 {
		t.Error("inner pair should still feel the outer particle")
	}
}

func TestAccelerationNone(t *testing.T) {
	ps := twoBody()
	ps[0].Ax = 42
	Acceleration(None, ps, 1, 0, 0)
	if ps[0].Ax != 0 {
		t.Error("None should zero stale accelerations")
	}
}

func TestSofteningBoundsForce(t *testing.T) {
	ps := []particle.Particle{{M: 1}, {X: 1e-12, M: 1}}
	Acceleration(Basic, ps, 1, 0.1, 0)
	if math.IsInf(ps[1].Ax, 0) || math.IsNaN(ps[1].Ax) {
		t.Fatal("softened force should stay finite at small separation")
	}
	if math.Abs(ps[1].Ax) > 1e3 {
		t.Errorf("softened force too large: %v", ps[1].Ax)
	}
}

func TestMethodRoundTrip(t *testing.T) {
	for _, m := range []Method{None, Basic} {
		got, err := ParseMethod(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMethod(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMethod("tree"); err == nil {
		t.Error("unknown method should error")
	}
}
