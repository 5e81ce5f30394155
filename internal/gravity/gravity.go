// Package gravity evaluates Newtonian accelerations by direct summation.
package gravity

import (
	"fmt"
	"math"

	"github.com/thomasantony/rebound/internal/particle"
)

type Method int

const (
	// None leaves all accelerations zero. Useful for drift-only tests.
	None Method = iota
	// Basic is direct O(N^2) summation with optional Plummer softening.
	Basic
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Basic:
		return "basic"
	}
	return fmt.Sprintf("gravity(%d)", int(m))
}

func ParseMethod(name string) (Method, error) {
	switch name {
	case "none":
		return None, nil
	case "basic", "":
		return Basic, nil
	}
	return Basic, fmt.Errorf("gravity: unknown method %q", name)
}

// Acceleration overwrites the Ax/Ay/Az fields of ps. ignoreTerms == 1 skips
// the direct 0-1 pair, whose interaction is carried analytically by a Kepler
// drift when integrating in Jacobi coordinates.
func Acceleration(m Method, ps []particle.Particle, g, softening float64, ignoreTerms int) {
	for i := range ps {
		ps[i].Ax = 0
		ps[i].Ay = 0
		ps[i].Az = 0
	}
	if m == None {
		return
	}
	soft2 := softening * softening
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if ignoreTerms == 1 && i == 0 && j == 1 {
				continue
			}
			dx := ps[i].X - ps[j].X
			dy := ps[i].Y - ps[j].Y
			dz := ps[i].Z - ps[j].Z
			r2 := dx*dx + dy*dy + dz*dz + soft2
			invR3 := 1.0 / (r2 * math.Sqrt(r2))
			pref := g * invR3
			ps[i].Ax -= pref * ps[j].M * dx
			ps[i].Ay -= pref * ps[j].M * dy
			ps[i].Az -= pref * ps[j].M * dz
			ps[j].Ax += pref * ps[i].M * dx
			ps[j].Ay += pref * ps[i].M * dy
			ps[j].Az += pref * ps[i].M * dz
		}
	}
}
