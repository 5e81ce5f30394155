package metrics

import (
	"github.com/thomasantony/rebound/internal/particle"
	"github.com/thomasantony/rebound/internal/sim"
)

// Containment reports the fraction of observed steps on which every
// particle stayed within a threshold radius of the center of mass. A value
// below 1 flags ejections or a disintegrating configuration.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s *sim.Simulation) {
	c.samples++
	com := particle.CenterOfMass(s.Particles)
	r2 := c.radius * c.radius
	for i := range s.Particles {
		p := s.Particles[i]
		dx := p.X - com.X
		dy := p.Y - com.Y
		dz := p.Z - com.Z
		if dx*dx+dy*dy+dz*dz > r2 {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
