package particle

import "math"

// Particle is a point mass in cartesian coordinates. Acceleration fields
// are scratch space owned by whichever gravity routine ran last.
type Particle struct {
	X, Y, Z    float64
	Vx, Vy, Vz float64
	Ax, Ay, Az float64
	M          float64
}

func (p Particle) R2() float64 {
	return p.X*p.X + p.Y*p.Y + p.Z*p.Z
}

func (p Particle) V2() float64 {
	return p.Vx*p.Vx + p.Vy*p.Vy + p.Vz*p.Vz
}

// DistanceTo returns the euclidean separation of two particles.
func (p Particle) DistanceTo(q Particle) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (p Particle) IsValid() bool {
	for _, v := range [10]float64{p.X, p.Y, p.Z, p.Vx, p.Vy, p.Vz, p.Ax, p.Ay, p.Az, p.M} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func Clone(ps []Particle) []Particle {
	c := make([]Particle, len(ps))
	copy(c, ps)
	return c
}

func Valid(ps []Particle) bool {
	for i := range ps {
		if !ps[i].IsValid() {
			return false
		}
	}
	return true
}

func TotalMass(ps []Particle) float64 {
	m := 0.0
	for i := range ps {
		m += ps[i].M
	}
	return m
}

// CenterOfMass returns the mass-weighted barycenter. The returned particle
// carries the total mass; a massless set yields the zero particle.
func CenterOfMass(ps []Particle) Particle {
	var com Particle
	for i := range ps {
		com.X += ps[i].X * ps[i].M
		com.Y += ps[i].Y * ps[i].M
		com.Z += ps[i].Z * ps[i].M
		com.Vx += ps[i].Vx * ps[i].M
		com.Vy += ps[i].Vy * ps[i].M
		com.Vz += ps[i].Vz * ps[i].M
		com.M += ps[i].M
	}
	if com.M == 0 {
		return Particle{}
	}
	com.X /= com.M
	com.Y /= com.M
	com.Z /= com.M
	com.Vx /= com.M
	com.Vy /= com.M
	com.Vz /= com.M
	return com
}

// MoveToCenterOfMass shifts positions and velocities so the barycenter
// sits at rest at the origin.
func MoveToCenterOfMass(ps []Particle) {
	com := CenterOfMass(ps)
	for i := range ps {
		ps[i].X -= com.X
		ps[i].Y -= com.Y
		ps[i].Z -= com.Z
		ps[i].Vx -= com.Vx
		ps[i].Vy -= com.Vy
		ps[i].Vz -= com.Vz
	}
}
