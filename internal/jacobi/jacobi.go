// Package jacobi converts particle sets between inertial and Jacobi
// coordinates. Entry 0 of a Jacobi set is the center of mass and carries
// the total mass; entry i is measured relative to the barycenter of
// particles 0..i-1. All transforms are exact O(N) recurrences.
package jacobi

import "github.com/thomasantony/rebound/internal/particle"

// FromInertialPosVel fills pj with the Jacobi positions, velocities and
// masses corresponding to ps. len(pj) must equal len(ps).
func FromInertialPosVel(pj, ps []particle.Particle) {
	if len(ps) == 0 {
		return
	}
	eta := ps[0].M
	sx := eta * ps[0].X
	sy := eta * ps[0].Y
	sz := eta * ps[0].Z
	svx := eta * ps[0].Vx
	svy := eta * ps[0].Vy
	svz := eta * ps[0].Vz
	for i := 1; i < len(ps); i++ {
		pi := ps[i]
		ei := 1.0 / eta
		pj[i].X = pi.X - sx*ei
		pj[i].Y = pi.Y - sy*ei
		pj[i].Z = pi.Z - sz*ei
		pj[i].Vx = pi.Vx - svx*ei
		pj[i].Vy = pi.Vy - svy*ei
		pj[i].Vz = pi.Vz - svz*ei
		eta += pi.M
		pme := eta * ei
		pj[i].M = pi.M
		sx = sx*pme + pi.M*pj[i].X
		sy = sy*pme + pi.M*pj[i].Y
		sz = sz*pme + pi.M*pj[i].Z
		svx = svx*pme + pi.M*pj[i].Vx
		svy = svy*pme + pi.M*pj[i].Vy
		svz = svz*pme + pi.M*pj[i].Vz
	}
	ei := 1.0 / eta
	pj[0].X = sx * ei
	pj[0].Y = sy * ei
	pj[0].Z = sz * ei
	pj[0].Vx = svx * ei
	pj[0].Vy = svy * ei
	pj[0].Vz = svz * ei
	pj[0].M = eta
}

// FromInertialAcc fills only the acceleration fields of pj with the Jacobi
// transform of the accelerations in ps. Masses are taken from ps.
func FromInertialAcc(pj, ps []particle.Particle) {
	if len(ps) == 0 {
		return
	}
	eta := ps[0].M
	sax := eta * ps[0].Ax
	say := eta * ps[0].Ay
	saz := eta * ps[0].Az
	for i := 1; i < len(ps); i++ {
		pi := ps[i]
		ei := 1.0 / eta
		pj[i].Ax = pi.Ax - sax*ei
		pj[i].Ay = pi.Ay - say*ei
		pj[i].Az = pi.Az - saz*ei
		eta += pi.M
		pme := eta * ei
		sax = sax*pme + pi.M*pj[i].Ax
		say = say*pme + pi.M*pj[i].Ay
		saz = saz*pme + pi.M*pj[i].Az
	}
	ei := 1.0 / eta
	pj[0].Ax = sax * ei
	pj[0].Ay = say * ei
	pj[0].Az = saz * ei
}

// ToInertialPosVel writes the inertial positions and velocities encoded by
// pj into ps. Particle masses in ps are left untouched and supply the mass
// ladder for the downward recurrence.
func ToInertialPosVel(ps, pj []particle.Particle) {
	if len(ps) == 0 {
		return
	}
	eta := pj[0].M
	sx := pj[0].X * eta
	sy := pj[0].Y * eta
	sz := pj[0].Z * eta
	svx := pj[0].Vx * eta
	svy := pj[0].Vy * eta
	svz := pj[0].Vz * eta
	for i := len(ps) - 1; i > 0; i-- {
		pji := pj[i]
		down := eta - ps[i].M
		f := down / eta
		sx = (sx - ps[i].M*pji.X) * f
		sy = (sy - ps[i].M*pji.Y) * f
		sz = (sz - ps[i].M*pji.Z) * f
		svx = (svx - ps[i].M*pji.Vx) * f
		svy = (svy - ps[i].M*pji.Vy) * f
		svz = (svz - ps[i].M*pji.Vz) * f
		eta = down
		ei := 1.0 / eta
		ps[i].X = pji.X + sx*ei
		ps[i].Y = pji.Y + sy*ei
		ps[i].Z = pji.Z + sz*ei
		ps[i].Vx = pji.Vx + svx*ei
		ps[i].Vy = pji.Vy + svy*ei
		ps[i].Vz = pji.Vz + svz*ei
	}
	ei := 1.0 / eta
	ps[0].X = sx * ei
	ps[0].Y = sy * ei
	ps[0].Z = sz * ei
	ps[0].Vx = svx * ei
	ps[0].Vy = svy * ei
	ps[0].Vz = svz * ei
}

// ToInertialPos is ToInertialPosVel restricted to positions. Gravity only
// needs positions, so the kernel stages use this cheaper form.
func ToInertialPos(ps, pj []particle.Particle) {
	if len(ps) == 0 {
		return
	}
	eta := pj[0].M
	sx := pj[0].X * eta
	sy := pj[0].Y * eta
	sz := pj[0].Z * eta
	for i := len(ps) - 1; i > 0; i-- {
		pji := pj[i]
		down := eta - ps[i].M
		f := down / eta
		sx = (sx - ps[i].M*pji.X) * f
		sy = (sy - ps[i].M*pji.Y) * f
		sz = (sz - ps[i].M*pji.Z) * f
		eta = down
		ei := 1.0 / eta
		ps[i].X = pji.X + sx*ei
		ps[i].Y = pji.Y + sy*ei
		ps[i].Z = pji.Z + sz*ei
	}
	ei := 1.0 / eta
	ps[0].X = sx * ei
	ps[0].Y = sy * ei
	ps[0].Z = sz * ei
}
