package integrators

import (
	"math"

	"github.com/thomasantony/rebound/internal/particle"
)

const (
	maxNewtonIterations  = 32
	maxQuarticIterations = 64
)

var invFactorial = [16]float64{
	1.0, 1.0, 1.0 / 2, 1.0 / 6, 1.0 / 24, 1.0 / 120, 1.0 / 720, 1.0 / 5040,
	1.0 / 40320, 1.0 / 362880, 1.0 / 3628800, 1.0 / 39916800,
	1.0 / 479001600, 1.0 / 6227020800, 1.0 / 87178291200, 1.0 / 1307674368000,
}

// stumpffCs3 evaluates the Stumpff functions c0..c3 at z. The argument is
// quartered until |z| <= 0.1, the series summed by Horner's rule, and the
// result mapped back with the half-angle relations.
func stumpffCs3(cs *[4]float64, z float64) {
	n := 0
	for math.Abs(z) > 0.1 {
		z *= 0.25
		n++
	}
	cOdd := invFactorial[15]
	cEven := invFactorial[14]
	for np := 13; np >= 3; np -= 2 {
		cOdd = invFactorial[np] - z*cOdd
		cEven = invFactorial[np-1] - z*cEven
	}
	cs[3] = cOdd
	cs[2] = cEven
	cs[1] = invFactorial[1] - z*cs[3]
	cs[0] = invFactorial[0] - z*cs[2]
	for ; n > 0; n-- {
		cs[3] = (cs[2] + cs[0]*cs[3]) * 0.25
		cs[2] = cs[1] * cs[1] * 0.5
		cs[1] = cs[0] * cs[1]
		cs[0] = 2*cs[0]*cs[0] - 1
	}
}

// stiefelGs3 evaluates the Stiefel G functions G0..G3 for a universal
// anomaly x, gs[k] = x^k * ck(beta*x^2).
func stiefelGs3(gs *[4]float64, beta, x float64) {
	x2 := x * x
	stumpffCs3(gs, beta*x2)
	gs[1] *= x
	gs[2] *= x2
	gs[3] *= x2 * x
}

// keplerSolver advances Jacobi particle i along its two-body orbit around
// gravitational parameter m by dt, solving the universal Kepler equation
//
//	r0*X + eta0*G2(X) + zeta0*G3(X) = dt
//
// with a Newton iteration, falling back to the quartic solver of Danby and
// finally to bisection. The position and velocity updates use an
// incremental form of the Gauss f and g functions so that small steps do
// not lose precision.
func (w *WHFast) keplerSolver(pj []particle.Particle, m float64, i int, dt float64) {
	p1 := pj[i]

	r0 := math.Sqrt(p1.X*p1.X + p1.Y*p1.Y + p1.Z*p1.Z)
	r0i := 1.0 / r0
	v2 := p1.Vx*p1.Vx + p1.Vy*p1.Vy + p1.Vz*p1.Vz
	beta := 2*m*r0i - v2
	eta0 := p1.X*p1.Vx + p1.Y*p1.Vy + p1.Z*p1.Vz
	zeta0 := m - beta*r0

	var x float64
	var gs [4]float64
	invPeriod := 0.0
	xPerPeriod := math.NaN() // NaN for hyperbolic orbits, disabling the period checks below

	if beta > 0 {
		// Elliptic orbit.
		sqrtBeta := math.Sqrt(beta)
		invPeriod = sqrtBeta * beta / (2 * math.Pi * m)
		xPerPeriod = 2 * math.Pi / sqrtBeta
		if math.Abs(dt)*invPeriod > 1 && w.TimestepWarning == 0 {
			// Timestep longer than the orbital period. The solver still
			// converges but the trajectory is undersampled.
			w.TimestepWarning++
		}
		dtr0i := dt * r0i
		x = dtr0i * (1 - dtr0i*eta0*0.5*r0i)
	} else {
		x = 0
	}

	converged := false
	oldX := x

	// One Newton step from the initial guess.
	stiefelGs3(&gs, beta, x)
	eta0G1zeta0G2 := eta0*gs[1] + zeta0*gs[2]
	ri := 1.0 / (r0 + eta0G1zeta0G2)
	x = ri * (x*eta0G1zeta0G2 - eta0*gs[2] - zeta0*gs[3] + dt)

	if math.Abs(x-oldX) > 0.01*xPerPeriod {
		// The first step moved by a significant fraction of the orbit.
		// Newton may cycle here, so switch to the quartic solver with a
		// linear initial guess.
		x = beta * dt / m
		var prevX [maxQuarticIterations + 1]float64
		for n := 1; n < maxQuarticIterations; n++ {
			stiefelGs3(&gs, beta, x)
			f := r0*x + eta0*gs[2] + zeta0*gs[3] - dt
			fp := r0 + eta0*gs[1] + zeta0*gs[2]
			fpp := eta0*gs[0] + zeta0*gs[1]
			denom := fp + math.Sqrt(math.Abs(16*fp*fp-20*f*fpp))
			x = (x*denom - 5*f) / denom
			for j := 1; j < n; j++ {
				if x == prevX[j] {
					converged = true
					break
				}
			}
			if converged {
				break
			}
			prevX[n] = x
		}
		eta0G1zeta0G2 = eta0*gs[1] + zeta0*gs[2]
		ri = 1.0 / (r0 + eta0G1zeta0G2)
	} else {
		oldX2 := math.NaN()
		for n := 1; n < maxNewtonIterations; n++ {
			oldX2 = oldX
			oldX = x
			stiefelGs3(&gs, beta, x)
			eta0G1zeta0G2 = eta0*gs[1] + zeta0*gs[2]
			ri = 1.0 / (r0 + eta0G1zeta0G2)
			x = ri * (x*eta0G1zeta0G2 - eta0*gs[2] - zeta0*gs[3] + dt)
			if x == oldX || x == oldX2 {
				converged = true
				break
			}
		}
	}

	if !converged {
		// Bisection. s(X) = r0*X + eta0*G2 + zeta0*G3 is monotone in X
		// since ds/dX = r > 0, so a valid bracket always closes in.
		var xMin, xMax float64
		if beta > 0 {
			xMin = xPerPeriod * math.Floor(dt*invPeriod)
			xMax = xMin + xPerPeriod
		} else {
			xMin, xMax = hyperbolicBracket(r0, r0i, eta0, zeta0, beta, dt)
		}
		for math.Abs(xMax-xMin) > math.Abs(xMax+xMin)*1e-15 {
			x = 0.5 * (xMin + xMax)
			stiefelGs3(&gs, beta, x)
			s := r0*x + eta0*gs[2] + zeta0*gs[3]
			if s >= dt {
				xMax = x
			} else {
				xMin = x
			}
		}
	}

	stiefelGs3(&gs, beta, x)
	eta0G1zeta0G2 = eta0*gs[1] + zeta0*gs[2]
	ri = 1.0 / (r0 + eta0G1zeta0G2)

	// Incremental Gauss f and g coefficients. These differ from the
	// textbook functions by the identity part, which stays in p1.
	f := -m * gs[2] * r0i
	g := dt - m*gs[3]
	fd := -m * gs[1] * r0i * ri
	gd := -m * gs[2] * ri

	pj[i].X += f*p1.X + g*p1.Vx
	pj[i].Y += f*p1.Y + g*p1.Vy
	pj[i].Z += f*p1.Z + g*p1.Vz

	pj[i].Vx += fd*p1.X + gd*p1.Vx
	pj[i].Vy += fd*p1.Y + gd*p1.Vy
	pj[i].Vz += fd*p1.Z + gd*p1.Vz
}

// hyperbolicBracket grows a bracket for the universal Kepler equation on an
// unbound orbit by doubling away from X=0 until the root is enclosed.
func hyperbolicBracket(r0, r0i, eta0, zeta0, beta, dt float64) (xMin, xMax float64) {
	var gs [4]float64
	sOf := func(x float64) float64 {
		stiefelGs3(&gs, beta, x)
		return r0*x + eta0*gs[2] + zeta0*gs[3]
	}
	if dt >= 0 {
		xMin = 0
		xMax = dt * r0i
		if xMax == 0 {
			xMax = math.SmallestNonzeroFloat64
		}
		for n := 0; sOf(xMax) < dt && n < 128; n++ {
			xMax *= 2
		}
	} else {
		xMax = 0
		xMin = dt * r0i
		for n := 0; sOf(xMin) > dt && n < 128; n++ {
			xMin *= 2
		}
	}
	return xMin, xMax
}
