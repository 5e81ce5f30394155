package integrators

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/thomasantony/rebound/internal/sim"
)

// correctorAlpha is the stage spacing of the symplectic corrector,
// alpha = sqrt(7/40). Stage k drifts by k*alpha*dt.
var correctorAlpha = math.Sqrt(7.0 / 40.0)

// correctorG holds the Taylor coefficients g_m of (1-(u/2)/sinh(u/2))/u,
// the generating function the corrector kicks have to reproduce.
var correctorG = [5]float64{
	1.0 / 24,
	-7.0 / 5760,
	31.0 / 967680,
	-127.0 / 154828800,
	73.0 / 3503554560,
}

// correctorB[n][k] is the kick coefficient of stage k for the corrector
// with n stages (order 2n+1). The tables are solved once at startup from
// the order conditions
//
//	4 * sum_k b_k (k*alpha)^(2m-1) / (2m-1)! = g_m,  m = 1..n.
//
// For n=1 this reduces to the closed form b_1 = 1/(96*alpha).
var correctorB [6][]float64

func init() {
	for n := 1; n <= 5; n++ {
		a := mat.NewDense(n, n, nil)
		rhs := mat.NewVecDense(n, nil)
		for m := 1; m <= n; m++ {
			for k := 1; k <= n; k++ {
				a.Set(m-1, k-1, 4*math.Pow(float64(k)*correctorAlpha, float64(2*m-1))*invFactorial[2*m-1])
			}
			rhs.SetVec(m-1, correctorG[m-1])
		}
		var x mat.VecDense
		if err := x.SolveVec(a, rhs); err != nil {
			panic(fmt.Sprintf("integrators: corrector coefficient solve failed for n=%d: %v", n, err))
		}
		correctorB[n] = make([]float64, n+1)
		for k := 1; k <= n; k++ {
			correctorB[n][k] = x.AtVec(k - 1)
		}
	}
}

// correctorStages maps a corrector order to its stage count.
var correctorStages = map[int]int{3: 1, 5: 2, 7: 3, 11: 5}

// correctorKernel is a single corrector stage: a Kepler offset a paired
// with an interaction kick b.
type correctorKernel func(s *sim.Simulation, a, b float64)

// applyCorrector composes the corrector stages around the main map. The
// kernel z satisfies z(a,b)^-1 = z(-a,b), so inv=-1 applies the exact
// inverse of inv=+1 by the same code path. An order with no table applies
// nothing; callers validate the order.
func applyCorrector(s *sim.Simulation, inv float64, order int, z correctorKernel) {
	n := correctorStages[order]
	if n == 0 {
		return
	}
	b := correctorB[n]
	dt := s.Dt
	for k := n; k >= 1; k-- {
		z(s, -float64(k)*correctorAlpha*dt, -inv*b[k]*dt)
	}
	for k := 1; k <= n; k++ {
		z(s, float64(k)*correctorAlpha*dt, inv*b[k]*dt)
	}
}
