package integrators

import "errors"

// Configuration errors returned from an integrator's Part1. A rejected step
// leaves the simulation time untouched.
var (
	// ErrJacobiRequired indicates a coordinate system other than Jacobi
	// was requested for a kernel splitting integrator.
	ErrJacobiRequired = errors.New("integrators: kernel splitting requires jacobi coordinates")

	// ErrVariational indicates the simulation carries variational
	// particles, which this library does not propagate.
	ErrVariational = errors.New("integrators: variational particles are not supported")

	// ErrUnsupportedKernel indicates an unknown interaction kernel.
	ErrUnsupportedKernel = errors.New("integrators: unknown kernel method")

	// ErrUnknownCorrector indicates a corrector order with no coefficient
	// table. Valid orders are 0, 3, 5, 7 and 11.
	ErrUnknownCorrector = errors.New("integrators: unsupported corrector order")
)
