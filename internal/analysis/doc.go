// Package analysis provides time-series diagnostics for integration runs.
//
// The package characterizes recorded trajectories and element histories:
//
//   - [DominantPeriod]: strongest periodicity of a series via its spectrum
//   - [DriftRate]: secular trend of a conserved quantity per unit time
//   - [LyapunovExponent]: largest Lyapunov exponent via shadow trajectories
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates a chaotic configuration;
// its inverse is the Lyapunov time:
//
//	lambda, err := analysis.LyapunovExponent(build, 1, 1e-8, 10000)
//	if err == nil && lambda > 0 {
//	    // Orbits diverge on a timescale of 1/lambda
//	}
package analysis
