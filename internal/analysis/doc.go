// Package analysis characterizes recorded and simulated trajectories.
//
//   - [DominantPeriod]: strongest period of a coordinate series via [FFT]
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(integ, initial, 1e5, 10000, 1e3)
//	if err == nil && lambda > 0 {
//	    // System is chaotic
//	}
package analysis
