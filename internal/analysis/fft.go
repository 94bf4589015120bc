package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/threebody/internal/dynamo"
)

// FFT returns the discrete Fourier transform of a real series of any
// length.
func FFT(data []float64) []complex128 {
	return fft.FFTReal(data)
}

// PowerSpectrum removes the mean, zero-pads to the next power of two and
// returns the magnitudes of the non-negative frequency bins.
func PowerSpectrum(series []float64) []float64 {
	n := nextPow2(len(series))
	padded := make([]float64, n)

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	if len(series) > 0 {
		mean /= float64(len(series))
	}
	for i, v := range series {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period, in the units of dt, of the strongest
// non-constant component of an evenly sampled series.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	if !(dt > 0) {
		return 0, fmt.Errorf("%w: dt=%v", dynamo.ErrInvalidTimestep, dt)
	}
	if len(series) < 4 {
		return 0, fmt.Errorf("%w: need at least 4 samples, got %d", dynamo.ErrInvalidConfig, len(series))
	}

	ps := PowerSpectrum(series)
	peak := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[peak] || peak == 0 {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return math.Inf(1), nil
	}

	n := 2 * len(ps)
	return float64(n) * dt / float64(peak), nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	if p < 2 {
		p = 2
	}
	return p
}
