// Package analysis provides spectral post-processing of retained
// trajectories (dominant wave and platform periods).
package analysis

import (
	"math"
	"math/cmplx"
)

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum truncates data to the largest power-of-two length and
// returns the one-sided magnitude spectrum.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	n := 1
	for n*2 <= len(data) {
		n *= 2
	}
	fft := FFT(data[:n])
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantPeriod returns the period of the strongest non-DC spectral
// component of a series sampled every dt seconds. Zero when the series is
// too short to resolve one.
func DominantPeriod(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}

	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}

	n := 1
	for n*2 <= len(data) {
		n *= 2
	}
	freq := float64(peak) / (float64(n) * dt)
	if freq == 0 {
		return 0
	}
	return 1 / freq
}
