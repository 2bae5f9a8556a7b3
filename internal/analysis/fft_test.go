package analysis

import (
	"math"
	"testing"
)

func TestFFTSingleTone(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak != 4 {
		t.Errorf("spectral peak at bin %d, want 4", peak)
	}
}

func TestPowerSpectrumTruncatesToPowerOfTwo(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i % 3)
	}

	// 100 samples truncate to 64; the one-sided spectrum has 32 bins.
	ps := PowerSpectrum(data)
	if len(ps) != 32 {
		t.Errorf("spectrum has %d bins, want 32", len(ps))
	}
}

func TestDominantPeriod(t *testing.T) {
	// 8 s period sampled every 0.5 s over 512 samples.
	dt := 0.5
	data := make([]float64, 512)
	for i := range data {
		data[i] = 2 * math.Sin(2*math.Pi*float64(i)*dt/8)
	}

	period := DominantPeriod(data, dt)
	if math.Abs(period-8) > 0.5 {
		t.Errorf("dominant period = %v, want 8", period)
	}
}

func TestDominantPeriodShortSeries(t *testing.T) {
	if got := DominantPeriod([]float64{1}, 0.5); got != 0 {
		t.Errorf("short series period = %v, want 0", got)
	}
	if got := DominantPeriod(nil, 0.5); got != 0 {
		t.Errorf("nil series period = %v, want 0", got)
	}
}
