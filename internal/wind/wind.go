// Package wind supplies the hub-height wind-speed series driving a run.
// Series are generated externally (a constant profile or a TurbSim-style
// turbulence file) and consumed read-only, one sample per integration step.
package wind

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oceanlab/floatsim/internal/sim"
)

// Series is an immutable ordered sequence of wind speeds in m/s.
type Series struct {
	samples []float64
}

// Constant returns a series of n identical samples.
func Constant(n int, speed float64) Series {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = speed
	}
	return Series{samples: samples}
}

// FromSamples wraps an externally produced slice. The slice is not copied.
func FromSamples(samples []float64) Series {
	return Series{samples: samples}
}

// hhHeaderLines is the header length of a TurbSim hub-height (.hh) file.
const hhHeaderLines = 8

// FromFile reads a TurbSim hub-height time-series file: 8 header lines,
// then whitespace-delimited rows with the horizontal speed in column 2.
func FromFile(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, fmt.Errorf("wind: open series: %w", err)
	}
	defer f.Close()

	var samples []float64
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		if line <= hhHeaderLines {
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Series{}, fmt.Errorf("wind: %s line %d: bad speed %q", path, line, fields[1])
		}
		samples = append(samples, v)
	}
	if err := sc.Err(); err != nil {
		return Series{}, fmt.Errorf("wind: read %s: %w", path, err)
	}
	return Series{samples: samples}, nil
}

func (s Series) Len() int { return len(s.samples) }

// At returns the sample for step i. Reading past the end of the series is
// a run-aborting error, never a wrap-around.
func (s Series) At(i int) (float64, error) {
	if i < 0 || i >= len(s.samples) {
		return 0, fmt.Errorf("%w: step %d of %d samples", sim.ErrWindExhausted, i, len(s.samples))
	}
	return s.samples[i], nil
}
