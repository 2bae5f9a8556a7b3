// Package rotor provides the aerodynamic performance surface of the rotor:
// power and thrust coefficients tabulated over blade pitch angle and tip
// speed ratio, with nearest-neighbor lookup.
package rotor

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrTable marks any performance-table validation failure.
var ErrTable = errors.New("rotor: invalid performance table")

// Table is an immutable Cp/Ct lookup surface. Rows follow the TSR axis,
// columns the pitch axis. Safe for concurrent readers.
type Table struct {
	pitchDeg []float64 // ascending, degrees
	tsr      []float64 // ascending
	cp       [][]float64
	ct       [][]float64
}

// New validates the axes and grids and builds a Table. Both axes need at
// least two strictly ascending points, and grid dimensions must match
// len(tsr) x len(pitchDeg).
func New(pitchDeg, tsr []float64, cp, ct [][]float64) (*Table, error) {
	if len(pitchDeg) < 2 {
		return nil, fmt.Errorf("%w: pitch axis has %d points, need at least 2", ErrTable, len(pitchDeg))
	}
	if len(tsr) < 2 {
		return nil, fmt.Errorf("%w: TSR axis has %d points, need at least 2", ErrTable, len(tsr))
	}
	if !ascending(pitchDeg) {
		return nil, fmt.Errorf("%w: pitch axis is not strictly ascending", ErrTable)
	}
	if !ascending(tsr) {
		return nil, fmt.Errorf("%w: TSR axis is not strictly ascending", ErrTable)
	}
	for name, grid := range map[string][][]float64{"Cp": cp, "Ct": ct} {
		if len(grid) != len(tsr) {
			return nil, fmt.Errorf("%w: %s grid has %d rows, want %d", ErrTable, name, len(grid), len(tsr))
		}
		for i, row := range grid {
			if len(row) != len(pitchDeg) {
				return nil, fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrTable, name, i, len(row), len(pitchDeg))
			}
		}
	}
	return &Table{
		pitchDeg: append([]float64(nil), pitchDeg...),
		tsr:      append([]float64(nil), tsr...),
		cp:       cloneGrid(cp),
		ct:       cloneGrid(ct),
	}, nil
}

// Coefficients returns (Cp, Ct) at the grid vertex nearest to the query.
// The blade pitch is given in radians and converted to the table's degree
// axis. Queries outside either axis clamp to the boundary vertex; no
// interpolation or extrapolation is performed.
func (t *Table) Coefficients(tsr, pitchRad float64) (cp, ct float64) {
	pi := nearestIndex(t.pitchDeg, pitchRad*180/math.Pi)
	ti := nearestIndex(t.tsr, tsr)
	return t.cp[ti][pi], t.ct[ti][pi]
}

// PitchAxis returns a copy of the pitch axis in degrees.
func (t *Table) PitchAxis() []float64 { return append([]float64(nil), t.pitchDeg...) }

// TSRAxis returns a copy of the tip-speed-ratio axis.
func (t *Table) TSRAxis() []float64 { return append([]float64(nil), t.tsr...) }

// nearestIndex finds the leftmost insertion point for v and steps back one
// index when the predecessor is strictly closer. Ties keep the insertion
// index, so the upper neighbor wins at exact midpoints.
func nearestIndex(axis []float64, v float64) int {
	i := sort.SearchFloat64s(axis, v)
	if i != 0 && (i == len(axis) || math.Abs(v-axis[i-1]) < math.Abs(v-axis[i])) {
		i--
	}
	return i
}

func ascending(axis []float64) bool {
	for i := 1; i < len(axis); i++ {
		if axis[i] <= axis[i-1] {
			return false
		}
	}
	return true
}

func cloneGrid(g [][]float64) [][]float64 {
	out := make([][]float64, len(g))
	for i, row := range g {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
