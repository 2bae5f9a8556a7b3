package rotor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// AeroDyn v15 performance files have a fixed line layout: the pitch axis on
// line 5, the TSR axis on line 7, the Cp block starting on line 13 with one
// row per TSR value, and the Ct block of equal size four lines below the Cp
// block.
const (
	pitchLine   = 4
	tsrLine     = 6
	cpFirstLine = 12
	blockGap    = 4
)

// LoadFile reads an AeroDyn v15 Cp/Ct surface from disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rotor: open performance file: %w", err)
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("rotor: %s: %w", path, err)
	}
	return t, nil
}

// Parse reads an AeroDyn v15 Cp/Ct surface from r.
func Parse(r io.Reader) (*Table, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(lines) <= tsrLine {
		return nil, fmt.Errorf("%w: file has only %d lines", ErrTable, len(lines))
	}
	pitch, err := parseRow(lines[pitchLine])
	if err != nil {
		return nil, fmt.Errorf("pitch axis: %w", err)
	}
	tsr, err := parseRow(lines[tsrLine])
	if err != nil {
		return nil, fmt.Errorf("TSR axis: %w", err)
	}

	ctFirst := cpFirstLine + len(tsr) + blockGap
	if len(lines) < ctFirst+len(tsr) {
		return nil, fmt.Errorf("%w: expected %d lines, got %d", ErrTable, ctFirst+len(tsr), len(lines))
	}

	cp, err := parseBlock(lines[cpFirstLine:cpFirstLine+len(tsr)], "Cp")
	if err != nil {
		return nil, err
	}
	ct, err := parseBlock(lines[ctFirst:ctFirst+len(tsr)], "Ct")
	if err != nil {
		return nil, err
	}

	return New(pitch, tsr, cp, ct)
}

func parseBlock(lines []string, name string) ([][]float64, error) {
	grid := make([][]float64, len(lines))
	for i, line := range lines {
		row, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i, err)
		}
		grid[i] = row
	}
	return grid, nil
}

func parseRow(line string) ([]float64, error) {
	fields := strings.Fields(line)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrTable, f)
		}
		vals[i] = v
	}
	return vals, nil
}
