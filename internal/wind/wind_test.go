package wind

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oceanlab/floatsim/internal/sim"
)

func TestConstant(t *testing.T) {
	s := Constant(5, 8.0)

	if s.Len() != 5 {
		t.Fatalf("Len = %d, want 5", s.Len())
	}
	for i := 0; i < 5; i++ {
		v, err := s.At(i)
		if err != nil {
			t.Fatalf("At(%d): %v", i, err)
		}
		if v != 8.0 {
			t.Errorf("At(%d) = %v, want 8.0", i, v)
		}
	}
}

func TestAtOutOfRange(t *testing.T) {
	s := FromSamples([]float64{8, 9})

	for _, i := range []int{-1, 2, 100} {
		if _, err := s.At(i); !errors.Is(err, sim.ErrWindExhausted) {
			t.Errorf("At(%d): err = %v, want ErrWindExhausted", i, err)
		}
	}
}

func TestFromFile(t *testing.T) {
	lines := []string{
		"TurbSim output",
		"", "", "", "", "", "",
		"  Time  HorSpd  ...",
		"  0.00   8.12   0.0",
		"  0.05   8.31   0.0",
		"  0.10   7.95   0.0",
	}
	path := filepath.Join(t.TempDir(), "wind.hh")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	v, _ := s.At(1)
	if v != 8.31 {
		t.Errorf("At(1) = %v, want 8.31", v)
	}
}

func TestFromFileBadSpeed(t *testing.T) {
	lines := []string{
		"", "", "", "", "", "", "", "",
		"0.00  not-a-number",
	}
	path := filepath.Join(t.TempDir(), "wind.hh")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := FromFile(path); err == nil {
		t.Error("expected error for unparseable speed column")
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope.hh")); err == nil {
		t.Error("expected error for missing file")
	}
}
