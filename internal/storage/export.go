package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/oceanlab/floatsim/internal/sim"
)

type ExportData struct {
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Wind       []float64          `json:"wind"`
	WaveEta    []float64          `json:"wave_eta"`
	PitchDeg   []float64          `json:"blade_pitch_deg,omitempty"`
	Power      []float64          `json:"power"`
	PowerFixed []float64          `json:"power_fixed"`
	Metrics    map[string]float64 `json:"metrics"`
}

func exportData(controller string, dt, duration float64, tr *sim.Trajectory) ExportData {
	data := ExportData{
		Controller: controller,
		Dt:         dt,
		Duration:   duration,
		Steps:      len(tr.Times),
		Times:      tr.Times,
		States:     make([][]float64, len(tr.States)),
		Wind:       tr.Wind,
		WaveEta:    tr.WaveEta,
		PitchDeg:   tr.PitchDeg,
		Power:      tr.Power,
		PowerFixed: tr.PowerFixed,
		Metrics:    tr.Metrics,
	}
	for i, s := range tr.States {
		data.States[i] = s
	}
	return data
}

func ExportJSON(path, controller string, dt, duration float64, tr *sim.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, controller, dt, duration, tr)
}

func ExportJSONStdout(controller string, dt, duration float64, tr *sim.Trajectory) error {
	return writeExport(os.Stdout, controller, dt, duration, tr)
}

func writeExport(w io.Writer, controller string, dt, duration float64, tr *sim.Trajectory) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(controller, dt, duration, tr))
}
