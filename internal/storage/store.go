package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/oceanlab/floatsim/internal/sim"
)

// Store persists runs under baseDir, one directory per run holding
// metadata.json and trajectory.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Warmup     float64            `json:"warmup"`
	WindSpeed  float64            `json:"wind_speed"`
	WaveSeed   int64              `json:"wave_seed"`
	GenTorque  float64            `json:"gen_torque"`
	Metrics    map[string]float64 `json:"metrics"`
}

// columns is the fixed trajectory.csv header. State columns carry the
// output units of the post-processed trajectory.
var columns = []string{
	"time", "surge", "surge_vel", "heave", "heave_vel",
	"pitch_deg", "pitch_vel_deg", "rotor_rpm", "rotor_rpm_fixed",
	"wind", "wave_eta", "wave_platform", "blade_pitch_deg",
	"power", "power_fixed",
}

func (s *Store) Save(meta RunMetadata, tr *sim.Trajectory) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = tr.Metrics

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(columns); err != nil {
		return "", err
	}

	for i := range tr.Times {
		row := make([]string, 0, len(columns))
		row = append(row, ff(tr.Times[i]))
		for _, v := range tr.States[i] {
			row = append(row, ff(v))
		}
		row = append(row, ff(tr.Wind[i]), ff(tr.WaveEta[i]), ff(tr.WaveAtPlatform[i]))
		if tr.PitchDeg != nil {
			row = append(row, ff(tr.PitchDeg[i]))
		} else {
			row = append(row, ff(0))
		}
		row = append(row, ff(tr.Power[i]), ff(tr.PowerFixed[i]))
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func ff(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads trajectory.csv back into a Trajectory. Rows with
// unparseable fields are skipped.
func (s *Store) LoadTrajectory(runID string) (*sim.Trajectory, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(columns)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &sim.Trajectory{}
	for i := 1; i < len(records); i++ {
		vals := make([]float64, len(columns))
		ok := true
		for j, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		tr.Times = append(tr.Times, vals[0])
		tr.States = append(tr.States, sim.State(vals[1:9]))
		tr.Wind = append(tr.Wind, vals[9])
		tr.WaveEta = append(tr.WaveEta, vals[10])
		tr.WaveAtPlatform = append(tr.WaveAtPlatform, vals[11])
		tr.PitchDeg = append(tr.PitchDeg, vals[12])
		tr.Power = append(tr.Power, vals[13])
		tr.PowerFixed = append(tr.PowerFixed, vals[14])
	}

	return tr, nil
}
