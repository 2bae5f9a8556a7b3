package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/oceanlab/floatsim/internal/analysis"
	"github.com/oceanlab/floatsim/internal/config"
	"github.com/oceanlab/floatsim/internal/control"
	"github.com/oceanlab/floatsim/internal/integrator"
	"github.com/oceanlab/floatsim/internal/metrics"
	"github.com/oceanlab/floatsim/internal/rotor"
	"github.com/oceanlab/floatsim/internal/sim"
	"github.com/oceanlab/floatsim/internal/storage"
	"github.com/oceanlab/floatsim/internal/turbine"
	"github.com/oceanlab/floatsim/internal/waves"
	"github.com/oceanlab/floatsim/internal/wind"
)

var (
	dataDir    string
	tableFile  string
	windFile   string
	windSpeed  float64
	dt         float64
	duration   float64
	warmup     float64
	output     float64
	pitchDeg   float64
	genTorque  float64
	waveSeed   int64
	controller string
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "floatsim",
		Short: "floating offshore wind turbine simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".floatsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&tableFile, "table", "", "rotor performance table file")
	runCmd.Flags().StringVar(&windFile, "wind-file", "", "hub-height wind series file")
	runCmd.Flags().Float64Var(&windSpeed, "wind", config.DefaultWindSpeed, "constant wind speed (m/s)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "retained duration (s)")
	runCmd.Flags().Float64Var(&warmup, "warmup", config.DefaultWarmup, "discarded warm-up (s)")
	runCmd.Flags().Float64Var(&output, "output", config.DefaultOutputEvery, "output interval (s)")
	runCmd.Flags().Float64Var(&pitchDeg, "pitch", config.DefaultPitchDeg, "blade pitch (deg)")
	runCmd.Flags().Float64Var(&genTorque, "torque", config.DefaultGenTorque, "generator torque (N*m)")
	runCmd.Flags().Int64Var(&waveSeed, "wave-seed", config.DefaultWaveSeed, "wave phase seed")
	runCmd.Flags().StringVar(&controller, "controller", "fixed", "blade pitch controller (fixed, pitch)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of wave and platform motion",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-12s  wind %.1f m/s, %s pitch\n", name, cfg.WindSpeed, cfg.Controller)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig resolves the run configuration with config file < preset <
// explicit flag precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("warmup") {
		cfg.Warmup = warmup
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = output
	}
	if cmd.Flags().Changed("wind") {
		cfg.WindSpeed = windSpeed
	}
	if cmd.Flags().Changed("wind-file") {
		cfg.WindFile = windFile
	}
	if cmd.Flags().Changed("table") {
		cfg.TableFile = tableFile
	}
	if cmd.Flags().Changed("pitch") {
		cfg.PitchDeg = pitchDeg
	}
	if cmd.Flags().Changed("torque") {
		cfg.GenTorque = genTorque
	}
	if cmd.Flags().Changed("wave-seed") {
		cfg.WaveSeed = waveSeed
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller = controller
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TableFile == "" {
		return nil, fmt.Errorf("a rotor performance table is required (--table)")
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	tbl, err := rotor.LoadFile(cfg.TableFile)
	if err != nil {
		return err
	}

	sea := waves.NewField(cfg.WindSpeed, waves.NewPhases(cfg.WaveSeed))
	model := turbine.New(tbl, sea)

	icfg := integrator.Config{
		Start:       0,
		End:         cfg.Warmup + cfg.Duration,
		Dt:          cfg.Dt,
		GenTorque:   cfg.GenTorque,
		OutputEvery: cfg.Output,
		Discard:     cfg.Warmup,
	}

	var series wind.Series
	if cfg.WindFile != "" {
		series, err = wind.FromFile(cfg.WindFile)
		if err != nil {
			return err
		}
	} else {
		series = wind.Constant(icfg.Steps(), cfg.WindSpeed)
	}

	pitchRad := cfg.PitchDeg * math.Pi / 180
	var strategy control.Strategy
	if cfg.Controller == "pitch" {
		strategy = control.NewBladePitch(pitchRad)
	} else {
		strategy = control.Fixed{Beta: pitchRad}
	}

	runner := integrator.New(model, strategy)
	ratedRPM := 1.26711 * 60 / (2 * math.Pi)
	runner.AddMetric(metrics.NewMeanPower())
	runner.AddMetric(metrics.NewSpeedDeviation(ratedRPM))
	runner.AddMetric(metrics.NewSurgeExcursion())

	fmt.Printf("running %.1f m/s case (%s pitch)...\n", cfg.WindSpeed, cfg.Controller)
	start := time.Now()

	tr, err := runner.Run(context.Background(), cfg.GetInitState(), series, icfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Controller: cfg.Controller,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Warmup:     cfg.Warmup,
		WindSpeed:  cfg.WindSpeed,
		WaveSeed:   cfg.WaveSeed,
		GenTorque:  cfg.GenTorque,
	}, tr)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", tr.Len())
	fmt.Println("\nmetrics:")
	for name, val := range tr.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tWIND\tDURATION\tDT\tCTRL\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.1fm/s\t%.0fs\t%.3fs\t%s\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.WindSpeed,
			run.Duration,
			run.Dt,
			run.Controller,
			run.WaveSeed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("wind: %.1f m/s, controller: %s\n", meta.WindSpeed, meta.Controller)
	fmt.Printf("samples: %d\n\n", tr.Len())

	plots := []struct {
		caption string
		data    []float64
	}{
		{"surge (m)", column(tr.States, 0)},
		{"heave (m)", column(tr.States, 2)},
		{"platform pitch (deg)", column(tr.States, 4)},
		{"rotor speed (rpm)", column(tr.States, 6)},
		{"wave elevation (m)", tr.WaveEta},
		{"power (W)", tr.Power},
	}

	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func column(states []sim.State, idx int) []float64 {
	data := make([]float64, len(states))
	for i := range states {
		if idx < len(states[i]) {
			data[i] = states[i][idx]
		}
	}
	return data
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if tr.Len() < 4 {
		return fmt.Errorf("no data")
	}

	sampleDt := tr.Times[1] - tr.Times[0]

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("wind: %.1f m/s\n\n", meta.WindSpeed)

	series := []struct {
		caption string
		data    []float64
	}{
		{"wave elevation", tr.WaveEta},
		{"surge", column(tr.States, 0)},
		{"platform pitch", column(tr.States, 4)},
	}

	for _, s := range series {
		ps := analysis.PowerSpectrum(s.data)
		plotData := ps[:len(ps)/4]

		graph := asciigraph.Plot(plotData,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", s.caption)),
		)
		fmt.Println(graph)

		period := analysis.DominantPeriod(s.data, sampleDt)
		if period > 0 {
			fmt.Printf("dominant period: %.2f s\n\n", period)
		} else {
			fmt.Println()
		}
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if tr.Len() == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "surge", "surge_vel", "heave", "heave_vel",
		"pitch_deg", "pitch_vel_deg", "rotor_rpm", "rotor_rpm_fixed",
		"wave_eta", "power", "power_fixed"}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range tr.Times {
		row := []string{strconv.FormatFloat(tr.Times[i], 'f', 6, 64)}
		for _, val := range tr.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		row = append(row,
			strconv.FormatFloat(tr.WaveEta[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Power[i], 'f', 6, 64),
			strconv.FormatFloat(tr.PowerFixed[i], 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	tr.Metrics = meta.Metrics

	return storage.ExportJSONStdout(meta.Controller, meta.Dt, meta.Duration, tr)
}
