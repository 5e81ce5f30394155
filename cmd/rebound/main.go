package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/thomasantony/rebound/internal/analysis"
	"github.com/thomasantony/rebound/internal/config"
	"github.com/thomasantony/rebound/internal/experiment"
	"github.com/thomasantony/rebound/internal/sim"
	"github.com/thomasantony/rebound/internal/storage"
	"github.com/thomasantony/rebound/internal/tui"
	"github.com/thomasantony/rebound/internal/viz"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	outputEvery int
	integrator  string
	gconst      float64
	softening   float64
	kernel      string
	corrector   int
	unsafeMode  bool
	keepUnsync  bool
	configFile  string
	preset      string
	exportPath  string
	// watch
	stepsPerTick int
	// bench
	repeat int
	// lyapunov
	perturbation float64
	lyapSteps    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rebound",
		Short: "symplectic n-body integration lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rebound", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run an integration and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&exportPath, "export", "", "also write a JSON export to this path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot trajectories and energy error of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark an integrator over a timestep grid",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScenario,
	}
	addRunFlags(benchCmd)
	benchCmd.Flags().IntVar(&repeat, "repeat", 4, "concurrent repetitions per grid point")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			sort.Strings(names)
			fmt.Printf("presets for %s:\n", args[0])
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period and drift analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [scenario]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  lyapunovScenario,
	}
	addRunFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&perturbation, "d0", 1e-8, "initial phase-space displacement")
	lyapunovCmd.Flags().IntVar(&lyapSteps, "steps", 20000, "steps to average over")

	watchCmd := &cobra.Command{
		Use:   "watch [scenario]",
		Short: "integrate with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  watchScenario,
	}
	addRunFlags(watchCmd)
	watchCmd.Flags().IntVar(&stepsPerTick, "steps-per-frame", 10, "integration steps per frame")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, benchCmd, compareCmd, presetsCmd, analyzeCmd, lyapunovCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&outputEvery, "output-every", config.DefaultOutputEvery, "steps between snapshots")
	cmd.Flags().StringVar(&integrator, "integrator", "wkm", "integrator (wkm, whfast, leapfrog, rk4)")
	cmd.Flags().Float64Var(&gconst, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&softening, "softening", 0, "plummer softening length")
	cmd.Flags().StringVar(&kernel, "kernel", "composition", "wkm kernel (composition or lazy)")
	cmd.Flags().IntVar(&corrector, "corrector", 1, "corrector order (0, 1 or 2)")
	cmd.Flags().BoolVar(&unsafeMode, "unsafe", false, "skip per-step synchronization")
	cmd.Flags().BoolVar(&keepUnsync, "keep-unsynchronized", false, "preserve internal state across synchronizes")
}

// buildConfig resolves the run configuration: defaults, then preset, then
// config file, then explicitly set CLI flags, later sources winning.
func buildConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Scenario = scenario
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("output-every") {
		cfg.OutputEvery = outputEvery
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("g") {
		cfg.G = gconst
	}
	if cmd.Flags().Changed("softening") {
		cfg.Softening = softening
	}
	if cmd.Flags().Changed("kernel") {
		cfg.WKM.Kernel = kernel
	}
	if cmd.Flags().Changed("corrector") {
		cfg.WKM.CorrectorOrder = corrector
	}
	if cmd.Flags().Changed("unsafe") {
		cfg.WKM.Unsafe = unsafeMode
	}
	if cmd.Flags().Changed("keep-unsynchronized") {
		cfg.WKM.KeepUnsynchronized = keepUnsync
	}

	return cfg, cfg.Validate()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	s, err := registry.Build(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s with %s (dt=%g, t=%g)...\n", cfg.Scenario, cfg.Integrator, cfg.Dt, cfg.Duration)
	start := time.Now()

	result, err := s.Run(context.Background(), sim.RunConfig{
		Duration:      cfg.Duration,
		OutputEvery:   cfg.OutputEvery,
		ValidateState: true,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(s, cfg.Scenario, cfg.Integrator, cfg.Duration, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6e\n", name, result.Metrics[name])
	}
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}

	if exportPath != "" {
		if err := storage.ExportJSON(exportPath, s, cfg.Scenario, cfg.Integrator, cfg.Duration, result); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", exportPath)
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tINTEG\tBODIES\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.4g\t%s\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Bodies(),
			run.EnergyDrift,
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
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%d bodies)\n", meta.Scenario, meta.Bodies())
	fmt.Printf("samples: %d\n\n", len(series.States))

	fmt.Println(viz.Trajectories(series.States, 40, 16))
	if graph := viz.EnergyError(series.Energies); graph != "" {
		fmt.Println(graph)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	dts := []float64{0.001, 0.01, 0.1}
	if cmd.Flags().Changed("dt") {
		dts = []float64{cfg.Dt}
	}

	fmt.Printf("benchmarking %s with %s (%d concurrent runs per point)\n\n", cfg.Scenario, cfg.Integrator, repeat)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tTIME\tSTEPS/SEC\tDRIFT")

	for _, stepSize := range dts {
		gridCfg := *cfg
		gridCfg.Dt = stepSize

		sims := make([]*sim.Simulation, repeat)
		for i := range sims {
			if sims[i], err = registry.Build(&gridCfg); err != nil {
				return err
			}
		}
		ens := sim.NewEnsemble(repeat, func(run int) *sim.Simulation { return sims[run] })

		start := time.Now()
		results, err := ens.Run(context.Background(), sim.RunConfig{
			Duration:    gridCfg.Duration,
			OutputEvery: 0,
		})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		totalSteps := 0
		worstDrift := 0.0
		for _, r := range results {
			totalSteps += r.StepsTaken
			if r.EnergyDrift > worstDrift {
				worstDrift = r.EnergyDrift
			}
		}
		fmt.Fprintf(w, "%.4g\t%d\t%v\t%.0f\t%.2e\n",
			stepSize, totalSteps, elapsed, float64(totalSteps)/elapsed.Seconds(), worstDrift)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	fmt.Printf("comparing integrators on %s (dt=%g, t=%g)\n\n", cfg.Scenario, cfg.Dt, cfg.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tENERGY DRIFT\tANGMOM DRIFT\tTIME")

	for _, name := range args[1:] {
		runCfg := *cfg
		runCfg.Integrator = name

		s, err := registry.Build(&runCfg)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", name, err)
			continue
		}

		start := time.Now()
		result, err := s.Run(context.Background(), sim.RunConfig{
			Duration:      runCfg.Duration,
			ValidateState: true,
		})
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", name, err)
			continue
		}

		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%v\n",
			name, result.EnergyDrift, result.Metrics["angmom_drift"], elapsed)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("not enough samples to analyze")
	}
	sampleDt := series.Times[1] - series.Times[0]

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	// Periodicity of the innermost orbit, read from the x coordinate of
	// the second body.
	if len(series.States[0]) >= 12 {
		xs := make([]float64, len(series.States))
		for i, row := range series.States {
			xs[i] = row[6]
		}
		period, err := analysis.DominantPeriod(xs, sampleDt)
		if err != nil {
			fmt.Printf("dominant period: %v\n", err)
		} else {
			fmt.Printf("dominant period: %.4f\n", period)
		}
	}

	slope, err := analysis.DriftRate(series.Times, series.Energies)
	if err != nil {
		return err
	}
	fmt.Printf("energy drift rate: %.3e per unit time\n\n", slope)

	if graph := viz.EnergyError(series.Energies); graph != "" {
		fmt.Println(graph)
	}
	return nil
}

func lyapunovScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	// Validate the configuration once; the analysis rebuilds from it.
	if _, err := registry.Build(cfg); err != nil {
		return err
	}
	build := func() *sim.Simulation {
		s, _ := registry.Build(cfg)
		return s
	}

	fmt.Printf("estimating largest Lyapunov exponent for %s (%d steps)...\n", cfg.Scenario, lyapSteps)
	lambda, err := analysis.LyapunovExponent(build, 1, perturbation, lyapSteps)
	if err != nil {
		return err
	}
	fmt.Printf("lambda: %.6e\n", lambda)
	if lambda > 0 {
		fmt.Printf("lyapunov time: %.4g\n", 1/lambda)
	}
	return nil
}

func watchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	build := func() (*sim.Simulation, error) { return registry.Build(cfg) }
	return tui.Run(cfg.Scenario, stepsPerTick, build)
}
