package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/lab"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/sample"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/tui"
	"github.com/san-kum/orbitsim/internal/vec"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string

	steps         int
	dt            float64
	seed          int64
	gravityConst  float64
	centralMass   float64
	boundaryKind  string
	angle         float64
	angleRange    float64
	integrator    string
	relativistic  bool
	perturbations bool
	anchorCount   int
	anchorMass    float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "single-particle orbital dynamics simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save the trajectory",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved trajectory in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a saved trajectory to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().Float64Var(&gravityConst, "g", 0.1, "gravitational constant")
	cmd.Flags().Float64Var(&centralMass, "central-mass", config.DefaultCentralMass, "central mass (tonnes)")
	cmd.Flags().StringVar(&boundaryKind, "boundary", "wrap", "boundary kind (wrap|reflect)")
	cmd.Flags().Float64Var(&angle, "angle", 0, "reflection angle (0 = deterministic)")
	cmd.Flags().Float64Var(&angleRange, "angle-range", 0, "diffuse reflection cone half-angle")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler|rk2|rk4)")
	cmd.Flags().BoolVar(&relativistic, "relativistic", false, "enable relativistic correction")
	cmd.Flags().BoolVar(&perturbations, "perturbations", true, "enable perturbation forces")
	cmd.Flags().IntVar(&anchorCount, "anchors", config.DefaultAnchorCount, "number of sampled anchors")
	cmd.Flags().Float64Var(&anchorMass, "anchor-mass", config.DefaultAnchorMass, "sampled anchor mass")
}

// loadConfig layers preset/config file under any explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("g") {
		cfg.GravityConstant = gravityConst
	}
	if flags.Changed("central-mass") {
		cfg.CentralMass = centralMass
	}
	if flags.Changed("boundary") {
		cfg.Boundary.Kind = boundaryKind
	}
	if flags.Changed("angle") {
		cfg.Boundary.ReflectionAngle = angle
	}
	if flags.Changed("angle-range") {
		cfg.Boundary.AngleRange = angleRange
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("relativistic") {
		cfg.Relativistic = relativistic
	}
	if flags.Changed("perturbations") {
		cfg.Perturbations = perturbations
	}
	if flags.Changed("anchors") {
		cfg.Sampling.Count = anchorCount
	}
	if flags.Changed("anchor-mass") {
		cfg.Sampling.Mass = anchorMass
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildLab assembles a lab from config: domain, anchors (explicit or
// Poisson-sampled), and the particle.
func buildLab(cfg *config.Config) (*lab.Lab, error) {
	l := lab.New()
	l.SetConstants(cfg.GravityConstant, cfg.SpeedOfLight, cfg.MinForceDistance)
	l.SetIntegrator(cfg.Integrator)
	l.EnablePerturbations(cfg.Perturbations)
	l.EnableRelativistic(cfg.Relativistic)
	l.SetSeed(cfg.Seed)
	l.SetReflectionAngle(cfg.Boundary.ReflectionAngle, cfg.Boundary.AngleRange)
	l.SetTimeStep(cfg.Dt)

	if err := l.BuildDomain(cfg.CentralMass, cfg.Boundary.Kind); err != nil {
		return nil, err
	}

	if len(cfg.Anchors) > 0 {
		for _, a := range cfg.Anchors {
			orbitRadius := a.OrbitRadius
			if orbitRadius <= 0 {
				orbitRadius = 1
			}
			if _, err := l.AddAnchor(a.Name, a.Mass, vec.New(a.Position.X, a.Position.Y, a.Position.Z), orbitRadius); err != nil {
				return nil, err
			}
		}
	} else {
		radius := l.Domain().Radius
		minDist := cfg.Sampling.MinDistance
		if minDist <= 0 {
			minDist = radius / 2
		}
		points := sample.PoissonDisk(cfg.Sampling.Count, minDist, radius, l.Rng())
		for i, p := range points {
			name := fmt.Sprintf("P%d", i+1)
			if _, err := l.AddAnchor(name, cfg.Sampling.Mass, p, 1); err != nil {
				return nil, err
			}
		}
	}

	pc := cfg.Particle
	if _, err := l.SetParticle(pc.Mass, vec.New(pc.Position.X, pc.Position.Y, pc.Position.Z), vec.New(pc.Velocity.X, pc.Velocity.Y, pc.Velocity.Z)); err != nil {
		return nil, err
	}
	return l, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := buildLab(cfg)
	if err != nil {
		return err
	}

	status := l.Status()
	fmt.Printf("domain: boundary=%s radius=%.1f anchors=%d dt=%g\n",
		status.BoundaryKind, status.Radius, status.AnchorCount, status.Dt)

	meanSpeed := metrics.NewMeanSpeed()
	peakRadius := metrics.NewPeakRadius()
	containment := metrics.NewContainment(status.Radius)
	captures := metrics.NewCaptureCount()
	hits := metrics.NewBoundaryHitCount()
	for _, m := range []metrics.Metric{meanSpeed, peakRadius, containment, captures, hits} {
		l.AddObserver(m)
	}

	results, err := l.Run(cfg.Steps)
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	anchors := make([]storage.AnchorInfo, 0, status.AnchorCount)
	for _, a := range l.Domain().Anchors() {
		anchors = append(anchors, storage.AnchorInfo{
			Name: a.Name, X: a.Position.X, Y: a.Position.Y, Z: a.Position.Z,
			OrbitRadius: a.OrbitRadius,
		})
	}

	runID, err := store.Save(storage.RunMetadata{
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Integrator:  cfg.Integrator,
		Boundary:    cfg.Boundary.Kind,
		CentralMass: cfg.CentralMass,
		Radius:      status.Radius,
		AnchorCount: status.AnchorCount,
		Anchors:     anchors,
	}, results)
	if err != nil {
		return err
	}

	final := results[len(results)-1]
	fmt.Printf("completed %d steps: captures=%d boundary_hits=%d\n",
		len(results), int(captures.Value()), int(hits.Value()))
	fmt.Printf("mean speed=%.4f peak radius=%.1f containment=%.1f%%\n",
		meanSpeed.Value(), peakRadius.Value(), containment.Value()*100)
	fmt.Printf("final position=%s speed=%.4f\n", final.Position, final.Velocity.Mag())
	fmt.Printf("saved run: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := buildLab(cfg)
	if err != nil {
		return err
	}
	return tui.Run(l, cfg.Steps)
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tBOUNDARY\tINTEGRATOR\tCAPTURES\tHITS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d\t%d\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.Steps, r.Boundary, r.Integrator, r.Captures, r.BoundaryHits)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	positions, speeds, err := store.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return fmt.Errorf("run %s has no trajectory data", args[0])
	}

	anchors := make([]vec.Vec3, 0, len(meta.Anchors))
	for _, a := range meta.Anchors {
		anchors = append(anchors, vec.New(a.X, a.Y, a.Z))
	}

	fmt.Printf("%s: %d steps, boundary=%s r=%.1f\n\n", meta.ID, meta.Steps, meta.Boundary, meta.Radius)
	fmt.Println(viz.TrajectoryPlot(positions, anchors, meta.Radius, 70, 26))

	if len(speeds) >= 2 {
		fmt.Println(asciigraph.Plot(speeds, asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption("speed over steps")))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	positions, _, err := store.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	anchors := make([]vec.Vec3, 0, len(meta.Anchors))
	for _, a := range meta.Anchors {
		anchors = append(anchors, vec.New(a.X, a.Y, a.Z))
	}

	svg := export.TrajectoryToSVG(positions, anchors, meta.Radius, 800)
	if svg == "" {
		return fmt.Errorf("run %s has no plottable trajectory", args[0])
	}

	outPath := args[0] + ".svg"
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}
