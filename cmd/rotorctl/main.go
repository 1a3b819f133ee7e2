package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/geo/r3"
	"github.com/spf13/cobra"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/config"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/control"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/dynamics"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/integrators"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/metrics"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/sim"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/storage"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/trajectory"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	integrator string
	configFile string
	preset     string

	// Trajectory shaping
	height  float64
	radius  float64
	omega   float64
	tangent bool
	targetX float64
	targetY float64
	targetZ float64
	reach   float64

	// Drag coefficients, applied to controller and plant alike
	dragX float64
	dragY float64
	dragZ float64

	// One-shot command inputs
	refAcc     []float64
	refVel     []float64
	refJerk    []float64
	heading    float64
	headingDot float64

	frameRate int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rotorctl",
		Short: "quadrotor position control lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rotorctl", "data directory")

	trackCmd := &cobra.Command{
		Use:   "track [trajectory]",
		Short: "fly a reference trajectory in closed loop",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrack,
	}
	addRunFlags(trackCmd)

	commandCmd := &cobra.Command{
		Use:   "command",
		Short: "compute one control command from a reference point",
		RunE:  runCommand,
	}
	commandCmd.Flags().Float64SliceVar(&refAcc, "acc", []float64{0, 0, 0}, "reference acceleration x,y,z")
	commandCmd.Flags().Float64SliceVar(&refVel, "vel", []float64{0, 0, 0}, "reference velocity x,y,z")
	commandCmd.Flags().Float64SliceVar(&refJerk, "jerk", []float64{0, 0, 0}, "reference jerk x,y,z")
	commandCmd.Flags().Float64Var(&heading, "heading", 0, "reference heading [rad]")
	commandCmd.Flags().Float64Var(&headingDot, "heading-rate", 0, "reference heading rate [rad/s]")
	commandCmd.Flags().Float64Var(&dragX, "dx", 0, "rotor drag coefficient x")
	commandCmd.Flags().Float64Var(&dragY, "dy", 0, "rotor drag coefficient y")
	commandCmd.Flags().Float64Var(&dragZ, "dz", 0, "rotor drag coefficient z")

	liveCmd := &cobra.Command{
		Use:   "live [trajectory]",
		Short: "fly with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's samples to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	rootCmd.AddCommand(trackCmd, commandCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (rk4, euler)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "flight height")
	cmd.Flags().Float64Var(&radius, "radius", 2.0, "circle/lemniscate radius")
	cmd.Flags().Float64Var(&omega, "omega", 0.5, "angular rate [rad/s]")
	cmd.Flags().BoolVar(&tangent, "tangent", false, "yaw along the velocity direction")
	cmd.Flags().Float64Var(&targetX, "target-x", 0, "line target x")
	cmd.Flags().Float64Var(&targetY, "target-y", 0, "line target y")
	cmd.Flags().Float64Var(&targetZ, "target-z", config.DefaultHeight, "line target z")
	cmd.Flags().Float64Var(&reach, "reach", 5.0, "line duration [s]")
	cmd.Flags().Float64Var(&dragX, "dx", 0, "rotor drag coefficient x")
	cmd.Flags().Float64Var(&dragY, "dy", 0, "rotor drag coefficient y")
	cmd.Flags().Float64Var(&dragZ, "dz", 0, "rotor drag coefficient z")
}

// resolveConfig merges preset, config file and explicit flags, flags winning.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
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
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Trajectory.Type = args[0]
	}
	if cmd.Flags().Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Sim.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Sim.Integrator = integrator
	}
	if cmd.Flags().Changed("height") {
		cfg.Trajectory.Height = height
	}
	if cmd.Flags().Changed("radius") {
		cfg.Trajectory.Radius = radius
	}
	if cmd.Flags().Changed("omega") {
		cfg.Trajectory.Omega = omega
	}
	if cmd.Flags().Changed("tangent") {
		cfg.Trajectory.TangentHeading = tangent
	}
	if cmd.Flags().Changed("target-x") {
		cfg.Trajectory.TargetX = targetX
	}
	if cmd.Flags().Changed("target-y") {
		cfg.Trajectory.TargetY = targetY
	}
	if cmd.Flags().Changed("target-z") {
		cfg.Trajectory.TargetZ = targetZ
	}
	if cmd.Flags().Changed("reach") {
		cfg.Trajectory.Reach = reach
	}
	if cmd.Flags().Changed("dx") {
		cfg.Controller.Dx = dragX
		cfg.Vehicle.Dx = dragX
	}
	if cmd.Flags().Changed("dy") {
		cfg.Controller.Dy = dragY
		cfg.Vehicle.Dy = dragY
	}
	if cmd.Flags().Changed("dz") {
		cfg.Controller.Dz = dragZ
		cfg.Vehicle.Dz = dragZ
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildGenerator(tc config.TrajectoryConfig) (sim.Generator, error) {
	switch tc.Type {
	case "hover":
		return trajectory.NewHover(r3.Vector{Z: tc.Height}), nil
	case "circle":
		c := trajectory.NewCircle(r3.Vector{Z: tc.Height}, tc.Radius, tc.Omega)
		c.TangentHeading = tc.TangentHeading
		return c, nil
	case "line":
		from := r3.Vector{Z: tc.Height}
		to := r3.Vector{X: tc.TargetX, Y: tc.TargetY, Z: tc.TargetZ}
		return trajectory.NewLine(from, to, tc.Reach), nil
	case "lemniscate":
		return trajectory.NewLemniscate(r3.Vector{Z: tc.Height}, tc.Radius, tc.Omega), nil
	default:
		return nil, fmt.Errorf("unknown trajectory: %s (hover, circle, line, lemniscate)", tc.Type)
	}
}

func buildIntegrator(name string) (sim.Integrator, error) {
	switch name {
	case "rk4":
		return integrators.NewRK4(), nil
	case "euler":
		return integrators.NewEuler(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s (rk4, euler)", name)
	}
}

// buildLoop assembles plant and controller from the resolved configuration.
func buildLoop(cfg *config.Config) (*dynamics.Quadrotor, sim.Controller) {
	plant := dynamics.NewQuadrotor()
	plant.Gravity = cfg.Vehicle.Gravity
	plant.Dx, plant.Dy, plant.Dz = cfg.Vehicle.Dx, cfg.Vehicle.Dy, cfg.Vehicle.Dz
	plant.RateTau = cfg.Vehicle.RateTau

	pc := control.New(control.Config{
		Dx:                  cfg.Controller.Dx,
		Dy:                  cfg.Controller.Dy,
		Dz:                  cfg.Controller.Dz,
		Gravity:             cfg.Controller.Gravity,
		AlmostZeroThreshold: cfg.Controller.AlmostZeroThreshold,
	})
	return plant, control.NewTracking(pc, control.DefaultFeedbackGains())
}

func initialState(gen sim.Generator) sim.State {
	ref := gen.At(0)
	x := dynamics.InitialState(ref.Position)
	x[3], x[4], x[5] = ref.Velocity.X, ref.Velocity.Y, ref.Velocity.Z
	return x
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	gen, err := buildGenerator(cfg.Trajectory)
	if err != nil {
		return err
	}
	integ, err := buildIntegrator(cfg.Sim.Integrator)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	plant, ctrl := buildLoop(cfg)
	s := sim.New(plant, integ, ctrl, gen)
	s.AddMetric(metrics.NewPositionRMSE())
	s.AddMetric(metrics.NewMaxPositionError())
	s.AddMetric(metrics.NewControlEffort(plant.HoverThrust()))
	s.AddMetric(metrics.NewHeadingError())

	fmt.Println(viz.Title.Render(fmt.Sprintf("tracking %s", gen.Name())))
	start := time.Now()

	result, err := s.Run(context.Background(), initialState(gen),
		sim.Config{Dt: cfg.Sim.Dt, Duration: cfg.Sim.Duration, ValidateState: true})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, simErr := range result.Errors {
		fmt.Printf("run aborted: %v\n", simErr)
	}

	runID, err := st.Save(gen.Name(), cfg.Sim.Dt, cfg.Sim.Duration, cfg.Sim.Integrator, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n\n", result.StepsTaken)
	for name, val := range result.Metrics {
		fmt.Printf("  %s %s\n",
			viz.MetricLabel.Render(fmt.Sprintf("%-20s", name)),
			viz.MetricValue.Render(fmt.Sprintf("%.6f", val)))
	}

	return nil
}

func vectorFromSlice(s []float64) (r3.Vector, error) {
	if len(s) != 3 {
		return r3.Vector{}, fmt.Errorf("expected 3 components, got %d", len(s))
	}
	return r3.Vector{X: s[0], Y: s[1], Z: s[2]}, nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	acc, err := vectorFromSlice(refAcc)
	if err != nil {
		return fmt.Errorf("--acc: %w", err)
	}
	vel, err := vectorFromSlice(refVel)
	if err != nil {
		return fmt.Errorf("--vel: %w", err)
	}
	jerk, err := vectorFromSlice(refJerk)
	if err != nil {
		return fmt.Errorf("--jerk: %w", err)
	}

	cfg := control.DefaultConfig()
	cfg.Dx, cfg.Dy, cfg.Dz = dragX, dragY, dragZ

	ref := quadrotor.TrajectoryPoint{
		Velocity:     vel,
		Acceleration: acc,
		Jerk:         jerk,
		Heading:      heading,
		HeadingRate:  headingDot,
	}
	ri := control.ComputeReferenceInputs(quadrotor.HoverState(r3.Vector{}), ref, cfg)

	fmt.Printf("thrust:       %.4f m/s²\n", ri.CollectiveThrust)
	fmt.Printf("orientation:  (%.4f, %.4f, %.4f, %.4f)\n",
		ri.Orientation.Real, ri.Orientation.Imag, ri.Orientation.Jmag, ri.Orientation.Kmag)
	fmt.Printf("body rates:   (%.4f, %.4f, %.4f) rad/s\n",
		ri.BodyRates.X, ri.BodyRates.Y, ri.BodyRates.Z)
	fmt.Printf("angular acc:  (%.4f, %.4f, %.4f) rad/s²\n",
		ri.AngularAcceleration.X, ri.AngularAcceleration.Y, ri.AngularAcceleration.Z)
	fmt.Printf("x axis:       %s\n", ri.XAxis)
	fmt.Printf("y axis:       %s\n", ri.YAxis)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	gen, err := buildGenerator(cfg.Trajectory)
	if err != nil {
		return err
	}
	integ, err := buildIntegrator(cfg.Sim.Integrator)
	if err != nil {
		return err
	}

	plant, ctrl := buildLoop(cfg)
	m := viz.NewLive(plant, integ, ctrl, gen, initialState(gen), cfg.Sim.Dt, frameRate)

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tTRAJECTORY\tTIME\tDURATION\tDT\tINTEG\tRMSE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.4f\n",
			run.ID,
			run.Trajectory,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Metrics["position_rmse"],
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

	series, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("run %s (%s)", meta.ID, meta.Trajectory)))
	fmt.Printf("samples: %d\n\n", len(times))

	names := []string{"px", "py", "pz", "cmd_thrust", "cmd_wz"}
	for name, s := range series {
		series[name] = viz.Downsample(s, 400)
	}
	fmt.Print(viz.PlotAll(series, names))

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	f, err := os.Open(st.CSVPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(os.Stdout, f)
	return err
}
