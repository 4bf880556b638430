package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/san-kum/primal/internal/config"
	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/experiment"
	"github.com/san-kum/primal/internal/export"
	"github.com/san-kum/primal/internal/live"
	"github.com/san-kum/primal/internal/primal"
	"github.com/san-kum/primal/internal/sim"
	"github.com/san-kum/primal/internal/storage"
	"github.com/san-kum/primal/internal/sweep"
	"github.com/san-kum/primal/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	outFile    string
	workers    int

	modeName   string
	alpha      float64
	lambda     float64
	dt         float64
	steps      int
	integrator string
	preset     string

	plotCol   int
	imagePath string
	frameRate int
)

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	))

	rootCmd := &cobra.Command{
		Use:   "primal",
		Short: "perturbation sweep lab for small ODE systems",
		// Bare invocation runs the full reference sweep.
		RunE: runSweep,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".primal", "data directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the perturbation sweep",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "sweep config file (yaml)")
	sweepCmd.Flags().StringVar(&outFile, "out", "", "output csv path")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run one perturbed integration and store the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runSingle,
	}
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotCol, "col", -1, "state column to plot (-1 for all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as an image",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&imagePath, "image", "", "image path (.png/.svg/.pdf), defaults to <run_id>.png")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "watch a perturbed integration live",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(sweepCmd, runCmd, listCmd, plotCmd, exportCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&modeName, "mode", "residual", "perturbation mode")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.0, "perturbation amplitude")
	cmd.Flags().Float64Var(&lambda, "lambda", 1.0, "perturbation rate")
	cmd.Flags().Float64Var(&dt, "dt", 0.0, "timestep (0 uses the model default)")
	cmd.Flags().IntVar(&steps, "steps", 0, "step count (0 uses the model default)")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator override (euler, rk4, rk4warp)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if outFile != "" {
		cfg.Out = outFile
	}
	if workers > 0 {
		cfg.Workers = workers
	}

	drv := sweep.NewDriver(experiment.NewRegistry(), slog.Default(), cfg.Workers)

	start := time.Now()
	rows, err := drv.Run(context.Background(), cfg)
	if err != nil {
		return err
	}
	if err := storage.WriteSweep(cfg.Out, rows); err != nil {
		return err
	}

	fmt.Println(viz.Summary(rows))
	fmt.Printf("sweep complete in %v: %d rows written to %s\n",
		time.Since(start).Round(time.Millisecond), len(rows), cfg.Out)
	return nil
}

type singleRun struct {
	sys     dynamo.System
	stepper dynamo.Stepper
	pert    primal.Config
	mcfg    *config.ModelConfig
	integ   string
}

func buildSingleRun(cmd *cobra.Command, model string) (*singleRun, error) {
	mode, err := primal.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	pert := primal.Config{Mode: mode, Alpha: alpha, Lambda: lambda}
	reg := experiment.NewRegistry()

	var mcfg *config.ModelConfig
	if preset != "" {
		mcfg = config.GetPreset(model, preset)
		if mcfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	} else {
		for _, mc := range config.DefaultConfig().Models {
			if mc.Name == model {
				mcfg = &mc
				break
			}
		}
		if mcfg == nil {
			return nil, fmt.Errorf("unknown model: %s (available: %v)", model, reg.ListModels())
		}
	}
	if cmd.Flags().Changed("dt") {
		mcfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		mcfg.Steps = steps
	}

	sys, err := reg.Model(model, pert)
	if err != nil {
		return nil, err
	}
	if err := reg.ApplyParams(sys, mcfg.Params); err != nil {
		return nil, err
	}

	integName := integrator
	var stepper dynamo.Stepper
	if integName != "" {
		stepper, err = reg.Stepper(integName, pert)
		if err != nil {
			return nil, err
		}
	} else {
		stepper = reg.StepperForMode(pert)
		integName = "rk4"
		if mode == primal.TimeWarp {
			integName = "rk4warp"
		}
	}

	return &singleRun{sys: sys, stepper: stepper, pert: pert, mcfg: mcfg, integ: integName}, nil
}

func runSingle(cmd *cobra.Command, args []string) error {
	r, err := buildSingleRun(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	slog.Info("running",
		"model", args[0],
		"mode", string(r.pert.Mode),
		"alpha", r.pert.Alpha,
		"lambda", r.pert.Lambda,
		"integrator", r.integ)

	start := time.Now()
	runner := sim.New(r.sys, r.stepper)
	result, err := runner.Run(context.Background(), dynamo.State(r.mcfg.Init),
		dynamo.Config{Dt: r.mcfg.Dt, Steps: r.mcfg.Steps, ValidateState: true})
	if err != nil {
		return err
	}

	runID, err := st.Save(args[0], r.pert, r.mcfg.Dt, r.mcfg.Steps, r.integ, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("final state: %v\n", result.Final)
	if _, ok := r.sys.(dynamo.Conserved); ok {
		fmt.Printf("invariant error: %.3e\n", result.InvariantErr)
	}
	if result.NonFinite {
		slog.Warn("run went non-finite", "steps_taken", result.StepsTaken)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	r, err := buildSingleRun(cmd, args[0])
	if err != nil {
		return err
	}
	return live.Run(r.sys, r.stepper, dynamo.State(r.mcfg.Init), r.mcfg.Dt, args[0], frameRate)
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tMODE\tALPHA\tLAMBDA\tDT\tSTEPS\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%g\t%g\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Alpha,
			run.Lambda,
			run.Dt,
			run.Steps,
			run.Integrator,
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

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s  mode: %s  alpha: %g  lambda: %g\n", meta.Model, meta.Mode, meta.Alpha, meta.Lambda)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(states[0])
	first, last := 0, numVars
	if plotCol >= 0 {
		if plotCol >= numVars {
			return fmt.Errorf("column %d out of range (state has %d components)", plotCol, numVars)
		}
		first, last = plotCol, plotCol+1
	}

	for idx := first; idx < last; idx++ {
		fmt.Println(viz.Trajectory(viz.Column(states, idx), fmt.Sprintf("x%d vs time", idx)))
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	path := imagePath
	if path == "" {
		path = runID + ".png"
	}

	title := fmt.Sprintf("%s (%s, alpha=%g, lambda=%g)", meta.Model, meta.Mode, meta.Alpha, meta.Lambda)
	if err := export.SaveImage(path, title, times, states); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}
