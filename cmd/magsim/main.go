package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/magsim/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	workers    int

	rotor      float64
	driveAngle float64
	current    float64

	samples   int
	lead      float64
	leadSteps int
	objective string

	pngPath string
	outPath string
	clip    float64
	cell    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "magsim",
		Short:         "biot-savart field and torque simulator for brushless motors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".magsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset as family/name (see presets)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "worker goroutines (0 = one per cpu)")

	// Flags shared by every command that builds a motor.
	motorFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&rotor, "rotor", 0, "rotor angle (deg)")
		cmd.Flags().Float64Var(&driveAngle, "drive-angle", 0, "current vector angle (deg)")
		cmd.Flags().Float64Var(&current, "current", config.DefaultDriveMagnitude, "current vector magnitude")
	}

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "sample the magnetic field over the grid",
		RunE:  runField,
	}
	motorFlags(fieldCmd)
	fieldCmd.Flags().StringVar(&pngPath, "png", "", "write a heat map to this file")
	fieldCmd.Flags().Float64Var(&clip, "clip", 20, "clamp the heat map at this multiple of the median")

	forceCmd := &cobra.Command{
		Use:   "force",
		Short: "sample the force on a probe coil over the grid",
		RunE:  runForce,
	}
	motorFlags(forceCmd)
	forceCmd.Flags().StringVar(&pngPath, "png", "", "write a heat map to this file")
	forceCmd.Flags().Float64Var(&clip, "clip", 20, "clamp the heat map at this multiple of the median")

	torqueCmd := &cobra.Command{
		Use:   "torque",
		Short: "torque on the rotor at one position",
		RunE:  runTorque,
	}
	motorFlags(torqueCmd)

	rippleCmd := &cobra.Command{
		Use:   "ripple",
		Short: "torque over one rotor revolution",
		RunE:  runRipple,
	}
	motorFlags(rippleCmd)
	rippleCmd.Flags().IntVar(&samples, "samples", 0, "rotor positions per revolution")
	rippleCmd.Flags().Float64Var(&lead, "lead", 0, "current vector lead over the rotor (deg)")
	rippleCmd.Flags().StringVar(&pngPath, "png", "", "write a torque plot to this file")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "search the current vector lead for the best torque",
		RunE:  runTune,
	}
	motorFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&samples, "samples", 0, "rotor positions per revolution")
	tuneCmd.Flags().IntVar(&leadSteps, "steps", 12, "lead angles to try over one revolution")
	tuneCmd.Flags().StringVar(&objective, "objective", "mean", "mean (highest torque) or ripple (flattest torque)")

	geometryCmd := &cobra.Command{
		Use:   "geometry",
		Short: "draw coils and magnets",
		RunE:  runGeometry,
	}
	motorFlags(geometryCmd)
	geometryCmd.Flags().StringVar(&pngPath, "png", "", "also write a plot to this file")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "turn the rotor and drive vector interactively",
		RunE:  runExplore,
	}
	motorFlags(exploreCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  runConfig,
	}
	configCmd.Flags().StringVar(&outPath, "out", "", "write to this file instead of stdout")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarize a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&cell, "cell", "", "print one grid cell, as x,y")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "write to this file instead of stdout")

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list preset families, or the presets of one family",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, f := range config.Families() {
					fmt.Printf("%s: %s\n", f, strings.Join(config.ListPresets(f), ", "))
				}
				return nil
			}
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for family: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s/%s\n", args[0], p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(fieldCmd, forceCmd, torqueCmd, rippleCmd, tuneCmd, geometryCmd, exploreCmd,
		configCmd, listCmd, showCmd, exportJSONCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		newLogger().Error(err)
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "magsim",
		ReportTimestamp: verbose,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig resolves the preset, then the config file, then any flag the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		family, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want family/name", preset)
		}
		cfg = config.GetPreset(family, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(family))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Grid.Workers = workers
	}
	if flags.Changed("drive-angle") {
		cfg.Drive.Angle = radians(driveAngle)
	}
	if flags.Changed("current") {
		cfg.Drive.Magnitude = current
		cfg.Ripple.Magnitude = current
	}
	if flags.Changed("samples") {
		cfg.Ripple.Samples = samples
	}
	if flags.Changed("lead") {
		cfg.Ripple.Lead = radians(lead)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
