package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/magsim/internal/analysis"
	"github.com/san-kum/magsim/internal/config"
	"github.com/san-kum/magsim/internal/export"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/motor"
	"github.com/san-kum/magsim/internal/optim"
	"github.com/san-kum/magsim/internal/storage"
	"github.com/san-kum/magsim/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// setup loads the config, builds the motor and turns the rotor to --rotor.
func setup(cmd *cobra.Command) (*config.Config, *motor.Motor, *log.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger()
	m, err := cfg.Build(logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := m.SetRotorAngle(radians(rotor)); err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("motor built", "name", cfg.Name, "coils", len(m.Coils()), "magnets", len(m.Magnets()))
	return cfg, m, logger, nil
}

func runField(cmd *cobra.Command, args []string) error {
	return sampleGrid(cmd, storage.KindField)
}

func runForce(cmd *cobra.Command, args []string) error {
	return sampleGrid(cmd, storage.KindForce)
}

func sampleGrid(cmd *cobra.Command, kind storage.Kind) error {
	cfg, m, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	sampler, err := grid.NewSampler(cfg.Grid, grid.WithLogger(logger))
	if err != nil {
		return err
	}

	snap := m.Snapshot()
	fmt.Printf("sampling %s over %dx%d (%d segments)...\n", kind, cfg.Grid.Width, cfg.Grid.Height, snap.SegmentCount())
	start := time.Now()

	var g *grid.Grid
	if kind == storage.KindForce {
		g, err = sampler.SampleForce(cmd.Context(), snap.Sources(), grid.DipoleProbe(cfg.Probe))
	} else {
		g, err = sampler.SampleField(cmd.Context(), snap.Sources())
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	peak, px, py := g.Peak()
	centre, err := g.At(g.Width/2, g.Height/2)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	runID, err := st.SaveGrid(kind, cfg, snap.RotorAngle, g, map[string]float64{
		"peak":       peak,
		"elapsed_ms": float64(elapsed.Milliseconds()),
	})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("peak: %.6g at (%d,%d) %v\n", peak, px, py, cfg.Grid.World(px, py))
	fmt.Printf("centre: %v\n", centre)

	if pngPath != "" {
		p, err := export.FieldPlot(g, cfg.Grid, fmt.Sprintf("%s %s |%s|", cfg.Name, kind, kindSymbol(kind)), clip)
		if err != nil {
			return err
		}
		if err := export.Save(p, pngPath); err != nil {
			return err
		}
		fmt.Printf("plot: %s\n", pngPath)
	}
	return nil
}

func kindSymbol(kind storage.Kind) string {
	if kind == storage.KindForce {
		return "F"
	}
	return "B"
}

func runTorque(cmd *cobra.Command, args []string) error {
	cfg, m, _, err := setup(cmd)
	if err != nil {
		return err
	}
	tau, err := m.Torque(cmd.Context())
	if err != nil {
		return err
	}

	u := m.Currents()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "motor\t%s\n", cfg.Name)
	fmt.Fprintf(w, "rotor\t%.2f°\n", degrees(m.RotorAngle()))
	fmt.Fprintf(w, "drive\t%.2f° × %.4g\n", degrees(cfg.Drive.Angle), cfg.Drive.Magnitude)
	fmt.Fprintf(w, "currents\tu=%.4g v=%.4g w=%.4g\n", u[0], u[1], u[2])
	fmt.Fprintf(w, "torque\t%.6g\n", tau)
	return w.Flush()
}

func runRipple(cmd *cobra.Command, args []string) error {
	cfg, m, _, err := setup(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %d rotor positions...\n", cfg.Ripple.Samples)
	start := time.Now()
	sweep, err := m.TorqueRipple(cmd.Context(), cfg.Ripple)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	torques := analysis.Torques(sweep)
	stats, err := analysis.Summarize(torques)
	if err != nil {
		return err
	}
	spectrum := analysis.Spectrum(torques, 6*cfg.Motor.Poles)

	metrics := map[string]float64{
		"mean":         stats.Mean,
		"peak_to_peak": stats.PeakToPeak,
		"std_dev":      stats.StdDev,
		"ripple":       stats.Ripple,
		"elapsed_ms":   float64(elapsed.Milliseconds()),
	}
	if d := analysis.Dominant(spectrum); d.Order > 0 {
		metrics["dominant_order"] = float64(d.Order)
	}

	st := storage.New(dataDir)
	runID, err := st.SaveTorque(cfg, m.RotorAngle(), sweep, metrics)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)
	if len(torques) > 1 {
		fmt.Println(asciigraph.Plot(torques,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("torque over one revolution"),
		))
		fmt.Println()
	}
	if err := printStats(stats); err != nil {
		return err
	}
	printHarmonics(analysis.Strongest(spectrum, 3))

	if pngPath != "" {
		p, err := export.TorquePlot(sweep, cfg.Name+" torque ripple")
		if err != nil {
			return err
		}
		if err := export.Save(p, pngPath); err != nil {
			return err
		}
		fmt.Printf("plot: %s\n", pngPath)
	}
	return nil
}

func printStats(s analysis.RippleStats) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SAMPLES\tMEAN\tMIN\tMAX\tP2P\tSTD\tRMS\tRIPPLE")
	fmt.Fprintf(w, "%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.4g\n",
		s.Samples, s.Mean, s.Min, s.Max, s.PeakToPeak, s.StdDev, s.RMS, s.Ripple)
	return w.Flush()
}

func printHarmonics(h []analysis.Harmonic) {
	if len(h) == 0 {
		return
	}
	fmt.Println("\nstrongest harmonics:")
	for _, c := range h {
		fmt.Printf("  order %-3d amplitude %.6g  phase %.1f°\n", c.Order, c.Amplitude, degrees(c.Phase))
	}
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, m, _, err := setup(cmd)
	if err != nil {
		return err
	}

	leads := optim.Leads(leadSteps)
	fmt.Printf("trying %d lead angles × %d rotor positions...\n", len(leads), cfg.Ripple.Samples)
	res, points, err := optim.TuneLead(cmd.Context(), m, cfg.Ripple, leads, optim.Objective(objective))
	if err != nil {
		return err
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Lead < points[j].Lead })
	means := make([]float64, len(points))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEAD\tMEAN\tP2P\tRIPPLE")
	for i, p := range points {
		means[i] = p.Stats.Mean
		fmt.Fprintf(w, "%.1f°\t%.6g\t%.6g\t%.4g\n", degrees(p.Lead), p.Stats.Mean, p.Stats.PeakToPeak, p.Stats.Ripple)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nmean torque by lead: %s\n", viz.Sparkline(means, 60))
	fmt.Printf("best lead: %.1f° (%s %.6g, %d evaluations)\n", degrees(res.Params["lead"]), objective, res.Score, res.Evaluations)
	return nil
}

func runGeometry(cmd *cobra.Command, args []string) error {
	cfg, m, _, err := setup(cmd)
	if err != nil {
		return err
	}

	snap := m.Snapshot()
	canvas := viz.NewCanvas(60, 28)
	proj := viz.FitProjection(canvas, snap.Sources())
	canvas.DrawSources(proj, snap.Sources())
	fmt.Print(canvas.String())
	fmt.Printf("%s: %d coils, %d magnet dipoles, %d segments, rotor %.2f°\n",
		cfg.Name, len(snap.Coils), len(snap.Magnets), snap.SegmentCount(), degrees(snap.RotorAngle))

	if pngPath != "" {
		p, err := export.GeometryPlot(snap.Coils, snap.Magnets, cfg.Name+" geometry")
		if err != nil {
			return err
		}
		if err := export.Save(p, pngPath); err != nil {
			return err
		}
		fmt.Printf("plot: %s\n", pngPath)
	}
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, m, _, err := setup(cmd)
	if err != nil {
		return err
	}
	ec := viz.DefaultExplorerConfig()
	ec.Magnitude = cfg.Drive.Magnitude
	ec.Workers = cfg.Grid.Workers
	return viz.RunExplorer(cmd.Context(), m, ec)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outPath != "" {
		return config.Save(outPath, cfg)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
