package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/magsim/internal/analysis"
	"github.com/san-kum/magsim/internal/storage"
	"github.com/spf13/cobra"
)

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
	fmt.Fprintln(w, "ID\tKIND\tNAME\tTIME\tROTOR\tSIZE")

	for _, run := range runs {
		size := "-"
		if run.Width > 0 {
			size = fmt.Sprintf("%dx%d", run.Width, run.Height)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f°\t%s\n",
			run.ID,
			run.Kind,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			degrees(run.RotorAngle),
			size,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("rotor: %.2f°\n", degrees(meta.RotorAngle))

	if len(meta.Metrics) > 0 {
		names := make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("\nmetrics:")
		for _, name := range names {
			fmt.Printf("  %s: %.6g\n", name, meta.Metrics[name])
		}
	}
	fmt.Println()

	if meta.Kind == storage.KindTorque {
		return showTorque(st, runID)
	}
	return showGrid(st, runID)
}

func showTorque(st *storage.Store, runID string) error {
	sweep, err := st.LoadTorque(runID)
	if err != nil {
		return err
	}
	if len(sweep) == 0 {
		return fmt.Errorf("no data to plot")
	}

	torques := analysis.Torques(sweep)
	if len(torques) > 1 {
		fmt.Println(asciigraph.Plot(torques,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("torque over one revolution"),
		))
		fmt.Println()
	}
	stats, err := analysis.Summarize(torques)
	if err != nil {
		return err
	}
	return printStats(stats)
}

func showGrid(st *storage.Store, runID string) error {
	g, err := st.LoadGrid(runID)
	if err != nil {
		return err
	}

	if cell != "" {
		x, y, err := parseCell(cell)
		if err != nil {
			return err
		}
		v, err := g.At(x, y)
		if err != nil {
			return err
		}
		fmt.Printf("cell (%d,%d): %v  |v| = %.6g\n", x, y, v, v.Len())
		return nil
	}

	peak, px, py := g.Peak()
	fmt.Printf("grid: %dx%d\n", g.Width, g.Height)
	fmt.Printf("peak: %.6g at (%d,%d)\n\n", peak, px, py)

	row, err := g.Row(g.Height / 2)
	if err != nil {
		return err
	}
	mags := make([]float64, len(row))
	for i, v := range row {
		mags[i] = v.Len()
	}
	if len(mags) > 1 {
		fmt.Println(asciigraph.Plot(mags,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("magnitude along row %d", g.Height/2)),
		))
	}
	return nil
}

func parseCell(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("cell %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("cell %q: %w", s, err)
	}
	return x, y, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.WriteJSON(os.Stdout, data)
	}
	if err := storage.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], outPath)
	return nil
}
