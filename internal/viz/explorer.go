package viz

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/motor"
)

const (
	canvasWidth  = 40
	canvasHeight = 16
)

// ExplorerConfig tunes the interactive explorer.
type ExplorerConfig struct {
	Step      float64 // radians per key press
	Magnitude float64 // initial drive current
	Workers   int
	History   int // torque values kept for the graph
}

func DefaultExplorerConfig() ExplorerConfig {
	return ExplorerConfig{Step: math.Pi / 36, Magnitude: 100, History: 120}
}

func (c ExplorerConfig) Validate() error {
	if !(c.Step > 0) {
		return field.Invalid("step", c.Step, "must be positive")
	}
	if c.Workers < 0 {
		return field.Invalid("workers", c.Workers, "must not be negative")
	}
	if c.History < 2 {
		return field.Invalid("history", c.History, "must be at least 2")
	}
	return nil
}

type torqueMsg struct {
	seq    int
	torque float64
	err    error
}

// Explorer is a bubbletea model that turns the rotor and the drive vector of
// a motor from the keyboard. Every change recomputes the torque in the
// background from an immutable snapshot; only the newest result is kept.
type Explorer struct {
	ctx   context.Context
	motor *motor.Motor
	cfg   ExplorerConfig

	rotor, drive, magnitude float64
	initial                 [3]float64

	snap    motor.Snapshot
	seq     int
	pending bool
	torque  float64
	err     error
	history []float64

	canvas *Canvas
	proj   Projection
	width  int
}

// NewExplorer starts from the motor's present rotor angle and the given
// drive magnitude with the drive vector at zero.
func NewExplorer(ctx context.Context, m *motor.Motor, cfg ExplorerConfig) (Explorer, error) {
	if err := cfg.Validate(); err != nil {
		return Explorer{}, err
	}
	e := Explorer{
		ctx:       ctx,
		motor:     m,
		cfg:       cfg,
		rotor:     m.RotorAngle(),
		magnitude: cfg.Magnitude,
		history:   make([]float64, 0, cfg.History),
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		width:     80,
	}
	e.initial = [3]float64{e.rotor, e.drive, e.magnitude}
	if err := e.apply(); err != nil {
		return Explorer{}, err
	}
	e.proj = FitProjection(e.canvas, e.snap.Sources())
	return e, nil
}

// RunExplorer opens the explorer full screen until the user quits or ctx
// ends.
func RunExplorer(ctx context.Context, m *motor.Motor, cfg ExplorerConfig) error {
	e, err := NewExplorer(ctx, m, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(e, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// apply pushes the explorer state into the motor and takes a fresh snapshot.
func (e *Explorer) apply() error {
	if err := e.motor.SetRotorAngle(e.rotor); err != nil {
		return err
	}
	e.motor.SetCurrentVector(e.drive, e.magnitude)
	e.snap = e.motor.Snapshot()
	e.seq++
	e.pending = true
	return nil
}

func (e Explorer) compute() tea.Cmd {
	ctx, snap, seq, workers := e.ctx, e.snap, e.seq, e.cfg.Workers
	return func() tea.Msg {
		tau, err := snap.Torque(ctx, workers)
		return torqueMsg{seq: seq, torque: tau, err: err}
	}
}

func (e Explorer) Init() tea.Cmd {
	return e.compute()
}

func (e Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return e.handleKey(msg)
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.canvas = NewCanvas(max(min(msg.Width/2-4, 60), 10), max(msg.Height-12, 6))
		e.proj = FitProjection(e.canvas, e.snap.Sources())
	case torqueMsg:
		if msg.seq != e.seq {
			return e, nil
		}
		e.pending = false
		e.err = msg.err
		if msg.err == nil {
			e.torque = msg.torque
			e.record(msg.torque)
		}
	}
	return e, nil
}

func (e *Explorer) record(tau float64) {
	if len(e.history) == e.cfg.History {
		copy(e.history, e.history[1:])
		e.history = e.history[:len(e.history)-1]
	}
	e.history = append(e.history, tau)
}

func (e Explorer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return e, tea.Quit
	case "left", "h":
		e.rotor -= e.cfg.Step
	case "right", "l":
		e.rotor += e.cfg.Step
	case "down", "j":
		e.drive -= e.cfg.Step
	case "up", "k":
		e.drive += e.cfg.Step
	case "+", "=":
		e.magnitude *= 1.25
	case "-", "_":
		e.magnitude /= 1.25
	case "r":
		e.rotor, e.drive, e.magnitude = e.initial[0], e.initial[1], e.initial[2]
	case "c":
		e.history = e.history[:0]
		return e, nil
	default:
		return e, nil
	}
	if err := e.apply(); err != nil {
		e.err = err
		e.pending = false
		return e, nil
	}
	return e, e.compute()
}

func (e Explorer) View() string {
	e.canvas.Clear()
	e.canvas.DrawSources(e.proj, e.snap.Coils)
	e.canvas.DrawSources(e.proj, e.snap.Magnets)
	geometry := Panel.Render(e.canvas.String())

	body := lipgloss.JoinHorizontal(lipgloss.Top, geometry, "  ", e.viewStats())

	var b strings.Builder
	b.WriteString(GradientText("MAGSIM", "#00ffff", "#ff00ff") + Subtle.Render("  rotor explorer") + "\n")
	b.WriteString(Separator(min(e.width, 80)) + "\n")
	b.WriteString(body + "\n")
	b.WriteString(e.viewHistory() + "\n")
	b.WriteString(KeyHint.Render("←/→ rotor  ↑/↓ drive  +/- current  r reset  c clear  q quit"))
	return b.String()
}

func (e Explorer) viewStats() string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("rotor", fmt.Sprintf("%8.2f°", degrees(e.rotor)))
	row("drive", fmt.Sprintf("%8.2f°", degrees(e.drive)))
	row("current", fmt.Sprintf("%8.2f", e.magnitude))
	b.WriteString("\n")

	currents := e.snap.Currents
	for i, name := range []string{"Iu", "Iv", "Iw"} {
		style := lipgloss.NewStyle().Foreground(phaseColors[i])
		frac := 0.0
		if e.magnitude > 0 {
			frac = currents[i] / e.magnitude
		}
		b.WriteString(MetricLabel.Render(name) + Bar(frac, 12, style) + fmt.Sprintf(" %+9.2f\n", currents[i]))
	}
	b.WriteString("\n")

	switch {
	case e.err != nil:
		b.WriteString(MetricLabel.Render("torque") + ErrorText.Render(e.err.Error()))
	case e.pending:
		row("torque", "computing…")
	default:
		row("torque", fmt.Sprintf("%+.6g", e.torque))
	}
	b.WriteString("\n" + MetricLabel.Render("segments") + Subtle.Render(fmt.Sprintf("%d", e.snap.SegmentCount())))
	return Panel.Render(b.String())
}

func (e Explorer) viewHistory() string {
	if len(e.history) < 2 {
		return Subtle.Render("torque history: turn the rotor to record")
	}
	return asciigraph.Plot(e.history,
		asciigraph.Height(6),
		asciigraph.Width(min(max(e.width-12, 20), 100)),
		asciigraph.Caption("torque history"),
	)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
