// Package motor assembles stator coils and rotor magnets into a brushless
// motor and answers field, force and torque queries against it.
//
// A Motor is safe for concurrent use. Rotor regeneration and current updates
// take the write lock; queries work on a Snapshot taken under the read lock,
// so a sampler always sees either the whole state before an update or the
// whole state after it.
package motor

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/phase"
	"github.com/san-kum/magsim/internal/source"
)

// Config holds the motor-level parameters. Inertia and Timestep are carried
// for reporting; no mechanical integration happens here.
type Config struct {
	Poles    int     `yaml:"poles"`
	Radius   float64 `yaml:"radius"`
	Inertia  float64 `yaml:"inertia"`
	Timestep float64 `yaml:"timestep"`
}

func (c Config) Validate() error {
	switch {
	case c.Poles <= 0:
		return field.Invalid("poles", c.Poles, "must be positive")
	case c.Radius < 0:
		return field.Invalid("motor radius", c.Radius, "must not be negative")
	case c.Inertia < 0:
		return field.Invalid("inertia", c.Inertia, "must not be negative")
	case c.Timestep < 0:
		return field.Invalid("timestep", c.Timestep, "must not be negative")
	}
	return nil
}

type Option func(*Motor)

func WithLogger(l *log.Logger) Option {
	return func(m *Motor) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithWorkers bounds the goroutines used by Torque. Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(m *Motor) { m.workers = n }
}

type Motor struct {
	mu sync.RWMutex

	cfg     Config
	coils   []*source.Coil
	phases  *phase.Controller
	magnets []*source.Magnet
	angle   float64

	workers int
	logger  *log.Logger
}

func New(cfg Config, opts ...Option) (*Motor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Motor{
		cfg:    cfg,
		phases: phase.NewController(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.workers < 0 {
		return nil, field.Invalid("workers", m.workers, "must not be negative")
	}
	return m, nil
}

func (m *Motor) Config() Config { return m.cfg }

// AddCoil winds a coil from cfg, attaches it to phase group p and drives it
// with that group's present current.
func (m *Motor) AddCoil(p phase.Phase, cfg source.CoilConfig) (*source.Coil, error) {
	coil, err := source.NewCoil(cfg)
	if err != nil {
		return nil, fmt.Errorf("motor: coil: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.coils = append(m.coils, coil)
	m.phases.Add(p, coil)
	return coil, nil
}

// AddMagnet builds a rotor magnet from cfg at the present rotor angle.
func (m *Motor) AddMagnet(cfg source.MagnetConfig) (*source.Magnet, error) {
	mag, err := source.NewMagnet(cfg)
	if err != nil {
		return nil, fmt.Errorf("motor: magnet: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.angle != 0 {
		if err := mag.Regenerate(m.angle); err != nil {
			return nil, fmt.Errorf("motor: magnet: %w", err)
		}
	}
	m.magnets = append(m.magnets, mag)
	return mag, nil
}

// SetRotorAngle turns the rotor to angle and rebuilds every magnet lattice.
// This is the expensive transition; it holds the write lock throughout.
func (m *Motor) SetRotorAngle(angle float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regenerate(angle)
}

// regenerate is the single place rotor geometry changes. Callers hold mu.
func (m *Motor) regenerate(angle float64) error {
	start := time.Now()
	for i, mag := range m.magnets {
		if err := mag.Regenerate(angle); err != nil {
			return fmt.Errorf("motor: regenerate magnet %d: %w", i, err)
		}
	}
	m.angle = angle
	m.logger.Debug("rotor regenerated", "angle", angle, "magnets", len(m.magnets), "took", time.Since(start))
	return nil
}

func (m *Motor) RotorAngle() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.angle
}

// SetCurrentVector drives the three phases with the balanced currents whose
// α/β vector has the given angle and magnitude.
func (m *Motor) SetCurrentVector(angle, magnitude float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phases.SetCurrentVector(angle, magnitude)
}

func (m *Motor) SetCurrents(u phase.UVW) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phases.SetCurrents(u)
}

func (m *Motor) Currents() phase.UVW {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phases.Currents()
}

func (m *Motor) AlphaBeta() phase.AlphaBeta {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phases.AlphaBeta()
}

// Coils returns the stator coils in generation order. Coil i belongs to
// phase i mod 3 when built by GenerateCoils.
func (m *Motor) Coils() []*source.Coil {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*source.Coil(nil), m.coils...)
}

func (m *Motor) Magnets() []*source.Magnet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*source.Magnet(nil), m.magnets...)
}

// Snapshot copies the source headers of the present state. Segment slices
// are shared, never copied; regeneration replaces them rather than writing
// in place, so a snapshot stays valid after later updates.
func (m *Motor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		RotorAngle: m.angle,
		Currents:   m.phases.Currents(),
		Coils:      make([]field.Source, len(m.coils)),
	}
	for i, c := range m.coils {
		s.Coils[i] = c.Source()
	}
	n := 0
	for _, mag := range m.magnets {
		n += len(mag.Dipoles())
	}
	s.Magnets = make([]field.Source, 0, n)
	for _, mag := range m.magnets {
		s.Magnets = append(s.Magnets, mag.Sources()...)
	}
	return s
}

func (m *Motor) FieldAt(p mgl64.Vec3) mgl64.Vec3 {
	return m.Snapshot().FieldAt(p)
}

// ForceOnSegment is the force every coil and magnet exerts on a foreign
// element carrying current.
func (m *Motor) ForceOnSegment(seg field.Segment, current float64) mgl64.Vec3 {
	return field.ForceOnSegment(m.Snapshot().Sources(), seg, current)
}

// Snapshot is an immutable view of a motor at one instant.
type Snapshot struct {
	RotorAngle float64
	Currents   phase.UVW
	Coils      []field.Source
	Magnets    []field.Source
}

// Sources lists coils first, then every magnet dipole.
func (s Snapshot) Sources() []field.Source {
	out := make([]field.Source, 0, len(s.Coils)+len(s.Magnets))
	out = append(out, s.Coils...)
	return append(out, s.Magnets...)
}

func (s Snapshot) FieldAt(p mgl64.Vec3) mgl64.Vec3 {
	return field.FieldAt(s.Coils, p).Add(field.FieldAt(s.Magnets, p))
}

func (s Snapshot) SegmentCount() int {
	return field.CountSegments(s.Coils) + field.CountSegments(s.Magnets)
}
