package grid

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/parallel"
	"github.com/san-kum/magsim/internal/source"
)

const (
	DefaultWidth  = 600
	DefaultHeight = 600
)

type Config struct {
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	ZHeight     float64    `yaml:"z_height"`
	WorldOffset mgl64.Vec3 `yaml:"world_offset,flow"`
	Workers     int        `yaml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		WorldOffset: mgl64.Vec3{-DefaultWidth / 2, -DefaultHeight / 2, 0},
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return field.Invalid("grid width", c.Width, "must be positive")
	case c.Height <= 0:
		return field.Invalid("grid height", c.Height, "must be positive")
	case c.Workers < 0:
		return field.Invalid("workers", c.Workers, "must not be negative")
	case !field.IsFinite(c.WorldOffset) || math.IsNaN(c.ZHeight) || math.IsInf(c.ZHeight, 0):
		return field.Invalid("world offset", c.WorldOffset, "must be finite")
	}
	return nil
}

// World maps cell (x, y) to its sample position.
func (c Config) World(x, y int) mgl64.Vec3 {
	return mgl64.Vec3{float64(x), float64(y), c.ZHeight}.Add(c.WorldOffset)
}

// ProbeGenerator builds the test winding placed at a cell. b is the field
// of the sampled sources at that position.
type ProbeGenerator func(position, b mgl64.Vec3) (field.Source, error)

type ProbeConfig struct {
	Radius     float64 `yaml:"radius"`
	Resolution int     `yaml:"resolution"`
	Current    float64 `yaml:"current"`
}

func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{Radius: 1, Resolution: 8, Current: 1}
}

// DipoleProbe places a small loop at each cell with its moment turned, in
// the xy plane, towards the local field.
func DipoleProbe(c ProbeConfig) ProbeGenerator {
	return func(position, b mgl64.Vec3) (field.Source, error) {
		d, err := source.NewCartesianDipole(source.Cartesian{
			Position:    position,
			Orientation: math.Atan2(b[1], b[0]),
		}, c.Current, c.Radius, c.Resolution)
		if err != nil {
			return field.Source{}, err
		}
		return d.Source(), nil
	}
}

type Option func(*Sampler)

func WithLogger(l *log.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Sampler evaluates sources over every cell of a grid. Rows are divided
// among workers; each worker writes only its own rows.
type Sampler struct {
	cfg    Config
	logger *log.Logger
}

func NewSampler(cfg Config, opts ...Option) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Sampler{cfg: cfg, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Sampler) Config() Config { return s.cfg }

// SampleField stores the superposed field of sources at every cell.
func (s *Sampler) SampleField(ctx context.Context, sources []field.Source) (*Grid, error) {
	start := time.Now()
	g := New(s.cfg.Width, s.cfg.Height)

	err := parallel.For(ctx, s.cfg.Height, s.cfg.Workers, 1, func(ctx context.Context, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := g.Data[y]
			for x := range row {
				row[x] = field.FieldAt(sources, s.cfg.World(x, y))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("grid: sample field: %w", err)
	}

	s.logger.Debug("field sampled",
		"width", s.cfg.Width, "height", s.cfg.Height,
		"segments", field.CountSegments(sources), "took", time.Since(start))
	return g, nil
}

// SampleForce places a probe from gen at every cell and stores the net force
// the sources exert on it. A nil gen uses DipoleProbe with default settings.
func (s *Sampler) SampleForce(ctx context.Context, sources []field.Source, gen ProbeGenerator) (*Grid, error) {
	if gen == nil {
		gen = DipoleProbe(DefaultProbeConfig())
	}
	start := time.Now()
	g := New(s.cfg.Width, s.cfg.Height)

	err := parallel.For(ctx, s.cfg.Height, s.cfg.Workers, 1, func(ctx context.Context, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := g.Data[y]
			for x := range row {
				p := s.cfg.World(x, y)
				probe, err := gen(p, field.FieldAt(sources, p))
				if err != nil {
					return fmt.Errorf("probe at (%d,%d): %w", x, y, err)
				}
				row[x] = field.ForceOn(sources, probe)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("grid: sample force: %w", err)
	}

	s.logger.Debug("force sampled",
		"width", s.cfg.Width, "height", s.cfg.Height,
		"segments", field.CountSegments(sources), "took", time.Since(start))
	return g, nil
}
