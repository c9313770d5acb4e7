package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magsim/internal/config"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/motor"
)

type Kind string

const (
	KindTorque Kind = "torque"
	KindField  Kind = "field"
	KindForce  Kind = "force"
)

const (
	metadataFile = "metadata.json"
	torqueFile   = "torque.csv"
	fieldFile    = "field.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Kind       Kind               `json:"kind"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	RotorAngle float64            `json:"rotor_angle"`
	Width      int                `json:"width,omitempty"`
	Height     int                `json:"height,omitempty"`
	Config     *config.Config     `json:"config"`
	Metrics    map[string]float64 `json:"metrics"`
}

// SaveTorque stores a torque sweep as torque.csv (angle, torque).
func (s *Store) SaveTorque(cfg *config.Config, rotorAngle float64, samples []motor.TorqueSample, metrics map[string]float64) (string, error) {
	runID, runDir, err := s.newRun(cfg.Name, KindTorque)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Kind:       KindTorque,
		Name:       cfg.Name,
		Timestamp:  time.Now(),
		RotorAngle: rotorAngle,
		Config:     cfg,
		Metrics:    finite(metrics),
	}
	if err := writeMetadata(runDir, meta); err != nil {
		return "", err
	}

	err = writeCSV(filepath.Join(runDir, torqueFile), []string{"angle", "torque"}, func(w *csv.Writer) error {
		for _, sample := range samples {
			if err := w.Write([]string{formatFloat(sample.Angle), formatFloat(sample.Torque)}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

// SaveGrid stores a sampled field or force grid as field.csv
// (x, y, bx, by, bz), one row per cell.
func (s *Store) SaveGrid(kind Kind, cfg *config.Config, rotorAngle float64, g *grid.Grid, metrics map[string]float64) (string, error) {
	if kind != KindField && kind != KindForce {
		return "", fmt.Errorf("storage: %q is not a grid kind", kind)
	}
	runID, runDir, err := s.newRun(cfg.Name, kind)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Kind:       kind,
		Name:       cfg.Name,
		Timestamp:  time.Now(),
		RotorAngle: rotorAngle,
		Width:      g.Width,
		Height:     g.Height,
		Config:     cfg,
		Metrics:    finite(metrics),
	}
	if err := writeMetadata(runDir, meta); err != nil {
		return "", err
	}

	err = writeCSV(filepath.Join(runDir, fieldFile), []string{"x", "y", "bx", "by", "bz"}, func(w *csv.Writer) error {
		for y, row := range g.Data {
			for x, v := range row {
				rec := []string{strconv.Itoa(x), strconv.Itoa(y), formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2])}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

// newRun creates <base>/<name>_<kind>_<millis>, adding a counter when two
// runs land in the same millisecond.
func (s *Store) newRun(name string, kind Kind) (string, string, error) {
	if name == "" {
		name = "run"
	}
	name = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "/", "-")))
	if err := s.Init(); err != nil {
		return "", "", err
	}

	base := fmt.Sprintf("%s_%s_%d", name, kind, time.Now().UnixMilli())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

func writeMetadata(runDir string, meta RunMetadata) error {
	f, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeCSV(path string, header []string, rows func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// finite drops metrics JSON cannot encode, such as the infinite ripple
// factor of a zero-mean curve.
func finite(metrics map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for k, v := range metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTorque(runID string) ([]motor.TorqueSample, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, torqueFile))
	if err != nil {
		return nil, err
	}

	samples := make([]motor.TorqueSample, 0, len(records))
	for i, rec := range records {
		vals, err := parseFloats(rec, 2)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", torqueFile, i+2, err)
		}
		samples = append(samples, motor.TorqueSample{Angle: vals[0], Torque: vals[1]})
	}
	return samples, nil
}

// LoadGrid rebuilds a field or force grid. Cells missing from the file
// stay zero.
func (s *Store) LoadGrid(runID string) (*grid.Grid, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	if meta.Kind != KindField && meta.Kind != KindForce {
		return nil, fmt.Errorf("storage: run %s holds %s data, not a grid", runID, meta.Kind)
	}

	records, err := readCSV(filepath.Join(s.baseDir, runID, fieldFile))
	if err != nil {
		return nil, err
	}

	g := grid.New(meta.Width, meta.Height)
	for i, rec := range records {
		vals, err := parseFloats(rec, 5)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", fieldFile, i+2, err)
		}
		x, y := int(vals[0]), int(vals[1])
		if !g.In(x, y) {
			return nil, fmt.Errorf("storage: %s line %d: cell (%d,%d) outside %dx%d", fieldFile, i+2, x, y, g.Width, g.Height)
		}
		g.Data[y][x] = mgl64.Vec3{vals[2], vals[3], vals[4]}
	}
	return g, nil
}

// readCSV returns the records after the header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return r.ReadAll()
}

func parseFloats(rec []string, n int) ([]float64, error) {
	if len(rec) != n {
		return nil, fmt.Errorf("expected %d columns, got %d", n, len(rec))
	}
	out := make([]float64, n)
	for i, field := range rec {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
