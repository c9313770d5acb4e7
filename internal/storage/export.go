package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/magsim/internal/motor"
)

// ExportData is a self-contained JSON document for one stored run. Exactly
// one of Torque or Field is populated, depending on Kind.
type ExportData struct {
	RunMetadata
	Samples int                  `json:"samples"`
	Torque  []motor.TorqueSample `json:"torque,omitempty"`
	Field   [][][3]float64       `json:"field,omitempty"`
}

// Export loads a stored run into an ExportData.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	data := &ExportData{RunMetadata: *meta}

	switch meta.Kind {
	case KindTorque:
		samples, err := s.LoadTorque(runID)
		if err != nil {
			return nil, err
		}
		data.Torque = samples
		data.Samples = len(samples)
	default:
		g, err := s.LoadGrid(runID)
		if err != nil {
			return nil, err
		}
		data.Field = make([][][3]float64, g.Height)
		for y, row := range g.Data {
			data.Field[y] = make([][3]float64, len(row))
			for x, v := range row {
				data.Field[y][x] = v
			}
		}
		data.Samples = g.Width * g.Height
	}
	return data, nil
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, data); err != nil {
		return err
	}
	return file.Close()
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
