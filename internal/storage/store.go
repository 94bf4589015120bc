package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/trajectory"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	G         float64            `json:"g"`
	Masses    [3]float64         `json:"masses"`
	Colors    [3]string          `json:"colors"`
	Start     float64            `json:"t_start"`
	End       float64            `json:"t_end"`
	Dt        float64            `json:"dt"`
	Frames    int                `json:"frames"`
	Elapsed   string             `json:"elapsed"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json and trajectory.csv.
// Only the frames actually written are stored, so a failed run keeps its
// partial trajectory.
func (s *Store) Save(name string, g float64, masses [3]float64, colors [3]string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", name, uuid.NewString())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	frames := result.Trajectory.Frames()
	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: time.Now(),
		G:         g,
		Masses:    masses,
		Colors:    colors,
		Start:     cfg.Start,
		End:       cfg.End,
		Dt:        cfg.Dt,
		Frames:    len(frames),
		Elapsed:   result.Elapsed.String(),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeTrajectory(path string, frames []trajectory.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, frames); err != nil {
		return err
	}
	return f.Close()
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*trajectory.Buffer, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("run %s: %w: empty trajectory", runID, dynamo.ErrInvalidConfig)
	}

	frames := make([]trajectory.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}

		fr := trajectory.Frame{Step: i, Time: vals[0]}
		for b := 0; b < 3; b++ {
			o := 1 + 3*b
			fr.Positions[b] = dynamo.Vec3{X: vals[o], Y: vals[o+1], Z: vals[o+2]}
		}
		frames = append(frames, fr)
	}

	return trajectory.FromFrames(frames)
}
