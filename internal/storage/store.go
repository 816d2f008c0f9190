package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/vec"
)

// Store persists runs as one directory each: metadata.json plus
// trajectory.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// AnchorInfo preserves the anchor layout of a run so plots can redraw it.
type AnchorInfo struct {
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	OrbitRadius float64 `json:"orbit_radius"`
}

type RunMetadata struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Seed         int64     `json:"seed"`
	Dt           float64   `json:"dt"`
	Steps        int       `json:"steps"`
	Integrator   string    `json:"integrator"`
	Boundary     string    `json:"boundary"`
	CentralMass  float64   `json:"central_mass"`
	Radius       float64   `json:"radius"`
	AnchorCount  int       `json:"anchor_count"`
	Captures     int       `json:"captures"`
	BoundaryHits int       `json:"boundary_hits"`

	Anchors []AnchorInfo `json:"anchors,omitempty"`
}

func (s *Store) Save(meta RunMetadata, results []sim.StepResult) (string, error) {
	runID := fmt.Sprintf("orbit_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = len(results)
	for _, r := range results {
		meta.Captures += len(r.Captures)
		meta.BoundaryHits += len(r.BoundaryHits)
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"step", "x", "y", "z", "vx", "vy", "vz", "event"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, r := range results {
		event := ""
		if r.HitBoundary() {
			event = "boundary"
		} else if r.Captured() {
			event = "capture:" + strings.Join(r.Captures, "+")
		}
		row := []string{
			strconv.Itoa(r.Step),
			formatFloat(r.Position.X), formatFloat(r.Position.Y), formatFloat(r.Position.Z),
			formatFloat(r.Velocity.X), formatFloat(r.Velocity.Y), formatFloat(r.Velocity.Z),
			event,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads back the per-step positions and speeds of a saved run.
func (s *Store) LoadTrajectory(runID string) ([]vec.Vec3, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []vec.Vec3{}, []float64{}, nil
	}

	positions := make([]vec.Vec3, 0, len(records)-1)
	speeds := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 7 {
			continue
		}
		vals := make([]float64, 6)
		ok := true
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		positions = append(positions, vec.New(vals[0], vals[1], vals[2]))
		speeds = append(speeds, vec.New(vals[3], vals[4], vals[5]).Mag())
	}
	return positions, speeds, nil
}
