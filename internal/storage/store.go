package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/sim"
)

// Store persists simulation runs, one directory per run with a metadata
// file and the full state/command/reference history as CSV.
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
	Trajectory string             `json:"trajectory"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics"`
}

var stateHeader = []string{
	"px", "py", "pz", "vx", "vy", "vz",
	"qw", "qx", "qy", "qz", "wx", "wy", "wz",
}

// Save writes one run and returns its id.
func (s *Store) Save(trajectory string, dt, duration float64, integrator string, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", trajectory, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Trajectory: trajectory,
		Timestamp:  time.Now(),
		Dt:         dt,
		Duration:   duration,
		Integrator: integrator,
		Metrics:    result.Metrics,
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

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.States) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	header = append(header, stateHeader...)
	header = append(header,
		"ref_px", "ref_py", "ref_pz", "ref_heading",
		"cmd_thrust", "cmd_wx", "cmd_wy", "cmd_wz",
	)
	if err := w.Write(header); err != nil {
		return "", err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	for i := range result.States {
		row := []string{ff(result.Times[i])}
		for _, val := range result.States[i] {
			row = append(row, ff(val))
		}

		// The final sample has no command or reference: the loop records
		// them before stepping.
		if i < len(result.Commands) {
			ref := result.References[i]
			cmd := result.Commands[i]
			row = append(row,
				ff(ref.Position.X), ff(ref.Position.Y), ff(ref.Position.Z), ff(ref.Heading),
				ff(cmd.CollectiveThrust), ff(cmd.BodyRates.X), ff(cmd.BodyRates.Y), ff(cmd.BodyRates.Z),
			)
		} else {
			for j := 0; j < 8; j++ {
				row = append(row, "0")
			}
		}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
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

// LoadStates reads the CSV history back as column-labeled series.
func (s *Store) LoadStates(runID string) (map[string][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return map[string][]float64{}, []float64{}, nil
	}

	header := records[0]
	series := make(map[string][]float64, len(header)-1)
	times := make([]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for j := 1; j < len(record); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			series[header[j]] = append(series[header[j]], v)
		}
	}

	return series, times, nil
}

// CSVPath returns the on-disk history file for a run.
func (s *Store) CSVPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "states.csv")
}
