package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	metadataFile = "metadata.json"
	probesFile   = "probes.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Network     string             `json:"network"`
	Source      string             `json:"source,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	EndTime     float64            `json:"end_time"`
	PacingRatio float64            `json:"pacing_ratio"`
	Channels    []string           `json:"channels"`
	Steps       int                `json:"steps"`
	SimTime     float64            `json:"sim_time"`
	Completed   bool               `json:"completed"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

// Create allocates a run directory named after the network and the current
// unix time, writes the initial metadata and returns a sink for the probe
// table. meta.ID and meta.Timestamp are filled in.
func (s *Store) Create(meta *RunMetadata) (*CSVSink, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	now := s.now()
	base := fmt.Sprintf("%s_%d", sanitize(meta.Network), now.Unix())
	runID := base
	for i := 2; ; i++ {
		err := os.Mkdir(filepath.Join(s.baseDir, runID), 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}

	meta.ID = runID
	meta.Timestamp = now
	if err := s.writeMetadata(meta); err != nil {
		return nil, err
	}

	return CreateCSV(filepath.Join(s.baseDir, runID, probesFile))
}

// Finish rewrites the metadata of a run created by Create, typically with the
// step count and metrics of the finished run.
func (s *Store) Finish(meta *RunMetadata) error {
	if meta.ID == "" {
		return errors.New("storage: finish without run id")
	}
	return s.writeMetadata(meta)
}

func (s *Store) writeMetadata(meta *RunMetadata) error {
	f, err := os.Create(filepath.Join(s.baseDir, meta.ID, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns the metadata of every readable run, oldest first.
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
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadProbes(runID string) (*Probes, error) {
	p, err := ReadCSVFile(filepath.Join(s.baseDir, runID, probesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return p, nil
}

type ExportData struct {
	Run      RunMetadata          `json:"run"`
	Times    []float64            `json:"times"`
	Channels map[string][]float64 `json:"channels"`
}

// ExportJSON writes a run's metadata and probe series as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, probes *Probes) error {
	data := ExportData{
		Run:      *meta,
		Times:    probes.Times,
		Channels: make(map[string][]float64, len(probes.Columns)),
	}
	for _, c := range probes.Columns {
		data.Channels[c] = probes.Channel(c)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func sanitize(name string) string {
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}
