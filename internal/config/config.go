package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/cpgsim/internal/network"
)

const (
	DefaultDt          = 0.001
	DefaultPacingRatio = 1.0
	DefaultEndTime     = 10.0
)

// Document is a complete simulation setup: timing, the network and the probe
// channels to record.
type Document struct {
	Name       string           `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation" toml:"simulation"`
	Neurons    []network.Record `yaml:"neurons" json:"neurons" toml:"neurons"`
	Probes     ProbeConfig      `yaml:"probes" json:"probes" toml:"probes"`

	// set records the simulation keys present in the decoded source; nil
	// for documents built in code.
	set map[string]bool
}

// SimulationConfig controls stepping. PacingRatio is wall seconds per
// simulated second (0 runs unpaced); EndTime <= 0 runs until cancelled.
type SimulationConfig struct {
	Dt          float64 `yaml:"dt" json:"dt" toml:"dt"`
	PacingRatio float64 `yaml:"pacing_ratio" json:"pacing_ratio" toml:"pacing_ratio"`
	EndTime     float64 `yaml:"end_time" json:"end_time" toml:"end_time"`
	Seed        int64   `yaml:"seed" json:"seed" toml:"seed"`
}

type ProbeConfig struct {
	File     string            `yaml:"file,omitempty" json:"file,omitempty" toml:"file,omitempty"`
	Channels []network.Channel `yaml:"channels" json:"channels" toml:"channels"`
}

func DefaultDocument() *Document {
	return &Document{
		Simulation: SimulationConfig{
			Dt:          DefaultDt,
			PacingRatio: DefaultPacingRatio,
			EndTime:     DefaultEndTime,
			Seed:        network.DefaultSeed,
		},
	}
}

// Load reads a document, choosing the decoder from the file extension:
// .yaml/.yml, .toml or .json. JSON files may also use the legacy layout
// keyed by neuron name. Fields absent from the file keep their defaults.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	doc := DefaultDocument()
	if err := Decode(data, formatOf(path), doc); err != nil {
		return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// LoadAll loads every path and merges them in order; see Merge.
func LoadAll(paths ...string) (*Document, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("config: no files given")
	}
	var merged *Document
	for _, path := range paths {
		doc, err := Load(path)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = doc
			continue
		}
		merged.Merge(doc)
	}
	return merged, nil
}

// Format names a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Decode fills doc from data in the given format and remembers which
// simulation settings the data spelled out.
func Decode(data []byte, format Format, doc *Document) error {
	doc.set = make(map[string]bool)
	switch format {
	case FormatJSON:
		return decodeJSON(data, doc)
	case FormatTOML:
		return decodeWith(toml.Unmarshal, data, doc)
	case FormatYAML:
		return decodeWith(yaml.Unmarshal, data, doc)
	default:
		return fmt.Errorf("config: unsupported format %q", format)
	}
}

func decodeWith(unmarshal func([]byte, any) error, data []byte, doc *Document) error {
	if err := unmarshal(data, doc); err != nil {
		return err
	}
	var present struct {
		Simulation map[string]any `yaml:"simulation" json:"simulation" toml:"simulation"`
	}
	if err := unmarshal(data, &present); err != nil {
		return err
	}
	for key := range present.Simulation {
		doc.markSet(key)
	}
	return nil
}

// markSet records key as present. Documents built in code stay unmarked;
// merged documents keep overriding what any of their files spelled out.
func (d *Document) markSet(key string) {
	if d.set != nil {
		d.set[key] = true
	}
}

// overrides reports whether d's value for key replaces the target's when d
// is merged. Keys present in d's source always do. For documents built in
// code, values that differ from the defaults do.
func (d *Document) overrides(key string, differs bool) bool {
	if d.set != nil {
		return d.set[key]
	}
	return differs
}

// Encode serializes doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("config: unsupported format %q", format)
	}
}

// Save writes doc in the format implied by path's extension.
func Save(path string, doc *Document) error {
	data, err := Encode(doc, formatOf(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Merge appends other's neurons and channels. Simulation settings that
// other's source file spells out override d, even when they equal the
// defaults, as does a non-empty probe file.
func (d *Document) Merge(other *Document) {
	d.Neurons = append(d.Neurons, other.Neurons...)
	d.Probes.Channels = append(d.Probes.Channels, other.Probes.Channels...)
	if other.Probes.File != "" {
		d.Probes.File = other.Probes.File
	}

	s := other.Simulation
	def := DefaultDocument().Simulation
	if other.overrides("dt", s.Dt != 0 && s.Dt != def.Dt) {
		d.Simulation.Dt = s.Dt
		d.markSet("dt")
	}
	if other.overrides("pacing_ratio", s.PacingRatio != def.PacingRatio) {
		d.Simulation.PacingRatio = s.PacingRatio
		d.markSet("pacing_ratio")
	}
	if other.overrides("end_time", s.EndTime != def.EndTime) {
		d.Simulation.EndTime = s.EndTime
		d.markSet("end_time")
	}
	if other.overrides("seed", s.Seed != def.Seed) {
		d.Simulation.Seed = s.Seed
		d.markSet("seed")
	}
}

// Build constructs the document's network with its configured seed.
func (d *Document) Build() (*network.Graph, error) {
	return network.Build(d.Neurons, network.WithSeed(d.Simulation.Seed))
}
