package network

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/cpgsim/internal/neuron"
)

// DefaultSeed seeds oscillator initial state when no seed option is given.
const DefaultSeed int64 = 1

type buildOptions struct {
	rng *rand.Rand
}

// Option configures Build.
type Option func(*buildOptions)

// WithSeed seeds the source used for oscillator initial state.
func WithSeed(seed int64) Option {
	return func(o *buildOptions) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies the random source directly. A nil source starts every
// oscillator at zero state.
func WithRand(rng *rand.Rand) Option {
	return func(o *buildOptions) {
		o.rng = rng
	}
}

// Build validates records and instantiates the graph. Records are registered
// in name order, so random draws and results are the same for any record
// order. Every problem found is reported; on error no graph is returned.
func Build(records []Record, opts ...Option) (*Graph, error) {
	o := buildOptions{rng: rand.New(rand.NewSource(DefaultSeed))}
	for _, opt := range opts {
		opt(&o)
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var errs []error
	fail := func(name, field string, err error) {
		errs = append(errs, &ConfigError{Neuron: name, Field: field, Err: err})
	}

	declared := make(map[string]bool, len(sorted))
	for _, rec := range sorted {
		declared[rec.Name] = true
	}

	g := &Graph{
		nodes: make([]*node, 0, len(sorted)),
		index: make(map[string]int, len(sorted)),
	}

	seen := make(map[string]bool, len(sorted))
	for _, rec := range sorted {
		switch {
		case rec.Name == "":
			fail(rec.Name, "name", ErrEmptyName)
			continue
		case rec.Name == Ground:
			fail(rec.Name, "name", ErrReservedName)
			continue
		}
		// Checked before validation so a repeat of an invalid record is
		// still reported.
		if seen[rec.Name] {
			fail(rec.Name, "name", ErrDuplicateName)
			continue
		}
		seen[rec.Name] = true

		kind, err := neuron.ParseKind(rec.Type)
		if err != nil {
			fail(rec.Name, "type", err)
			continue
		}
		model, err := neuron.New(kind, rec.N, rec.Params, o.rng)
		if err != nil {
			fail(rec.Name, "params", err)
			continue
		}
		if rec.Weights != nil {
			if len(rec.Weights) != rec.N {
				fail(rec.Name, "weights", fmt.Errorf("%w: got %d, want %d", ErrWeightCount, len(rec.Weights), rec.N))
				continue
			}
			if err := model.SetWeights(rec.Weights); err != nil {
				fail(rec.Name, "weights", err)
				continue
			}
		}
		if len(rec.Connections) != rec.N {
			fail(rec.Name, "connections", fmt.Errorf("%w: got %d, want %d", ErrConnectionCount, len(rec.Connections), rec.N))
			continue
		}

		connections := make([]string, len(rec.Connections))
		copy(connections, rec.Connections)
		g.index[rec.Name] = len(g.nodes)
		g.nodes = append(g.nodes, &node{
			name:        rec.Name,
			model:       model,
			connections: connections,
			sources:     make([]int, len(connections)),
			inputs:      make([]float64, len(connections)),
		})
	}

	// Names are only complete once every record is registered.
	for _, n := range g.nodes {
		for i, conn := range n.connections {
			if conn == Ground {
				n.sources[i] = groundIndex
				continue
			}
			src, ok := g.index[conn]
			if !ok {
				// A declared but invalid source already has its own error.
				if declared[conn] {
					continue
				}
				fail(n.name, fmt.Sprintf("connections[%d]", i), fmt.Errorf("%w: %q", ErrDanglingConnection, conn))
				continue
			}
			n.sources[i] = src
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	g.probes = make([]float64, len(g.nodes))
	return g, nil
}
