package network

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/san-kum/cpgsim/internal/neuron"
)

func rec(name, typ string, n int, params map[string]float64, weights []float64, conns ...string) Record {
	return Record{Name: name, Type: typ, N: n, Params: params, Weights: weights, Connections: conns}
}

func TestBuildErrors(t *testing.T) {
	c0 := map[string]float64{"c": 0}

	tests := []struct {
		name    string
		records []Record
		want    error
		field   string
	}{
		{"unknown type", []Record{rec("A", "lif", 0, nil, nil)}, neuron.ErrUnknownKind, "type"},
		{"missing param", []Record{rec("A", "Sigmoid", 0, map[string]float64{"a": 1}, nil)}, neuron.ErrMissingParam, "params"},
		{"unknown param", []Record{rec("A", "ConstSum", 0, map[string]float64{"c": 0, "k": 1}, nil)}, neuron.ErrUnknownParam, "params"},
		{"zero time constant", []Record{rec("A", "matsuoka", 0, map[string]float64{"s": 1, "b": 1, "tu": 0, "tv": 1}, nil)}, neuron.ErrMalformedParam, "params"},
		{"negative arity", []Record{rec("A", "ConstSum", -1, c0, nil)}, neuron.ErrArity, "params"},
		{"weight count", []Record{rec("A", "ConstSum", 1, c0, []float64{1, 2}, Ground)}, ErrWeightCount, "weights"},
		{"connection count", []Record{rec("A", "ConstSum", 2, c0, nil, Ground)}, ErrConnectionCount, "connections"},
		{"duplicate", []Record{rec("A", "ConstSum", 0, c0, nil), rec("A", "ConstSum", 0, c0, nil)}, ErrDuplicateName, "name"},
		{"empty name", []Record{rec("", "ConstSum", 0, c0, nil)}, ErrEmptyName, "name"},
		{"reserved name", []Record{rec(Ground, "ConstSum", 0, c0, nil)}, ErrReservedName, "name"},
		{"dangling", []Record{rec("A", "ConstSum", 1, c0, nil, "B")}, ErrDanglingConnection, "connections[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.records)
			if g != nil {
				t.Error("expected no graph on error")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestBuildReportsDuplicateOfInvalidRecord(t *testing.T) {
	c0 := map[string]float64{"c": 0}
	tests := []struct {
		name    string
		records []Record
	}{
		{"bad type first", []Record{rec("X", "bogus", 0, nil, nil), rec("X", "ConstSum", 0, c0, nil)}},
		{"bad params first", []Record{rec("X", "ConstSum", 0, map[string]float64{"k": 1}, nil), rec("X", "ConstSum", 0, c0, nil)}},
		{"both invalid", []Record{rec("X", "bogus", 0, nil, nil), rec("X", "bogus", 0, nil, nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.records)
			if !errors.Is(err, ErrDuplicateName) {
				t.Errorf("expected duplicate name in %v", err)
			}
		})
	}
}

func TestBuildReportsEveryProblem(t *testing.T) {
	c0 := map[string]float64{"c": 0}
	_, err := Build([]Record{
		rec("A", "ConstSum", 1, c0, nil, "missing"),
		rec("B", "nope", 0, nil, nil),
		rec("C", "ConstSum", 1, c0, nil, "B"),
	})

	if !errors.Is(err, ErrDanglingConnection) {
		t.Errorf("expected dangling connection in %v", err)
	}
	if !errors.Is(err, neuron.ErrUnknownKind) {
		t.Errorf("expected unknown type in %v", err)
	}

	// C points at B, which is declared but invalid; only B's own error is reported.
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	if got := len(joined.Unwrap()); got != 2 {
		t.Errorf("expected 2 problems, got %d: %v", got, err)
	}
}

func TestBuildEmpty(t *testing.T) {
	g, err := Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.Step(0.01)
	if g.Len() != 0 || g.Probe(Ground) != 0 {
		t.Error("empty graph should only expose ground")
	}
}

func TestBuildDefaultWeightsAreZero(t *testing.T) {
	g, err := Build([]Record{
		rec("A", "ConstSum", 1, map[string]float64{"c": 1}, nil, "B"),
		rec("B", "ConstSum", 0, map[string]float64{"c": 7}, nil),
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		g.Step(0.01)
	}
	if got := g.Probe("A"); got != 1 {
		t.Errorf("expected unweighted input to be ignored, got %v", got)
	}
}

func TestBuildSeedDeterminism(t *testing.T) {
	records := []Record{
		rec("L", "matsuoka", 0, map[string]float64{"s": 1, "b": 2.5, "tu": 0.1, "tv": 0.2}, nil),
	}

	state := func(opts ...Option) float64 {
		g, err := Build(records, opts...)
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		m, _ := g.Model("L")
		u, _ := m.(*neuron.Matsuoka).State()
		return u
	}

	if state(WithSeed(5)) != state(WithSeed(5)) {
		t.Error("same seed produced different state")
	}
	if state() != state(WithSeed(DefaultSeed)) {
		t.Error("default seed is not DefaultSeed")
	}
	if state(WithSeed(5)) == state(WithSeed(6)) {
		t.Error("different seeds produced identical state")
	}
	if state(WithRand(nil)) != 0 {
		t.Error("nil source should start at zero")
	}
	if state(WithRand(rand.New(rand.NewSource(5)))) != state(WithSeed(5)) {
		t.Error("WithRand and WithSeed disagree")
	}
}

func TestStepDoesNotAllocate(t *testing.T) {
	g, err := Build([]Record{
		rec("L", "matsuoka", 2, map[string]float64{"s": 1, "b": 2.5, "tu": 0.1, "tv": 0.2}, []float64{-2, 0}, "R", Ground),
		rec("R", "matsuoka", 2, map[string]float64{"s": 1, "b": 2.5, "tu": 0.1, "tv": 0.2}, []float64{-2, 0}, "L", Ground),
		rec("Out", "ConstSum", 2, map[string]float64{"c": 0}, []float64{1, -1}, "L", "R"),
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	allocs := testing.AllocsPerRun(100, func() {
		g.Step(0.001)
		_ = g.Probe("Out")
	})
	if allocs != 0 {
		t.Errorf("Step allocated %.0f times", allocs)
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Neuron: "A", Field: "weights", Err: ErrWeightCount}
	expected := `neuron "A": weights: network: weight count does not match arity`
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}
