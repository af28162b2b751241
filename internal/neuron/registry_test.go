package neuron

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		tag      string
		expected Kind
	}{
		{"ConstSum", KindConstSum},
		{"const", KindConstSum},
		{"1", KindConstSum},
		{"MatsuokaOscillator", KindMatsuoka},
		{"matsuoka", KindMatsuoka},
		{"2", KindMatsuoka},
		{"Sigmoid", KindSigmoid},
		{"TIMER", KindTimer},
		{"inter", KindInterGate},
		{"5", KindInterGate},
		{" Threshold ", KindThreshold},
		{"thres", KindThreshold},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.tag)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tt.tag, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseKind(%q) = %s, want %s", tt.tag, got, tt.expected)
		}
	}

	for _, bad := range []string{"", "lif", "0", "7", "-1"} {
		if _, err := ParseKind(bad); !errors.Is(err, ErrUnknownKind) {
			t.Errorf("ParseKind(%q): expected ErrUnknownKind, got %v", bad, err)
		}
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		n      int
		params map[string]float64
	}{
		{"const", KindConstSum, 1, map[string]float64{"c": 2}},
		{"matsuoka", KindMatsuoka, 2, map[string]float64{"s": 1, "b": 2.5, "tu": 0.25, "tv": 0.5}},
		{"sigmoid", KindSigmoid, 0, map[string]float64{"a": 1, "c": 0}},
		{"timer", KindTimer, 1, map[string]float64{"c": 0, "start": 1, "end": 2}},
		{"inter", KindInterGate, 3, map[string]float64{"bypass": 2}},
		{"threshold", KindThreshold, 1, map[string]float64{"thres": 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.kind, tt.n, tt.params, nil)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if m.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", m.Kind(), tt.kind)
			}
			if m.Arity() != tt.n {
				t.Errorf("arity = %d, want %d", m.Arity(), tt.n)
			}
			for k, v := range tt.params {
				if m.Params()[k] != v {
					t.Errorf("param %s = %v, want %v", k, m.Params()[k], v)
				}
			}
		})
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		n      int
		params map[string]float64
		want   error
	}{
		{"unknown kind", Kind(42), 1, nil, ErrUnknownKind},
		{"negative arity", KindConstSum, -1, map[string]float64{"c": 0}, ErrArity},
		{"missing", KindTimer, 1, map[string]float64{"c": 0, "start": 0}, ErrMissingParam},
		{"unknown", KindConstSum, 1, map[string]float64{"c": 0, "gain": 1}, ErrUnknownParam},
		{"zero tu", KindMatsuoka, 1, map[string]float64{"s": 1, "b": 1, "tu": 0, "tv": 1}, ErrMalformedParam},
		{"negative tv", KindMatsuoka, 1, map[string]float64{"s": 1, "b": 1, "tu": 1, "tv": -1}, ErrMalformedParam},
		{"fractional bypass", KindInterGate, 3, map[string]float64{"bypass": 1.5}, ErrMalformedParam},
		{"bypass out of range", KindInterGate, 2, map[string]float64{"bypass": 2}, ErrMalformedParam},
		{"inter zero arity", KindInterGate, 0, map[string]float64{"bypass": 0}, ErrMalformedParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.kind, tt.n, tt.params, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParamNames(t *testing.T) {
	if got := ParamNames(KindMatsuoka); len(got) != 4 {
		t.Errorf("expected 4 matsuoka params, got %v", got)
	}
	if ParamNames(Kind(0)) != nil {
		t.Error("expected nil for unknown kind")
	}
}
