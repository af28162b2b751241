package neuron

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

type factory struct {
	params []string
	check  func(n int, p map[string]float64) error
	build  func(n int, p map[string]float64, rng *rand.Rand) Model
}

var factories = map[Kind]factory{
	KindConstSum: {
		params: []string{"c"},
		build: func(n int, p map[string]float64, _ *rand.Rand) Model {
			return NewConstSum(n, p["c"])
		},
	},
	KindMatsuoka: {
		params: []string{"s", "b", "tu", "tv"},
		check: func(_ int, p map[string]float64) error {
			var errs []error
			for _, name := range []string{"tu", "tv"} {
				if p[name] <= 0 {
					errs = append(errs, fmt.Errorf("%w: %s must be positive, got %g", ErrMalformedParam, name, p[name]))
				}
			}
			return errors.Join(errs...)
		},
		build: func(n int, p map[string]float64, rng *rand.Rand) Model {
			return NewMatsuoka(n, p["s"], p["b"], p["tu"], p["tv"], rng)
		},
	},
	KindSigmoid: {
		params: []string{"a", "c"},
		build: func(n int, p map[string]float64, _ *rand.Rand) Model {
			return NewSigmoid(n, p["a"], p["c"])
		},
	},
	KindTimer: {
		params: []string{"c", "start", "end"},
		build: func(n int, p map[string]float64, _ *rand.Rand) Model {
			return NewTimer(n, p["c"], p["start"], p["end"])
		},
	},
	KindInterGate: {
		params: []string{"bypass"},
		check: func(n int, p map[string]float64) error {
			b := p["bypass"]
			if b != math.Trunc(b) {
				return fmt.Errorf("%w: bypass must be an integer index, got %g", ErrMalformedParam, b)
			}
			if b < 0 || int(b) >= n {
				return fmt.Errorf("%w: bypass %d out of range for arity %d", ErrMalformedParam, int(b), n)
			}
			return nil
		},
		build: func(n int, p map[string]float64, _ *rand.Rand) Model {
			return NewInterGate(n, int(p["bypass"]))
		},
	},
	KindThreshold: {
		params: []string{"thres"},
		build: func(n int, p map[string]float64, _ *rand.Rand) Model {
			return NewThreshold(n, p["thres"])
		},
	},
}

// ParamNames returns the parameters a kind requires, or nil for an unknown kind.
func ParamNames(k Kind) []string {
	f, ok := factories[k]
	if !ok {
		return nil
	}
	names := make([]string, len(f.params))
	copy(names, f.params)
	return names
}

// New validates params against kind k and constructs a model of arity n with
// zero weights. Every parameter the kind takes must be present and finite;
// extra keys are rejected. rng seeds stateful kinds and may be nil.
func New(k Kind, n int, params map[string]float64, rng *rand.Rand) (Model, error) {
	f, ok := factories[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative arity %d", ErrArity, n)
	}

	var errs []error
	required := make(map[string]bool, len(f.params))
	for _, name := range f.params {
		required[name] = true
		v, ok := params[name]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: %q", ErrMissingParam, name))
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, fmt.Errorf("%w: %s is %g", ErrMalformedParam, name, v))
		}
	}

	extra := make([]string, 0)
	for name := range params {
		if !required[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		errs = append(errs, fmt.Errorf("%w: %q for %s", ErrUnknownParam, name, k))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if f.check != nil {
		if err := f.check(n, params); err != nil {
			return nil, err
		}
	}
	return f.build(n, params, rng), nil
}
