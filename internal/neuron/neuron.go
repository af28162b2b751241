package neuron

import (
	"fmt"
	"strconv"
	"strings"
)

// Model is a single update rule with fixed arity.
//
// SetSynapseInputs expects exactly Arity values; the network checks wiring
// length once at build time and the models do not re-check it per call.
type Model interface {
	Kind() Kind
	Arity() int
	SetWeights(w []float64) error
	SetSynapseInputs(s []float64)
	Step(dt float64) float64
	Weights() []float64
	Params() map[string]float64
}

// Kind tags an update rule. The numeric values match the codes used by the
// legacy JSON network files.
type Kind int

const (
	KindConstSum Kind = iota + 1
	KindMatsuoka
	KindSigmoid
	KindTimer
	KindInterGate
	KindThreshold
)

var kindNames = map[Kind]string{
	KindConstSum:  "ConstSum",
	KindMatsuoka:  "MatsuokaOscillator",
	KindSigmoid:   "Sigmoid",
	KindTimer:     "Timer",
	KindInterGate: "InterGate",
	KindThreshold: "Threshold",
}

var kindAliases = map[string]Kind{
	"constsum":           KindConstSum,
	"const":              KindConstSum,
	"matsuokaoscillator": KindMatsuoka,
	"matsuoka":           KindMatsuoka,
	"sigmoid":            KindSigmoid,
	"timer":              KindTimer,
	"intergate":          KindInterGate,
	"inter":              KindInterGate,
	"threshold":          KindThreshold,
	"thres":              KindThreshold,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind accepts a canonical kind name, a short alias (case-insensitive)
// or a legacy numeric code.
func ParseKind(s string) (Kind, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	if k, ok := kindAliases[tag]; ok {
		return k, nil
	}
	if code, err := strconv.Atoi(tag); err == nil && Kind(code).Valid() {
		return Kind(code), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds lists every update rule in code order.
func Kinds() []Kind {
	return []Kind{KindConstSum, KindMatsuoka, KindSigmoid, KindTimer, KindInterGate, KindThreshold}
}
