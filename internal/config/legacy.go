package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/san-kum/cpgsim/internal/network"
)

// Keys of the legacy JSON layout, where simulation, probe and neuron files
// share one flat namespace and neurons are keyed by name. A neuron cannot be
// named after a setting key, nor "neurons" or "simulation", which mark the
// current layout; see checkReserved.
const (
	legacyDt      = "time"
	legacyRatio   = "simulation time ratio"
	legacyEndTime = "simulation end time"
	legacyFile    = "file"
	legacyProbes  = "probes"
)

func decodeJSON(data []byte, doc *Document) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}
	if err := checkReserved(top); err != nil {
		return err
	}
	if isCurrentLayout(top) {
		return decodeWith(json.Unmarshal, data, doc)
	}
	return decodeLegacy(top, doc)
}

// ErrReservedKey is returned for a legacy neuron whose name collides with a
// layout key.
var ErrReservedKey = errors.New("config: neuron name is a reserved key")

var reservedKeys = []string{legacyDt, legacyRatio, legacyEndTime, legacyFile, legacyProbes, "neurons", "simulation"}

// checkReserved rejects reserved keys holding a neuron object, recognised by
// its "type" field. No setting or section of either layout has one.
func checkReserved(top map[string]json.RawMessage) error {
	for _, key := range reservedKeys {
		raw, ok := top[key]
		if !ok {
			continue
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) != nil {
			continue
		}
		if _, isNeuron := obj["type"]; isNeuron {
			return fmt.Errorf("%w: %q", ErrReservedKey, key)
		}
	}
	return nil
}

func isCurrentLayout(top map[string]json.RawMessage) bool {
	if _, ok := top["neurons"]; ok {
		return true
	}
	if _, ok := top["simulation"]; ok {
		return true
	}
	if raw, ok := top[legacyProbes]; ok {
		var probes struct {
			Channels json.RawMessage `json:"channels"`
		}
		if json.Unmarshal(raw, &probes) == nil && probes.Channels != nil {
			return true
		}
	}
	return false
}

func decodeLegacy(top map[string]json.RawMessage, doc *Document) error {
	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := top[key]
		var err error
		switch key {
		case legacyDt:
			err = json.Unmarshal(raw, &doc.Simulation.Dt)
			doc.markSet("dt")
		case legacyRatio:
			err = decodeLegacyRatio(raw, doc)
			doc.markSet("pacing_ratio")
		case legacyEndTime:
			err = json.Unmarshal(raw, &doc.Simulation.EndTime)
			doc.markSet("end_time")
		case legacyFile:
			err = json.Unmarshal(raw, &doc.Probes.File)
		case legacyProbes:
			err = decodeLegacyProbes(raw, doc)
		default:
			var rec network.Record
			rec, err = decodeLegacyNeuron(key, raw)
			doc.Neurons = append(doc.Neurons, rec)
		}
		if err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
	}
	return nil
}

// decodeLegacyRatio converts the legacy speed factor (simulated seconds per
// wall second) to a pacing ratio. A non-positive factor means unpaced.
func decodeLegacyRatio(raw json.RawMessage, doc *Document) error {
	var speed float64
	if err := json.Unmarshal(raw, &speed); err != nil {
		return err
	}
	if speed <= 0 {
		doc.Simulation.PacingRatio = 0
		return nil
	}
	doc.Simulation.PacingRatio = 1 / speed
	return nil
}

// decodeLegacyProbes reads a {"pos": "neg"} map; channels come out in
// positive-electrode order.
func decodeLegacyProbes(raw json.RawMessage, doc *Document) error {
	var electrodes map[string]string
	if err := json.Unmarshal(raw, &electrodes); err != nil {
		return err
	}
	pos := make([]string, 0, len(electrodes))
	for p := range electrodes {
		pos = append(pos, p)
	}
	sort.Strings(pos)
	for _, p := range pos {
		doc.Probes.Channels = append(doc.Probes.Channels, network.Channel{Pos: p, Neg: electrodes[p]})
	}
	return nil
}

// decodeLegacyNeuron reads {"type": 2, "N": 1, "s": 1, ..., "weights": [...],
// "connection": [...]}. Every other numeric field is a parameter.
func decodeLegacyNeuron(name string, raw json.RawMessage) (network.Record, error) {
	rec := network.Record{Name: name}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return rec, err
	}

	for key, val := range fields {
		var err error
		switch key {
		case "type":
			rec.Type, err = legacyType(val)
		case "N", "n":
			err = json.Unmarshal(val, &rec.N)
		case "weights":
			err = json.Unmarshal(val, &rec.Weights)
		case "connection", "connections":
			err = json.Unmarshal(val, &rec.Connections)
		default:
			var v float64
			if err = json.Unmarshal(val, &v); err == nil {
				if rec.Params == nil {
					rec.Params = make(map[string]float64)
				}
				rec.Params[key] = v
			}
		}
		if err != nil {
			return rec, fmt.Errorf("field %q: %w", key, err)
		}
	}
	return rec, nil
}

// legacyType accepts the numeric type code or a type name.
func legacyType(raw json.RawMessage) (string, error) {
	var code int
	if err := json.Unmarshal(raw, &code); err == nil {
		return strconv.Itoa(code), nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", err
	}
	return name, nil
}
