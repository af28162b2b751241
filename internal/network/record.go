package network

import "gopkg.in/yaml.v3"

// Ground is the connection name of the constant-zero source.
const Ground = "GND"

// Record declares one neuron. Connections[i] feeds the input weighted by
// Weights[i]; a nil Weights leaves every weight at zero. The arity key is
// written n but N is accepted too; JSON and TOML match keys case-insensitively.
type Record struct {
	Name        string             `yaml:"name" json:"name" toml:"name"`
	Type        string             `yaml:"type" json:"type" toml:"type"`
	N           int                `yaml:"n" json:"n" toml:"n"`
	Params      map[string]float64 `yaml:"params,omitempty" json:"params,omitempty" toml:"params,omitempty"`
	Weights     []float64          `yaml:"weights,omitempty" json:"weights,omitempty" toml:"weights,omitempty"`
	Connections []string           `yaml:"connections" json:"connections" toml:"connections"`
}

func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	type plain Record
	var aux struct {
		Plain plain `yaml:",inline"`
		Upper *int  `yaml:"N"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*r = Record(aux.Plain)
	if aux.Upper != nil {
		r.N = *aux.Upper
	}
	return nil
}
