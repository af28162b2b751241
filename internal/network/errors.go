package network

import (
	"errors"
	"fmt"
)

// Build-time validation errors. Problems with a record's type or parameters
// wrap the sentinels from the neuron package instead.
var (
	// ErrEmptyName indicates a record without a name.
	ErrEmptyName = errors.New("network: empty neuron name")

	// ErrReservedName indicates a neuron named after the ground sentinel.
	ErrReservedName = errors.New("network: reserved neuron name")

	// ErrDuplicateName indicates two records with the same name.
	ErrDuplicateName = errors.New("network: duplicate neuron name")

	// ErrWeightCount indicates a weight vector whose length differs from N.
	ErrWeightCount = errors.New("network: weight count does not match arity")

	// ErrConnectionCount indicates a connection list whose length differs from N.
	ErrConnectionCount = errors.New("network: connection count does not match arity")

	// ErrDanglingConnection indicates a connection to a name that is neither a
	// neuron nor ground.
	ErrDanglingConnection = errors.New("network: connection to unknown neuron")
)

// ConfigError ties a build failure to the record and field that caused it.
type ConfigError struct {
	Neuron string
	Field  string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("neuron %q: %v", e.Neuron, e.Err)
	}
	return fmt.Sprintf("neuron %q: %s: %v", e.Neuron, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
