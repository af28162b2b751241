package sim

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidDt indicates a non-positive or non-finite timestep.
	ErrInvalidDt = errors.New("sim: dt must be positive")

	// ErrInvalidPacing indicates a negative or non-finite pacing ratio.
	ErrInvalidPacing = errors.New("sim: pacing ratio must be non-negative")

	// ErrInvalidState indicates a probe channel read NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid probe value (NaN or Inf detected)")
)

// Network is the stepping surface the driver needs from a graph.
type Network interface {
	Step(dt float64)
	Probe(name string) float64
	Has(name string) bool
}

// Sink receives one header and then one row per step. The driver closes it
// when Run returns.
type Sink interface {
	WriteHeader(columns []string) error
	WriteRow(t float64, values []float64) error
	Close() error
}

// Metric accumulates a scalar summary over the channel rows of a run.
type Metric interface {
	Name() string
	Observe(t float64, values []float64)
	Value() float64
	Reset()
}

// Observer is notified after every step. values is reused between calls.
type Observer interface {
	OnStep(t float64, values []float64)
}

// Config controls a run. PacingRatio is wall seconds per simulated second;
// zero runs as fast as possible. EndTime <= 0 runs until the context is
// cancelled. MaxSteps > 0 caps the run regardless of EndTime.
type Config struct {
	Dt            float64
	PacingRatio   float64
	EndTime       float64
	MaxSteps      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		PacingRatio:   1.0,
		EndTime:       10.0,
		ValidateState: true,
	}
}

// Result summarizes a run. It is returned even when the run stops early.
type Result struct {
	StepsTaken int
	Time       float64
	Elapsed    time.Duration
	Metrics    map[string]float64
}

// SimError ties a runtime failure to the step that produced it.
type SimError struct {
	Step int
	Time float64
	Err  error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *SimError) Unwrap() error {
	return e.Err
}
