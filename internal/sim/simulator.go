package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/cpgsim/internal/network"
)

type Simulator struct {
	net       Network
	channels  []network.Channel
	metrics   []Metric
	observers []Observer
	logger    zerolog.Logger
}

type Option func(*Simulator)

// WithLogger sets the logger for run lifecycle events. The default discards.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// New binds a network to the probe channels it will record. Every channel
// electrode must name a neuron or ground.
func New(net Network, channels []network.Channel, opts ...Option) (*Simulator, error) {
	if err := network.CheckChannels(net.Has, channels); err != nil {
		return nil, err
	}

	s := &Simulator{
		net:       net,
		channels:  append([]network.Channel(nil), channels...),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Columns returns the channel names in output order.
func (s *Simulator) Columns() []string {
	cols := make([]string, len(s.channels))
	for i, c := range s.channels {
		cols[i] = c.Name()
	}
	return cols
}

// Run steps the network at cfg.Dt and writes one row per step to sink, at
// times i*dt for i = 1, 2, ... while i*dt < cfg.EndTime. Each step is
// complete before the context is checked, so cancellation always stops on a
// step boundary. Run owns sink and closes it on every return path; a nil sink
// discards rows.
func (s *Simulator) Run(ctx context.Context, cfg Config, sink Sink) (result *Result, err error) {
	if sink == nil {
		sink = Discard()
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close sink: %w", cerr)
		}
	}()

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := sink.WriteHeader(s.Columns()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result = &Result{Metrics: make(map[string]float64)}
	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	limit := StepCount(cfg.EndTime, cfg.Dt)
	if cfg.MaxSteps > 0 && (limit < 0 || cfg.MaxSteps < limit) {
		limit = cfg.MaxSteps
	}

	var tick <-chan time.Time
	if period := pacingPeriod(cfg); period > 0 {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		tick = ticker.C
	}

	s.logger.Info().
		Float64("dt", cfg.Dt).
		Float64("end_time", cfg.EndTime).
		Float64("pacing_ratio", cfg.PacingRatio).
		Int("channels", len(s.channels)).
		Msg("simulation started")

	values := make([]float64, len(s.channels))
	for i := 1; limit < 0 || i <= limit; i++ {
		select {
		case <-ctx.Done():
			s.logger.Info().Int("steps", result.StepsTaken).Msg("simulation cancelled")
			return result, ctx.Err()
		default:
		}

		s.net.Step(cfg.Dt)
		t := float64(i) * cfg.Dt

		for k, c := range s.channels {
			values[k] = s.net.Probe(c.Pos) - s.net.Probe(c.Neg)
		}
		if cfg.ValidateState && !finite(values) {
			return result, &SimError{Step: i, Time: t, Err: ErrInvalidState}
		}
		if err := sink.WriteRow(t, values); err != nil {
			return result, &SimError{Step: i, Time: t, Err: err}
		}

		result.StepsTaken = i
		result.Time = t

		for _, m := range s.metrics {
			m.Observe(t, values)
		}
		for _, obs := range s.observers {
			obs.OnStep(t, values)
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				s.logger.Info().Int("steps", result.StepsTaken).Msg("simulation cancelled")
				return result, ctx.Err()
			case <-tick:
			}
		}
	}

	s.logger.Info().
		Int("steps", result.StepsTaken).
		Float64("time", result.Time).
		Dur("elapsed", time.Since(start)).
		Msg("simulation finished")

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidDt, cfg.Dt)
	}
	if cfg.PacingRatio < 0 || math.IsNaN(cfg.PacingRatio) || math.IsInf(cfg.PacingRatio, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidPacing, cfg.PacingRatio)
	}
	return nil
}

func pacingPeriod(cfg Config) time.Duration {
	return time.Duration(cfg.Dt * cfg.PacingRatio * float64(time.Second))
}

// StepCount returns how many steps i >= 1 satisfy i*dt < endTime, or -1 when
// endTime <= 0 (unbounded). A ratio within rounding of an integer counts as
// that integer.
func StepCount(endTime, dt float64) int {
	if endTime <= 0 {
		return -1
	}
	n := endTime / dt
	r := math.Round(n)
	if math.Abs(n-r) <= 1e-9*math.Max(1, r) {
		return int(r) - 1
	}
	return int(math.Floor(n))
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type discard struct{}

func (discard) WriteHeader([]string) error        { return nil }
func (discard) WriteRow(float64, []float64) error { return nil }
func (discard) Close() error                      { return nil }

// Discard returns a sink that drops every row.
func Discard() Sink { return discard{} }
