package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cpgsim/internal/network"
)

type memorySink struct {
	header []string
	times  []float64
	rows   [][]float64
	closed int
	failAt int
}

func (m *memorySink) WriteHeader(columns []string) error {
	m.header = append([]string(nil), columns...)
	return nil
}

func (m *memorySink) WriteRow(t float64, values []float64) error {
	if m.failAt > 0 && len(m.rows)+1 == m.failAt {
		return errors.New("disk full")
	}
	m.times = append(m.times, t)
	m.rows = append(m.rows, append([]float64(nil), values...))
	return nil
}

func (m *memorySink) Close() error {
	m.closed++
	return nil
}

type stepCounter struct{ n int }

func (s *stepCounter) OnStep(t float64, values []float64) { s.n++ }

type cancelAfter struct {
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) OnStep(t float64, values []float64) {
	c.n--
	if c.n == 0 {
		c.cancel()
	}
}

type sumMetric struct{ sum float64 }

func (m *sumMetric) Name() string                        { return "sum" }
func (m *sumMetric) Observe(t float64, values []float64) { m.sum += values[0] }
func (m *sumMetric) Value() float64                      { return m.sum }
func (m *sumMetric) Reset()                              { m.sum = 0 }

func relay(t *testing.T) *network.Graph {
	t.Helper()
	g, err := network.Build([]network.Record{
		{Name: "A", Type: "ConstSum", N: 1, Params: map[string]float64{"c": 0}, Weights: []float64{1}, Connections: []string{"B"}},
		{Name: "B", Type: "ConstSum", N: 1, Params: map[string]float64{"c": 5}, Weights: []float64{1}, Connections: []string{network.Ground}},
	})
	require.NoError(t, err)
	return g
}

func unpaced(endTime float64) Config {
	return Config{Dt: 0.25, EndTime: endTime, ValidateState: true}
}

func TestRunWritesChannelDifferences(t *testing.T) {
	s, err := New(relay(t), []network.Channel{{Pos: "A", Neg: "B"}, {Pos: "B", Neg: network.Ground}})
	require.NoError(t, err)

	sink := &memorySink{}
	result, err := s.Run(context.Background(), unpaced(1.0), sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"A-B", "B-GND"}, sink.header)
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, sink.times)
	assert.Equal(t, [][]float64{{-5, 5}, {0, 5}, {0, 5}}, sink.rows)
	assert.Equal(t, 3, result.StepsTaken)
	assert.Equal(t, 0.75, result.Time)
	assert.Equal(t, 1, sink.closed)
}

func TestRunUnknownChannel(t *testing.T) {
	_, err := New(relay(t), []network.Channel{{Pos: "A", Neg: "Z"}})
	assert.ErrorIs(t, err, network.ErrUnknownProbe)
}

func TestNewMatchesGraphChannelCheck(t *testing.T) {
	g := relay(t)
	channels := []network.Channel{{Pos: "A", Neg: "Z"}, {Pos: "Y", Neg: network.Ground}, {Pos: "B", Neg: "A"}}

	_, err := New(g, channels)
	require.Error(t, err)
	assert.EqualError(t, err, g.CheckChannels(channels).Error())
}

func TestRunInvalidConfig(t *testing.T) {
	s, err := New(relay(t), nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero dt", Config{Dt: 0, EndTime: 1}, ErrInvalidDt},
		{"negative dt", Config{Dt: -0.1, EndTime: 1}, ErrInvalidDt},
		{"nan dt", Config{Dt: math.NaN(), EndTime: 1}, ErrInvalidDt},
		{"negative pacing", Config{Dt: 0.1, PacingRatio: -1, EndTime: 1}, ErrInvalidPacing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &memorySink{}
			_, err := s.Run(context.Background(), tt.cfg, sink)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 1, sink.closed, "sink closed on validation failure")
		})
	}
}

func TestRunCancellation(t *testing.T) {
	s, err := New(relay(t), []network.Channel{{Pos: "A", Neg: network.Ground}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.AddObserver(&cancelAfter{n: 50, cancel: cancel})

	sink := &memorySink{}
	result, err := s.Run(ctx, unpaced(0), sink)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 50, result.StepsTaken)
	assert.Len(t, sink.rows, 50)
	assert.Equal(t, 1, sink.closed)
}

func TestRunMaxSteps(t *testing.T) {
	s, err := New(relay(t), nil)
	require.NoError(t, err)

	counter := &stepCounter{}
	s.AddObserver(counter)

	cfg := unpaced(0)
	cfg.MaxSteps = 17
	result, err := s.Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 17, result.StepsTaken)
	assert.Equal(t, 17, counter.n)
}

func TestRunPacing(t *testing.T) {
	s, err := New(relay(t), nil)
	require.NoError(t, err)

	cfg := Config{Dt: 0.01, PacingRatio: 1.0, EndTime: 0.055}
	result, err := s.Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, result.StepsTaken)
	assert.GreaterOrEqual(t, result.Elapsed, 40*time.Millisecond)
}

func TestRunMetrics(t *testing.T) {
	s, err := New(relay(t), []network.Channel{{Pos: "A", Neg: network.Ground}})
	require.NoError(t, err)

	m := &sumMetric{}
	s.AddMetric(m)

	result, err := s.Run(context.Background(), unpaced(1.0), nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, result.Metrics["sum"])

	result, err = s.Run(context.Background(), unpaced(1.0), nil)
	require.NoError(t, err)
	assert.Equal(t, 15.0, result.Metrics["sum"], "graph state carries over between runs, metrics reset")
}

func TestRunSinkFailure(t *testing.T) {
	s, err := New(relay(t), []network.Channel{{Pos: "A", Neg: network.Ground}})
	require.NoError(t, err)

	sink := &memorySink{failAt: 2}
	result, err := s.Run(context.Background(), unpaced(1.0), sink)

	var simErr *SimError
	require.ErrorAs(t, err, &simErr)
	assert.Equal(t, 2, simErr.Step)
	assert.Equal(t, 1, result.StepsTaken)
	assert.Equal(t, 1, sink.closed)
}

type nanNet struct{}

func (nanNet) Step(float64)         {}
func (nanNet) Probe(string) float64 { return math.Inf(1) }
func (nanNet) Has(string) bool      { return true }

func TestRunInvalidState(t *testing.T) {
	s, err := New(nanNet{}, []network.Channel{{Pos: "x", Neg: network.Ground}})
	require.NoError(t, err)

	_, err = s.Run(context.Background(), unpaced(1.0), nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStepCount(t *testing.T) {
	tests := []struct {
		end, dt float64
		want    int
	}{
		{1.0, 0.1, 9},
		{10, 0.001, 9999},
		{0.35, 0.1, 3},
		{1.0, 0.25, 3},
		{0.1, 1.0, 0},
		{0, 0.1, -1},
		{-1, 0.1, -1},
	}

	for _, tt := range tests {
		if got := StepCount(tt.end, tt.dt); got != tt.want {
			t.Errorf("StepCount(%v, %v) = %d, want %d", tt.end, tt.dt, got, tt.want)
		}
	}
}

func TestSimError(t *testing.T) {
	err := &SimError{Time: 1.5, Step: 150, Err: ErrInvalidState}
	expected := "step 150 (t=1.5000): sim: invalid probe value (NaN or Inf detected)"
	assert.Equal(t, expected, err.Error())
	assert.ErrorIs(t, err, ErrInvalidState)
}
