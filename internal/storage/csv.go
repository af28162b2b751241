package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/cpgsim/internal/sim"
)

// TimeColumn heads the first column of every probe table.
const TimeColumn = "time[s]"

var ErrSinkClosed = errors.New("storage: sink closed")

// CSVSink writes probe rows as comma-separated text. Values use fixed
// notation with six decimals.
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
	row    []string
	closed bool
}

// NewCSVSink writes to w. Closing the sink flushes w but does not close it.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// CreateCSV creates (or truncates) path and returns a sink that owns the file.
func CreateCSV(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create probe file: %w", err)
	}
	s := NewCSVSink(f)
	s.closer = f
	return s, nil
}

func (s *CSVSink) WriteHeader(columns []string) error {
	if s.closed {
		return ErrSinkClosed
	}
	header := make([]string, 0, len(columns)+1)
	header = append(header, TimeColumn)
	header = append(header, columns...)
	s.row = make([]string, len(header))
	return s.w.Write(header)
}

func (s *CSVSink) WriteRow(t float64, values []float64) error {
	if s.closed {
		return ErrSinkClosed
	}
	if len(s.row) != len(values)+1 {
		s.row = make([]string, len(values)+1)
	}
	s.row[0] = formatFloat(t)
	for i, v := range values {
		s.row[i+1] = formatFloat(v)
	}
	return s.w.Write(s.row)
}

// Close flushes buffered rows. It is safe to call more than once.
func (s *CSVSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

type tee []sim.Sink

// Tee fans rows out to every sink. Close closes all of them and joins the
// errors.
func Tee(sinks ...sim.Sink) sim.Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (t tee) WriteHeader(columns []string) error {
	for _, s := range t {
		if err := s.WriteHeader(columns); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) WriteRow(ts float64, values []float64) error {
	for _, s := range t {
		if err := s.WriteRow(ts, values); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) Close() error {
	var errs []error
	for _, s := range t {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Probes is a probe table read back from CSV.
type Probes struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Channel returns the series for one column, or nil when absent.
func (p *Probes) Channel(name string) []float64 {
	for i, c := range p.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(p.Rows))
		for j, row := range p.Rows {
			if i < len(row) {
				out[j] = row[i]
			}
		}
		return out
	}
	return nil
}

// ReadCSV parses a table written by CSVSink. Malformed rows are rejected with
// their line number.
func ReadCSV(r io.Reader) (*Probes, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read probe table: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("read probe table: missing header")
	}

	header := records[0]
	if len(header) == 0 || header[0] != TimeColumn {
		return nil, fmt.Errorf("read probe table: first column must be %q", TimeColumn)
	}

	p := &Probes{
		Columns: append([]string(nil), header[1:]...),
		Times:   make([]float64, 0, len(records)-1),
		Rows:    make([][]float64, 0, len(records)-1),
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != len(header) {
			return nil, fmt.Errorf("read probe table: line %d: got %d fields, want %d", i+1, len(record), len(header))
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("read probe table: line %d: %w", i+1, err)
		}

		row := make([]float64, len(record)-1)
		for j := 1; j < len(record); j++ {
			row[j-1], err = strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("read probe table: line %d: %w", i+1, err)
			}
		}
		p.Times = append(p.Times, t)
		p.Rows = append(p.Rows, row)
	}

	return p, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) (*Probes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
