// Package output writes feature rows, evaluation summaries and runs.
package output

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// Row is one line of output: identifying fields followed by numeric values.
type Row struct {
	Fields []string
	Values []float64
}

// NewRow creates a row.
func NewRow(fields []string, values ...float64) Row {
	return Row{Fields: fields, Values: values}
}

// Record formats a row as a list of strings.
func (r Row) Record() []string {
	record := make([]string, 0, len(r.Fields)+len(r.Values))
	record = append(record, r.Fields...)
	for _, v := range r.Values {
		record = append(record, FormatValue(v))
	}
	return record
}

// FeatureWriter is a destination for feature rows.
type FeatureWriter interface {
	WriteHeader(header []string) error
	Write(row Row) error
	Close() error
}

// CSVWriter writes rows as comma separated values.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a writer of comma separated values. Closing it flushes w but does not close it.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the column names. Nothing is written for an empty header.
func (c *CSVWriter) WriteHeader(header []string) error {
	if len(header) == 0 {
		return nil
	}
	return errors.Wrap(c.w.Write(header), "writing header")
}

// Write writes one row.
func (c *CSVWriter) Write(row Row) error {
	if err := c.w.Write(row.Record()); err != nil {
		return errors.Wrap(err, "writing row")
	}
	// Rows are flushed as they are written so long runs can be followed.
	c.w.Flush()
	return c.w.Error()
}

// Close flushes any buffered rows.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	return c.w.Error()
}

type multiWriter []FeatureWriter

// MultiWriter duplicates rows to every writer.
func MultiWriter(writers ...FeatureWriter) FeatureWriter {
	return multiWriter(writers)
}

func (m multiWriter) WriteHeader(header []string) error {
	for _, w := range m {
		if err := w.WriteHeader(header); err != nil {
			return err
		}
	}
	return nil
}

func (m multiWriter) Write(row Row) error {
	for _, w := range m {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (m multiWriter) Close() error {
	var first error
	for _, w := range m {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// FeatureWriters creates the writers a driver emits rows to: comma separated values on w, and also a SQLite table
// when a database path is given.
func FeatureWriters(w io.Writer, database, table string) (FeatureWriter, error) {
	c := NewCSVWriter(w)
	if len(database) == 0 {
		return c, nil
	}
	s, err := OpenSQLiteWriter(database, table)
	if err != nil {
		return nil, err
	}
	return MultiWriter(c, s), nil
}
