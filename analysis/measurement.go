// Package analysis provides features describing documents, their expansions and the language models estimated from
// them.
package analysis

import (
	"sync"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
)

// Measurement is a representation for how a query measurement fits into a feature set.
type Measurement interface {
	// Name is the name of the measurement in the output. It should not contain any spaces.
	Name() string
	// Execute computes the implemented measurement for a query using the specified statistics.
	Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error)
}

// DocumentMeasurement computes a feature of a single (document, query) sample.
type DocumentMeasurement interface {
	Name() string
	Measure(s *Sample) (float64, error)
}

// Sample is a document judged for a query, together with the index it was retrieved from. Vectors derived from the
// sample are computed once and shared by every measurement of the sample.
type Sample struct {
	Doc     *docexp.SearchHit
	Query   *docexp.Query
	Index   stats.StatisticsSource
	Stopper *docexp.Stopper

	mu   sync.Mutex
	memo map[string]*docexp.TermVector
}

// NewSample creates a sample for a document and the query it was judged for.
func NewSample(doc *docexp.SearchHit, query *docexp.Query, index stats.StatisticsSource, stopper *docexp.Stopper) *Sample {
	return &Sample{
		Doc:     doc,
		Query:   query,
		Index:   index,
		Stopper: stopper,
		memo:    make(map[string]*docexp.TermVector),
	}
}

// Vector returns the vector stored under name, building it on first use. The returned vector is shared and must not
// be mutated. build may itself use other vectors of the sample.
func (s *Sample) Vector(name string, build func() (*docexp.TermVector, error)) (*docexp.TermVector, error) {
	s.mu.Lock()
	v, ok := s.memo[name]
	s.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err := build()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.memo[name]; ok {
		return prev, nil
	}
	s.memo[name] = v
	return v, nil
}

// DocumentVector is the stopped term vector of the document.
func (s *Sample) DocumentVector() (*docexp.TermVector, error) {
	return s.Vector("document", func() (*docexp.TermVector, error) {
		v, err := s.Doc.TermVector()
		if err != nil {
			return nil, err
		}
		v = v.Copy()
		v.ApplyStopper(s.Stopper)
		return v, nil
	})
}

type documentMeasurement struct {
	name    string
	measure func(s *Sample) (float64, error)
}

func (d documentMeasurement) Name() string {
	return d.name
}

func (d documentMeasurement) Measure(s *Sample) (float64, error) {
	return d.measure(s)
}

// NewDocumentMeasurement names a function of a sample.
func NewDocumentMeasurement(name string, measure func(s *Sample) (float64, error)) DocumentMeasurement {
	return documentMeasurement{name: name, measure: measure}
}

// DocumentQueryMeasurement applies a query measurement to the document's own stopped vector, as if the document were
// the query.
func DocumentQueryMeasurement(m Measurement) DocumentMeasurement {
	return NewDocumentMeasurement(m.Name(), func(s *Sample) (float64, error) {
		v, err := s.DocumentVector()
		if err != nil {
			return 0, err
		}
		return m.Execute(docexp.NewQuery(s.Doc.Docno, v.Copy()), s.Index)
	})
}

// DerivedQueryMeasurement applies a query measurement to a query derived from the sample, such as a pseudo-query.
func DerivedQueryMeasurement(m Measurement, derive func(s *Sample) (*docexp.Query, error)) DocumentMeasurement {
	return NewDocumentMeasurement(m.Name(), func(s *Sample) (float64, error) {
		q, err := derive(s)
		if err != nil {
			return 0, err
		}
		return m.Execute(q, s.Index)
	})
}

// Names lists the names of the measurements, in order.
func Names(measurements []DocumentMeasurement) []string {
	names := make([]string, len(measurements))
	for i, m := range measurements {
		names[i] = m.Name()
	}
	return names
}

// MeasureAll computes every measurement of a sample, in order.
func MeasureAll(s *Sample, measurements []DocumentMeasurement) ([]float64, error) {
	values := make([]float64, len(measurements))
	for i, m := range measurements {
		v, err := m.Measure(s)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
