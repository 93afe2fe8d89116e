// Package preqpp implements pre-retrieval query performance predictors over collection statistics.
package preqpp

import (
	"math"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type avgIDF struct{}
type sumIDF struct{}
type maxIDF struct{}
type stdDevIDF struct{}

var (
	// AvgIDF is the mean idf of the query terms.
	AvgIDF = avgIDF{}
	// SumIDF is the summed idf of the query terms.
	SumIDF = sumIDF{}
	// MaxIDF is the largest idf of the query terms.
	MaxIDF = maxIDF{}
	// StdDevIDF is the standard deviation of the idf of the query terms.
	StdDevIDF = stdDevIDF{}
)

// IDF is the BM25 inverse document frequency ln((N-df+0.5)/(df+0.5)). It is negative for terms in more than half of
// the collection.
func IDF(s stats.CollectionStatistics, term string) (float64, error) {
	N, err := s.DocCount()
	if err != nil {
		return 0, err
	}
	df, err := s.DocumentFrequency(term)
	if err != nil {
		return 0, err
	}
	return math.Log((N - df + 0.5) / (df + 0.5)), nil
}

// IDFs is the idf of every query term, in term order.
func IDFs(q *docexp.Query, s stats.CollectionStatistics) ([]float64, error) {
	terms := q.Terms()
	idfs := make([]float64, len(terms))
	for i, term := range terms {
		idf, err := IDF(s, term)
		if err != nil {
			return nil, err
		}
		idfs[i] = idf
	}
	return idfs, nil
}

func (avgIDF) Name() string {
	return "avgIDF"
}

func (avgIDF) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	idfs, err := IDFs(q, s)
	if err != nil || len(idfs) == 0 {
		return 0, err
	}
	return stat.Mean(idfs, nil), nil
}

func (sumIDF) Name() string {
	return "sumIDF"
}

func (sumIDF) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	idfs, err := IDFs(q, s)
	if err != nil {
		return 0, err
	}
	return floats.Sum(idfs), nil
}

func (maxIDF) Name() string {
	return "maxIDF"
}

func (maxIDF) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	idfs, err := IDFs(q, s)
	if err != nil || len(idfs) == 0 {
		return 0, err
	}
	return floats.Max(idfs), nil
}

func (stdDevIDF) Name() string {
	return "stdDevIDF"
}

func (stdDevIDF) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	idfs, err := IDFs(q, s)
	if err != nil || len(idfs) < 2 {
		return 0, err
	}
	return stat.StdDev(idfs, nil), nil
}
