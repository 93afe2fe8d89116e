package preqpp

import (
	"math"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type avgSCQ struct{}
type maxSCQ struct{}
type sumSCQ struct{}

var (
	// AvgSCQ is the mean collection query similarity of the query terms.
	AvgSCQ = avgSCQ{}
	// MaxSCQ is the largest collection query similarity of the query terms.
	MaxSCQ = maxSCQ{}
	// SumSCQ (SCQS) is the summed collection query similarity of the query terms.
	SumSCQ = sumSCQ{}
)

// SCQ combines the collection term frequency and the inverse document frequency of each query term,
// (1+ln ctf(t))*idf(t). A term that never occurs scores 0.
func SCQ(q *docexp.Query, s stats.CollectionStatistics) ([]float64, error) {
	terms := q.Terms()
	scq := make([]float64, len(terms))
	for i, term := range terms {
		ctf, err := s.TotalTermFrequency(term)
		if err != nil {
			return nil, err
		}
		if ctf == 0 {
			continue
		}
		idf, err := IDF(s, term)
		if err != nil {
			return nil, err
		}
		scq[i] = (1 + math.Log(ctf)) * idf
	}
	return scq, nil
}

func (avgSCQ) Name() string {
	return "avgSCQ"
}

func (avgSCQ) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	scq, err := SCQ(q, s)
	if err != nil || len(scq) == 0 {
		return 0, err
	}
	return stat.Mean(scq, nil), nil
}

func (maxSCQ) Name() string {
	return "maxSCQ"
}

func (maxSCQ) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	scq, err := SCQ(q, s)
	if err != nil || len(scq) == 0 {
		return 0, err
	}
	return floats.Max(scq), nil
}

func (sumSCQ) Name() string {
	return "sumSCQ"
}

func (sumSCQ) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	scq, err := SCQ(q, s)
	if err != nil {
		return 0, err
	}
	return floats.Sum(scq), nil
}
