package preqpp

import (
	"math"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TermVarDepth is the number of documents retrieved for each query term.
const TermVarDepth = 1000

type avgTermVar struct{}
type maxTermVar struct{}

var (
	// AvgTermVar is the mean term variance of the query terms.
	AvgTermVar = avgTermVar{}
	// MaxTermVar is the largest term variance of the query terms.
	MaxTermVar = maxTermVar{}
)

// TermVar retrieves documents for each query term on its own and computes the population variance of their scores,
// exponentiated back from log space. A term that retrieves nothing has a variance of 0.
func TermVar(q *docexp.Query, s stats.StatisticsSource) ([]float64, error) {
	terms := q.Terms()
	variances := make([]float64, len(terms))
	for i, term := range terms {
		hits, err := s.Execute(stats.TermQuery(term), TermVarDepth)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			continue
		}
		scores := make([]float64, len(hits))
		for j, hit := range hits {
			scores[j] = math.Exp(hit.Score)
		}
		n := float64(len(scores))
		variances[i] = stat.Variance(scores, nil) * (n - 1) / n
		if math.IsNaN(variances[i]) {
			variances[i] = 0
		}
	}
	return variances, nil
}

func (avgTermVar) Name() string {
	return "avgTermVar"
}

func (avgTermVar) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	v, err := TermVar(q, s)
	if err != nil || len(v) == 0 {
		return 0, err
	}
	return stat.Mean(v, nil), nil
}

func (maxTermVar) Name() string {
	return "maxTermVar"
}

func (maxTermVar) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	v, err := TermVar(q, s)
	if err != nil || len(v) == 0 {
		return 0, err
	}
	return floats.Max(v), nil
}
