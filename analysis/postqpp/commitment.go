package postqpp

import (
	"math"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
	"gonum.org/v1/gonum/stat"
)

// NormalisedQueryCommitment (NQC) is the standard deviation of the scores of the top K documents divided by the
// magnitude of the collection score, approximated by the lowest retrieved score.
type NormalisedQueryCommitment struct {
	K     int
	Depth int
}

// NQC is NormalisedQueryCommitment with the default parameters.
var NQC = NormalisedQueryCommitment{K: DefaultK, Depth: DefaultDepth}

func (NormalisedQueryCommitment) Name() string {
	return "nqc"
}

func (nqc NormalisedQueryCommitment) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	k, depth := parameters(nqc.K, nqc.Depth)
	results, err := s.Execute(q, depth)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}

	// Handle the case that the query retrieves less than k documents.
	if len(results) < k {
		k = len(results)
	}
	D := math.Abs(results[len(results)-1].Score)
	if D == 0 {
		return 0, nil
	}

	scores := make([]float64, k)
	for i, result := range results[:k] {
		scores[i] = result.Score
	}
	n := float64(k)
	if n < 2 {
		return 0, nil
	}
	return math.Sqrt(stat.Variance(scores, nil)*(n-1)/n) / D, nil
}
