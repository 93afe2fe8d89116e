package postqpp

import (
	"math"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/eval"
	"github.com/hscells/docexp/stats"
)

// QueryExpansionCollectionLikelihood is the log likelihood of a query under the collection model of an expansion
// index, with query weights normalised to sum to one. Terms the expansion collection has never seen are skipped.
func QueryExpansionCollectionLikelihood(q *docexp.Query, expansion stats.CollectionStatistics) (float64, error) {
	if q.Vector == nil || q.Vector.Length() == 0 {
		return 0, nil
	}
	var ll float64
	for _, term := range q.Terms() {
		ctf, err := expansion.TotalTermFrequency(term)
		if err != nil {
			return 0, err
		}
		if ctf == 0 {
			continue
		}
		p, err := stats.CollectionProbability(expansion, term)
		if err != nil {
			return 0, err
		}
		ll += q.Vector.Weight(term) / q.Vector.Length() * math.Log(p)
	}
	return ll, nil
}

// PseudoAveragePrecision is the average precision of a ranking when the given documents are taken to be the relevant
// ones.
func PseudoAveragePrecision(q *docexp.Query, hits docexp.SearchHits, pseudoRelevant []string) float64 {
	results := eval.ResultList(q.Title, hits)
	return eval.AP.Score(&results, eval.PseudoQrels(q.Title, pseudoRelevant))
}

type avgLogIDF struct{}

// AvgLogIDF is the mean of log10(N/df) over the query terms that occur in the collection.
var AvgLogIDF = avgLogIDF{}

func (avgLogIDF) Name() string {
	return "avg_idf"
}

func (avgLogIDF) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	N, err := s.DocCount()
	if err != nil {
		return 0, err
	}
	var sum, n float64
	for _, term := range q.Terms() {
		df, err := s.DocumentFrequency(term)
		if err != nil {
			return 0, err
		}
		if df == 0 {
			continue
		}
		sum += math.Log10(N / df)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}
