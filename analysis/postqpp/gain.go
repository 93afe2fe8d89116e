// Package postqpp implements post-retrieval query performance predictors.
package postqpp

import (
	"math"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/scoring"
	"github.com/hscells/docexp/stats"
)

const (
	// DefaultK is the number of top ranked documents the predictors consider.
	DefaultK = 5
	// DefaultDepth is the number of documents retrieved; the lowest ranked score approximates the collection score.
	DefaultDepth = 1000
)

// WeightedInformationGain (WIG) is the mean difference between the scores of the top K documents and the score of
// the collection, normalised by the square root of the query length.
type WeightedInformationGain struct {
	K     int
	Depth int
}

// WeightedExpansionGain (WEG) replaces the collection score of WIG with the mean score of the lowest ranked K
// documents.
type WeightedExpansionGain struct {
	K     int
	Depth int
}

// WIG is WeightedInformationGain with the default parameters.
var WIG = WeightedInformationGain{K: DefaultK, Depth: DefaultDepth}

func parameters(k, depth int) (int, int) {
	if k <= 0 {
		k = DefaultK
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	return k, depth
}

func gain(q *docexp.Query, results docexp.SearchHits, k int, D float64) float64 {
	queryLength := float64(q.Vector.FeatureCount())
	if queryLength == 0 {
		return 0
	}
	if len(results) < k {
		k = len(results)
	}
	var totalScore float64
	for _, result := range results[:k] {
		totalScore += (1.0 / math.Sqrt(queryLength)) * (result.Score - D)
	}
	return (1.0 / float64(k)) * totalScore
}

func (wig WeightedInformationGain) Name() string {
	return "wig"
}

func (wig WeightedInformationGain) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	k, depth := parameters(wig.K, wig.Depth)
	results, err := s.Execute(q, depth)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 || q.Vector == nil {
		return 0, nil
	}
	return gain(q, results, k, results[len(results)-1].Score), nil
}

func (weg WeightedExpansionGain) Name() string {
	return "weg"
}

func (weg WeightedExpansionGain) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	k, depth := parameters(weg.K, weg.Depth)
	results, err := s.Execute(q, depth)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 || q.Vector == nil {
		return 0, nil
	}
	tail := results
	if len(tail) > k {
		tail = tail[len(tail)-k:]
	}
	var D float64
	for _, result := range tail {
		D += result.Score
	}
	return gain(q, results, k, D/float64(len(tail))), nil
}

// ScoredInformationGain is a form of WIG that scores query terms in each hit with a document scorer rather than using
// retrieval scores: the mean over hits of the sum over query terms of log10(p(t|d)/p_c(t)), divided by the square
// root of the query length. Terms a document scorer gives no probability are skipped.
func ScoredInformationGain(q *docexp.Query, s stats.CollectionStatistics, scorer scoring.DocScorer, hits docexp.SearchHits) (float64, error) {
	if len(hits) == 0 || q.Vector == nil || q.Vector.Length() == 0 {
		return 0, nil
	}
	lambda := 1 / math.Sqrt(q.Vector.Length())
	var wig float64
	for _, hit := range hits {
		for _, term := range q.Terms() {
			pd, err := scorer.ScoreTerm(term, hit)
			if err != nil {
				return 0, err
			}
			pc, err := stats.CollectionProbability(s, term)
			if err != nil {
				return 0, err
			}
			if pd <= 0 || pc <= 0 {
				continue
			}
			wig += lambda * math.Log10(pd/pc)
		}
	}
	return wig / float64(len(hits)), nil
}
