// Package stats provides implementations of statistic sources.
package stats

import (
	"github.com/hscells/docexp"
)

// CollectionStatistics represents the collection-wide counts used for smoothing and term weighting.
type CollectionStatistics interface {
	// DocCount is the number of documents in the collection.
	DocCount() (float64, error)
	// DocumentFrequency is the number of documents containing term.
	DocumentFrequency(term string) (float64, error)
	// TotalTermFrequency is the number of occurrences of term in the collection.
	TotalTermFrequency(term string) (float64, error)
	// TermCount is the total number of term occurrences in the collection.
	TermCount() (float64, error)
}

// StatisticsSource represents an index that statistics can be computed for and that queries can be issued to.
type StatisticsSource interface {
	CollectionStatistics
	docexp.VectorSource
	// Execute retrieves the top k documents for the query.
	Execute(query *docexp.Query, k int) (docexp.SearchHits, error)
}

// LinearScorer is implemented by sources whose retrieval scores are not log-likelihoods, such as BM25.
type LinearScorer interface {
	LinearScores() bool
}

// ScoreWeights turns the scores of hits produced by s, an index or anything else handing out scored hits, into
// weights that sum to one. Log-likelihood scores are exponentiated into posteriors; scores of a LinearScorer are
// divided by their sum.
func ScoreWeights(s interface{}, hits docexp.SearchHits) []float64 {
	if l, ok := s.(LinearScorer); ok && l.LinearScores() {
		return hits.NormalizedScores()
	}
	return hits.Posteriors()
}

// CollectionProbability is the add-one smoothed probability of term in the collection.
func CollectionProbability(s CollectionStatistics, term string) (float64, error) {
	ctf, err := s.TotalTermFrequency(term)
	if err != nil {
		return 0, err
	}
	n, err := s.TermCount()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return (ctf + 1) / n, nil
}

// TermQuery creates a single term query with a weight of one.
func TermQuery(term string) *docexp.Query {
	v := docexp.NewTermVector()
	v.Add(term, 1)
	return docexp.NewQuery(term, v)
}
