// Package eval reads relevance judgments and run files and scores rankings against them.
package eval

import (
	"github.com/hscells/docexp"
	"github.com/hscells/trecresults"
)

// Evaluator is an interface for evaluating a retrieved list of documents.
type Evaluator interface {
	Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64
	Name() string
}

// Evaluate scores every query of a batch using the supplied evaluation measurements. Queries without judgments are
// scored against an empty set of judgments.
func Evaluate(evaluators []Evaluator, batch *docexp.SearchHitsBatch, qrels *Qrels) map[string]map[string]float64 {
	scores := make(map[string]map[string]float64)
	for _, query := range batch.Queries() {
		results := ResultList(query, batch.Hits(query))
		scores[query] = make(map[string]float64)
		for _, evaluator := range evaluators {
			scores[query][evaluator.Name()] = evaluator.Score(&results, qrels.Topic(query))
		}
	}
	return scores
}

// Mean averages the score of one measurement over every query.
func Mean(scores map[string]map[string]float64, name string) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s[name]
	}
	return sum / float64(len(scores))
}

// ResultList converts ranked search hits into a trec result list.
func ResultList(topic string, hits docexp.SearchHits) trecresults.ResultList {
	results := make(trecresults.ResultList, len(hits))
	for i, hit := range hits {
		results[i] = &trecresults.Result{
			Topic:     topic,
			Iteration: "Q0",
			DocId:     hit.Docno,
			Rank:      int64(i + 1),
			Score:     hit.Score,
			RunName:   "docexp",
		}
	}
	return results
}
