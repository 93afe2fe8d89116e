package analysis

import (
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/feedback"
	"github.com/hscells/docexp/scoring"
	"github.com/hscells/docexp/stats"
)

// RMRetrievalDepth is the number of documents retrieved when comparing a query with its relevance model.
const RMRetrievalDepth = 100

// TiePolicy decides the rank improvement of a document whose rank did not change.
type TiePolicy int

const (
	// TieAsWorse reports an unchanged rank as a decline.
	TieAsWorse TiePolicy = iota
	// TieAsZero reports an unchanged rank as no change.
	TieAsZero
)

// RMImprovementQL is the query likelihood of a document under the relevance model minus its likelihood under the
// original query.
func RMImprovementQL(doc *docexp.SearchHit, query *docexp.Query, rm *docexp.TermVector, scorer scoring.QueryScorer) (float64, error) {
	orig, err := scorer.ScoreQuery(query, doc)
	if err != nil {
		return 0, err
	}
	improved, err := scorer.ScoreQuery(feedback.RelevanceModelQuery(query, rm), doc)
	if err != nil {
		return 0, err
	}
	return improved - orig, nil
}

// RMImprovementRank is +1 when the relevance model ranks the document higher than the original query did (including
// when only the relevance model retrieved it) and -1 when it ranks it lower. An unchanged rank is resolved by the
// tie policy.
func RMImprovementRank(doc *docexp.SearchHit, orig, rm docexp.SearchHits, policy TiePolicy) int {
	origRank, rmRank := orig.Rank(doc.Docno), rm.Rank(doc.Docno)
	switch {
	case origRank == rmRank:
		if policy == TieAsZero {
			return 0
		}
		return -1
	case rmRank > 0 && (origRank == 0 || rmRank < origRank):
		return 1
	default:
		return -1
	}
}

// RankChange is the rank of a document in a baseline ranking minus its rank in an expanded ranking. Absent documents
// have rank 0.
func RankChange(doc *docexp.SearchHit, baseline, expanded docexp.SearchHits) int {
	return baseline.Rank(doc.Docno) - expanded.Rank(doc.Docno)
}

func rmRankings(query *docexp.Query, rm *docexp.TermVector, index stats.StatisticsSource) (docexp.SearchHits, docexp.SearchHits, error) {
	orig, err := index.Execute(query, RMRetrievalDepth)
	if err != nil {
		return nil, nil, err
	}
	expanded, err := index.Execute(feedback.RelevanceModelQuery(query, rm), RMRetrievalDepth)
	if err != nil {
		return nil, nil, err
	}
	return orig, expanded, nil
}

// DocumentRMRankChange retrieves the top documents for a query and for its relevance model and reports the rank
// change of the document between the two.
func DocumentRMRankChange(doc *docexp.SearchHit, query *docexp.Query, rm *docexp.TermVector, index stats.StatisticsSource) (float64, error) {
	orig, expanded, err := rmRankings(query, rm, index)
	if err != nil {
		return 0, err
	}
	return float64(RankChange(doc, orig, expanded)), nil
}

// DocumentRMScoreChange is the retrieval score of a document for the relevance model minus its score for the query.
// A document that was not retrieved scores 0.
func DocumentRMScoreChange(doc *docexp.SearchHit, query *docexp.Query, rm *docexp.TermVector, index stats.StatisticsSource) (float64, error) {
	orig, expanded, err := rmRankings(query, rm, index)
	if err != nil {
		return 0, err
	}
	var before, after float64
	if hit := orig.Find(doc.Docno); hit != nil {
		before = hit.Score
	}
	if hit := expanded.Find(doc.Docno); hit != nil {
		after = hit.Score
	}
	return after - before, nil
}
