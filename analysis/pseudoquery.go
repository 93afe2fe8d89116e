package analysis

import (
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
)

// SelfRetrievalDepth is the number of documents retrieved when a document is used as a query against its own index.
const SelfRetrievalDepth = 1000

// ProbabilityFraction is the share of the weight of a pseudo-query that falls on terms of the document.
func ProbabilityFraction(pseudoQuery *docexp.Query, doc *docexp.TermVector) float64 {
	pq := pseudoQuery.Vector
	if pq == nil || pq.Length() == 0 {
		return 0
	}
	var w float64
	for _, term := range pq.Terms() {
		if doc.Contains(term) {
			w += pq.Weight(term)
		}
	}
	return w / pq.Length()
}

func selfRetrieval(doc *docexp.SearchHit, documentQuery *docexp.Query, index stats.StatisticsSource) (*docexp.SearchHit, int, error) {
	hits, err := index.Execute(documentQuery, SelfRetrievalDepth)
	if err != nil {
		return nil, 0, err
	}
	return hits.Find(doc.Docno), hits.Rank(doc.Docno), nil
}

// DocumentSelfRetrievalRank is the rank of a document when its own query is issued to the index, 0 when it is not
// in the top SelfRetrievalDepth.
func DocumentSelfRetrievalRank(doc *docexp.SearchHit, documentQuery *docexp.Query, index stats.StatisticsSource) (float64, error) {
	_, rank, err := selfRetrieval(doc, documentQuery, index)
	return float64(rank), err
}

// DocumentSelfRetrievalScore is the retrieval score of a document for its own query, 0 when it is not retrieved.
func DocumentSelfRetrievalScore(doc *docexp.SearchHit, documentQuery *docexp.Query, index stats.StatisticsSource) (float64, error) {
	hit, _, err := selfRetrieval(doc, documentQuery, index)
	if err != nil || hit == nil {
		return 0, err
	}
	return hit.Score, nil
}
