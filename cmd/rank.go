package cmd

import (
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/config"
	"github.com/hscells/docexp/eval"
)

// LoadRun reads the run named by a config key, fetching document vectors from src.
func LoadRun(c *config.Config, key string, src docexp.VectorSource) (*docexp.SearchHitsBatch, error) {
	path, err := c.Require(key)
	if err != nil {
		return nil, err
	}
	return eval.LoadRun(path, src)
}

// JudgedRetrieved lists the documents of a query that appear in both rankings and in the judgment pool, in baseline
// order.
func JudgedRetrieved(query string, baseline, other docexp.SearchHits, qrels *eval.Qrels) docexp.SearchHits {
	var hits docexp.SearchHits
	for _, hit := range baseline {
		if other.Rank(hit.Docno) > 0 && qrels.Contains(query, hit.Docno) {
			hits = append(hits, hit)
		}
	}
	return hits
}

// JudgedPool lists every judged document of a query. Retrieved documents are taken from results; the rest are
// fetched from src with a score of zero.
func JudgedPool(query string, results docexp.SearchHits, qrels *eval.Qrels, src docexp.VectorSource) docexp.SearchHits {
	var hits docexp.SearchHits
	for _, docno := range qrels.Pool(query) {
		hit := results.Find(docno)
		if hit == nil {
			hit = docexp.NewSearchHit(docno, 0, src)
		}
		hits = append(hits, hit)
	}
	return hits
}
