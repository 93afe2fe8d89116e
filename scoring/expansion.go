package scoring

import (
	"fmt"

	"github.com/hashicorp/golang-lru"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/stats"
)

const (
	// DefaultExpansionDocs is the number of expansion documents an ExpansionDocScorer uses.
	DefaultExpansionDocs = 5
	// expandedDocsCacheSize is the number of documents whose expansion documents are kept by a scorer.
	expandedDocsCacheSize = 256
)

// ExpansionDocScorer estimates the probability of a term in a document from its expansion documents: the Dirichlet
// probability of the term in each expansion document, weighted by the normalised retrieval score of that document.
type ExpansionDocScorer struct {
	Expander expansion.Expander
	NumDocs  int
	scorer   DocScorer
	expanded *lru.Cache
}

// expandedDoc holds the expansion documents of a document with their fetched term vectors.
type expandedDoc struct {
	hits  docexp.SearchHits
	prior *PriorDocScorer
}

// ExpansionNumDocs sets the number of expansion documents.
func ExpansionNumDocs(n int) func(*ExpansionDocScorer) {
	return func(e *ExpansionDocScorer) {
		e.NumDocs = n
	}
}

// ExpansionScorer sets the scorer used on expansion documents.
func ExpansionScorer(s DocScorer) func(*ExpansionDocScorer) {
	return func(e *ExpansionDocScorer) {
		e.scorer = s
	}
}

// NewExpansionDocScorer creates an expansion scorer. By default five expansion documents are scored with a Dirichlet
// model (mu=2500) of the expansion index.
func NewExpansionDocScorer(e expansion.Expander, options ...func(*ExpansionDocScorer)) *ExpansionDocScorer {
	s := &ExpansionDocScorer{
		Expander: e,
		NumDocs:  DefaultExpansionDocs,
	}
	for _, option := range options {
		option(s)
	}
	if s.scorer == nil {
		s.scorer = NewDirichletDocScorer(e.Index())
	}
	// lru.New only fails for a non-positive size.
	s.expanded, _ = lru.New(expandedDocsCacheSize)
	return s
}

// ExpansionDocuments are the documents the scorer uses for doc.
func (s *ExpansionDocScorer) ExpansionDocuments(doc *docexp.SearchHit) (docexp.SearchHits, error) {
	return s.Expander.ExpandDocument(doc, s.NumDocs)
}

func (s *ExpansionDocScorer) expand(doc *docexp.SearchHit) (expandedDoc, error) {
	key := fmt.Sprintf("%s:%d", doc.Docno, s.NumDocs)
	if v, ok := s.expanded.Get(key); ok {
		return v.(expandedDoc), nil
	}
	hits, err := s.ExpansionDocuments(doc)
	if err != nil {
		return expandedDoc{}, err
	}
	x := expandedDoc{
		hits:  hits,
		prior: NewWeightedPriorDocScorer(s.scorer, hits, stats.ScoreWeights(s.Expander, hits)),
	}
	s.expanded.Add(key, x)
	return x, nil
}

// ScoreTerm implements DocScorer. The expansion documents of a document are retrieved once and reused for every
// term scored against it.
func (s *ExpansionDocScorer) ScoreTerm(term string, doc *docexp.SearchHit) (float64, error) {
	x, err := s.expand(doc)
	if err != nil {
		return 0, err
	}
	var score float64
	for _, hit := range x.hits {
		if x.prior.Priors[hit.Docno] == 0 {
			continue
		}
		p, err := x.prior.ScoreTerm(term, hit)
		if err != nil {
			return 0, err
		}
		score += p
	}
	return score, nil
}
