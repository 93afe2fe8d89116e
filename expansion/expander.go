// Package expansion finds the neighbours of documents in an auxiliary index and summarises them as pseudo-queries.
package expansion

import (
	"fmt"
	"sync"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultNumTerms is the number of document terms used to retrieve expansion documents.
	DefaultNumTerms = 20
	// DefaultMaxNumDocs is the number of expansion documents used when none is given explicitly.
	DefaultMaxNumDocs = 10
	// PseudoQueryTerms is the number of terms kept in a pseudo-query.
	PseudoQueryTerms = 20
)

// Expander retrieves expansion documents for a document.
type Expander interface {
	// ExpandDocument returns the top numDocs expansion documents for doc.
	ExpandDocument(doc *docexp.SearchHit, numDocs int) (docexp.SearchHits, error)
	// Index is the index expansion documents are drawn from.
	Index() stats.StatisticsSource
}

// DocumentExpander expands documents by issuing their most heavily weighted terms as a query against an expansion
// index.
type DocumentExpander struct {
	index    stats.StatisticsSource
	numTerms int
	stopper  *docexp.Stopper
	cache    HitsCacher

	query       *docexp.Query
	queryWeight float64

	mu         sync.RWMutex
	maxNumDocs int

	group singleflight.Group
}

// ExpanderNumTerms sets the number of document terms issued as the expansion query.
func ExpanderNumTerms(n int) func(*DocumentExpander) {
	return func(e *DocumentExpander) {
		e.numTerms = n
	}
}

// ExpanderStopper sets the stopper applied to document queries and pseudo-queries.
func ExpanderStopper(s *docexp.Stopper) func(*DocumentExpander) {
	return func(e *DocumentExpander) {
		e.stopper = s
	}
}

// ExpanderMaxNumDocs sets the number of expansion documents used when none is given explicitly.
func ExpanderMaxNumDocs(n int) func(*DocumentExpander) {
	return func(e *DocumentExpander) {
		e.maxNumDocs = n
	}
}

// ExpanderCache sets the cache used for retrieved expansion documents.
func ExpanderCache(c HitsCacher) func(*DocumentExpander) {
	return func(e *DocumentExpander) {
		e.cache = c
	}
}

// ExpanderQueryDependence makes document queries depend on a user query: the normalised query is interpolated with
// the normalised document query using weight.
func ExpanderQueryDependence(query *docexp.Query, weight float64) func(*DocumentExpander) {
	return func(e *DocumentExpander) {
		e.query = query
		e.queryWeight = weight
	}
}

// NewDocumentExpander creates a document expander over the expansion index.
func NewDocumentExpander(index stats.StatisticsSource, options ...func(*DocumentExpander)) *DocumentExpander {
	e := &DocumentExpander{
		index:      index,
		numTerms:   DefaultNumTerms,
		maxNumDocs: DefaultMaxNumDocs,
	}
	for _, option := range options {
		option(e)
	}
	if e.cache == nil {
		e.cache = NewMapHitsCache()
	}
	return e
}

// NewQueryDependentDocumentExpander creates a document expander whose document queries are biased towards query.
func NewQueryDependentDocumentExpander(index stats.StatisticsSource, query *docexp.Query, weight float64, options ...func(*DocumentExpander)) *DocumentExpander {
	return NewDocumentExpander(index, append(options, ExpanderQueryDependence(query, weight))...)
}

// Index implements Expander.
func (e *DocumentExpander) Index() stats.StatisticsSource {
	return e.index
}

// NumTerms is the number of document terms issued as the expansion query.
func (e *DocumentExpander) NumTerms() int {
	return e.numTerms
}

// Stopper is the stopper applied by the expander.
func (e *DocumentExpander) Stopper() *docexp.Stopper {
	return e.stopper
}

// MaxNumDocs is the number of expansion documents used when none is given explicitly.
func (e *DocumentExpander) MaxNumDocs() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.maxNumDocs
}

// SetMaxNumDocs changes the number of expansion documents used when none is given explicitly.
func (e *DocumentExpander) SetMaxNumDocs(n int) {
	e.mu.Lock()
	e.maxNumDocs = n
	e.mu.Unlock()
}

// DocumentQuery creates the query used to retrieve expansion documents: a copy of the document vector with stop
// words removed, clipped to the most heavily weighted terms.
func (e *DocumentExpander) DocumentQuery(doc *docexp.SearchHit) (*docexp.Query, error) {
	v, err := doc.TermVector()
	if err != nil {
		return nil, err
	}
	dv := v.Copy()
	dv.ApplyStopper(e.stopper)
	dv.Clip(e.numTerms)

	if e.query != nil {
		qv := e.query.Copy().Vector
		qv.ApplyStopper(e.stopper)
		qv.Normalize()
		dv.Normalize()
		dv = docexp.Interpolate(qv, dv, e.queryWeight)
	}
	return &docexp.Query{Title: doc.Docno, Vector: dv}, nil
}

// key identifies a retrieval in the cache, which may be shared by expanders issuing different document queries.
func (e *DocumentExpander) key(docno string, depth int) string {
	if e.query != nil {
		return fmt.Sprintf("%s:%d:%d:%s:%g", docno, e.numTerms, depth, e.query.Title, e.queryWeight)
	}
	return fmt.Sprintf("%s:%d:%d", docno, e.numTerms, depth)
}

// ExpandDocument implements Expander. Retrieval is performed once per document at a depth of at least MaxNumDocs and
// the cached list is cropped to numDocs. The document itself is never one of its expansion documents.
func (e *DocumentExpander) ExpandDocument(doc *docexp.SearchHit, numDocs int) (docexp.SearchHits, error) {
	depth := e.MaxNumDocs()
	if numDocs > depth {
		depth = numDocs
	}
	key := e.key(doc.Docno, depth)

	cached, err := e.cache.Get(key)
	if err == ErrCacheMiss {
		v, err, _ := e.group.Do(key, func() (interface{}, error) {
			return e.retrieve(doc, depth, key)
		})
		if err != nil {
			return nil, err
		}
		cached = v.([]CachedHit)
	} else if err != nil {
		return nil, errors.Wrapf(err, "reading expansion cache for %s", doc.Docno)
	}

	hits := make(docexp.SearchHits, len(cached))
	for i, c := range cached {
		hits[i] = docexp.NewSearchHit(c.Docno, c.Score, e.index)
	}
	return hits.Crop(numDocs), nil
}

func (e *DocumentExpander) retrieve(doc *docexp.SearchHit, depth int, key string) ([]CachedHit, error) {
	q, err := e.DocumentQuery(doc)
	if err != nil {
		return nil, err
	}
	results, err := e.index.Execute(q, depth+1)
	if err != nil {
		return nil, errors.Wrapf(err, "expanding %s", doc.Docno)
	}
	cached := make([]CachedHit, 0, depth)
	for _, hit := range results {
		if hit.Docno == doc.Docno {
			continue
		}
		if len(cached) == depth {
			break
		}
		cached = append(cached, CachedHit{Docno: hit.Docno, Score: hit.Score})
	}
	if err := e.cache.Set(key, cached); err != nil {
		return nil, errors.Wrapf(err, "caching expansion of %s", doc.Docno)
	}
	return cached, nil
}

// LinearScores reports whether the expansion index scores documents linearly.
func (e *DocumentExpander) LinearScores() bool {
	l, ok := e.index.(stats.LinearScorer)
	return ok && l.LinearScores()
}

// PseudoQuery summarises the MaxNumDocs expansion documents of doc as a query.
func (e *DocumentExpander) PseudoQuery(doc *docexp.SearchHit) (*docexp.Query, error) {
	return PseudoQuery(e, doc, e.MaxNumDocs(), e.stopper)
}

// PseudoQuery builds a query from the expansion documents of doc. Each term of an expansion document contributes its
// within-document weight multiplied by the normalised retrieval score of that document (see stats.ScoreWeights).
// Stop words are removed and the PseudoQueryTerms most heavily weighted terms kept.
func PseudoQuery(e Expander, doc *docexp.SearchHit, numDocs int, stopper *docexp.Stopper) (*docexp.Query, error) {
	hits, err := e.ExpandDocument(doc, numDocs)
	if err != nil {
		return nil, err
	}
	weights := stats.ScoreWeights(e, hits)

	v := docexp.NewTermVector()
	for i, hit := range hits {
		hv, err := hit.TermVector()
		if err != nil {
			return nil, err
		}
		if hv.Length() == 0 {
			continue
		}
		for _, term := range hv.Terms() {
			v.Add(term, hv.Weight(term)/hv.Length()*weights[i])
		}
	}
	v.ApplyStopper(stopper)
	v.Clip(PseudoQueryTerms)
	return &docexp.Query{Title: doc.Docno, Vector: v}, nil
}
