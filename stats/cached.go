package stats

import (
	"sync"

	"github.com/hashicorp/golang-lru"
	"github.com/hscells/docexp"
	"github.com/pkg/errors"
)

// DefaultCacheSize is the number of term vectors a CachedStatisticsSource keeps.
const DefaultCacheSize = 10000

// CachedStatisticsSource wraps a statistics source, keeping recently used term vectors and term statistics in
// memory. Term vectors handed out are always copies.
type CachedStatisticsSource struct {
	source  StatisticsSource
	vectors *lru.Cache
	terms   *lru.Cache

	mu        sync.Mutex
	docCount  *float64
	termCount *float64
}

type termStatistics struct {
	df, ctf float64
}

// NewCachedStatisticsSource creates a cache in front of source holding up to size term vectors.
func NewCachedStatisticsSource(source StatisticsSource, size int) (*CachedStatisticsSource, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	vectors, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "creating term vector cache")
	}
	terms, err := lru.New(size * 10)
	if err != nil {
		return nil, errors.Wrap(err, "creating term statistics cache")
	}
	return &CachedStatisticsSource{source: source, vectors: vectors, terms: terms}, nil
}

// Source is the underlying statistics source.
func (c *CachedStatisticsSource) Source() StatisticsSource {
	return c.source
}

// DocCount implements CollectionStatistics.
func (c *CachedStatisticsSource) DocCount() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.docCount == nil {
		n, err := c.source.DocCount()
		if err != nil {
			return 0, err
		}
		c.docCount = &n
	}
	return *c.docCount, nil
}

// TermCount implements CollectionStatistics.
func (c *CachedStatisticsSource) TermCount() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.termCount == nil {
		n, err := c.source.TermCount()
		if err != nil {
			return 0, err
		}
		c.termCount = &n
	}
	return *c.termCount, nil
}

func (c *CachedStatisticsSource) termStatistics(term string) (termStatistics, error) {
	if v, ok := c.terms.Get(term); ok {
		return v.(termStatistics), nil
	}
	df, err := c.source.DocumentFrequency(term)
	if err != nil {
		return termStatistics{}, err
	}
	ctf, err := c.source.TotalTermFrequency(term)
	if err != nil {
		return termStatistics{}, err
	}
	ts := termStatistics{df: df, ctf: ctf}
	c.terms.Add(term, ts)
	return ts, nil
}

// DocumentFrequency implements CollectionStatistics.
func (c *CachedStatisticsSource) DocumentFrequency(term string) (float64, error) {
	ts, err := c.termStatistics(term)
	return ts.df, err
}

// TotalTermFrequency implements CollectionStatistics.
func (c *CachedStatisticsSource) TotalTermFrequency(term string) (float64, error) {
	ts, err := c.termStatistics(term)
	return ts.ctf, err
}

// TermVector returns a copy of the cached term vector of a document, fetching it on a miss.
func (c *CachedStatisticsSource) TermVector(docno string) (*docexp.TermVector, error) {
	if v, ok := c.vectors.Get(docno); ok {
		return v.(*docexp.TermVector).Copy(), nil
	}
	v, err := c.source.TermVector(docno)
	if err != nil {
		return nil, err
	}
	c.vectors.Add(docno, v.Copy())
	return v, nil
}

// Execute runs the query on the underlying source. Term vectors of the returned hits are fetched through the cache.
func (c *CachedStatisticsSource) Execute(query *docexp.Query, k int) (docexp.SearchHits, error) {
	hits, err := c.source.Execute(query, k)
	if err != nil {
		return nil, err
	}
	cached := make(docexp.SearchHits, len(hits))
	for i, hit := range hits {
		cached[i] = docexp.NewSearchHit(hit.Docno, hit.Score, c)
	}
	return cached, nil
}

// LinearScores reports whether the wrapped source scores documents linearly.
func (c *CachedStatisticsSource) LinearScores() bool {
	l, ok := c.source.(LinearScorer)
	return ok && l.LinearScores()
}
