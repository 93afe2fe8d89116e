package docexp

import (
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// VectorSource fetches the term vector of a document.
type VectorSource interface {
	TermVector(docno string) (*TermVector, error)
}

// SearchHit is a scored document. The term vector of the hit is fetched from its source the first time it is
// requested and is owned by the hit from then on.
type SearchHit struct {
	Docno string
	Score float64

	mu     sync.Mutex
	source VectorSource
	vector *TermVector
}

// NewSearchHit creates a hit whose term vector is lazily fetched from source.
func NewSearchHit(docno string, score float64, source VectorSource) *SearchHit {
	return &SearchHit{Docno: docno, Score: score, source: source}
}

// NewVectorHit creates a hit with an already known term vector.
func NewVectorHit(docno string, score float64, vector *TermVector) *SearchHit {
	return &SearchHit{Docno: docno, Score: score, vector: vector}
}

// TermVector returns the term vector of the hit, fetching it on first access.
func (h *SearchHit) TermVector() (*TermVector, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.vector != nil {
		return h.vector, nil
	}
	if h.source == nil {
		return nil, errors.Errorf("no term vector source for document %s", h.Docno)
	}
	v, err := h.source.TermVector(h.Docno)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching term vector for %s", h.Docno)
	}
	h.vector = v
	return h.vector, nil
}

// SetTermVector replaces the term vector of the hit.
func (h *SearchHit) SetTermVector(v *TermVector) {
	h.mu.Lock()
	h.vector = v
	h.mu.Unlock()
}

// Copy creates a hit with the same docno and score and a deep copy of the term vector, if one has been fetched.
func (h *SearchHit) Copy() *SearchHit {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := &SearchHit{Docno: h.Docno, Score: h.Score, source: h.source}
	if h.vector != nil {
		c.vector = h.vector.Copy()
	}
	return c
}

// SearchHits is a ranked list of search results, ordered by descending score.
type SearchHits []*SearchHit

// Rank is the 1-based position of docno in the list, or 0 when it is absent.
func (s SearchHits) Rank(docno string) int {
	for i, hit := range s {
		if hit.Docno == docno {
			return i + 1
		}
	}
	return 0
}

// Find returns the hit for docno, or nil when it is absent.
func (s SearchHits) Find(docno string) *SearchHit {
	if r := s.Rank(docno); r > 0 {
		return s[r-1]
	}
	return nil
}

// Crop returns at most the first n hits.
func (s SearchHits) Crop(n int) SearchHits {
	if n < 0 || n >= len(s) {
		return s
	}
	return s[:n]
}

// Docnos returns the document identifiers in rank order.
func (s SearchHits) Docnos() []string {
	docnos := make([]string, len(s))
	for i, hit := range s {
		docnos[i] = hit.Docno
	}
	return docnos
}

// Sort orders the hits by descending score, with ties broken by ascending docno.
func (s SearchHits) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Score == s[j].Score {
			return s[i].Docno < s[j].Docno
		}
		return s[i].Score > s[j].Score
	})
}

// Posteriors converts the scores of the hits into a distribution proportional to exp(score), normalised to sum to
// one. Scores are treated as log-likelihoods. A list whose scores are all -Inf yields all zero weights.
func (s SearchHits) Posteriors() []float64 {
	p := make([]float64, len(s))
	if len(s) == 0 {
		return p
	}
	top := math.Inf(-1)
	for _, hit := range s {
		if hit.Score > top {
			top = hit.Score
		}
	}
	if math.IsInf(top, -1) {
		return p
	}
	var sum float64
	for i, hit := range s {
		p[i] = math.Exp(hit.Score - top)
		sum += p[i]
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

// NormalizedScores divides the score of each hit by the sum of the scores. Negative scores count as zero, and a
// list with no positive score yields all zero weights.
func (s SearchHits) NormalizedScores() []float64 {
	p := make([]float64, len(s))
	var sum float64
	for i, hit := range s {
		if hit.Score > 0 {
			p[i] = hit.Score
			sum += hit.Score
		}
	}
	if sum == 0 {
		return p
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

// SearchHitsBatch is a set of ranked lists keyed by query, in the order the queries were first seen.
type SearchHitsBatch struct {
	queries []string
	hits    map[string]SearchHits
}

// NewSearchHitsBatch creates an empty batch.
func NewSearchHitsBatch() *SearchHitsBatch {
	return &SearchHitsBatch{hits: make(map[string]SearchHits)}
}

// Set stores the ranked list for a query.
func (b *SearchHitsBatch) Set(query string, hits SearchHits) {
	if _, ok := b.hits[query]; !ok {
		b.queries = append(b.queries, query)
	}
	b.hits[query] = hits
}

// Hits returns the ranked list for a query, or nil when the query is not in the batch.
func (b *SearchHitsBatch) Hits(query string) SearchHits {
	return b.hits[query]
}

// Contains reports whether the batch has a ranked list for query.
func (b *SearchHitsBatch) Contains(query string) bool {
	_, ok := b.hits[query]
	return ok
}

// Queries returns the queries in the batch in the order they were added.
func (b *SearchHitsBatch) Queries() []string {
	return b.queries
}
