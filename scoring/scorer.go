// Package scoring estimates the probability of terms in documents.
package scoring

import (
	"math"

	"github.com/hashicorp/golang-lru"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
)

// DefaultMu is the default Dirichlet smoothing parameter.
const DefaultMu = 2500

// DocScorer estimates the probability of a term given a document.
type DocScorer interface {
	ScoreTerm(term string, doc *docexp.SearchHit) (float64, error)
}

// QueryScorer scores a whole query against a document.
type QueryScorer interface {
	ScoreQuery(query *docexp.Query, doc *docexp.SearchHit) (float64, error)
}

// DirichletDocScorer is a Dirichlet smoothed document language model.
type DirichletDocScorer struct {
	Mu    float64
	Stats stats.CollectionStatistics
}

// DirichletMu sets the smoothing parameter.
func DirichletMu(mu float64) func(*DirichletDocScorer) {
	return func(d *DirichletDocScorer) {
		d.Mu = mu
	}
}

// NewDirichletDocScorer creates a Dirichlet scorer with a default mu of 2500.
func NewDirichletDocScorer(s stats.CollectionStatistics, options ...func(*DirichletDocScorer)) *DirichletDocScorer {
	d := &DirichletDocScorer{Mu: DefaultMu, Stats: s}
	for _, option := range options {
		option(d)
	}
	return d
}

// ScoreTerm implements DocScorer. With a mu of zero this is the maximum likelihood estimate weight/length.
func (d *DirichletDocScorer) ScoreTerm(term string, doc *docexp.SearchHit) (float64, error) {
	v, err := doc.TermVector()
	if err != nil {
		return 0, err
	}
	denominator := v.Length() + d.Mu
	if denominator == 0 {
		return 0, nil
	}
	var pc float64
	if d.Mu != 0 {
		pc, err = stats.CollectionProbability(d.Stats, term)
		if err != nil {
			return 0, err
		}
	}
	return (v.Weight(term) + d.Mu*pc) / denominator, nil
}

// CachedDocScorer memoises the scores of another scorer by term and docno.
type CachedDocScorer struct {
	scorer DocScorer
	cache  *lru.Cache
}

// NewCachedDocScorer creates a scorer remembering up to size scores.
func NewCachedDocScorer(scorer DocScorer, size int) (*CachedDocScorer, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedDocScorer{scorer: scorer, cache: c}, nil
}

// ScoreTerm implements DocScorer.
func (c *CachedDocScorer) ScoreTerm(term string, doc *docexp.SearchHit) (float64, error) {
	key := term + "\x00" + doc.Docno
	if v, ok := c.cache.Get(key); ok {
		return v.(float64), nil
	}
	p, err := c.scorer.ScoreTerm(term, doc)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, p)
	return p, nil
}

// WeightedScorer is a scorer and its mixing weight.
type WeightedScorer struct {
	Scorer DocScorer
	Weight float64
}

// InterpolatedDocScorer linearly combines several scorers.
type InterpolatedDocScorer struct {
	Scorers []WeightedScorer
}

// NewInterpolatedDocScorer creates an interpolation of scorers.
func NewInterpolatedDocScorer(scorers ...WeightedScorer) *InterpolatedDocScorer {
	return &InterpolatedDocScorer{Scorers: scorers}
}

// ScoreTerm implements DocScorer.
func (i *InterpolatedDocScorer) ScoreTerm(term string, doc *docexp.SearchHit) (float64, error) {
	var score float64
	for _, ws := range i.Scorers {
		if ws.Weight == 0 {
			continue
		}
		p, err := ws.Scorer.ScoreTerm(term, doc)
		if err != nil {
			return 0, err
		}
		score += ws.Weight * p
	}
	return score, nil
}

// PriorDocScorer multiplies the score of another scorer by a per-document prior. Documents without a prior keep
// their score.
type PriorDocScorer struct {
	Scorer DocScorer
	Priors map[string]float64
}

// NewNormalizedScorePriorDocScorer uses the normalised retrieval scores of hits as document priors, treating the
// scores as log-likelihoods.
func NewNormalizedScorePriorDocScorer(scorer DocScorer, hits docexp.SearchHits) *PriorDocScorer {
	return NewWeightedPriorDocScorer(scorer, hits, hits.Posteriors())
}

// NewWeightedPriorDocScorer uses weights[i] as the prior of hits[i].
func NewWeightedPriorDocScorer(scorer DocScorer, hits docexp.SearchHits, weights []float64) *PriorDocScorer {
	priors := make(map[string]float64, len(hits))
	for i, p := range weights {
		priors[hits[i].Docno] = p
	}
	return &PriorDocScorer{Scorer: scorer, Priors: priors}
}

// ScoreTerm implements DocScorer.
func (p *PriorDocScorer) ScoreTerm(term string, doc *docexp.SearchHit) (float64, error) {
	score, err := p.Scorer.ScoreTerm(term, doc)
	if err != nil {
		return 0, err
	}
	if prior, ok := p.Priors[doc.Docno]; ok {
		return prior * score, nil
	}
	return score, nil
}

// QueryLikelihoodQueryScorer scores a query as the weighted sum of the log probabilities of its terms.
type QueryLikelihoodQueryScorer struct {
	Scorer DocScorer
}

// NewQueryLikelihoodQueryScorer creates a query likelihood scorer.
func NewQueryLikelihoodQueryScorer(scorer DocScorer) *QueryLikelihoodQueryScorer {
	return &QueryLikelihoodQueryScorer{Scorer: scorer}
}

// ScoreQuery implements QueryScorer. Terms with zero probability do not contribute.
func (q *QueryLikelihoodQueryScorer) ScoreQuery(query *docexp.Query, doc *docexp.SearchHit) (float64, error) {
	if query == nil || query.Vector == nil {
		return 0, nil
	}
	var ll float64
	for _, term := range query.Vector.Terms() {
		p, err := q.Scorer.ScoreTerm(term, doc)
		if err != nil {
			return 0, err
		}
		if p <= 0 {
			continue
		}
		ll += query.Vector.Weight(term) * math.Log(p)
	}
	return ll, nil
}
