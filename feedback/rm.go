// Package feedback estimates relevance models from feedback documents.
package feedback

import (
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/scoring"
	"github.com/hscells/docexp/stats"
	"github.com/pkg/errors"
)

const (
	// DefaultFeedbackDocs is the number of feedback documents used to estimate a relevance model.
	DefaultFeedbackDocs = 20
	// DefaultFeedbackTerms is the number of terms kept in a relevance model.
	DefaultFeedbackTerms = 20
)

// RelevanceModelBuilder estimates a relevance model for a query from feedback documents.
type RelevanceModelBuilder interface {
	BuildRelevanceModel(query *docexp.Query, feedback docexp.SearchHits, stopper *docexp.Stopper) (*docexp.TermVector, error)
}

// RM1Builder estimates RM1 relevance models. Each feedback document is weighted by its query likelihood, normalised
// over the feedback set, and contributes the term probabilities given by the term scorer.
type RM1Builder struct {
	FeedbackDocs  int
	FeedbackTerms int
	QueryScorer   scoring.QueryScorer
	TermScorer    scoring.DocScorer
}

// RM1FeedbackDocs sets the number of feedback documents.
func RM1FeedbackDocs(n int) func(*RM1Builder) {
	return func(b *RM1Builder) {
		b.FeedbackDocs = n
	}
}

// RM1FeedbackTerms sets the number of terms kept.
func RM1FeedbackTerms(n int) func(*RM1Builder) {
	return func(b *RM1Builder) {
		b.FeedbackTerms = n
	}
}

// RM1QueryScorer sets the scorer used to weight feedback documents.
func RM1QueryScorer(s scoring.QueryScorer) func(*RM1Builder) {
	return func(b *RM1Builder) {
		b.QueryScorer = s
	}
}

// RM1TermScorer sets the scorer used for term probabilities within feedback documents.
func RM1TermScorer(s scoring.DocScorer) func(*RM1Builder) {
	return func(b *RM1Builder) {
		b.TermScorer = s
	}
}

// NewRM1Builder creates a standard RM1 builder: documents are weighted by Dirichlet (mu=2500) query likelihood and
// terms by their maximum likelihood estimate.
func NewRM1Builder(s stats.CollectionStatistics, options ...func(*RM1Builder)) *RM1Builder {
	b := &RM1Builder{
		FeedbackDocs:  DefaultFeedbackDocs,
		FeedbackTerms: DefaultFeedbackTerms,
		QueryScorer:   scoring.NewQueryLikelihoodQueryScorer(scoring.NewDirichletDocScorer(s)),
		TermScorer:    scoring.NewDirichletDocScorer(s, scoring.DirichletMu(0)),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// NewExpandedRM1Builder creates an RM1 builder whose document models interpolate the original document with its
// expansion documents. weights[0] is the weight of the original document and weights[i+1] the weight of
// expanders[i].
func NewExpandedRM1Builder(s stats.CollectionStatistics, expanders []expansion.Expander, numExpansionDocs int, weights []float64, options ...func(*RM1Builder)) (*RM1Builder, error) {
	if len(weights) != len(expanders)+1 {
		return nil, errors.Errorf("expected %d interpolation weights, got %d", len(expanders)+1, len(weights))
	}
	queryScorers := []scoring.WeightedScorer{{Scorer: scoring.NewDirichletDocScorer(s), Weight: weights[0]}}
	termScorers := []scoring.WeightedScorer{{Scorer: scoring.NewDirichletDocScorer(s, scoring.DirichletMu(0)), Weight: weights[0]}}
	for i, e := range expanders {
		es := scoring.NewExpansionDocScorer(e, scoring.ExpansionNumDocs(numExpansionDocs))
		queryScorers = append(queryScorers, scoring.WeightedScorer{Scorer: es, Weight: weights[i+1]})
		termScorers = append(termScorers, scoring.WeightedScorer{Scorer: es, Weight: weights[i+1]})
	}
	o := append([]func(*RM1Builder){
		RM1QueryScorer(scoring.NewQueryLikelihoodQueryScorer(scoring.NewInterpolatedDocScorer(queryScorers...))),
		RM1TermScorer(scoring.NewInterpolatedDocScorer(termScorers...)),
	}, options...)
	return NewRM1Builder(s, o...), nil
}

// BuildRelevanceModel implements RelevanceModelBuilder. The model is not renormalised after stopping and clipping.
func (b *RM1Builder) BuildRelevanceModel(query *docexp.Query, feedback docexp.SearchHits, stopper *docexp.Stopper) (*docexp.TermVector, error) {
	rm := docexp.NewTermVector()
	feedback = feedback.Crop(b.FeedbackDocs)
	if len(feedback) == 0 {
		return rm, nil
	}

	// Documents are weighted by their query likelihood, normalised over the feedback set.
	weighted := make(docexp.SearchHits, len(feedback))
	vectors := make([]*docexp.TermVector, len(feedback))
	for i, doc := range feedback {
		ll, err := b.QueryScorer.ScoreQuery(query, doc)
		if err != nil {
			return nil, errors.Wrapf(err, "scoring feedback document %s", doc.Docno)
		}
		weighted[i] = docexp.NewVectorHit(doc.Docno, ll, nil)
		vectors[i], err = doc.TermVector()
		if err != nil {
			return nil, err
		}
	}
	weights := weighted.Posteriors()

	for _, term := range docexp.Vocabulary(vectors...) {
		for i, doc := range feedback {
			if weights[i] == 0 {
				continue
			}
			p, err := b.TermScorer.ScoreTerm(term, doc)
			if err != nil {
				return nil, err
			}
			rm.Add(term, weights[i]*p)
		}
	}

	rm.ApplyStopper(stopper)
	rm.Clip(b.FeedbackTerms)
	return rm, nil
}

// RM3 interpolates the normalised query with a normalised relevance model: w*query + (1-w)*rm.
func RM3(query *docexp.Query, rm *docexp.TermVector, origWeight float64) *docexp.TermVector {
	q := query.Copy().Vector
	q.Normalize()
	r := rm.Copy()
	r.Normalize()
	return docexp.Interpolate(q, r, origWeight)
}

// RelevanceModelQuery wraps a relevance model as a query with the title of the original query.
func RelevanceModelQuery(query *docexp.Query, rm *docexp.TermVector) *docexp.Query {
	return &docexp.Query{Title: query.Title, Text: query.Text, Vector: rm}
}
