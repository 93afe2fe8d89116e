package feedback_test

import (
	"math"
	"testing"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/feedback"
	"github.com/hscells/docexp/stats"
)

// fixedQueryScorer scores documents with a fixed log-likelihood.
type fixedQueryScorer map[string]float64

func (f fixedQueryScorer) ScoreQuery(query *docexp.Query, doc *docexp.SearchHit) (float64, error) {
	return math.Log(f[doc.Docno]), nil
}

func feedbackDocs() docexp.SearchHits {
	return docexp.SearchHits{
		docexp.NewVectorHit("d1", 0, docexp.TermVectorFromMap(map[string]float64{"cat": 2, "dog": 1})),
		docexp.NewVectorHit("d2", 0, docexp.TermVectorFromMap(map[string]float64{"dog": 3})),
		docexp.NewVectorHit("d3", 0, docexp.TermVectorFromMap(map[string]float64{"cat": 1, "mouse": 5})),
	}
}

func TestBuildRelevanceModel(t *testing.T) {
	b := feedback.NewRM1Builder(nil, feedback.RM1QueryScorer(fixedQueryScorer{"d1": 0.6, "d2": 0.3, "d3": 0.1}))
	q := docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"cat", "dog"}))

	rm, err := b.BuildRelevanceModel(q, feedbackDocs(), nil)
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]float64{
		"dog":   0.6*(1.0/3.0) + 0.3*(3.0/3.0) + 0.1*0,
		"cat":   0.6*(2.0/3.0) + 0.1*(1.0/6.0),
		"mouse": 0.1 * (5.0 / 6.0),
	}
	for term, w := range expected {
		if math.Abs(rm.Weight(term)-w) > 1e-12 {
			t.Errorf("%s: expected %f, got %f", term, w, rm.Weight(term))
		}
	}
}

func TestBuildRelevanceModelStopAndClip(t *testing.T) {
	b := feedback.NewRM1Builder(nil,
		feedback.RM1QueryScorer(fixedQueryScorer{"d1": 0.6, "d2": 0.3, "d3": 0.1}),
		feedback.RM1FeedbackTerms(1),
	)
	q := docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"cat", "dog"}))
	rm, err := b.BuildRelevanceModel(q, feedbackDocs(), docexp.NewStopper("dog"))
	if err != nil {
		t.Fatal(err)
	}
	if rm.FeatureCount() != 1 || !rm.Contains("cat") {
		t.Fatalf("unexpected relevance model %v", rm.Map())
	}
}

func TestBuildRelevanceModelEmptyFeedback(t *testing.T) {
	b := feedback.NewRM1Builder(nil)
	q := docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"cat"}))
	rm, err := b.BuildRelevanceModel(q, docexp.SearchHits{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rm.FeatureCount() != 0 || rm.Length() != 0 {
		t.Fatalf("expected an empty relevance model, got %v", rm.Map())
	}
}

func TestStandardRM1(t *testing.T) {
	m := stats.NewMemoryIndex()
	for i, d := range feedbackDocs() {
		v, _ := d.TermVector()
		if err := m.Add([]string{"d1", "d2", "d3"}[i], v.Copy()); err != nil {
			t.Fatal(err)
		}
	}
	q := docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"dog"}))
	hits, err := m.Execute(q, 20)
	if err != nil {
		t.Fatal(err)
	}
	rm, err := feedback.NewRM1Builder(m).BuildRelevanceModel(q, hits, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rm.RankedTerms()[0] != "dog" {
		t.Fatalf("expected dog to be the most likely term, got %v", rm.Map())
	}
	if math.Abs(rm.Length()-1) > 1e-9 {
		t.Fatalf("expected an unclipped relevance model to sum to one, got %f", rm.Length())
	}

	e := expansion.NewDocumentExpander(m)
	expanded, err := feedback.NewExpandedRM1Builder(m, []expansion.Expander{e}, 2, []float64{0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	erm, err := expanded.BuildRelevanceModel(q, hits, nil)
	if err != nil {
		t.Fatal(err)
	}
	if erm.FeatureCount() == 0 {
		t.Fatal("expected a non-empty expanded relevance model")
	}
	if _, err := feedback.NewExpandedRM1Builder(m, []expansion.Expander{e}, 2, []float64{1}); err == nil {
		t.Fatal("expected an error for mismatched weights")
	}
}

func TestRM3(t *testing.T) {
	q := docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"cat", "dog"}))
	rm := docexp.TermVectorFromMap(map[string]float64{"dog": 3, "mouse": 1})
	v := feedback.RM3(q, rm, 0.5)
	expected := map[string]float64{"cat": 0.25, "dog": 0.25 + 0.375, "mouse": 0.125}
	for term, w := range expected {
		if math.Abs(v.Weight(term)-w) > 1e-12 {
			t.Errorf("%s: expected %f, got %f", term, w, v.Weight(term))
		}
	}
}
