package scoring_test

import (
	"math"
	"testing"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/scoring"
	"github.com/hscells/docexp/stats"
)

func newIndex(t *testing.T) *stats.MemoryIndex {
	m := stats.NewMemoryIndex()
	docs := map[string]map[string]float64{
		"d1": {"cat": 2, "dog": 1},
		"d2": {"dog": 3},
		"d3": {"cat": 1, "mouse": 5},
	}
	for _, docno := range []string{"d1", "d2", "d3"} {
		if err := m.Add(docno, docexp.TermVectorFromMap(docs[docno])); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func TestDirichletDocScorer(t *testing.T) {
	m := newIndex(t)
	doc := docexp.NewSearchHit("d1", 0, m)

	mle := scoring.NewDirichletDocScorer(m, scoring.DirichletMu(0))
	p, err := mle.ScoreTerm("cat", doc)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-2.0/3.0) > 1e-12 {
		t.Fatalf("expected 2/3, got %f", p)
	}

	d := scoring.NewDirichletDocScorer(m, scoring.DirichletMu(10))
	p, err = d.ScoreTerm("mouse", doc)
	if err != nil {
		t.Fatal(err)
	}
	expected := (0 + 10*(6.0/12.0)) / (3 + 10)
	if math.Abs(p-expected) > 1e-12 {
		t.Fatalf("expected %f, got %f", expected, p)
	}
}

func TestInterpolatedDocScorer(t *testing.T) {
	m := newIndex(t)
	doc := docexp.NewSearchHit("d1", 0, m)
	mle := scoring.NewDirichletDocScorer(m, scoring.DirichletMu(0))
	s := scoring.NewInterpolatedDocScorer(
		scoring.WeightedScorer{Scorer: mle, Weight: 0.25},
		scoring.WeightedScorer{Scorer: mle, Weight: 0.75},
	)
	p, err := s.ScoreTerm("dog", doc)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-1.0/3.0) > 1e-12 {
		t.Fatalf("expected 1/3, got %f", p)
	}
}

func TestQueryLikelihoodQueryScorer(t *testing.T) {
	m := newIndex(t)
	doc := docexp.NewSearchHit("d1", 0, m)
	ql := scoring.NewQueryLikelihoodQueryScorer(scoring.NewDirichletDocScorer(m, scoring.DirichletMu(0)))
	q := docexp.NewQuery("q", docexp.TermVectorFromMap(map[string]float64{"cat": 2, "dog": 1, "mouse": 1}))
	score, err := ql.ScoreQuery(q, doc)
	if err != nil {
		t.Fatal(err)
	}
	expected := 2*math.Log(2.0/3.0) + math.Log(1.0/3.0)
	if math.Abs(score-expected) > 1e-12 {
		t.Fatalf("expected %f, got %f", expected, score)
	}
}

func TestExpansionDocScorer(t *testing.T) {
	m := newIndex(t)
	e := expansion.NewDocumentExpander(m)
	doc := docexp.NewVectorHit("t1", 0, docexp.TermVectorFromMap(map[string]float64{"mouse": 1}))

	s := scoring.NewExpansionDocScorer(e, scoring.ExpansionNumDocs(1), scoring.ExpansionScorer(scoring.NewDirichletDocScorer(m, scoring.DirichletMu(0))))
	p, err := s.ScoreTerm("mouse", doc)
	if err != nil {
		t.Fatal(err)
	}
	// The only expansion document is d3, which has a prior of one.
	if math.Abs(p-5.0/6.0) > 1e-12 {
		t.Fatalf("expected 5/6, got %f", p)
	}

	none := docexp.NewVectorHit("t2", 0, docexp.TermVectorFromMap(map[string]float64{"unicorn": 1}))
	p, err = s.ScoreTerm("mouse", none)
	if err != nil {
		t.Fatal(err)
	}
	if p != 0 {
		t.Fatalf("expected zero without expansion documents, got %f", p)
	}
}

func TestNormalizedScorePrior(t *testing.T) {
	hits := docexp.SearchHits{
		docexp.NewVectorHit("a", math.Log(0.6), docexp.TermVectorFromMap(map[string]float64{"x": 1})),
		docexp.NewVectorHit("b", math.Log(0.4), docexp.TermVectorFromMap(map[string]float64{"x": 1})),
	}
	s := scoring.NewNormalizedScorePriorDocScorer(scoring.NewDirichletDocScorer(nil, scoring.DirichletMu(0)), hits)
	p, err := s.ScoreTerm("x", hits[1])
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-0.4) > 1e-12 {
		t.Fatalf("expected 0.4, got %f", p)
	}
}

type countingExpander struct {
	*expansion.DocumentExpander
	expansions int
}

func (c *countingExpander) ExpandDocument(doc *docexp.SearchHit, numDocs int) (docexp.SearchHits, error) {
	c.expansions++
	return c.DocumentExpander.ExpandDocument(doc, numDocs)
}

func TestExpansionDocScorerReusesExpansionDocuments(t *testing.T) {
	m := newIndex(t)
	e := &countingExpander{DocumentExpander: expansion.NewDocumentExpander(m)}
	s := scoring.NewExpansionDocScorer(e, scoring.ExpansionNumDocs(2))
	doc := docexp.NewVectorHit("t1", 0, docexp.TermVectorFromMap(map[string]float64{"cat": 1, "dog": 1}))

	for _, term := range []string{"cat", "dog", "mouse", "cat"} {
		if _, err := s.ScoreTerm(term, doc); err != nil {
			t.Fatal(err)
		}
	}
	if e.expansions != 1 {
		t.Fatalf("expected the document to be expanded once, expanded %d times", e.expansions)
	}

	s.NumDocs = 1
	if _, err := s.ScoreTerm("cat", doc); err != nil {
		t.Fatal(err)
	}
	if e.expansions != 2 {
		t.Fatalf("expected a new expansion for a different number of documents, expanded %d times", e.expansions)
	}
}
