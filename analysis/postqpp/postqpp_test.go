package postqpp_test

import (
	"math"
	"testing"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis/postqpp"
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

func TestWIG(t *testing.T) {
	m := newIndex(t)
	q := docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"cat"}))
	hits, err := m.Execute(q, 10)
	if err != nil {
		t.Fatal(err)
	}
	wig, err := postqpp.WIG.Execute(q, m)
	if err != nil {
		t.Fatal(err)
	}
	expected := (hits[0].Score - hits[1].Score) / 2
	if math.Abs(wig-expected) > 1e-12 {
		t.Fatalf("expected wig %f, got %f", expected, wig)
	}

	none, err := postqpp.WIG.Execute(docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"zebra"})), m)
	if err != nil || none != 0 {
		t.Fatalf("expected 0 for a query that retrieves nothing, got %f (%v)", none, err)
	}
	if nqc, err := postqpp.NQC.Execute(q, m); err != nil || nqc <= 0 {
		t.Fatalf("expected a positive nqc, got %f (%v)", nqc, err)
	}
}

func TestQueryExpansionCollectionLikelihood(t *testing.T) {
	m := newIndex(t)
	q := docexp.NewQuery("q", docexp.TermVectorFromMap(map[string]float64{"cat": 1, "mouse": 1, "zebra": 2}))
	ll, err := postqpp.QueryExpansionCollectionLikelihood(q, m)
	if err != nil {
		t.Fatal(err)
	}
	expected := 0.25*math.Log(4.0/12.0) + 0.25*math.Log(6.0/12.0)
	if math.Abs(ll-expected) > 1e-12 {
		t.Fatalf("expected %f, got %f", expected, ll)
	}
}

func TestPseudoAveragePrecision(t *testing.T) {
	hits := docexp.SearchHits{
		docexp.NewVectorHit("d1", 3, nil),
		docexp.NewVectorHit("d2", 2, nil),
		docexp.NewVectorHit("d3", 1, nil),
	}
	ap := postqpp.PseudoAveragePrecision(docexp.NewQuery("q", nil), hits, []string{"d2", "d3"})
	if math.Abs(ap-(0.5+2.0/3.0)/2) > 1e-12 {
		t.Fatalf("unexpected pseudo AP %f", ap)
	}
}

func TestAvgLogIDF(t *testing.T) {
	m := newIndex(t)
	idf, err := postqpp.AvgLogIDF.Execute(docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"mouse", "zebra"})), m)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(idf-math.Log10(3)) > 1e-12 {
		t.Fatalf("unexpected idf %f", idf)
	}
}

func TestScoredInformationGain(t *testing.T) {
	m := newIndex(t)
	q := docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"cat"}))
	hits := docexp.SearchHits{
		docexp.NewSearchHit("d1", 0, m),
		docexp.NewSearchHit("d2", 0, m),
	}
	wig, err := postqpp.ScoredInformationGain(q, m, scoring.NewDirichletDocScorer(m, scoring.DirichletMu(0)), hits)
	if err != nil {
		t.Fatal(err)
	}
	// p(cat|d1) = 2/3 and p_c(cat) = 4/12; d2 has no cat.
	if expected := math.Log10(2) / 2; math.Abs(wig-expected) > 1e-12 {
		t.Fatalf("expected %f, got %f", expected, wig)
	}
	if none, _ := postqpp.ScoredInformationGain(q, m, scoring.NewDirichletDocScorer(m), nil); none != 0 {
		t.Fatalf("expected 0 without hits, got %f", none)
	}
}
