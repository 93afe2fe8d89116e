package expansion_test

import (
	"math"
	"strings"
	"testing"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/stats"
)

type countingIndex struct {
	*stats.MemoryIndex
	executions int
}

func (c *countingIndex) Execute(query *docexp.Query, k int) (docexp.SearchHits, error) {
	c.executions++
	return c.MemoryIndex.Execute(query, k)
}

func newExpansionIndex(t *testing.T) *countingIndex {
	m := stats.NewMemoryIndex()
	docs := map[string]map[string]float64{
		"e1": {"cat": 3, "dog": 1},
		"e2": {"cat": 1, "bird": 2},
		"e3": {"fish": 4},
	}
	for _, docno := range []string{"e1", "e2", "e3"} {
		if err := m.Add(docno, docexp.TermVectorFromMap(docs[docno])); err != nil {
			t.Fatal(err)
		}
	}
	return &countingIndex{MemoryIndex: m}
}

func target() *docexp.SearchHit {
	return docexp.NewVectorHit("t1", 0, docexp.TermVectorFromMap(map[string]float64{"cat": 2, "dog": 2}))
}

func TestExpandDocument(t *testing.T) {
	index := newExpansionIndex(t)
	e := expansion.NewDocumentExpander(index)

	hits, err := e.ExpandDocument(target(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].Docno != "e1" || hits[1].Docno != "e2" {
		t.Fatalf("unexpected expansion documents %v", hits.Docnos())
	}

	hits, err = e.ExpandDocument(target(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Docno != "e1" {
		t.Fatalf("unexpected expansion documents %v", hits.Docnos())
	}
	if index.executions != 1 {
		t.Fatalf("expected expansion to be cached, executed %d queries", index.executions)
	}
}

func TestExpandDocumentExcludesItself(t *testing.T) {
	index := newExpansionIndex(t)
	e := expansion.NewDocumentExpander(index)
	doc := docexp.NewSearchHit("e1", 0, index)
	hits, err := e.ExpandDocument(doc, 5)
	if err != nil {
		t.Fatal(err)
	}
	if hits.Rank("e1") != 0 {
		t.Fatalf("document was expanded with itself: %v", hits.Docnos())
	}
}

func TestDocumentQuery(t *testing.T) {
	index := newExpansionIndex(t)
	doc := docexp.NewVectorHit("t1", 0, docexp.TermVectorFromMap(map[string]float64{"cat": 3, "dog": 2, "the": 9, "bird": 1}))
	e := expansion.NewDocumentExpander(index, expansion.ExpanderNumTerms(2), expansion.ExpanderStopper(docexp.NewStopper("the")))
	q, err := e.DocumentQuery(doc)
	if err != nil {
		t.Fatal(err)
	}
	if q.Vector.FeatureCount() != 2 || !q.Vector.Contains("cat") || !q.Vector.Contains("dog") {
		t.Fatalf("unexpected document query %v", q.Vector.Map())
	}
	v, _ := doc.TermVector()
	if !v.Contains("the") {
		t.Fatal("document query modified the document")
	}

	query := docexp.NewQuery("q1", docexp.TermVectorFromMap(map[string]float64{"fish": 1}))
	qe := expansion.NewQueryDependentDocumentExpander(index, query, 0.5, expansion.ExpanderNumTerms(2), expansion.ExpanderStopper(docexp.NewStopper("the")))
	q, err = qe.DocumentQuery(doc)
	if err != nil {
		t.Fatal(err)
	}
	if q.Vector.Weight("fish") != 0.5 || q.Vector.Weight("cat") != 0.3 {
		t.Fatalf("unexpected query dependent document query %v", q.Vector.Map())
	}
}

func TestPseudoQuery(t *testing.T) {
	index := newExpansionIndex(t)
	e := expansion.NewDocumentExpander(index, expansion.ExpanderStopper(docexp.NewStopper("dog")), expansion.ExpanderMaxNumDocs(2))
	q, err := e.PseudoQuery(target())
	if err != nil {
		t.Fatal(err)
	}
	if q.Vector.Contains("dog") || !q.Vector.Contains("cat") || !q.Vector.Contains("bird") {
		t.Fatalf("unexpected pseudo-query %v", q.Vector.Map())
	}
	if q.Vector.Contains("fish") {
		t.Fatal("pseudo-query contains terms from documents that were not retrieved")
	}

	empty := docexp.NewVectorHit("t2", 0, docexp.TermVectorFromMap(map[string]float64{"unicorn": 1}))
	q, err = e.PseudoQuery(empty)
	if err != nil {
		t.Fatal(err)
	}
	if q.Vector.Length() != 0 {
		t.Fatalf("expected an empty pseudo-query, got %v", q.Vector.Map())
	}
}

// bm25Index scores e1 and e2 as a BM25 engine would, with scores that are not log-likelihoods.
type bm25Index struct {
	*countingIndex
}

func (b bm25Index) Execute(query *docexp.Query, k int) (docexp.SearchHits, error) {
	return docexp.SearchHits{
		docexp.NewSearchHit("e1", 3, b),
		docexp.NewSearchHit("e2", 1, b),
	}, nil
}

func (bm25Index) LinearScores() bool {
	return true
}

func TestPseudoQueryLinearScores(t *testing.T) {
	e := expansion.NewDocumentExpander(bm25Index{newExpansionIndex(t)}, expansion.ExpanderMaxNumDocs(2))
	q, err := e.PseudoQuery(target())
	if err != nil {
		t.Fatal(err)
	}
	// e1 and e2 weigh 3/4 and 1/4.
	expected := map[string]float64{
		"cat":  0.75*0.75 + 0.25/3,
		"dog":  0.75 * 0.25,
		"bird": 0.25 * 2 / 3,
	}
	for term, w := range expected {
		if math.Abs(q.Vector.Weight(term)-w) > 1e-12 {
			t.Errorf("expected %s to weigh %f, got %f", term, w, q.Vector.Weight(term))
		}
	}

	// Stored clusters keep log-likelihood weighting over the same index.
	pre, err := expansion.NewPreExpandedDocumentExpander(strings.NewReader("t1 e1 3\nt1 e2 1\n"), bm25Index{newExpansionIndex(t)})
	if err != nil {
		t.Fatal(err)
	}
	hits, err := pre.ExpandDocument(target(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if w := stats.ScoreWeights(pre, hits); math.Abs(w[0]-1/(1+math.Exp(-2))) > 1e-12 {
		t.Fatalf("expected posterior weights for stored clusters, got %v", w)
	}
}

func TestPreExpandedDocumentExpander(t *testing.T) {
	index := newExpansionIndex(t)
	clusters := "t1 e2 0.5\nt1 e1 0.9\nt1 e3 0.1\n"
	e, err := expansion.NewPreExpandedDocumentExpander(strings.NewReader(clusters), index)
	if err != nil {
		t.Fatal(err)
	}
	hits, err := e.ExpandDocument(target(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].Docno != "e1" || hits[1].Docno != "e2" {
		t.Fatalf("unexpected expansion documents %v", hits.Docnos())
	}
	hits, err = e.ExpandDocument(docexp.NewVectorHit("t9", 0, nil), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatal("expected no expansion documents for an unknown document")
	}
}

func TestDiskHitsCache(t *testing.T) {
	c := expansion.NewDiskHitsCache(t.TempDir())
	if _, err := c.Get("t1:10"); err != expansion.ErrCacheMiss {
		t.Fatalf("expected a cache miss, got %v", err)
	}
	hits := []expansion.CachedHit{{Docno: "e1", Score: -1.5}, {Docno: "e2", Score: -2}}
	if err := c.Set("t1:10", hits); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get("t1:10")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Docno != "e2" || got[1].Score != -2 {
		t.Fatalf("unexpected cached hits %v", got)
	}
}
