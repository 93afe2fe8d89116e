package stats_test

import (
	"math"
	"strings"
	"testing"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/preprocess"
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

func TestMemoryIndexStatistics(t *testing.T) {
	m := newIndex(t)

	n, _ := m.DocCount()
	df, _ := m.DocumentFrequency("cat")
	ctf, _ := m.TotalTermFrequency("cat")
	total, _ := m.TermCount()
	if n != 3 || df != 2 || ctf != 3 || total != 12 {
		t.Fatalf("unexpected statistics N=%f df=%f ctf=%f total=%f", n, df, ctf, total)
	}

	if err := m.Add("d1", docexp.NewTermVector()); err == nil {
		t.Fatal("expected an error adding a duplicate document")
	}
}

func TestMemoryIndexExecute(t *testing.T) {
	m := newIndex(t)
	hits, err := m.Execute(stats.TermQuery("cat"), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].Docno != "d1" || hits[1].Docno != "d3" {
		t.Fatalf("unexpected hits %v", hits.Docnos())
	}
	if hits[0].Score >= 0 {
		t.Fatalf("expected a log probability score, got %f", hits[0].Score)
	}

	v, err := hits[0].TermVector()
	if err != nil {
		t.Fatal(err)
	}
	if v.Weight("cat") != 2 {
		t.Fatalf("unexpected term vector %v", v.Map())
	}

	hits, err = m.Execute(stats.TermQuery("unicorn"), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %v", hits.Docnos())
	}
}

func TestLoadTrecCollection(t *testing.T) {
	collection := `<DOC>
<DOCNO> AP-1 </DOCNO>
<TEXT>
The cat sat on the mat.
</TEXT>
</DOC>
<DOC>
<DOCNO>AP-2</DOCNO>
<TEXT>A dog chased the cat.</TEXT>
</DOC>
`
	m := stats.NewMemoryIndex()
	a := preprocess.NewStandardAnalyser(preprocess.AnalyserStopper(docexp.NewStopper("the", "a", "on")))
	if err := m.LoadTrecCollection(strings.NewReader(collection), a); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", m.Len())
	}
	df, _ := m.DocumentFrequency("cat")
	if df != 2 {
		t.Fatalf("expected cat in 2 documents, got %f", df)
	}
	v, err := m.TermVector("AP-1")
	if err != nil {
		t.Fatal(err)
	}
	if v.Contains("the") || !v.Contains("mat") {
		t.Fatalf("unexpected term vector %v", v.Map())
	}
}

func TestCachedStatisticsSource(t *testing.T) {
	m := newIndex(t)
	c, err := stats.NewCachedStatisticsSource(m, 2)
	if err != nil {
		t.Fatal(err)
	}
	v, err := c.TermVector("d1")
	if err != nil {
		t.Fatal(err)
	}
	v.Add("cat", 10)
	again, err := c.TermVector("d1")
	if err != nil {
		t.Fatal(err)
	}
	if again.Weight("cat") != 2 {
		t.Fatal("mutating a fetched vector changed the cache")
	}
	df, _ := c.DocumentFrequency("dog")
	if df != 2 {
		t.Fatalf("expected df 2, got %f", df)
	}
	hits, err := c.Execute(stats.TermQuery("mouse"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Docno != "d3" {
		t.Fatalf("unexpected hits %v", hits.Docnos())
	}
}

type linearSource struct {
	*stats.MemoryIndex
}

func (linearSource) LinearScores() bool {
	return true
}

func TestScoreWeights(t *testing.T) {
	m := newIndex(t)
	hits := docexp.SearchHits{
		docexp.NewSearchHit("d1", 3, m),
		docexp.NewSearchHit("d2", 1, m),
	}
	w := stats.ScoreWeights(linearSource{m}, hits)
	if w[0] != 0.75 || w[1] != 0.25 {
		t.Fatalf("expected scores divided by their sum, got %v", w)
	}

	cached, err := stats.NewCachedStatisticsSource(linearSource{m}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if w := stats.ScoreWeights(cached, hits); w[0] != 0.75 {
		t.Fatalf("expected the cache to keep linear scores, got %v", w)
	}

	w = stats.ScoreWeights(m, hits)
	if expected := 1 / (1 + math.Exp(-2)); math.Abs(w[0]-expected) > 1e-12 {
		t.Fatalf("expected posterior %f, got %f", expected, w[0])
	}
}
