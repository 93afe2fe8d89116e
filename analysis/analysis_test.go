package analysis_test

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
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

func vec(m map[string]float64) *docexp.TermVector {
	return docexp.TermVectorFromMap(m)
}

func TestDocumentFeatures(t *testing.T) {
	v := vec(map[string]float64{"cat": 2, "dog": 1, "mouse": 1})
	if analysis.DocumentLength(v) != 4 {
		t.Errorf("expected length 4, got %f", analysis.DocumentLength(v))
	}
	if analysis.DocumentDiversity(v) != 0.75 {
		t.Errorf("expected diversity 0.75, got %f", analysis.DocumentDiversity(v))
	}
	if math.Abs(analysis.DocumentEntropy(v)-1.5) > 1e-12 {
		t.Errorf("expected entropy 1.5, got %f", analysis.DocumentEntropy(v))
	}
	empty := docexp.NewTermVector()
	if analysis.DocumentDiversity(empty) != 0 || analysis.DocumentEntropy(empty) != 0 {
		t.Error("expected empty documents to have zero diversity and entropy")
	}

	hits := docexp.SearchHits{
		docexp.NewVectorHit("d1", 3, nil),
		docexp.NewVectorHit("d2", 2, nil),
	}
	if analysis.DocumentRank(hits[1], hits) != 2 {
		t.Error("expected d2 at rank 2")
	}
	if analysis.DocumentRank(docexp.NewVectorHit("d9", 0, nil), hits) != 0 {
		t.Error("expected an absent document at rank 0")
	}

	q := docexp.NewQuery("q", docexp.TermVectorFromTerms([]string{"cat"}))
	if analysis.QueryProminence(v, q) != 0.5 {
		t.Errorf("expected query prominence 0.5, got %f", analysis.QueryProminence(v, q))
	}
}

func TestClarity(t *testing.T) {
	m := newIndex(t)
	v, err := m.TermVector("d1")
	if err != nil {
		t.Fatal(err)
	}
	clarity, err := analysis.Clarity(v, m)
	if err != nil {
		t.Fatal(err)
	}
	expected := 2.0/3.0*math.Log(2) + 1.0/3.0*math.Log(0.8)
	if math.Abs(clarity-expected) > 1e-12 {
		t.Fatalf("expected clarity %f, got %f", expected, clarity)
	}

	s := analysis.NewSample(docexp.NewSearchHit("d1", 0, m), docexp.NewQuery("q", nil), m, nil)
	values, err := analysis.MeasureAll(s, []analysis.DocumentMeasurement{analysis.Length, analysis.DocumentClarity, analysis.Prominence})
	if err != nil {
		t.Fatal(err)
	}
	if values[0] != 3 || math.Abs(values[1]-expected) > 1e-12 || values[2] != 0 {
		t.Fatalf("unexpected sample measurements %v", values)
	}
	if names := analysis.Names([]analysis.DocumentMeasurement{analysis.Length, analysis.Diversity}); strings.Join(names, ",") != "length,diversity" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := vec(map[string]float64{"cat": 2, "dog": 1})
	b := vec(map[string]float64{"dog": 3, "mouse": 1})
	if math.Abs(analysis.CosineSimilarity(a, a)-1) > 1e-12 {
		t.Errorf("expected self similarity of 1, got %f", analysis.CosineSimilarity(a, a))
	}
	if analysis.CosineSimilarity(a, b) != analysis.CosineSimilarity(b, a) {
		t.Error("expected cosine similarity to be symmetric")
	}
	if analysis.CosineSimilarity(a, docexp.NewTermVector()) != 0 {
		t.Error("expected similarity with an empty vector to be 0")
	}
	expected := 3.0 / (math.Sqrt(5) * math.Sqrt(10))
	if math.Abs(analysis.CosineSimilarity(a, b)-expected) > 1e-12 {
		t.Errorf("expected %f, got %f", expected, analysis.CosineSimilarity(a, b))
	}
}

func TestGroupSimilarity(t *testing.T) {
	one := docexp.SearchHits{docexp.NewVectorHit("d1", 0, vec(map[string]float64{"cat": 1}))}
	if s, err := analysis.PairwiseSimilarity(one, analysis.CosineSimilarity); err != nil || s != 0 {
		t.Fatalf("expected 0 for a single hit, got %f (%v)", s, err)
	}

	hits := docexp.SearchHits{
		docexp.NewVectorHit("d1", 0, vec(map[string]float64{"cat": 1})),
		docexp.NewVectorHit("d2", 0, vec(map[string]float64{"cat": 1})),
		docexp.NewVectorHit("d3", 0, vec(map[string]float64{"dog": 1})),
	}
	s, err := analysis.PairwiseSimilarity(hits, analysis.CosineSimilarity)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s-1.0/3.0) > 1e-12 {
		t.Fatalf("expected pairwise similarity 1/3, got %f", s)
	}

	g, err := analysis.AverageGroupSimilarity(hits, analysis.CosineSimilarity)
	if err != nil {
		t.Fatal(err)
	}
	// d1 and d2 each compare against {cat:1, dog:1}, d3 against {cat:2}.
	expected := (2 * (1 / math.Sqrt(2))) / 3
	if math.Abs(g-expected) > 1e-12 {
		t.Fatalf("expected average group similarity %f, got %f", expected, g)
	}
	if g, _ := analysis.AverageGroupSimilarity(nil, analysis.CosineSimilarity); g != 0 {
		t.Fatal("expected 0 for no hits")
	}
}

func TestJaccardSimilarity(t *testing.T) {
	if j := analysis.JaccardSimilarity([]string{"b", "a", "a"}, []string{"c", "b"}); math.Abs(j-1.0/3.0) > 1e-12 {
		t.Fatalf("expected 1/3, got %f", j)
	}
	if j := analysis.JaccardSimilarity(nil, nil); j != 0 {
		t.Fatalf("expected 0 for empty sets, got %f", j)
	}
}

func TestRMImprovementRank(t *testing.T) {
	doc := docexp.NewVectorHit("d2", 0, nil)
	ranking := func(docnos ...string) docexp.SearchHits {
		var hits docexp.SearchHits
		for _, d := range docnos {
			hits = append(hits, docexp.NewVectorHit(d, 0, nil))
		}
		return hits
	}
	tests := []struct {
		name     string
		orig, rm docexp.SearchHits
		policy   analysis.TiePolicy
		expected int
	}{
		{"improved", ranking("d1", "d3", "d2"), ranking("d2"), analysis.TieAsWorse, 1},
		{"newly retrieved", ranking("d1"), ranking("d1", "d2"), analysis.TieAsWorse, 1},
		{"worse", ranking("d2"), ranking("d1", "d2"), analysis.TieAsZero, -1},
		{"dropped", ranking("d2"), ranking("d1"), analysis.TieAsZero, -1},
		{"tie as worse", ranking("d1", "d2"), ranking("d3", "d2"), analysis.TieAsWorse, -1},
		{"tie as zero", ranking("d1", "d2"), ranking("d3", "d2"), analysis.TieAsZero, 0},
	}
	for _, test := range tests {
		if got := analysis.RMImprovementRank(doc, test.orig, test.rm, test.policy); got != test.expected {
			t.Errorf("%s: expected %d, got %d", test.name, test.expected, got)
		}
	}
	if analysis.RankChange(doc, ranking("d1", "d3", "d2"), ranking("d2")) != 2 {
		t.Error("expected a rank change of 2")
	}
}

func TestLanguageModelFeatures(t *testing.T) {
	p := vec(map[string]float64{"a": 0.5, "b": 0.5})
	q := vec(map[string]float64{"a": 0.25, "b": 0.75})
	expected := 0.5 + 0.5*math.Log2(0.5/0.75)
	if kl := analysis.KLDivergence(p, q); math.Abs(kl-expected) > 1e-9 {
		t.Errorf("expected KL %f, got %f", expected, kl)
	}
	if kl := analysis.KLDivergence(p, vec(map[string]float64{"a": 1})); kl != analysis.NotComputable {
		t.Errorf("expected KL to be not computable, got %f", kl)
	}
	if js := analysis.JensenShannonDivergence(p, p); math.Abs(js) > 1e-12 {
		t.Errorf("expected JS of identical models to be 0, got %f", js)
	}
	if js := analysis.JensenShannonDivergence(p, vec(map[string]float64{"c": 1})); math.Abs(js-1) > 1e-9 {
		t.Errorf("expected JS of disjoint models to be 1 bit, got %f", js)
	}

	sample := vec(map[string]float64{"a": 1, "b": 1})
	model := vec(map[string]float64{"a": 0.5, "b": 0.25})
	if pp := analysis.Perplexity(sample, model); math.Abs(pp-math.Pow(2, 1.5)) > 1e-9 {
		t.Errorf("expected perplexity %f, got %f", math.Pow(2, 1.5), pp)
	}
	if pp := analysis.Perplexity(docexp.NewTermVector(), model); pp != analysis.NotComputable {
		t.Errorf("expected perplexity of an empty sample to be not computable, got %f", pp)
	}
}

func TestWeightedSample(t *testing.T) {
	weights := map[string]float64{"a": 1, "b": 2, "c": 3, "d": 0}
	draw := func(seed int64) []string {
		rng := rand.New(rand.NewSource(seed))
		var s []string
		for i := 0; i < 20; i++ {
			term, err := analysis.WeightedSample(weights, rng)
			if err != nil {
				t.Fatal(err)
			}
			s = append(s, term)
		}
		return s
	}
	first, second := draw(42), draw(42)
	if strings.Join(first, "") != strings.Join(second, "") {
		t.Fatal("expected the same draws from the same seed")
	}
	if strings.Contains(strings.Join(first, ""), "d") {
		t.Fatal("a zero weight term was drawn")
	}

	rng := rand.New(rand.NewSource(1))
	if term, err := analysis.WeightedSample(map[string]float64{"x": 0, "y": 0}, rng); err != nil || (term != "x" && term != "y") {
		t.Fatalf("expected a uniform draw, got %q (%v)", term, err)
	}
	if _, err := analysis.WeightedSample(map[string]float64{}, rng); err == nil {
		t.Fatal("expected an error for an empty distribution")
	}

	counts := make(map[string]int)
	for i := 0; i < 6000; i++ {
		term, _ := analysis.WeightedSample(weights, rng)
		counts[term]++
	}
	if counts["c"] < counts["a"] {
		t.Fatalf("expected heavier terms to be drawn more often, got %v", counts)
	}
}

func TestSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	v := vec(map[string]float64{"cat": 1, "cats": 1, "dog": 1, "the": 5})
	terms, err := analysis.SampleTerms(5, v, docexp.NewStopper("the"), []string{"dog"}, true, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 1 || (terms[0] != "cat" && terms[0] != "cats") {
		t.Fatalf("unexpected sample %v", terms)
	}

	hits := docexp.SearchHits{
		docexp.NewVectorHit("d1", 3, nil),
		docexp.NewVectorHit("d2", 2, nil),
		docexp.NewVectorHit("d3", 1, nil),
	}
	sample := analysis.SampleDocuments(2, hits, rng)
	if len(sample) != 2 || sample[0].Score < sample[1].Score {
		t.Fatalf("unexpected document sample %v", sample.Docnos())
	}
	if len(analysis.SampleDocuments(10, hits, rng)) != 3 {
		t.Fatal("expected every hit when sampling more than there are")
	}
}

func TestUserStudy(t *testing.T) {
	tt, err := analysis.ReadTopicTerms(strings.NewReader("u1,d1,AP_88-89,Dog\nu1,d1,AP_88-89,cat\nu2,d2,robust,fish\n"))
	if err != nil {
		t.Fatal(err)
	}
	if terms := tt.TermsFor("u1", "d1"); strings.Join(terms, ",") != "cat,dog" {
		t.Errorf("unexpected topic terms %v", terms)
	}
	if docnos := tt.Docnos(""); strings.Join(docnos, ",") != "d1,d2" {
		t.Errorf("unexpected documents %v", docnos)
	}
	if len(tt.AnnotationsBy("u2")) != 1 {
		t.Error("expected one annotation by u2")
	}
	if c := tt.CollectionOf("d2"); c != "robust" {
		t.Errorf("expected d2 to come from robust, got %q", c)
	}

	lm := vec(map[string]float64{"cat": 0.5, "dog": 0.3, "mouse": 0.2})
	if ap := analysis.TopicTermsAveragePrecision([]string{"dog"}, lm); math.Abs(ap-0.5) > 1e-12 {
		t.Errorf("expected topic term AP 0.5, got %f", ap)
	}
	before := vec(map[string]float64{"cat": 0.4, "dog": 0.1})
	if c := analysis.ProbabilityChange([]string{"cat", "dog"}, before, lm); math.Abs(c-0.3) > 1e-12 {
		t.Errorf("expected probability change 0.3, got %f", c)
	}

	pq := docexp.NewQuery("d1", vec(map[string]float64{"cat": 1, "bird": 1}))
	if r := analysis.PseudoQueryTermRecall(pq, []string{"cat", "dog"}); r != 0.5 {
		t.Errorf("expected recall 0.5, got %f", r)
	}
	if j := analysis.PseudoQueryTermJaccard(pq, []string{"cat", "dog"}); math.Abs(j-1.0/3.0) > 1e-12 {
		t.Errorf("expected jaccard 1/3, got %f", j)
	}

	m := newIndex(t)
	r, err := analysis.PseudoQueryVsTopicTermsResultsRecall(docexp.NewQuery("q", vec(map[string]float64{"cat": 1})), []string{"cat"}, m)
	if err != nil || r != 1 {
		t.Errorf("expected identical queries to have recall 1, got %f (%v)", r, err)
	}
}

func TestPairedTTest(t *testing.T) {
	p := analysis.PairedTTest([]float64{1, 2, 3, 4}, []float64{0, 0, 0, 0})
	if p < 0.02 || p > 0.04 {
		t.Errorf("expected p close to 0.03, got %f", p)
	}
	if p := analysis.PairedTTest([]float64{1}, []float64{0}); p != analysis.NotComputable {
		t.Errorf("expected a single pair to be not computable, got %f", p)
	}
	if p := analysis.PairedTTest([]float64{1, 2}, []float64{1, 2}); p != analysis.NotComputable {
		t.Errorf("expected zero variance to be not computable, got %f", p)
	}
}
