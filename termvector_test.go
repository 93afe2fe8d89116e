package docexp_test

import (
	"math"
	"testing"

	"github.com/hscells/docexp"
)

func TestTermVectorLength(t *testing.T) {
	v := docexp.TermVectorFromMap(map[string]float64{"cat": 2, "dog": 1, "mouse": 5})
	if v.Length() != 8 {
		t.Fatalf("expected length 8, got %f", v.Length())
	}
	v.Add("cat", 1)
	v.Set("mouse", 1)
	v.Remove("dog")
	if v.Length() != 4 {
		t.Fatalf("expected length 4 after mutation, got %f", v.Length())
	}
	if v.FeatureCount() != 2 {
		t.Fatalf("expected 2 features, got %d", v.FeatureCount())
	}
	v.Add("bird", -1)
	if v.Contains("bird") {
		t.Fatal("negative weights must not be added")
	}
}

func TestTermVectorClip(t *testing.T) {
	v := docexp.TermVectorFromMap(map[string]float64{"a": 1, "b": 3, "c": 3, "d": 2})
	v.Clip(2)
	if !v.Contains("b") || !v.Contains("c") || v.FeatureCount() != 2 {
		t.Fatalf("unexpected clipped terms %v", v.Terms())
	}
	if v.Length() != 6 {
		t.Fatalf("expected length 6, got %f", v.Length())
	}

	// Ties at the boundary are resolved alphabetically.
	v = docexp.TermVectorFromMap(map[string]float64{"z": 1, "y": 1, "x": 1})
	v.Clip(1)
	if !v.Contains("x") {
		t.Fatalf("expected x to survive clipping, got %v", v.Terms())
	}
}

func TestTermVectorStopper(t *testing.T) {
	v := docexp.TermVectorFromMap(map[string]float64{"the": 4, "cat": 1})
	v.ApplyStopper(docexp.NewStopper())
	if !v.Contains("the") || v.Length() != 5 {
		t.Fatal("empty stopper must be a no-op")
	}
	var nilStopper *docexp.Stopper
	v.ApplyStopper(nilStopper)
	if !v.Contains("the") {
		t.Fatal("nil stopper must be a no-op")
	}
	v.ApplyStopper(docexp.NewStopper("the"))
	if v.Contains("the") || v.Length() != 1 {
		t.Fatalf("expected the to be removed, got %v", v.Terms())
	}
}

func TestEnglishStopper(t *testing.T) {
	s := docexp.NewEnglishStopper("cat")
	if !s.IsStopWord("the") {
		t.Error("expected the to be a stop word")
	}
	if !s.IsStopWord("cat") {
		t.Error("expected cat to be a stop word")
	}
	if s.IsStopWord("elephant") {
		t.Error("did not expect elephant to be a stop word")
	}
}

func TestTermVectorCopy(t *testing.T) {
	v := docexp.TermVectorFromMap(map[string]float64{"cat": 2})
	c := v.Copy()
	c.Add("cat", 3)
	if v.Weight("cat") != 2 {
		t.Fatal("copy shares state with the original")
	}
}

func TestInterpolate(t *testing.T) {
	a := docexp.TermVectorFromMap(map[string]float64{"cat": 0.5, "dog": 0.5})
	b := docexp.TermVectorFromMap(map[string]float64{"dog": 0.25, "mouse": 0.75})
	v := docexp.Interpolate(a, b, 0.4)
	expected := map[string]float64{"cat": 0.2, "dog": 0.2 + 0.15, "mouse": 0.45}
	for term, w := range expected {
		if math.Abs(v.Weight(term)-w) > 1e-12 {
			t.Errorf("%s: expected %f, got %f", term, w, v.Weight(term))
		}
	}

	n := docexp.TermVectorFromMap(map[string]float64{"cat": 1, "dog": 3})
	n.Normalize()
	if math.Abs(n.Length()-1) > 1e-12 || n.Weight("dog") != 0.75 {
		t.Fatalf("unexpected normalised vector %v", n.Map())
	}
}

func TestSearchHits(t *testing.T) {
	hits := docexp.SearchHits{
		docexp.NewVectorHit("d2", 1, nil),
		docexp.NewVectorHit("d1", 3, nil),
		docexp.NewVectorHit("d3", 1, nil),
	}
	hits.Sort()
	if hits.Rank("d1") != 1 || hits.Rank("d2") != 2 || hits.Rank("d3") != 3 {
		t.Fatalf("unexpected order %v", hits.Docnos())
	}
	if hits.Rank("d4") != 0 {
		t.Fatal("expected rank 0 for a missing document")
	}
	if len(hits.Crop(2)) != 2 || len(hits.Crop(10)) != 3 {
		t.Fatal("unexpected crop")
	}
}

type countingSource struct {
	calls int
}

func (c *countingSource) TermVector(docno string) (*docexp.TermVector, error) {
	c.calls++
	return docexp.TermVectorFromTerms([]string{docno, docno}), nil
}

func TestSearchHitLazyVector(t *testing.T) {
	source := &countingSource{}
	hit := docexp.NewSearchHit("d1", 0, source)
	for i := 0; i < 3; i++ {
		v, err := hit.TermVector()
		if err != nil {
			t.Fatal(err)
		}
		if v.Weight("d1") != 2 {
			t.Fatalf("unexpected vector %v", v.Map())
		}
	}
	if source.calls != 1 {
		t.Fatalf("expected a single fetch, got %d", source.calls)
	}
}
