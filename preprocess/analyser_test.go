package preprocess_test

import (
	"reflect"
	"testing"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/preprocess"
)

func TestStandardAnalyser(t *testing.T) {
	a := preprocess.NewStandardAnalyser(
		preprocess.AnalyserStopper(docexp.NewStopper("the")),
		preprocess.AnalyserStemming(true),
	)
	terms, err := a.Analyse("The <b>Cats</b> jumped over the dogs")
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"cat", "jump", "over", "dog"}
	if !reflect.DeepEqual(terms, expected) {
		t.Fatalf("expected %v, got %v", expected, terms)
	}
}

func TestVector(t *testing.T) {
	v, err := preprocess.Vector(preprocess.NewStandardAnalyser(), "cat dog cat")
	if err != nil {
		t.Fatal(err)
	}
	if v.Weight("cat") != 2 || v.Weight("dog") != 1 || v.Length() != 3 {
		t.Fatalf("unexpected vector %v", v.Map())
	}
}

func TestRemoveNumbers(t *testing.T) {
	v := docexp.TermVectorFromMap(map[string]float64{"1990": 2, "cat": 1, "b52": 1})
	preprocess.RemoveNumbers(v)
	if v.Contains("1990") || !v.Contains("b52") || v.Length() != 2 {
		t.Fatalf("unexpected vector %v", v.Map())
	}
}
