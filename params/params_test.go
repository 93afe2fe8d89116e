package params_test

import (
	"strings"
	"testing"

	"github.com/hscells/docexp/params"
)

const table = `301 origW:0.3,expDocs:10,expTerms:20,expW:0.5,expW:0.2
302 origW:0.6,v:50
301 origW:0.9
`

func TestOptimalParameters(t *testing.T) {
	tab, err := params.Read(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}

	p := tab.For("301")
	if p.OrigWeight != 0.3 || p.NumDocs != 10 || p.NumTerms != 20 {
		t.Fatalf("unexpected parameters %+v", p)
	}
	if len(p.ExpansionWeights) != 2 || p.ExpansionWeights[0] != 0.5 || p.ExpansionWeights[1] != 0.2 {
		t.Fatalf("unexpected expansion weights %v", p.ExpansionWeights)
	}
	if w := p.Weights(); len(w) != 3 || w[0] != 0.3 {
		t.Fatalf("unexpected interpolation weights %v", w)
	}
	if id := p.RunID(); id != "origW:0.3,expDocs:10,expTerms:20,expW:0.5,expW:0.2" {
		t.Fatalf("unexpected run id %s", id)
	}

	p = tab.For("302")
	if p.OrigWeight != 0.6 || p.VectorSize != 50 || p.NumDocs != 5 || p.NumTerms != 5 {
		t.Fatalf("expected defaults to fill missing keys, got %+v", p)
	}
	if len(p.ExpansionWeights) != 0 {
		t.Fatalf("expected no expansion weights for a line without expW, got %v", p.ExpansionWeights)
	}
	if w := p.Weights(); len(w) != 1 || w[0] != 0.6 {
		t.Fatalf("unexpected interpolation weights %v", w)
	}

	if tab.Contains("999") {
		t.Fatal("unexpected parameters for 999")
	}
	if d := tab.For("999"); d.OrigWeight != 1 || len(d.ExpansionWeights) != 1 || d.RunID() != "origW:1,expDocs:5,expTerms:5" {
		t.Fatalf("unexpected default parameters %+v", d)
	}
}

func TestOptimalParametersErrors(t *testing.T) {
	if _, err := params.Load("testdata/missing.params"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if _, err := params.Read(strings.NewReader("301 origW:abc\n")); err == nil {
		t.Fatal("expected an error for a malformed weight")
	}
}
