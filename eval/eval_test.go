package eval_test

import (
	"math"
	"strings"
	"testing"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/eval"
)

func load(t *testing.T) (*eval.Qrels, *docexp.SearchHitsBatch) {
	qrels, err := eval.LoadQrels("testdata/small.qrels")
	if err != nil {
		t.Fatal(err)
	}
	run, err := eval.LoadRun("testdata/small.run", nil)
	if err != nil {
		t.Fatal(err)
	}
	return qrels, run
}

func TestQrels(t *testing.T) {
	qrels, _ := load(t)
	if got := qrels.RelevantDocs("1"); strings.Join(got, ",") != "d1,d3,d4" {
		t.Errorf("unexpected relevant documents %v", got)
	}
	if got := qrels.NonRelevantDocs("1"); strings.Join(got, ",") != "d2" {
		t.Errorf("unexpected non-relevant documents %v", got)
	}
	if len(qrels.Pool("1")) != 4 || len(qrels.Pool("3")) != 0 {
		t.Error("unexpected pool size")
	}
	if qrels.RelLevel("1", "d3") != 2 || qrels.RelLevel("1", "d5") != 0 {
		t.Error("unexpected relevance level")
	}

	qrels.MinRelevance = 2
	if got := qrels.RelevantDocs("1"); strings.Join(got, ",") != "d3" {
		t.Errorf("unexpected relevant documents at grade 2: %v", got)
	}
}

func TestReadRun(t *testing.T) {
	_, run := load(t)
	if q := run.Queries(); len(q) != 2 || q[0] != "1" || q[1] != "2" {
		t.Fatalf("unexpected queries %v", q)
	}
	hits := run.Hits("1")
	if len(hits) != 4 || hits[2].Docno != "d3" || hits[2].Score != 8 {
		t.Fatalf("unexpected hits for query 1")
	}
	if _, err := eval.LoadRun("testdata/broken.run", nil); err == nil {
		t.Fatal("expected an error for a non-contiguous query")
	}
	if _, err := eval.ReadRun(strings.NewReader("1 Q0 d1 1\n"), nil); err == nil {
		t.Fatal("expected an error for a short line")
	}
}

func TestEvaluators(t *testing.T) {
	qrels, run := load(t)
	hits := run.Hits("1")

	ideal := 3/math.Log(2) + 1/math.Log(3) + 1/math.Log(4)
	dcg := 1/math.Log(2) + 3/math.Log(4)

	tests := []struct {
		e        eval.Evaluator
		expected float64
	}{
		{eval.AP, (1 + 2.0/3.0) / 3},
		{eval.Precision, 0.5},
		{eval.Recall, 2.0 / 3.0},
		{eval.PrecisionAtK{K: 2}, 0.5},
		{eval.RecallAtK{K: 1}, 1.0 / 3.0},
		{eval.NumRelRet, 2},
		{eval.NDCG{}, dcg / ideal},
	}
	for _, test := range tests {
		if got := qrels.Evaluate(test.e, "1", hits); math.Abs(got-test.expected) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", test.e.Name(), test.expected, got)
		}
	}

	if got := qrels.Evaluate(eval.NDCG{K: 10}, "3", hits); got != 0 {
		t.Errorf("expected nDCG of an unjudged query to be 0, got %f", got)
	}
	if got := qrels.Evaluate(eval.AP, "3", hits); got != 0 {
		t.Errorf("expected AP of an unjudged query to be 0, got %f", got)
	}

	scores := eval.Evaluate([]eval.Evaluator{eval.AP}, run, qrels)
	if math.Abs(scores["2"]["AP"]-0.5) > 1e-9 {
		t.Errorf("expected AP 0.5 for query 2, got %f", scores["2"]["AP"])
	}
	if m := eval.Mean(scores, "AP"); math.Abs(m-((1+2.0/3.0)/3+0.5)/2) > 1e-9 {
		t.Errorf("unexpected MAP %f", m)
	}
}

func TestPseudoQrels(t *testing.T) {
	_, run := load(t)
	qrels := eval.PseudoQrels("1", []string{"d2", "d5"})
	results := eval.ResultList("1", run.Hits("1"))
	if got := eval.AP.Score(&results, qrels); math.Abs(got-(1.0/2.0+2.0/4.0)/2) > 1e-9 {
		t.Fatalf("unexpected pseudo AP %f", got)
	}
}
