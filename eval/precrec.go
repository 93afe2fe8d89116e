package eval

import (
	"fmt"
	"math"

	"github.com/hscells/trecresults"
)

// RelevanceGrade is the grade a judgment must exceed to count as relevant.
var RelevanceGrade = 0

type recallEvaluator struct{}
type precisionEvaluator struct{}
type numRel struct{}
type numRet struct{}
type numRelRet struct{}

// PrecisionAtK is precision over the first K results.
type PrecisionAtK struct{ K int }

// RecallAtK is recall over the first K results.
type RecallAtK struct{ K int }

// FMeasure computes f-measure, with the beta parameter controlling the precision and recall trade-off.
type FMeasure struct {
	beta float64
}

var (
	// Recall calculates recall.
	Recall = recallEvaluator{}
	// Precision calculates precision.
	Precision = precisionEvaluator{}
	// NumRel is the number of relevant documents.
	NumRel = numRel{}
	// NumRet is the number of retrieved documents.
	NumRet = numRet{}
	// NumRelRet is the number of relevant documents retrieved.
	NumRelRet = numRelRet{}

	// F1Measure is f-measure with beta=1.
	F1Measure = FMeasure{beta: 1}
)

func isRel(qrels trecresults.Qrels, docID string) bool {
	qrel, ok := qrels[docID]
	return ok && int(qrel.Score) > RelevanceGrade
}

func cutoff(results *trecresults.ResultList, k int) *trecresults.ResultList {
	if k <= 0 || k >= len(*results) {
		return results
	}
	l := (*results)[:k]
	return &l
}

func (rec recallEvaluator) Name() string {
	return "Recall"
}

func (rec recallEvaluator) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	rel := NumRel.Score(results, qrels)
	if rel == 0 {
		return 0
	}
	return NumRelRet.Score(results, qrels) / rel
}

func (prec precisionEvaluator) Name() string {
	return "Precision"
}

func (prec precisionEvaluator) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	if len(*results) == 0 {
		return 0
	}
	return NumRelRet.Score(results, qrels) / float64(len(*results))
}

func (numRel) Name() string {
	return "NumRel"
}

func (numRel) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	var n float64
	for docID := range qrels {
		if isRel(qrels, docID) {
			n++
		}
	}
	return n
}

func (numRet) Name() string {
	return "NumRet"
}

func (numRet) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	return float64(len(*results))
}

func (numRelRet) Name() string {
	return "NumRelRet"
}

func (numRelRet) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	var n float64
	for _, result := range *results {
		if isRel(qrels, result.DocId) {
			n++
		}
	}
	return n
}

func (p PrecisionAtK) Name() string {
	return fmt.Sprintf("P@%d", p.K)
}

// Score divides by K rather than by the number of results, as trec_eval does.
func (p PrecisionAtK) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	if p.K <= 0 {
		return Precision.Score(results, qrels)
	}
	return NumRelRet.Score(cutoff(results, p.K), qrels) / float64(p.K)
}

func (r RecallAtK) Name() string {
	return fmt.Sprintf("Recall@%d", r.K)
}

func (r RecallAtK) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	return Recall.Score(cutoff(results, r.K), qrels)
}

func (f FMeasure) Name() string {
	return fmt.Sprintf("F%v", f.beta)
}

func (f FMeasure) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	p := Precision.Score(results, qrels)
	r := Recall.Score(results, qrels)
	b2 := math.Pow(f.beta, 2)
	if p == 0 && r == 0 {
		return 0
	}
	return (1 + b2) * (p * r) / ((b2 * p) + r)
}
