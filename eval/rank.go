package eval

import (
	"fmt"
	"math"
	"sort"

	"github.com/hscells/trecresults"
)

// DCG is discounted cumulative gain with gain (2^rel-1)/ln(rank+1).
type DCG struct{ K int }

// NDCG is DCG normalised by the DCG of the ideal ranking of the judged relevant documents.
type NDCG struct{ K int }

var (
	// AP is (uninterpolated) average precision.
	AP = ap{}
)

type ap struct{}

func (e ap) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	R := NumRel.Score(results, qrels)
	if R == 0 {
		return 0
	}
	var sum, rels float64
	for i, res := range *results {
		if isRel(qrels, res.DocId) {
			rels++
			sum += rels / float64(i+1)
		}
	}
	ap := sum / R
	if math.IsNaN(ap) {
		return 0
	}
	return ap
}

func (e ap) Name() string {
	return "AP"
}

func (e DCG) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	var score float64
	for i, item := range *results {
		// Compute DCG at a cutoff.
		if e.K != 0 && i >= e.K {
			break
		}
		if qrel, ok := qrels[item.DocId]; ok && qrel.Score > 0 {
			score += (math.Pow(2, float64(qrel.Score)) - 1) / math.Log(float64(i)+2)
		}
	}
	return score
}

func (e DCG) Name() string {
	if e.K > 0 {
		return fmt.Sprintf("DCG@%d", e.K)
	}
	return "DCG"
}

func (e NDCG) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	// Compute ideal discounted cumulative gain.
	var ideal trecresults.ResultList
	for _, rel := range qrels {
		if !isRel(qrels, rel.DocId) {
			continue
		}
		ideal = append(ideal, &trecresults.Result{
			Topic: rel.Topic,
			DocId: rel.DocId,
			Score: float64(rel.Score),
		})
	}
	sort.Slice(ideal, func(i, j int) bool {
		if ideal[i].Score == ideal[j].Score {
			return ideal[i].DocId < ideal[j].DocId
		}
		return ideal[i].Score > ideal[j].Score
	})

	idcg := DCG{K: e.K}.Score(&ideal, qrels)
	if idcg == 0 {
		return 0
	}
	return DCG{K: e.K}.Score(results, qrels) / idcg
}

func (e NDCG) Name() string {
	if e.K > 0 {
		return fmt.Sprintf("nDCG@%d", e.K)
	}
	return "nDCG"
}
