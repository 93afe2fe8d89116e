package preqpp

import (
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
	"github.com/hscells/docexp/stats"
)

type simplifiedClarityScore struct{}

// SimplifiedClarityScore (SCS) aims to measure the intrinsic clarity or ambiguity of a query. SCS does this by
// computing the divergence of the maximum likelihood query model from the collection model.
var SimplifiedClarityScore = simplifiedClarityScore{}

func (simplifiedClarityScore) Name() string {
	return "scs"
}

func (simplifiedClarityScore) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	if q.Vector == nil {
		return 0, nil
	}
	return analysis.Clarity(q.Vector, s)
}
