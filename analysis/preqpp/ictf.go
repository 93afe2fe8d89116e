package preqpp

import (
	"math"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
)

type avgICTF struct{}

// AvgICTF is similar to idf, however it attempts to take into account the term frequencies. Inverse collection term
// frequency is the log of the number of term occurrences in the collection over the occurrences of a term. Terms that
// never occur are skipped.
var AvgICTF = avgICTF{}

func (avgICTF) Name() string {
	return "avgICTF"
}

func (avgICTF) Execute(q *docexp.Query, s stats.StatisticsSource) (float64, error) {
	W, err := s.TermCount()
	if err != nil {
		return 0, err
	}

	var sumICTF, n float64
	for _, term := range q.Terms() {
		ctf, err := s.TotalTermFrequency(term)
		if err != nil {
			return 0, err
		}
		if ctf == 0 {
			continue
		}
		sumICTF += math.Log(W / ctf)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sumICTF / n, nil
}
