package analysis

import (
	"math"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
)

// DocumentLength is the sum of the weights of a document vector.
func DocumentLength(v *docexp.TermVector) float64 {
	return v.Length()
}

// DocumentDiversity is the ratio of distinct terms to document length, 0 for an empty document.
func DocumentDiversity(v *docexp.TermVector) float64 {
	if v.Length() == 0 {
		return 0
	}
	return float64(v.FeatureCount()) / v.Length()
}

// DocumentRank is the 1-based position of the document in hits, or 0 when it was not retrieved.
func DocumentRank(doc *docexp.SearchHit, hits docexp.SearchHits) int {
	return hits.Rank(doc.Docno)
}

// DocumentEntropy is the entropy, in bits, of the maximum likelihood model of a document.
func DocumentEntropy(v *docexp.TermVector) float64 {
	length := v.Length()
	if length == 0 {
		return 0
	}
	var entropy float64
	for _, term := range v.Terms() {
		p := v.Weight(term) / length
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// Clarity is the divergence of the maximum likelihood model of a vector from the collection model,
// sum p(t) ln(p(t)/p_c(t)). It is 0 for an empty vector.
func Clarity(v *docexp.TermVector, s stats.CollectionStatistics) (float64, error) {
	length := v.Length()
	if length == 0 {
		return 0, nil
	}
	var clarity float64
	for _, term := range v.Terms() {
		p := v.Weight(term) / length
		if p == 0 {
			continue
		}
		pc, err := stats.CollectionProbability(s, term)
		if err != nil {
			return 0, err
		}
		if pc == 0 {
			continue
		}
		clarity += p * math.Log(p/pc)
	}
	return clarity, nil
}

// QueryProminence is the share of a document's weight that falls on query terms.
func QueryProminence(v *docexp.TermVector, query *docexp.Query) float64 {
	if v.Length() == 0 || query.Vector == nil {
		return 0
	}
	var w float64
	for _, term := range query.Terms() {
		w += v.Weight(term)
	}
	return w / v.Length()
}

var (
	// Length is the length of the stopped document.
	Length = NewDocumentMeasurement("length", func(s *Sample) (float64, error) {
		v, err := s.DocumentVector()
		if err != nil {
			return 0, err
		}
		return DocumentLength(v), nil
	})
	// Diversity is the diversity of the stopped document.
	Diversity = NewDocumentMeasurement("diversity", func(s *Sample) (float64, error) {
		v, err := s.DocumentVector()
		if err != nil {
			return 0, err
		}
		return DocumentDiversity(v), nil
	})
	// Entropy is the entropy of the stopped document.
	Entropy = NewDocumentMeasurement("entropy", func(s *Sample) (float64, error) {
		v, err := s.DocumentVector()
		if err != nil {
			return 0, err
		}
		return DocumentEntropy(v), nil
	})
	// DocumentClarity is the clarity of the stopped document against the index it was retrieved from.
	DocumentClarity = NewDocumentMeasurement("clarity", func(s *Sample) (float64, error) {
		v, err := s.DocumentVector()
		if err != nil {
			return 0, err
		}
		return Clarity(v, s.Index)
	})
	// Prominence is the query prominence of the stopped document.
	Prominence = NewDocumentMeasurement("queryProminence", func(s *Sample) (float64, error) {
		v, err := s.DocumentVector()
		if err != nil {
			return 0, err
		}
		return QueryProminence(v, s.Query), nil
	})
)
