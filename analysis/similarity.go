package analysis

import (
	"sort"

	"github.com/hscells/docexp"
	"github.com/xtgo/set"
	"gonum.org/v1/gonum/floats"
)

// SimilarityFunc compares two term vectors.
type SimilarityFunc func(a, b *docexp.TermVector) float64

// CosineSimilarity is the cosine of the angle between the length-normalised weights of two vectors. It is 0 when
// either vector is empty.
func CosineSimilarity(a, b *docexp.TermVector) float64 {
	if a.Length() == 0 || b.Length() == 0 {
		return 0
	}
	x := normalised(a, a.Terms())
	y := normalised(b, b.Terms())
	nx, ny := floats.Norm(x, 2), floats.Norm(y, 2)
	if nx == 0 || ny == 0 {
		return 0
	}

	shared := intersection(a.Terms(), b.Terms())
	return floats.Dot(normalised(a, shared), normalised(b, shared)) / (nx * ny)
}

func normalised(v *docexp.TermVector, terms []string) []float64 {
	w := make([]float64, len(terms))
	for i, term := range terms {
		w[i] = v.Weight(term) / v.Length()
	}
	return w
}

// intersection expects both term lists sorted and free of duplicates.
func intersection(a, b []string) []string {
	data := make(sort.StringSlice, 0, len(a)+len(b))
	data = append(append(data, a...), b...)
	n := set.Inter(data, len(a))
	return data[:n]
}

func union(a, b []string) []string {
	data := make(sort.StringSlice, 0, len(a)+len(b))
	data = append(append(data, a...), b...)
	n := set.Union(data, len(a))
	return data[:n]
}

func uniq(terms []string) []string {
	data := append(sort.StringSlice(nil), terms...)
	sort.Sort(data)
	n := set.Uniq(data)
	return data[:n]
}

// JaccardSimilarity is the size of the intersection of two sets of strings over the size of their union; it is 0
// when both are empty.
func JaccardSimilarity(a, b []string) float64 {
	a, b = uniq(a), uniq(b)
	u := union(a, b)
	if len(u) == 0 {
		return 0
	}
	return float64(len(intersection(a, b))) / float64(len(u))
}

// TermJaccardSimilarity compares the vocabularies of two vectors.
func TermJaccardSimilarity(a, b *docexp.TermVector) float64 {
	return JaccardSimilarity(a.Terms(), b.Terms())
}

func vectors(hits docexp.SearchHits) ([]*docexp.TermVector, error) {
	v := make([]*docexp.TermVector, len(hits))
	for i, hit := range hits {
		var err error
		v[i], err = hit.TermVector()
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// PairwiseSimilarity is the mean similarity over every unordered pair of hits. It is 0 with fewer than two hits.
func PairwiseSimilarity(hits docexp.SearchHits, fn SimilarityFunc) (float64, error) {
	if len(hits) < 2 {
		return 0, nil
	}
	v, err := vectors(hits)
	if err != nil {
		return 0, err
	}
	var sum, pairs float64
	for i := 0; i < len(v); i++ {
		for j := i + 1; j < len(v); j++ {
			sum += fn(v[i], v[j])
			pairs++
		}
	}
	return sum / pairs, nil
}

// AverageGroupSimilarity compares each hit with the sum of the vectors of every other hit and averages the result.
// It is 0 when there are no hits.
func AverageGroupSimilarity(hits docexp.SearchHits, fn SimilarityFunc) (float64, error) {
	if len(hits) == 0 {
		return 0, nil
	}
	v, err := vectors(hits)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range v {
		group := docexp.NewTermVector()
		for j, other := range v {
			if i == j {
				continue
			}
			for _, term := range other.Terms() {
				group.Add(term, other.Weight(term))
			}
		}
		sum += fn(v[i], group)
	}
	return sum / float64(len(v)), nil
}
