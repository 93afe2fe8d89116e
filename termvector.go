// Package docexp provides the core types for computing document expansion features: term vectors, stoppers,
// queries and search results.
package docexp

import (
	"math"
	"sort"
)

// TermVector is a sparse bag-of-terms model mapping terms to non-negative weights. The length of the vector (the sum
// of its weights) is maintained on every mutation.
type TermVector struct {
	weights map[string]float64
	length  float64
}

// NewTermVector creates an empty term vector.
func NewTermVector() *TermVector {
	return &TermVector{weights: make(map[string]float64)}
}

// TermVectorFromMap creates a term vector from a term->weight mapping. Negative weights are ignored.
func TermVectorFromMap(m map[string]float64) *TermVector {
	v := NewTermVector()
	for term, weight := range m {
		v.Add(term, weight)
	}
	return v
}

// TermVectorFromTerms creates a term vector with a weight of one for each occurrence of a term.
func TermVectorFromTerms(terms []string) *TermVector {
	v := NewTermVector()
	for _, term := range terms {
		v.Add(term, 1)
	}
	return v
}

// Add accumulates weight onto term.
func (v *TermVector) Add(term string, weight float64) {
	if weight < 0 || math.IsNaN(weight) {
		return
	}
	v.weights[term] += weight
	v.length += weight
}

// Set replaces the weight of term.
func (v *TermVector) Set(term string, weight float64) {
	if weight < 0 || math.IsNaN(weight) {
		return
	}
	v.length += weight - v.weights[term]
	v.weights[term] = weight
}

// Remove deletes term from the vector.
func (v *TermVector) Remove(term string) {
	if w, ok := v.weights[term]; ok {
		v.length -= w
		delete(v.weights, term)
	}
	if len(v.weights) == 0 {
		v.length = 0
	}
}

// Weight is the weight of term, or zero when the term is not in the vector.
func (v *TermVector) Weight(term string) float64 {
	return v.weights[term]
}

// Contains reports whether term is in the vector.
func (v *TermVector) Contains(term string) bool {
	_, ok := v.weights[term]
	return ok
}

// Length is the sum of the weights in the vector.
func (v *TermVector) Length() float64 {
	return v.length
}

// FeatureCount is the number of distinct terms in the vector.
func (v *TermVector) FeatureCount() int {
	return len(v.weights)
}

// Terms returns the terms of the vector in ascending order.
func (v *TermVector) Terms() []string {
	terms := make([]string, 0, len(v.weights))
	for term := range v.weights {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// RankedTerms returns the terms of the vector ordered by weight descending, with ties broken by term ascending.
func (v *TermVector) RankedTerms() []string {
	terms := v.Terms()
	sort.SliceStable(terms, func(i, j int) bool {
		return v.weights[terms[i]] > v.weights[terms[j]]
	})
	return terms
}

// Copy creates a deep copy of the vector.
func (v *TermVector) Copy() *TermVector {
	c := &TermVector{weights: make(map[string]float64, len(v.weights)), length: v.length}
	for term, weight := range v.weights {
		c.weights[term] = weight
	}
	return c
}

// Clip keeps only the n highest weighted terms.
func (v *TermVector) Clip(n int) {
	if n < 0 || len(v.weights) <= n {
		return
	}
	for _, term := range v.RankedTerms()[n:] {
		delete(v.weights, term)
	}
	v.recompute()
}

// ApplyStopper removes every stop word from the vector.
func (v *TermVector) ApplyStopper(s *Stopper) {
	if s.Len() == 0 && !s.usesLanguage() {
		return
	}
	for term := range v.weights {
		if s.IsStopWord(term) {
			delete(v.weights, term)
		}
	}
	v.recompute()
}

// Normalize divides every weight by the length of the vector so that the weights sum to one.
func (v *TermVector) Normalize() {
	if v.length == 0 {
		return
	}
	for term, weight := range v.weights {
		v.weights[term] = weight / v.length
	}
	v.recompute()
}

// L2Norm is the euclidean norm of the vector weights.
func (v *TermVector) L2Norm() float64 {
	var sum float64
	for _, weight := range v.weights {
		sum += weight * weight
	}
	return math.Sqrt(sum)
}

// Map returns a copy of the term->weight mapping.
func (v *TermVector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.weights))
	for term, weight := range v.weights {
		m[term] = weight
	}
	return m
}

func (v *TermVector) recompute() {
	v.length = 0
	for _, weight := range v.weights {
		v.length += weight
	}
}

// Interpolate linearly combines two vectors over the union of their terms: w*a(t) + (1-w)*b(t).
func Interpolate(a, b *TermVector, w float64) *TermVector {
	v := NewTermVector()
	for term, weight := range a.weights {
		v.Add(term, w*weight)
	}
	for term, weight := range b.weights {
		v.Add(term, (1-w)*weight)
	}
	return v
}

// Vocabulary is the sorted union of the terms of the vectors.
func Vocabulary(vectors ...*TermVector) []string {
	seen := make(map[string]struct{})
	for _, v := range vectors {
		for term := range v.weights {
			seen[term] = struct{}{}
		}
	}
	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
