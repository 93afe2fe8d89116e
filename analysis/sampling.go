package analysis

import (
	"math/rand"
	"sort"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/preprocess"
	"github.com/pkg/errors"
)

// WeightedSample draws one key with probability proportional to its weight by inverting the cumulative distribution
// of the keys in ascending order. When every weight is zero each key is equally likely.
func WeightedSample(weights map[string]float64, rng *rand.Rand) (string, error) {
	if len(weights) == 0 {
		return "", errors.New("cannot sample from an empty distribution")
	}
	keys := make([]string, 0, len(weights))
	var total float64
	for key, w := range weights {
		keys = append(keys, key)
		if w > 0 {
			total += w
		}
	}
	sort.Strings(keys)

	if total == 0 {
		return keys[rng.Intn(len(keys))], nil
	}

	u := rng.Float64()
	var cumulative float64
	for _, key := range keys {
		if w := weights[key]; w > 0 {
			cumulative += w / total
		}
		if u < cumulative {
			return key, nil
		}
	}
	// Rounding can leave the cumulative sum just short of one.
	for i := len(keys) - 1; i >= 0; i-- {
		if weights[keys[i]] > 0 {
			return keys[i], nil
		}
	}
	return keys[len(keys)-1], nil
}

// SampleDocuments draws n hits uniformly without replacement, keeping their ranked order. Every hit is returned when
// there are no more than n.
func SampleDocuments(n int, hits docexp.SearchHits, rng *rand.Rand) docexp.SearchHits {
	if n >= len(hits) {
		return append(docexp.SearchHits(nil), hits...)
	}
	if n <= 0 {
		return docexp.SearchHits{}
	}
	idx := rng.Perm(len(hits))[:n]
	sort.Ints(idx)
	sample := make(docexp.SearchHits, n)
	for i, j := range idx {
		sample[i] = hits[j]
	}
	return sample
}

// SampleTerms draws up to n distinct terms from a vector without replacement, each draw proportional to the term
// weights. Stop words and excluded terms are never drawn. With stem set, terms are compared by their stems, so at
// most one term is drawn per stem and a term sharing a stem with an excluded term is skipped.
func SampleTerms(n int, v *docexp.TermVector, stopper *docexp.Stopper, exclude []string, stem bool, rng *rand.Rand) ([]string, error) {
	key := func(term string) string {
		if stem {
			return preprocess.Stem([]string{term})[0]
		}
		return term
	}

	excluded := make(map[string]bool)
	for _, term := range exclude {
		excluded[key(term)] = true
	}

	candidates := make(map[string]float64)
	for _, term := range v.Terms() {
		if stopper.IsStopWord(term) || excluded[key(term)] {
			continue
		}
		candidates[term] = v.Weight(term)
	}

	var sample []string
	for len(sample) < n && len(candidates) > 0 {
		term, err := WeightedSample(candidates, rng)
		if err != nil {
			return nil, err
		}
		sample = append(sample, term)
		k := key(term)
		for candidate := range candidates {
			if key(candidate) == k {
				delete(candidates, candidate)
			}
		}
	}
	return sample, nil
}
