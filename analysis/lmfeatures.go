package analysis

import (
	"math"

	"github.com/hscells/docexp"
	"gonum.org/v1/gonum/stat"
)

// NotComputable is returned by divergences and test statistics whose preconditions do not hold.
const NotComputable = -1.0

// probabilities aligns two language models on the union of their vocabularies.
func probabilities(a, b *docexp.TermVector) ([]float64, []float64) {
	vocabulary := docexp.Vocabulary(a, b)
	p := make([]float64, len(vocabulary))
	q := make([]float64, len(vocabulary))
	for i, term := range vocabulary {
		p[i] = a.Weight(term)
		q[i] = b.Weight(term)
	}
	return p, q
}

// KLDivergence is the divergence, in bits, of one language model from another. It is NotComputable when either model
// is empty or when the second model gives zero probability to a term of the first.
func KLDivergence(a, b *docexp.TermVector) float64 {
	if a.Length() == 0 || b.Length() == 0 {
		return NotComputable
	}
	p, q := probabilities(a, b)
	kl := stat.KullbackLeibler(p, q) / math.Ln2
	if math.IsInf(kl, 0) || math.IsNaN(kl) {
		return NotComputable
	}
	return kl
}

// JensenShannonDivergence is the symmetric divergence, in bits, between two language models. It is NotComputable when
// either model is empty.
func JensenShannonDivergence(a, b *docexp.TermVector) float64 {
	if a.Length() == 0 || b.Length() == 0 {
		return NotComputable
	}
	p, q := probabilities(a, b)
	js := stat.JensenShannon(p, q) / math.Ln2
	if math.IsNaN(js) {
		return NotComputable
	}
	return js
}

// Perplexity of a model on a weighted sample of terms, 2^(-(1/|sample|) sum w(t) log2 p(t)). It is NotComputable
// for an empty sample or when the model gives zero probability to a sampled term.
func Perplexity(sample, model *docexp.TermVector) float64 {
	if sample.Length() == 0 {
		return NotComputable
	}
	var ll float64
	for _, term := range sample.Terms() {
		w := sample.Weight(term)
		if w == 0 {
			continue
		}
		p := model.Weight(term)
		if p <= 0 {
			return NotComputable
		}
		ll += w * math.Log2(p)
	}
	return math.Pow(2, -ll/sample.Length())
}

// LanguageModelsCosine is the cosine similarity of two language models.
func LanguageModelsCosine(a, b *docexp.TermVector) float64 {
	return CosineSimilarity(a, b)
}
