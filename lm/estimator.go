// Package lm estimates document language models and their expansion-based counterparts.
package lm

import (
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/scoring"
	"github.com/hscells/docexp/stats"
)

// LanguageModel is the smoothed model of a document over its own terms.
func LanguageModel(doc *docexp.SearchHit, scorer scoring.DocScorer) (*docexp.TermVector, error) {
	v, err := doc.TermVector()
	if err != nil {
		return nil, err
	}
	return estimate(doc, v.Terms(), scorer)
}

// DocumentLanguageModel is the Dirichlet smoothed (mu=2500) model of a document using the collection statistics.
func DocumentLanguageModel(doc *docexp.SearchHit, s stats.CollectionStatistics) (*docexp.TermVector, error) {
	return LanguageModel(doc, scoring.NewDirichletDocScorer(s))
}

// TermModel is the probability a scorer gives each of the terms in a document, whether or not the document contains
// them.
func TermModel(doc *docexp.SearchHit, terms []string, scorer scoring.DocScorer) (*docexp.TermVector, error) {
	return estimate(doc, terms, scorer)
}

// ExpansionLanguageModel is the model of a document estimated only from its expansion documents. When restrictTo is
// nil, the vocabulary is every term of the expansion documents.
func ExpansionLanguageModel(doc *docexp.SearchHit, scorer *scoring.ExpansionDocScorer, restrictTo []string) (*docexp.TermVector, error) {
	vocabulary := restrictTo
	if vocabulary == nil {
		hits, err := scorer.ExpansionDocuments(doc)
		if err != nil {
			return nil, err
		}
		vectors := make([]*docexp.TermVector, len(hits))
		for i, hit := range hits {
			vectors[i], err = hit.TermVector()
			if err != nil {
				return nil, err
			}
		}
		vocabulary = docexp.Vocabulary(vectors...)
	}
	return estimate(doc, vocabulary, scorer)
}

// CombinedLanguageModel interpolates an original and an expansion model over the union of their vocabularies:
// origWeight*P_orig(t) + (1-origWeight)*P_exp(t).
func CombinedLanguageModel(original, expansion *docexp.TermVector, origWeight float64) *docexp.TermVector {
	return docexp.Interpolate(original, expansion, origWeight)
}

func estimate(doc *docexp.SearchHit, vocabulary []string, scorer scoring.DocScorer) (*docexp.TermVector, error) {
	lm := docexp.NewTermVector()
	for _, term := range vocabulary {
		p, err := scorer.ScoreTerm(term, doc)
		if err != nil {
			return nil, err
		}
		lm.Set(term, p)
	}
	return lm, nil
}
