package cmd

import (
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/feedback"
)

// DocumentQuery derives the query a sample's document is expanded with. It is computed once per sample.
func DocumentQuery(e *expansion.DocumentExpander) func(s *analysis.Sample) (*docexp.Query, error) {
	return func(s *analysis.Sample) (*docexp.Query, error) {
		v, err := s.Vector("documentQuery", func() (*docexp.TermVector, error) {
			q, err := e.DocumentQuery(s.Doc)
			if err != nil {
				return nil, err
			}
			return q.Vector, nil
		})
		if err != nil {
			return nil, err
		}
		return docexp.NewQuery(s.Doc.Docno, v.Copy()), nil
	}
}

// PseudoQuery derives the pseudo-query summarising the top numDocs expansion documents of a sample's document. It is
// computed once per sample.
func PseudoQuery(e expansion.Expander, numDocs int) func(s *analysis.Sample) (*docexp.Query, error) {
	return func(s *analysis.Sample) (*docexp.Query, error) {
		v, err := s.Vector("pseudoQuery", func() (*docexp.TermVector, error) {
			q, err := expansion.PseudoQuery(e, s.Doc, numDocs, s.Stopper)
			if err != nil {
				return nil, err
			}
			return q.Vector, nil
		})
		if err != nil {
			return nil, err
		}
		return docexp.NewQuery(s.Doc.Docno, v.Copy()), nil
	}
}

// RM1 is the relevance model of a sample's query, estimated from the top documents the query retrieves from the
// sample's index. It is computed once per sample.
func RM1(s *analysis.Sample) (*docexp.TermVector, error) {
	return s.Vector("rm1", func() (*docexp.TermVector, error) {
		hits, err := s.Index.Execute(s.Query, feedback.DefaultFeedbackDocs)
		if err != nil {
			return nil, err
		}
		return feedback.NewRM1Builder(s.Index).BuildRelevanceModel(s.Query, hits, s.Stopper)
	})
}
