package main

import (
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/collection"
	"github.com/hscells/docexp/output"
	"github.com/hscells/docexp/scoring"
	"github.com/pkg/errors"
)

type args struct {
	cmd.Common
	Docs string `arg:"positional,required" help:"document list of docno,query,collection lines"`
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `compute relevance model, self retrieval and pseudo-query features of judged documents`
}

var header = []string{
	"docno",
	"query",
	"docRMRankChange",
	"docRMScoreChange",
	"probFraction",
	"docSelfRetrievalRank",
	"docSelfRetrievalScore",
	"pseudoQueryExpansionProb",
	"docPQexpPQJaccardSim",
	"docPQexpPQCosineSim",
	"expPseudoQueryClarity",
	"expPseudoQueryOrigQL",
}

func main() {
	args := args{Common: cmd.DefaultCommon()}
	arg.MustParse(&args)

	env, err := cmd.Setup(args.Common)
	if err != nil {
		log.Fatalln(err)
	}
	registry := collection.NewRegistryFromConfig(env.Config)

	docs, err := collection.LoadDocuments(args.Docs)
	if err != nil {
		log.Fatalln(err)
	}

	p, w, err := env.Pipeline(os.Stdout, os.Stderr, "extrafeatures", header)
	if err != nil {
		log.Fatalln(err)
	}

	err = p.Execute(len(docs), func(i int) ([]output.Row, error) {
		d := docs[i]
		res, err := registry.Get(d.Collection)
		if err != nil {
			return nil, err
		}
		q := res.Queries.Named(d.Query)
		if q == nil {
			return nil, errors.Errorf("no query %s in %s", d.Query, d.Collection)
		}
		q = cmd.Stopped(q, env.Stopper)

		e, err := env.SharedExpander(d.Collection, res.Index)
		if err != nil {
			return nil, err
		}
		doc := docexp.NewSearchHit(d.Docno, 0, res.Index)
		s := analysis.NewSample(doc, q, res.Index, env.Stopper)

		rm, err := cmd.RM1(s)
		if err != nil {
			return nil, err
		}
		docQuery, err := cmd.DocumentQuery(e)(s)
		if err != nil {
			return nil, err
		}
		pseudoQuery, err := cmd.PseudoQuery(e, e.MaxNumDocs())(s)
		if err != nil {
			return nil, err
		}
		v, err := s.DocumentVector()
		if err != nil {
			return nil, err
		}

		rankChange, err := analysis.DocumentRMRankChange(doc, q, rm, res.Index)
		if err != nil {
			return nil, err
		}
		scoreChange, err := analysis.DocumentRMScoreChange(doc, q, rm, res.Index)
		if err != nil {
			return nil, err
		}
		selfRank, err := analysis.DocumentSelfRetrievalRank(doc, docQuery, res.Index)
		if err != nil {
			return nil, err
		}
		selfScore, err := analysis.DocumentSelfRetrievalScore(doc, docQuery, res.Index)
		if err != nil {
			return nil, err
		}
		expansionProb, err := scoring.NewQueryLikelihoodQueryScorer(scoring.NewExpansionDocScorer(e)).ScoreQuery(docQuery, doc)
		if err != nil {
			return nil, err
		}
		clarity, err := analysis.Clarity(pseudoQuery.Vector, res.Index)
		if err != nil {
			return nil, err
		}
		origQL, err := scoring.NewQueryLikelihoodQueryScorer(res.Scorer).ScoreQuery(pseudoQuery, doc)
		if err != nil {
			return nil, err
		}

		return []output.Row{output.NewRow([]string{d.Docno, q.Title},
			rankChange,
			scoreChange,
			analysis.ProbabilityFraction(pseudoQuery, v),
			selfRank,
			selfScore,
			expansionProb,
			analysis.JaccardSimilarity(docQuery.Terms(), pseudoQuery.Terms()),
			analysis.CosineSimilarity(docQuery.Vector, pseudoQuery.Vector),
			clarity,
			origQL,
		)}, nil
	})
	if err != nil {
		log.Fatalln(err)
	}
	if err := w.Close(); err != nil {
		log.Fatalln(err)
	}
}
