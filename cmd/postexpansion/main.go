package main

import (
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/eval"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/lm"
	"github.com/hscells/docexp/output"
	"github.com/hscells/docexp/params"
	"github.com/hscells/docexp/scoring"
)

// originalTerms is the number of document terms the expansion language model is estimated over.
const originalTerms = 10

type args struct {
	cmd.Common
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `compute features comparing judged documents with their expanded language models`
}

var header = []string{
	"docno",
	"query",
	"relevance",
	"rankImprovement",
	"initialRank",
	"length",
	"diversity",
	"clarity",
	"originalToExpandedKL",
	"originalToExpansionKL",
	"originalToExpandedCosine",
	"originalToExpansionCosine",
	"perplexityOfOriginal",
	"pairwiseSimilarityCosine",
	"averageGroupSimilarityCosine",
}

type judged struct {
	query string
	doc   *docexp.SearchHit
}

func main() {
	args := args{Common: cmd.DefaultCommon()}
	arg.MustParse(&args)

	env, err := cmd.Setup(args.Common)
	if err != nil {
		log.Fatalln(err)
	}
	c := env.Config

	target, err := env.TargetIndex()
	if err != nil {
		log.Fatalln(err)
	}
	indexes, _, err := env.ExpansionIndexes()
	if err != nil {
		log.Fatalln(err)
	}
	expansionIndex := indexes[0]

	qrelsPath, err := c.Qrels()
	if err != nil {
		log.Fatalln(err)
	}
	qrels, err := eval.LoadQrels(qrelsPath)
	if err != nil {
		log.Fatalln(err)
	}
	paramsPath, err := c.OptimalParams()
	if err != nil {
		log.Fatalln(err)
	}
	table, err := params.Load(paramsPath)
	if err != nil {
		log.Fatalln(err)
	}
	baseline, err := cmd.LoadRun(c, "baseline-run", target)
	if err != nil {
		log.Fatalln(err)
	}
	expanded, err := cmd.LoadRun(c, "expansion-run", target)
	if err != nil {
		log.Fatalln(err)
	}

	var docs []judged
	for _, query := range baseline.Queries() {
		for _, hit := range cmd.JudgedRetrieved(query, baseline.Hits(query), expanded.Hits(query), qrels) {
			docs = append(docs, judged{query: query, doc: hit})
		}
	}
	log.Printf("computing features for %d judged documents\n", len(docs))

	p, w, err := env.Pipeline(os.Stdout, os.Stderr, "postexpansion", header)
	if err != nil {
		log.Fatalln(err)
	}

	err = p.Execute(len(docs), func(i int) ([]output.Row, error) {
		query, doc := docs[i].query, docs[i].doc
		opt := table.For(query)

		e, err := env.Expander(expansionIndex, "expansion",
			expansion.ExpanderNumTerms(opt.NumTerms),
			expansion.ExpanderMaxNumDocs(c.MaxDocs()))
		if err != nil {
			return nil, err
		}
		scorer := scoring.NewExpansionDocScorer(e, scoring.ExpansionNumDocs(opt.NumDocs))

		v, err := doc.TermVector()
		if err != nil {
			return nil, err
		}
		v = v.Copy()
		v.ApplyStopper(env.Stopper)
		clipped := v.Copy()
		clipped.Clip(originalTerms)

		clarity, err := analysis.Clarity(v, target)
		if err != nil {
			return nil, err
		}
		originalLM, err := lm.DocumentLanguageModel(doc, target)
		if err != nil {
			return nil, err
		}
		expansionLM, err := lm.ExpansionLanguageModel(doc, scorer, clipped.Terms())
		if err != nil {
			return nil, err
		}
		expandedLM := lm.CombinedLanguageModel(originalLM, expansionLM, opt.OrigWeight)

		hits, err := scorer.ExpansionDocuments(doc)
		if err != nil {
			return nil, err
		}
		pairwise, err := analysis.PairwiseSimilarity(hits, analysis.LanguageModelsCosine)
		if err != nil {
			return nil, err
		}
		group, err := analysis.AverageGroupSimilarity(hits, analysis.LanguageModelsCosine)
		if err != nil {
			return nil, err
		}

		return []output.Row{output.NewRow([]string{doc.Docno, query},
			float64(qrels.RelLevel(query, doc.Docno)),
			float64(analysis.RankChange(doc, baseline.Hits(query), expanded.Hits(query))),
			float64(analysis.DocumentRank(doc, baseline.Hits(query))),
			analysis.DocumentLength(v),
			analysis.DocumentDiversity(v),
			clarity,
			analysis.KLDivergence(originalLM, expandedLM),
			analysis.KLDivergence(originalLM, expansionLM),
			analysis.LanguageModelsCosine(originalLM, expandedLM),
			analysis.LanguageModelsCosine(originalLM, expansionLM),
			analysis.Perplexity(v, expandedLM),
			pairwise,
			group,
		)}, nil
	})
	if err != nil {
		log.Fatalln(err)
	}
	if err := w.Close(); err != nil {
		log.Fatalln(err)
	}
}
