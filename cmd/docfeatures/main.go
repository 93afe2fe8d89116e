package main

import (
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/eval"
	"github.com/hscells/docexp/feedback"
	"github.com/hscells/docexp/lm"
	"github.com/hscells/docexp/output"
	"github.com/hscells/docexp/scoring"
)

const (
	retrievalDepth = 1000
	rmDocs         = 10
	rmTerms        = 20
)

type args struct {
	cmd.Common
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `compute features of judged documents expanded from the index they were retrieved from`
}

var header = []string{
	"docno",
	"query",
	"relevance",
	"length",
	"diversity",
	"initialRank",
	"clarity",
	"origToExpKL",
	"origToRMKL",
	"origToExpPerplexity",
	"origToRMPerplexity",
	"pairwiseSJ",
}

type judged struct {
	query   string
	doc     *docexp.SearchHit
	results docexp.SearchHits
}

func main() {
	args := args{Common: cmd.DefaultCommon()}
	arg.MustParse(&args)

	env, err := cmd.Setup(args.Common)
	if err != nil {
		log.Fatalln(err)
	}

	target, err := env.TargetIndex()
	if err != nil {
		log.Fatalln(err)
	}
	queries, err := cmd.LoadQueries(env.Config)
	if err != nil {
		log.Fatalln(err)
	}
	qrelsPath, err := env.Config.Qrels()
	if err != nil {
		log.Fatalln(err)
	}
	qrels, err := eval.LoadQrels(qrelsPath)
	if err != nil {
		log.Fatalln(err)
	}

	var docs []judged
	for _, q := range queries.All() {
		q = cmd.Stopped(q, env.Stopper)
		results, err := target.Execute(q, retrievalDepth)
		if err != nil {
			log.Fatalln(err)
		}
		// Judged documents that were not retrieved have an initial rank of zero.
		for _, doc := range cmd.JudgedPool(q.Title, results, qrels, target) {
			docs = append(docs, judged{query: q.Title, doc: doc, results: results})
		}
	}
	log.Printf("computing features for %d judged documents\n", len(docs))

	e, err := env.SharedExpander("target", target)
	if err != nil {
		log.Fatalln(err)
	}
	scorer := scoring.NewExpansionDocScorer(e)
	rm1 := feedback.NewRM1Builder(target, feedback.RM1FeedbackDocs(rmDocs), feedback.RM1FeedbackTerms(rmTerms))

	p, w, err := env.Pipeline(os.Stdout, os.Stderr, "docfeatures", header)
	if err != nil {
		log.Fatalln(err)
	}

	err = p.Execute(len(docs), func(i int) ([]output.Row, error) {
		query, doc, results := docs[i].query, docs[i].doc, docs[i].results

		v, err := doc.TermVector()
		if err != nil {
			return nil, err
		}
		v = v.Copy()
		v.ApplyStopper(env.Stopper)

		clarity, err := analysis.Clarity(v, target)
		if err != nil {
			return nil, err
		}
		originalLM, err := lm.DocumentLanguageModel(doc, target)
		if err != nil {
			return nil, err
		}
		expansionLM, err := lm.ExpansionLanguageModel(doc, scorer, originalLM.Terms())
		if err != nil {
			return nil, err
		}
		docQuery, err := e.DocumentQuery(doc)
		if err != nil {
			return nil, err
		}
		rm, err := rm1.BuildRelevanceModel(docQuery, results, env.Stopper)
		if err != nil {
			return nil, err
		}
		hits, err := scorer.ExpansionDocuments(doc)
		if err != nil {
			return nil, err
		}
		pairwise, err := analysis.PairwiseSimilarity(hits, analysis.JensenShannonDivergence)
		if err != nil {
			return nil, err
		}

		return []output.Row{output.NewRow([]string{doc.Docno, query},
			float64(qrels.RelLevel(query, doc.Docno)),
			analysis.DocumentLength(v),
			analysis.DocumentDiversity(v),
			float64(analysis.DocumentRank(doc, results)),
			clarity,
			analysis.KLDivergence(originalLM, expansionLM),
			analysis.KLDivergence(originalLM, rm),
			analysis.Perplexity(v, expansionLM),
			analysis.Perplexity(v, rm),
			pairwise,
		)}, nil
	})
	if err != nil {
		log.Fatalln(err)
	}
	if err := w.Close(); err != nil {
		log.Fatalln(err)
	}
}
