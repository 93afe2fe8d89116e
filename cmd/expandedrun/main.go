package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/eval"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/feedback"
	"github.com/hscells/docexp/lm"
	"github.com/hscells/docexp/output"
	"github.com/hscells/docexp/params"
	"github.com/hscells/docexp/pipeline"
	"github.com/hscells/docexp/scoring"
	"github.com/hscells/docexp/stats"
	"github.com/pkg/errors"
)

const (
	depth         = 1000
	feedbackDepth = 20
)

type args struct {
	cmd.Common
	Mode       string  `help:"one of baseline, baseline-rm3, grid, delm or rm3"`
	Query      string  `help:"only retrieve for the query with this title"`
	NumTerms   int     `help:"document terms used to find expansion documents in grid mode"`
	NumDocs    int     `help:"expansion documents used in delm mode"`
	OrigWeight float64 `help:"weight of the original document in delm mode and of the query in baseline-rm3 mode"`
	Eval       string  `help:"write the mean evaluation of every run as JSON to this file"`
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `retrieve with expanded documents or expanded relevance models and write trec runs`
}

type run struct {
	id   string
	hits docexp.SearchHits
}

// retriever produces the runs of one query.
type retriever func(q *docexp.Query) ([]run, error)

// rerank scores every result with a query scorer and sorts them by the new scores.
func rerank(q *docexp.Query, results docexp.SearchHits, scorer scoring.QueryScorer) (docexp.SearchHits, error) {
	hits := make(docexp.SearchHits, len(results))
	for i, hit := range results {
		hits[i] = hit.Copy()
		score, err := scorer.ScoreQuery(q, hits[i])
		if err != nil {
			return nil, err
		}
		hits[i].Score = score
	}
	hits.Sort()
	return hits, nil
}

// steps lists from, from+interval, ... up to and including to.
func steps(from, to, interval int) ([]int, error) {
	if interval <= 0 {
		return nil, errors.Errorf("interval must be positive, got %d", interval)
	}
	var s []int
	for n := from; n <= to; n += interval {
		s = append(s, n)
	}
	return s, nil
}

func baseline(target stats.StatisticsSource) retriever {
	return func(q *docexp.Query) ([]run, error) {
		results, err := target.Execute(q, depth)
		if err != nil {
			return nil, err
		}
		return []run{{id: "baseline", hits: results}}, nil
	}
}

func baselineRM3(env *cmd.Env, target stats.StatisticsSource, origWeight float64) retriever {
	builder := feedback.NewRM1Builder(target, feedback.RM1FeedbackDocs(feedbackDepth), feedback.RM1FeedbackTerms(feedbackDepth))
	return func(q *docexp.Query) ([]run, error) {
		fb, err := target.Execute(q, feedbackDepth)
		if err != nil {
			return nil, err
		}
		rm, err := builder.BuildRelevanceModel(q, fb, env.Stopper)
		if err != nil {
			return nil, err
		}
		results, err := target.Execute(docexp.NewQuery(q.Title, feedback.RM3(q, rm, origWeight)), depth)
		if err != nil {
			return nil, err
		}
		return []run{{id: "rm3", hits: results}}, nil
	}
}

// grid sweeps the number of expansion documents and the interpolation weights of the original document and each
// expansion index.
func grid(env *cmd.Env, target stats.StatisticsSource, expanders []expansion.Expander, numTerms int) (retriever, error) {
	c := env.Config
	numDocs, err := steps(c.MinDocs(), c.MaxDocs(), c.DocsInterval())
	if err != nil {
		return nil, err
	}
	dirichlet, err := scoring.NewCachedDocScorer(scoring.NewDirichletDocScorer(target, scoring.DirichletMu(c.Mu())), stats.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	weights := lm.InterpolationWeights(len(expanders) + 1)
	return func(q *docexp.Query) ([]run, error) {
		results, err := target.Execute(q, depth)
		if err != nil {
			return nil, err
		}
		var runs []run
		for _, n := range numDocs {
			exp := make([]scoring.DocScorer, len(expanders))
			for i, e := range expanders {
				exp[i] = scoring.NewExpansionDocScorer(e, scoring.ExpansionNumDocs(n))
			}
			for _, w := range weights {
				scorers := []scoring.WeightedScorer{{Scorer: dirichlet, Weight: w[0]}}
				for i, s := range exp {
					scorers = append(scorers, scoring.WeightedScorer{Scorer: s, Weight: w[i+1]})
				}
				hits, err := rerank(q, results, scoring.NewQueryLikelihoodQueryScorer(scoring.NewInterpolatedDocScorer(scorers...)))
				if err != nil {
					return nil, err
				}
				id := params.OptimalParameters{OrigWeight: w[0], NumDocs: n, NumTerms: numTerms, ExpansionWeights: w[1:]}.RunID()
				runs = append(runs, run{id: id, hits: hits})
			}
		}
		return runs, nil
	}, nil
}

// delm scores each result as a pseudo-document mixing its own term counts with the score weighted counts of its
// pre-computed expansion documents.
func delm(target stats.StatisticsSource, e expansion.Expander, numDocs int, origWeight, mu float64) retriever {
	scorer := scoring.NewQueryLikelihoodQueryScorer(scoring.NewDirichletDocScorer(e.Index(), scoring.DirichletMu(mu)))
	return func(q *docexp.Query) ([]run, error) {
		results, err := target.Execute(q, depth)
		if err != nil {
			return nil, err
		}
		hits := make(docexp.SearchHits, len(results))
		for i, hit := range results {
			v, err := hit.TermVector()
			if err != nil {
				return nil, err
			}
			pseudo := docexp.NewTermVector()
			for _, term := range v.Terms() {
				pseudo.Add(term, origWeight*v.Weight(term))
			}
			expansionDocs, err := e.ExpandDocument(hit, numDocs)
			if err != nil {
				return nil, err
			}
			for _, doc := range expansionDocs {
				dv, err := doc.TermVector()
				if err != nil {
					return nil, err
				}
				for _, term := range dv.Terms() {
					pseudo.Add(term, (1-origWeight)*doc.Score*dv.Weight(term))
				}
			}
			hits[i] = hit.Copy()
			hits[i].SetTermVector(pseudo)
			if hits[i].Score, err = scorer.ScoreQuery(q, hits[i]); err != nil {
				return nil, err
			}
		}
		hits.Sort()
		return []run{{id: "delm", hits: hits}}, nil
	}
}

// expandedRM3 sweeps relevance model parameters for relevance models estimated from expanded feedback documents,
// using the tuned expansion parameters of each query.
func expandedRM3(env *cmd.Env, target stats.StatisticsSource, indexes []stats.StatisticsSource, names []string, table *params.Table) (retriever, error) {
	c := env.Config
	fbDocs, err := steps(c.MinFeedbackDocs(), c.MaxFeedbackDocs(), c.FeedbackDocsInterval())
	if err != nil {
		return nil, err
	}
	fbTerms, err := steps(c.MinFeedbackTerms(), c.MaxFeedbackTerms(), c.FeedbackTermsInterval())
	if err != nil {
		return nil, err
	}
	maxDocs, maxTerms := c.MaxFeedbackDocs(), c.MaxFeedbackTerms()

	return func(q *docexp.Query) ([]run, error) {
		opt := table.For(q.Title)
		expanders := make([]expansion.Expander, len(indexes))
		for i, index := range indexes {
			e, err := env.Expander(index, names[i], expansion.ExpanderNumTerms(opt.NumTerms))
			if err != nil {
				return nil, err
			}
			expanders[i] = e
		}
		// A single expansion index takes whatever weight the original document leaves.
		weights := opt.Weights()
		if len(indexes) == 1 {
			weights = []float64{opt.OrigWeight, 1 - opt.OrigWeight}
		}

		feedbackDocs, err := target.Execute(q, maxDocs)
		if err != nil {
			return nil, err
		}
		var runs []run
		// Feedback documents and terms are reduced from the largest setting so each model is clipped in place.
		for i := len(fbDocs) - 1; i >= 0; i-- {
			b, err := feedback.NewExpandedRM1Builder(target, expanders, opt.NumDocs, weights,
				feedback.RM1FeedbackDocs(fbDocs[i]), feedback.RM1FeedbackTerms(maxTerms))
			if err != nil {
				return nil, err
			}
			rm, err := b.BuildRelevanceModel(q, feedbackDocs, env.Stopper)
			if err != nil {
				return nil, err
			}
			for j := len(fbTerms) - 1; j >= 0; j-- {
				rm.Clip(fbTerms[j])
				for _, fbWeights := range lm.InterpolationWeights(2) {
					w := fbWeights[0]
					results, err := target.Execute(docexp.NewQuery(q.Title, feedback.RM3(q, rm, w)), depth)
					if err != nil {
						return nil, err
					}
					id := opt.RunID() + fmt.Sprintf(",fbOrigWeight:%g,fbDocs:%d,fbTerms:%d", w, fbDocs[i], fbTerms[j])
					runs = append(runs, run{id: id, hits: results})
				}
			}
		}
		return runs, nil
	}, nil
}

func main() {
	args := args{
		Common:     cmd.DefaultCommon(),
		Mode:       "grid",
		NumTerms:   expansion.DefaultNumTerms,
		NumDocs:    expansion.DefaultMaxNumDocs,
		OrigWeight: 0.5,
	}
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
	queries, err := cmd.LoadQueries(c)
	if err != nil {
		log.Fatalln(err)
	}
	var topics []*docexp.Query
	for _, q := range queries.All() {
		if len(args.Query) == 0 || q.Title == args.Query {
			topics = append(topics, cmd.Stopped(q, env.Stopper))
		}
	}
	if len(topics) == 0 {
		log.Fatalln("no queries to retrieve for")
	}

	var r retriever
	switch args.Mode {
	case "baseline":
		r = baseline(target)
	case "baseline-rm3":
		r = baselineRM3(env, target, args.OrigWeight)
	case "grid", "delm", "rm3":
		indexes, names, err := env.ExpansionIndexes()
		if err != nil {
			log.Fatalln(err)
		}
		switch args.Mode {
		case "grid":
			expanders := make([]expansion.Expander, len(indexes))
			for i, index := range indexes {
				if expanders[i], err = env.SharedExpander(names[i], index,
					expansion.ExpanderNumTerms(args.NumTerms),
					expansion.ExpanderMaxNumDocs(c.MaxDocs())); err != nil {
					log.Fatalln(err)
				}
			}
			if r, err = grid(env, target, expanders, args.NumTerms); err != nil {
				log.Fatalln(err)
			}
		case "delm":
			if len(c.Clusters()) == 0 {
				log.Fatalln("delm mode needs the clusters config key")
			}
			e, err := expansion.LoadPreExpandedDocumentExpander(c.Clusters(), indexes[0])
			if err != nil {
				log.Fatalln(err)
			}
			r = delm(target, e, args.NumDocs, args.OrigWeight, c.Mu())
		case "rm3":
			paramsPath, err := c.OptimalParams()
			if err != nil {
				log.Fatalln(err)
			}
			table, err := params.Load(paramsPath)
			if err != nil {
				log.Fatalln(err)
			}
			if r, err = expandedRM3(env, target, indexes, names, table); err != nil {
				log.Fatalln(err)
			}
		}
	default:
		log.Fatalf("unknown mode %s\n", args.Mode)
	}

	runs := make([][]run, len(topics))
	p := pipeline.NewFeaturePipeline(nil, pipeline.Workers(env.Workers), pipeline.Progress(os.Stderr))
	err = p.Execute(len(topics), func(i int) ([]output.Row, error) {
		var err error
		runs[i], err = r(topics[i])
		return nil, errors.Wrapf(err, "query %s", topics[i].Title)
	})
	if err != nil {
		log.Fatalln(err)
	}

	tw := output.NewTrecWriter(os.Stdout)
	batches := make(map[string]*docexp.SearchHitsBatch)
	for i, q := range topics {
		for _, rn := range runs[i] {
			if err := tw.WriteHits(q.Title, rn.hits, rn.id); err != nil {
				log.Fatalln(err)
			}
			if _, ok := batches[rn.id]; !ok {
				batches[rn.id] = docexp.NewSearchHitsBatch()
			}
			batches[rn.id].Set(q.Title, rn.hits)
		}
	}
	if err := tw.Flush(); err != nil {
		log.Fatalln(err)
	}

	if len(args.Eval) == 0 {
		return
	}
	qrelsPath, err := c.Qrels()
	if err != nil {
		log.Fatalln(err)
	}
	qrels, err := eval.LoadQrels(qrelsPath)
	if err != nil {
		log.Fatalln(err)
	}
	evaluators := []eval.Evaluator{eval.AP, eval.NDCG{K: 10}, eval.PrecisionAtK{K: 10}}
	summary := make(map[string]map[string]float64)
	for id, batch := range batches {
		scores := eval.Evaluate(evaluators, batch, qrels)
		summary[id] = make(map[string]float64)
		for _, e := range evaluators {
			summary[id][e.Name()] = eval.Mean(scores, e.Name())
		}
	}
	f, err := os.Create(args.Eval)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()
	if err := output.WriteEvaluation(f, summary); err != nil {
		log.Fatalln(err)
	}
}
