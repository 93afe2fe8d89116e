package main

import (
	"log"
	"os"
	"sort"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/collection"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/lm"
	"github.com/hscells/docexp/output"
	"github.com/hscells/docexp/params"
	"github.com/hscells/docexp/scoring"
	"github.com/hscells/docexp/stats"
)

type args struct {
	cmd.Common
	TopicTerms string `arg:"positional,required" help:"topic term annotations of user,docno,collection,term lines"`
	User       string `help:"user whose annotations are measured"`
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `compare the topic terms users gave documents with their original and expanded language models`
}

var header = []string{
	"docno",
	"query",
	"probChange",
	"totalProbTarget",
	"totalProbExpansion",
	"totalProbExpanded",
	"qtotalProbTarget",
	"qtotalProbExpansion",
	"qtotalProbExpanded",
	"totalProbTargetQL",
	"totalProbExpansionQL",
	"totalProbExpandedQL",
	"qtotalProbTargetQL",
	"qtotalProbExpansionQL",
	"qtotalProbExpandedQL",
	"ttProbTtest",
	"qProbTtest",
	"ttAPTarget",
	"ttAPExpansion",
	"ttAPExpanded",
	"qAPTarget",
	"qAPExpansion",
	"qAPExpanded",
	"pqTTRecall",
	"qpqRecall",
	"pqTTResultsRecall",
	"qpqResultsRecall",
	"qTTSim",
}

// annotated is a document annotated with topic terms, paired with a query it was judged non-relevant for.
type annotated struct {
	docno string
	terms []string
	res   *collection.Resources
	query *docexp.Query
}

// scorers are the three ways a document's term probabilities are estimated.
type scorers struct {
	target, expansion, expanded scoring.DocScorer
}

func (s scorers) all() []scoring.DocScorer {
	return []scoring.DocScorer{s.target, s.expansion, s.expanded}
}

// docModel is the model of the document's stopped vocabulary.
func docModel(doc *docexp.SearchHit, scorer scoring.DocScorer, stopper *docexp.Stopper) (*docexp.TermVector, error) {
	model, err := lm.LanguageModel(doc, scorer)
	if err != nil {
		return nil, err
	}
	model = model.Copy()
	model.ApplyStopper(stopper)
	return model, nil
}

// pairedTest compares the probabilities two scorers give each distinct term.
func pairedTest(terms []string, doc *docexp.SearchHit, a, b scoring.DocScorer) (float64, error) {
	terms = append([]string(nil), terms...)
	sort.Strings(terms)
	pa, err := lm.TermModel(doc, terms, a)
	if err != nil {
		return 0, err
	}
	pb, err := lm.TermModel(doc, terms, b)
	if err != nil {
		return 0, err
	}
	x, y := make([]float64, len(terms)), make([]float64, len(terms))
	for i, term := range terms {
		x[i], y[i] = pa.Weight(term), pb.Weight(term)
	}
	return analysis.PairedTTest(x, y), nil
}

// measure computes every metric of one annotated document and query.
func measure(a annotated, s scorers, e *expansion.DocumentExpander, numDocs int, stopper *docexp.Stopper) ([]float64, error) {
	doc := docexp.NewSearchHit(a.docno, 0, a.res.Index)
	queryTerms := a.query.Terms()
	topicQuery := docexp.NewQuery(a.docno, docexp.TermVectorFromTerms(a.terms))

	var values []float64

	target, err := lm.TermModel(doc, a.terms, s.target)
	if err != nil {
		return nil, err
	}
	exp, err := lm.TermModel(doc, a.terms, s.expansion)
	if err != nil {
		return nil, err
	}
	values = append(values, analysis.ProbabilityChange(a.terms, target, exp))

	for _, terms := range [][]string{a.terms, queryTerms} {
		for _, scorer := range s.all() {
			model, err := lm.TermModel(doc, terms, scorer)
			if err != nil {
				return nil, err
			}
			values = append(values, analysis.TotalProbability(terms, model))
		}
	}
	for _, q := range []*docexp.Query{topicQuery, a.query} {
		for _, scorer := range s.all() {
			ql, err := scoring.NewQueryLikelihoodQueryScorer(scorer).ScoreQuery(q, doc)
			if err != nil {
				return nil, err
			}
			values = append(values, ql)
		}
	}
	for _, terms := range [][]string{a.terms, queryTerms} {
		p, err := pairedTest(terms, doc, s.expansion, s.target)
		if err != nil {
			return nil, err
		}
		values = append(values, p)
	}
	for _, terms := range [][]string{a.terms, queryTerms} {
		for _, scorer := range s.all() {
			model, err := docModel(doc, scorer, stopper)
			if err != nil {
				return nil, err
			}
			values = append(values, analysis.TopicTermsAveragePrecision(terms, model))
		}
	}

	pseudoQuery, err := expansion.PseudoQuery(e, doc, numDocs, stopper)
	if err != nil {
		return nil, err
	}
	values = append(values,
		analysis.PseudoQueryTermRecall(pseudoQuery, a.terms),
		analysis.PseudoQueryTermRecall(pseudoQuery, queryTerms))
	for _, terms := range [][]string{a.terms, queryTerms} {
		recall, err := analysis.PseudoQueryVsTopicTermsResultsRecall(pseudoQuery, terms, e.Index())
		if err != nil {
			return nil, err
		}
		values = append(values, recall)
	}
	return append(values, analysis.QueryTopicTermSimilarity(a.query, a.terms)), nil
}

func main() {
	args := args{Common: cmd.DefaultCommon(), User: "test"}
	arg.MustParse(&args)

	env, err := cmd.Setup(args.Common)
	if err != nil {
		log.Fatalln(err)
	}
	registry := collection.NewRegistryFromConfig(env.Config)

	locations, err := env.Config.ExpansionIndexes()
	if err != nil {
		log.Fatalln(err)
	}
	var expansionIndex stats.StatisticsSource
	if expansionIndex, err = env.OpenIndex(locations[0]); err != nil {
		log.Fatalln(err)
	}
	paramsPath, err := env.Config.OptimalParams()
	if err != nil {
		log.Fatalln(err)
	}
	table, err := params.Load(paramsPath)
	if err != nil {
		log.Fatalln(err)
	}
	topicTerms, err := analysis.LoadTopicTerms(args.TopicTerms)
	if err != nil {
		log.Fatalln(err)
	}

	var docs []annotated
	for _, docno := range topicTerms.Docnos(args.User) {
		res, err := registry.Get(topicTerms.CollectionOf(docno))
		if err != nil {
			log.Fatalln(err)
		}
		for _, q := range res.Queries.All() {
			nonRelevant := false
			for _, d := range res.Qrels.NonRelevantDocs(q.Title) {
				if d == docno {
					nonRelevant = true
					break
				}
			}
			if nonRelevant {
				docs = append(docs, annotated{
					docno: docno,
					terms: topicTerms.TermsFor(args.User, docno),
					res:   res,
					query: cmd.Stopped(q, env.Stopper),
				})
			}
		}
	}
	log.Printf("measuring %d annotated documents\n", len(docs))

	p, w, err := env.Pipeline(os.Stdout, os.Stderr, "userstudy", header)
	if err != nil {
		log.Fatalln(err)
	}

	err = p.Execute(len(docs), func(i int) ([]output.Row, error) {
		a := docs[i]
		opt := table.For(a.query.Title)

		e, err := env.Expander(expansionIndex, "expansion", expansion.ExpanderNumTerms(opt.NumTerms))
		if err != nil {
			return nil, err
		}
		exp := scoring.NewExpansionDocScorer(e, scoring.ExpansionNumDocs(opt.NumDocs))
		s := scorers{
			target:    a.res.Scorer,
			expansion: exp,
			expanded: scoring.NewInterpolatedDocScorer(
				scoring.WeightedScorer{Scorer: a.res.Scorer, Weight: opt.OrigWeight},
				scoring.WeightedScorer{Scorer: exp, Weight: 1 - opt.OrigWeight},
			),
		}

		values, err := measure(a, s, e, opt.NumDocs, env.Stopper)
		if err != nil {
			return nil, err
		}
		return []output.Row{output.NewRow([]string{a.docno, a.query.Title}, values...)}, nil
	})
	if err != nil {
		log.Fatalln(err)
	}
	if err := w.Close(); err != nil {
		log.Fatalln(err)
	}
}
