package main

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
	"github.com/hscells/docexp/analysis/postqpp"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/eval"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/feedback"
	"github.com/hscells/docexp/output"
	"github.com/hscells/docexp/scoring"
	"github.com/hscells/docexp/stats"
	"github.com/pkg/errors"
)

const (
	depth   = 10
	rmTerms = 20
)

type args struct {
	cmd.Common
	Query string   `arg:"positional,required" help:"title of the query the documents were retrieved for"`
	Have  string   `arg:"positional,required" help:"earlier output of this command; documents listed in it are skipped"`
	Runs  []string `arg:"positional,required" help:"runs the documents are drawn from"`
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `compute features of a query's retrieved documents for every expansion index`
}

var header = []string{
	"query",
	"doc",
	"index",
	"jaccard",
	"pseudo_map",
	"doc_clarity",
	"target_rm",
	"exp_ql",
	"doc_vs_exp",
	"wig",
	"avg_idf",
}

// readHave lists the documents in the second column of an earlier output. A missing file lists nothing.
func readHave(path string) (map[string]bool, error) {
	have := make(map[string]bool)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return have, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "opening previous output")
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading previous output")
		}
		if len(record) > 1 {
			have[strings.TrimSpace(record[1])] = true
		}
	}
	return have, nil
}

// expansionIndex is an expansion index together with the documents the query retrieves from it.
type expansionIndex struct {
	name     string
	index    stats.StatisticsSource
	expander *expansion.DocumentExpander
	results  docexp.SearchHits
	scorer   scoring.DocScorer
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
	q := queries.Named(args.Query)
	if q == nil {
		log.Fatalf("no query named %s\n", args.Query)
	}
	q = cmd.Stopped(q, env.Stopper)

	have, err := readHave(args.Have)
	if err != nil {
		log.Fatalln(err)
	}
	var docs docexp.SearchHits
	seen := make(map[string]bool)
	for _, path := range args.Runs {
		run, err := eval.LoadRun(path, target)
		if err != nil {
			log.Fatalln(err)
		}
		for _, hit := range run.Hits(q.Title) {
			if have[hit.Docno] || seen[hit.Docno] {
				continue
			}
			seen[hit.Docno] = true
			docs = append(docs, hit)
		}
	}

	top, err := target.Execute(q, depth)
	if err != nil {
		log.Fatalln(err)
	}
	rm, err := feedback.NewRM1Builder(target, feedback.RM1FeedbackDocs(depth), feedback.RM1FeedbackTerms(rmTerms)).
		BuildRelevanceModel(q, top, env.Stopper)
	if err != nil {
		log.Fatalln(err)
	}

	indexes, names, err := env.ExpansionIndexes()
	if err != nil {
		log.Fatalln(err)
	}
	expansions := make([]expansionIndex, len(indexes))
	for i, index := range indexes {
		e, err := env.SharedExpander(names[i], index, expansion.ExpanderMaxNumDocs(depth))
		if err != nil {
			log.Fatalln(err)
		}
		results, err := index.Execute(q, depth)
		if err != nil {
			log.Fatalln(err)
		}
		expansions[i] = expansionIndex{
			name:     names[i],
			index:    index,
			expander: e,
			results:  results,
			scorer:   scoring.NewDirichletDocScorer(index, scoring.DirichletMu(env.Config.Mu())),
		}
	}
	log.Printf("computing features for %d documents over %d indexes\n", len(docs), len(expansions))

	p, w, err := env.Pipeline(os.Stdout, os.Stderr, "expansionfeatures", header)
	if err != nil {
		log.Fatalln(err)
	}

	err = p.Execute(len(docs)*len(expansions), func(i int) ([]output.Row, error) {
		doc, x := docs[i/len(expansions)], expansions[i%len(expansions)]

		hits, err := x.expander.ExpandDocument(doc, depth)
		if err != nil {
			return nil, err
		}
		docQuery, err := x.expander.DocumentQuery(doc)
		if err != nil {
			return nil, err
		}
		clarity, err := analysis.Clarity(docQuery.Vector, x.index)
		if err != nil {
			return nil, err
		}

		summed := docexp.NewTermVector()
		for _, hit := range hits {
			hv, err := hit.TermVector()
			if err != nil {
				return nil, err
			}
			for _, term := range hv.Terms() {
				summed.Add(term, hv.Weight(term))
			}
		}
		v, err := doc.TermVector()
		if err != nil {
			return nil, err
		}

		likelihood, err := postqpp.QueryExpansionCollectionLikelihood(q, x.index)
		if err != nil {
			return nil, err
		}
		wig, err := postqpp.ScoredInformationGain(q, x.index, x.scorer, hits)
		if err != nil {
			return nil, err
		}
		idf, err := postqpp.AvgLogIDF.Execute(q, x.index)
		if err != nil {
			return nil, err
		}

		return []output.Row{output.NewRow([]string{q.Title, doc.Docno, x.name},
			analysis.JaccardSimilarity(hits.Docnos(), x.results.Docnos()),
			postqpp.PseudoAveragePrecision(q, hits, x.results.Docnos()),
			clarity,
			analysis.CosineSimilarity(rm, summed),
			likelihood,
			analysis.CosineSimilarity(v, summed),
			wig,
			idf,
		)}, nil
	})
	if err != nil {
		log.Fatalln(err)
	}
	if err := w.Close(); err != nil {
		log.Fatalln(err)
	}
}
