package main

import (
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
	"github.com/hscells/docexp/analysis/preqpp"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/collection"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/output"
	"github.com/hscells/docexp/scoring"
	"github.com/pkg/errors"
)

type args struct {
	cmd.Common
	Docs    string `arg:"positional,required" help:"document list of docno,query,collection lines"`
	Variant string `help:"feature set to compute: basic, qpp or full"`
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `compute features of judged documents before they are expanded`
}

// measurements lists the features of a variant. The expander is only used while measuring, so names can be listed
// without one.
func measurements(variant string, env *cmd.Env, e *expansion.DocumentExpander) ([]analysis.DocumentMeasurement, error) {
	rmImpQL := analysis.NewDocumentMeasurement("rmImpQL", func(s *analysis.Sample) (float64, error) {
		rm, err := cmd.RM1(s)
		if err != nil {
			return 0, err
		}
		scorer := scoring.NewQueryLikelihoodQueryScorer(scoring.NewDirichletDocScorer(s.Index, scoring.DirichletMu(env.Config.Mu())))
		return analysis.RMImprovementQL(s.Doc, s.Query, rm, scorer)
	})

	basic := []analysis.DocumentMeasurement{
		analysis.Length,
		analysis.Diversity,
		analysis.DocumentClarity,
		analysis.Prominence,
		rmImpQL,
	}

	dq := cmd.DocumentQuery(e)
	onDocumentQuery := func(ms ...analysis.Measurement) []analysis.DocumentMeasurement {
		dms := make([]analysis.DocumentMeasurement, len(ms))
		for i, m := range ms {
			dms[i] = analysis.DerivedQueryMeasurement(m, dq)
		}
		return dms
	}

	switch variant {
	case "basic":
		return basic, nil
	case "qpp":
		return onDocumentQuery(
			preqpp.AvgIDF, preqpp.SumIDF, preqpp.MaxIDF, preqpp.StdDevIDF,
			preqpp.AvgICTF, preqpp.SimplifiedClarityScore,
			preqpp.AvgSCQ, preqpp.MaxSCQ, preqpp.SumSCQ,
			preqpp.AvgTermVar, preqpp.MaxTermVar,
		), nil
	case "full", "":
		full := append(basic, analysis.Entropy)
		return append(full, onDocumentQuery(
			preqpp.AvgIDF, preqpp.AvgICTF, preqpp.SimplifiedClarityScore,
			preqpp.AvgSCQ, preqpp.MaxSCQ, preqpp.SumSCQ,
		)...), nil
	}
	return nil, errors.Errorf("unknown variant %s", variant)
}

func main() {
	args := args{Common: cmd.DefaultCommon(), Variant: "full"}
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

	names, err := measurements(args.Variant, env, nil)
	if err != nil {
		log.Fatalln(err)
	}

	header := append([]string{"docno", "query", "relevance"}, analysis.Names(names)...)
	p, w, err := env.Pipeline(os.Stdout, os.Stderr, "preexpansion", header)
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

		// Documents are expanded within their own collection.
		e, err := env.SharedExpander(d.Collection, res.Index)
		if err != nil {
			return nil, err
		}
		ms, err := measurements(args.Variant, env, e)
		if err != nil {
			return nil, err
		}

		s := analysis.NewSample(docexp.NewSearchHit(d.Docno, 0, res.Index), q, res.Index, env.Stopper)
		values, err := analysis.MeasureAll(s, ms)
		if err != nil {
			return nil, errors.Wrapf(err, "measuring %s for %s", d.Docno, d.Query)
		}
		relevance := float64(res.Qrels.RelLevel(q.Title, d.Docno))
		return []output.Row{output.NewRow([]string{d.Docno, q.Title}, append([]float64{relevance}, values...)...)}, nil
	})
	if err != nil {
		log.Fatalln(err)
	}
	if err := w.Close(); err != nil {
		log.Fatalln(err)
	}
}
