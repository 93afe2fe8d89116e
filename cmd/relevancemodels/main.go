package main

import (
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/feedback"
	"github.com/hscells/docexp/output"
)

type args struct {
	cmd.Common
	FeedbackDocs  int `arg:"--fb-docs" help:"top documents the relevance model is estimated from"`
	FeedbackTerms int `arg:"--fb-terms" help:"terms kept in each relevance model"`
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `write the relevance model of every query as query,term,weight lines`
}

func main() {
	args := args{Common: cmd.DefaultCommon(), FeedbackDocs: 10, FeedbackTerms: 10}
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
	all := queries.All()
	builder := feedback.NewRM1Builder(target,
		feedback.RM1FeedbackDocs(args.FeedbackDocs),
		feedback.RM1FeedbackTerms(args.FeedbackTerms))

	p, w, err := env.Pipeline(os.Stdout, os.Stderr, "relevancemodels", []string{"query", "term", "weight"})
	if err != nil {
		log.Fatalln(err)
	}
	err = p.Execute(len(all), func(i int) ([]output.Row, error) {
		q := cmd.Stopped(all[i], env.Stopper)
		fb, err := target.Execute(q, args.FeedbackDocs)
		if err != nil {
			return nil, err
		}
		rm, err := builder.BuildRelevanceModel(q, fb, env.Stopper)
		if err != nil {
			return nil, err
		}
		var rows []output.Row
		for _, term := range rm.RankedTerms() {
			rows = append(rows, output.NewRow([]string{q.Title, term}, rm.Weight(term)))
		}
		return rows, nil
	})
	if err != nil {
		log.Fatalln(err)
	}
	if err := w.Close(); err != nil {
		log.Fatalln(err)
	}
}
