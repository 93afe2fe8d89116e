package main

import (
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/collection"
	"github.com/hscells/docexp/output"
)

type args struct {
	cmd.Common
	Docs   string `arg:"positional,required" help:"document list; only the docno column is used"`
	Source string `help:"document for the query issued to find expansion documents, expansion for the summary of the expansion documents"`
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `write the pseudo-queries of documents as docno,term,weight lines`
}

func main() {
	args := args{Common: cmd.DefaultCommon(), Source: "document"}
	arg.MustParse(&args)

	env, err := cmd.Setup(args.Common)
	if err != nil {
		log.Fatalln(err)
	}
	target, err := env.TargetIndex()
	if err != nil {
		log.Fatalln(err)
	}
	indexes, names, err := env.ExpansionIndexes()
	if err != nil {
		log.Fatalln(err)
	}
	e, err := env.SharedExpander(names[0], indexes[0])
	if err != nil {
		log.Fatalln(err)
	}

	var pseudoQuery func(doc *docexp.SearchHit) (*docexp.Query, error)
	switch args.Source {
	case "document":
		pseudoQuery = e.DocumentQuery
	case "expansion":
		pseudoQuery = e.PseudoQuery
	default:
		log.Fatalf("unknown source %s\n", args.Source)
	}

	docs, err := collection.LoadDocuments(args.Docs)
	if err != nil {
		log.Fatalln(err)
	}

	p, w, err := env.Pipeline(os.Stdout, os.Stderr, "pseudoqueries", []string{"docno", "term", "weight"})
	if err != nil {
		log.Fatalln(err)
	}
	err = p.Execute(len(docs), func(i int) ([]output.Row, error) {
		q, err := pseudoQuery(docexp.NewSearchHit(docs[i].Docno, 0, target))
		if err != nil {
			return nil, err
		}
		var rows []output.Row
		for _, term := range q.Vector.RankedTerms() {
			rows = append(rows, output.NewRow([]string{docs[i].Docno, term}, q.Vector.Weight(term)))
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
