package main

import (
	"log"
	"os"
	"sort"

	"github.com/alexflint/go-arg"
	"github.com/hscells/docexp"
	"github.com/hscells/docexp/analysis"
	"github.com/hscells/docexp/cmd"
	"github.com/hscells/docexp/eval"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/feedback"
	"github.com/hscells/docexp/output"
	"github.com/hscells/docexp/pipeline"
	"github.com/hscells/docexp/preprocess"
)

const (
	retrievalDepth = 1000
	feedbackDepth  = 20
	documentTerms  = 20
	expansionTerms = 20
	rmTerms        = 5
	expansionDocs  = 10
	// judgedFraction of the sample is drawn from relevant documents and the same again from non-relevant ones.
	judgedFraction = 0.3
)

type args struct {
	cmd.Common
}

func (args) Version() string {
	return "1.Mar.2019"
}

func (args) Description() string {
	return `sample documents and candidate topic terms for a user study`
}

// candidates are the vectors terms are sampled from for one document.
type candidates struct {
	doc       *docexp.TermVector
	expansion *docexp.TermVector
}

// termSet keeps terms in the order they were added.
type termSet struct {
	terms []string
	seen  map[string]bool
}

func (s *termSet) add(terms ...string) {
	for _, term := range terms {
		if !s.seen[term] {
			s.seen[term] = true
			s.terms = append(s.terms, term)
		}
	}
}

func hits(docnos []string, exclude map[string]bool, src docexp.VectorSource) docexp.SearchHits {
	sort.Strings(docnos)
	var h docexp.SearchHits
	for _, docno := range docnos {
		if exclude[docno] {
			continue
		}
		exclude[docno] = true
		h = append(h, docexp.NewSearchHit(docno, 0, src))
	}
	return h
}

func withoutNumbers(v *docexp.TermVector) *docexp.TermVector {
	v = v.Copy()
	preprocess.RemoveNumbers(v)
	return v
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
	indexes, names, err := env.ExpansionIndexes()
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

	e, err := env.SharedExpander(names[0], indexes[0], expansion.ExpanderNumTerms(10))
	if err != nil {
		log.Fatalln(err)
	}
	targetRM := feedback.NewRM1Builder(target, feedback.RM1FeedbackDocs(feedbackDepth), feedback.RM1FeedbackTerms(feedbackDepth))
	expansionRM := feedback.NewRM1Builder(indexes[0], feedback.RM1FeedbackDocs(feedbackDepth), feedback.RM1FeedbackTerms(feedbackDepth))

	all := queries.All()
	stopped := make(map[string]*docexp.Query, len(all))
	var relevant, nonRelevant, retrieved []string
	for _, q := range all {
		stopped[q.Title] = cmd.Stopped(q, env.Stopper)
		relevant = append(relevant, qrels.RelevantDocs(q.Title)...)
		nonRelevant = append(nonRelevant, qrels.NonRelevantDocs(q.Title)...)
		results, err := target.Execute(stopped[q.Title], retrievalDepth)
		if err != nil {
			log.Fatalln(err)
		}
		retrieved = append(retrieved, results.Docnos()...)
	}
	seen := make(map[string]bool)
	relDocs := hits(relevant, seen, target)
	nonRelDocs := hits(nonRelevant, seen, target)
	anyDocs := hits(retrieved, seen, target)

	sampleSize := env.Config.SampleSize()
	judged := int(float64(sampleSize) * judgedFraction)
	var sample docexp.SearchHits
	sample = append(sample, analysis.SampleDocuments(judged, relDocs, env.Rand)...)
	sample = append(sample, analysis.SampleDocuments(judged, nonRelDocs, env.Rand)...)
	sample = append(sample, analysis.SampleDocuments(sampleSize-2*judged, anyDocs, env.Rand)...)
	log.Printf("sampled %d documents\n", len(sample))

	// Relevance models of every query with relevant documents.
	rms := make([]*docexp.TermVector, len(all))
	p := pipeline.NewFeaturePipeline(nil, pipeline.Workers(env.Workers), pipeline.Progress(os.Stderr))
	err = p.Execute(len(all), func(i int) ([]output.Row, error) {
		q := stopped[all[i].Title]
		if len(qrels.RelevantDocs(q.Title)) == 0 {
			return nil, nil
		}
		results, err := target.Execute(q, feedbackDepth)
		if err != nil {
			return nil, err
		}
		rm, err := targetRM.BuildRelevanceModel(q, results, env.Stopper)
		if err != nil {
			return nil, err
		}
		rms[i] = withoutNumbers(rm)
		return nil, nil
	})
	if err != nil {
		log.Fatalln(err)
	}

	vectors := make([]candidates, len(sample))
	err = p.Execute(len(sample), func(i int) ([]output.Row, error) {
		doc := sample[i]
		v, err := doc.TermVector()
		if err != nil {
			return nil, err
		}
		docQuery, err := e.DocumentQuery(doc)
		if err != nil {
			return nil, err
		}
		expansionDocs, err := e.ExpandDocument(doc, expansionDocs)
		if err != nil {
			return nil, err
		}
		rm, err := expansionRM.BuildRelevanceModel(docQuery, expansionDocs, env.Stopper)
		if err != nil {
			return nil, err
		}
		vectors[i] = candidates{doc: withoutNumbers(v), expansion: withoutNumbers(rm)}
		return nil, nil
	})
	if err != nil {
		log.Fatalln(err)
	}

	// Terms are sampled in document order so that a seed always gives the same terms.
	w := output.NewCSVWriter(os.Stdout)
	for i, doc := range sample {
		terms := termSet{seen: make(map[string]bool)}
		sampled, err := analysis.SampleTerms(documentTerms, vectors[i].doc, env.Stopper, nil, false, env.Rand)
		if err != nil {
			log.Fatalln(err)
		}
		terms.add(sampled...)
		sampled, err = analysis.SampleTerms(expansionTerms, vectors[i].expansion, env.Stopper, terms.terms, false, env.Rand)
		if err != nil {
			log.Fatalln(err)
		}
		terms.add(sampled...)

		for _, q := range all {
			if qrels.Contains(q.Title, doc.Docno) {
				terms.add(withoutNumbers(stopped[q.Title].Vector).Terms()...)
			}
		}
		for j, q := range all {
			if rms[j] == nil || !qrels.IsRelevant(q.Title, doc.Docno) {
				continue
			}
			sampled, err = analysis.SampleTerms(rmTerms, rms[j], env.Stopper, terms.terms, false, env.Rand)
			if err != nil {
				log.Fatalln(err)
			}
			terms.add(sampled...)
		}

		if err := w.Write(output.NewRow(append([]string{doc.Docno}, terms.terms...))); err != nil {
			log.Fatalln(err)
		}
	}
	if err := w.Close(); err != nil {
		log.Fatalln(err)
	}
}
