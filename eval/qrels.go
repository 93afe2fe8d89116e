package eval

import (
	"io"
	"os"
	"sort"

	"github.com/hscells/docexp"
	"github.com/hscells/trecresults"
	"github.com/pkg/errors"
)

// DefaultMinRelevance is the lowest grade counted as relevant.
const DefaultMinRelevance = 1

// Qrels holds graded relevance judgments for a set of queries.
type Qrels struct {
	file         trecresults.QrelsFile
	MinRelevance int
}

// NewQrels wraps parsed relevance judgments.
func NewQrels(file trecresults.QrelsFile) *Qrels {
	if file.Qrels == nil {
		file.Qrels = make(map[string]trecresults.Qrels)
	}
	return &Qrels{file: file, MinRelevance: DefaultMinRelevance}
}

// QrelsFromReader parses trec formatted relevance judgments.
func QrelsFromReader(r io.Reader) (*Qrels, error) {
	file, err := trecresults.QrelsFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading qrels")
	}
	return NewQrels(file), nil
}

// LoadQrels reads trec formatted relevance judgments from a file.
func LoadQrels(path string) (*Qrels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening qrels")
	}
	defer f.Close()
	return QrelsFromReader(f)
}

// Topic returns the judgments of a single query; it is nil when the query has none.
func (q *Qrels) Topic(query string) trecresults.Qrels {
	return q.file.Qrels[query]
}

// Queries lists the judged queries.
func (q *Qrels) Queries() []string {
	queries := make([]string, 0, len(q.file.Qrels))
	for query := range q.file.Qrels {
		queries = append(queries, query)
	}
	sort.Strings(queries)
	return queries
}

// RelLevel is the graded relevance of a document, 0 when it is not judged.
func (q *Qrels) RelLevel(query, docno string) int {
	if qrel, ok := q.file.Qrels[query][docno]; ok {
		return int(qrel.Score)
	}
	return 0
}

// Contains reports whether a document was judged for a query.
func (q *Qrels) Contains(query, docno string) bool {
	_, ok := q.file.Qrels[query][docno]
	return ok
}

// IsRelevant reports whether a document was judged at least MinRelevance.
func (q *Qrels) IsRelevant(query, docno string) bool {
	return q.Contains(query, docno) && q.RelLevel(query, docno) >= q.MinRelevance
}

func (q *Qrels) docs(query string, keep func(docno string) bool) []string {
	var docs []string
	for docno := range q.file.Qrels[query] {
		if keep(docno) {
			docs = append(docs, docno)
		}
	}
	sort.Strings(docs)
	return docs
}

// RelevantDocs lists the relevant documents of a query.
func (q *Qrels) RelevantDocs(query string) []string {
	return q.docs(query, func(docno string) bool {
		return q.IsRelevant(query, docno)
	})
}

// NonRelevantDocs lists the judged documents of a query that are not relevant.
func (q *Qrels) NonRelevantDocs(query string) []string {
	return q.docs(query, func(docno string) bool {
		return !q.IsRelevant(query, docno)
	})
}

// Pool lists every judged document of a query.
func (q *Qrels) Pool(query string) []string {
	return q.docs(query, func(string) bool {
		return true
	})
}

// Evaluate scores the hits of one query.
func (q *Qrels) Evaluate(e Evaluator, query string, hits docexp.SearchHits) float64 {
	results := ResultList(query, hits)
	qrels := q.Topic(query)
	if q.MinRelevance != DefaultMinRelevance {
		qrels = q.thresholded(query)
	}
	return e.Score(&results, qrels)
}

// thresholded rewrites judgments below the minimum relevance as non-relevant so evaluators agree with IsRelevant.
func (q *Qrels) thresholded(query string) trecresults.Qrels {
	qrels := make(trecresults.Qrels)
	for docno, qrel := range q.file.Qrels[query] {
		c := *qrel
		if !q.IsRelevant(query, docno) {
			c.Score = 0
		} else if int(c.Score) <= RelevanceGrade {
			c.Score = 1
		}
		qrels[docno] = &c
	}
	return qrels
}

// PseudoQrels judges every given document relevant to the query. It is used to evaluate rankings against sets
// that are not real relevance judgments, such as the documents containing a set of terms.
func PseudoQrels(query string, docnos []string) trecresults.Qrels {
	qrels := make(trecresults.Qrels)
	for _, docno := range docnos {
		qrels[docno] = &trecresults.Qrel{
			Topic:     query,
			Iteration: "0",
			DocId:     docno,
			Score:     1,
		}
	}
	return qrels
}
