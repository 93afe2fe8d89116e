package analysis

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strings"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/eval"
	"github.com/hscells/docexp/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TopicTermsRetrievalDepth is the number of documents retrieved when comparing pseudo-query and topic term results.
const TopicTermsRetrievalDepth = 100

// TopicTerm is a term a user marked as describing the topic of a document from a collection.
type TopicTerm struct {
	User       string
	Docno      string
	Collection string
	Term       string
}

// TopicTerms are the annotations collected in a user study.
type TopicTerms struct {
	annotations []TopicTerm
}

// ReadTopicTerms reads "user,docno,collection,term" lines.
func ReadTopicTerms(r io.Reader) (*TopicTerms, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	var t TopicTerms
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading topic terms")
		}
		t.annotations = append(t.annotations, TopicTerm{
			User:       strings.TrimSpace(record[0]),
			Docno:      strings.TrimSpace(record[1]),
			Collection: strings.TrimSpace(record[2]),
			Term:       strings.ToLower(strings.TrimSpace(record[3])),
		})
	}
	return &t, nil
}

// LoadTopicTerms reads topic term annotations from a file.
func LoadTopicTerms(path string) (*TopicTerms, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening topic terms")
	}
	defer f.Close()
	return ReadTopicTerms(f)
}

// AnnotationsBy lists the annotations of one user; every annotation is returned for an empty user.
func (t *TopicTerms) AnnotationsBy(user string) []TopicTerm {
	var a []TopicTerm
	for _, annotation := range t.annotations {
		if user == "" || annotation.User == user {
			a = append(a, annotation)
		}
	}
	return a
}

// Docnos lists the documents annotated by a user, or by anyone for an empty user.
func (t *TopicTerms) Docnos(user string) []string {
	var docnos []string
	for _, annotation := range t.AnnotationsBy(user) {
		docnos = append(docnos, annotation.Docno)
	}
	return uniq(docnos)
}

// TermsFor lists the distinct topic terms a user gave a document, or that anyone gave it for an empty user.
func (t *TopicTerms) TermsFor(user, docno string) []string {
	var terms []string
	for _, annotation := range t.AnnotationsBy(user) {
		if annotation.Docno == docno {
			terms = append(terms, annotation.Term)
		}
	}
	return uniq(terms)
}

// CollectionOf is the collection an annotated document was drawn from, empty when it was never annotated.
func (t *TopicTerms) CollectionOf(docno string) string {
	for _, annotation := range t.annotations {
		if annotation.Docno == docno {
			return annotation.Collection
		}
	}
	return ""
}

// TotalProbability is the probability mass a language model gives to a set of terms.
func TotalProbability(terms []string, lm *docexp.TermVector) float64 {
	var p float64
	for _, term := range uniq(terms) {
		p += lm.Weight(term)
	}
	return p
}

// ProbabilityChange is the change in the probability mass given to a set of terms between two language models.
func ProbabilityChange(terms []string, before, after *docexp.TermVector) float64 {
	return TotalProbability(terms, after) - TotalProbability(terms, before)
}

// TopicTermsAveragePrecision ranks the terms of a language model by probability and computes the average precision
// of that ranking, treating the topic terms as the relevant items.
func TopicTermsAveragePrecision(terms []string, lm *docexp.TermVector) float64 {
	ranked := lm.RankedTerms()
	hits := make(docexp.SearchHits, len(ranked))
	for i, term := range ranked {
		hits[i] = docexp.NewVectorHit(term, lm.Weight(term), nil)
	}
	results := eval.ResultList("topic", hits)
	return eval.AP.Score(&results, eval.PseudoQrels("topic", uniq(terms)))
}

// PseudoQueryTermRecall is the fraction of topic terms that appear in the pseudo-query.
func PseudoQueryTermRecall(pseudoQuery *docexp.Query, terms []string) float64 {
	terms = uniq(terms)
	if len(terms) == 0 {
		return 0
	}
	return float64(len(intersection(uniq(pseudoQuery.Terms()), terms))) / float64(len(terms))
}

// PseudoQueryTermJaccard is the Jaccard similarity of the pseudo-query terms and the topic terms.
func PseudoQueryTermJaccard(pseudoQuery *docexp.Query, terms []string) float64 {
	return JaccardSimilarity(pseudoQuery.Terms(), terms)
}

func topicTermsRankings(pseudoQuery *docexp.Query, terms []string, index stats.StatisticsSource) ([]string, []string, error) {
	pq, err := index.Execute(pseudoQuery, TopicTermsRetrievalDepth)
	if err != nil {
		return nil, nil, err
	}
	tt, err := index.Execute(docexp.NewQuery(pseudoQuery.Title, docexp.TermVectorFromTerms(terms)), TopicTermsRetrievalDepth)
	if err != nil {
		return nil, nil, err
	}
	return uniq(pq.Docnos()), uniq(tt.Docnos()), nil
}

// PseudoQueryVsTopicTermsResultsRecall is the fraction of the documents retrieved by the topic terms that are also
// retrieved by the pseudo-query.
func PseudoQueryVsTopicTermsResultsRecall(pseudoQuery *docexp.Query, terms []string, index stats.StatisticsSource) (float64, error) {
	pq, tt, err := topicTermsRankings(pseudoQuery, terms, index)
	if err != nil || len(tt) == 0 {
		return 0, err
	}
	return float64(len(intersection(pq, tt))) / float64(len(tt)), nil
}

// PseudoQueryVsTopicTermsResultsJaccard is the Jaccard similarity of the documents retrieved by the pseudo-query and
// by the topic terms.
func PseudoQueryVsTopicTermsResultsJaccard(pseudoQuery *docexp.Query, terms []string, index stats.StatisticsSource) (float64, error) {
	pq, tt, err := topicTermsRankings(pseudoQuery, terms, index)
	if err != nil {
		return 0, err
	}
	return JaccardSimilarity(pq, tt), nil
}

// QueryTopicTermSimilarity is the cosine similarity of a query and the topic terms, each topic term weighted once.
func QueryTopicTermSimilarity(query *docexp.Query, terms []string) float64 {
	if query.Vector == nil {
		return 0
	}
	return CosineSimilarity(query.Vector, docexp.TermVectorFromTerms(uniq(terms)))
}

// PairedTTest is the two-tailed p-value of a paired t-test. It is NotComputable with fewer than two pairs, samples
// of different lengths or differences with no variance.
func PairedTTest(a, b []float64) float64 {
	n := len(a)
	if n < 2 || n != len(b) {
		return NotComputable
	}
	d := make([]float64, n)
	for i := range a {
		d[i] = a[i] - b[i]
	}
	mean, sd := stat.MeanStdDev(d, nil)
	if sd == 0 || math.IsNaN(sd) {
		return NotComputable
	}
	t := mean / (sd / math.Sqrt(float64(n)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}
