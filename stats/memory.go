package stats

import (
	"bufio"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/preprocess"
	"github.com/pkg/errors"
)

// MemoryIndex is an inverted index held entirely in memory. Queries are scored with Dirichlet smoothed query
// likelihood, so retrieval scores are log probabilities.
type MemoryIndex struct {
	mu sync.RWMutex

	docs     map[string]map[string]float64
	lengths  map[string]float64
	postings map[string][]string
	df       map[string]float64
	ctf      map[string]float64
	total    float64

	// Mu is the Dirichlet smoothing parameter used for retrieval.
	Mu float64
}

// MemoryIndexMu sets the Dirichlet smoothing parameter used for retrieval.
func MemoryIndexMu(mu float64) func(*MemoryIndex) {
	return func(m *MemoryIndex) {
		m.Mu = mu
	}
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex(options ...func(*MemoryIndex)) *MemoryIndex {
	m := &MemoryIndex{
		docs:     make(map[string]map[string]float64),
		lengths:  make(map[string]float64),
		postings: make(map[string][]string),
		df:       make(map[string]float64),
		ctf:      make(map[string]float64),
		Mu:       2500,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Add indexes the term vector of a document. Each docno may only be added once.
func (m *MemoryIndex) Add(docno string, v *docexp.TermVector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[docno]; ok {
		return errors.Errorf("document %s already indexed", docno)
	}
	tf := v.Map()
	m.docs[docno] = tf
	m.lengths[docno] = v.Length()
	for term, count := range tf {
		m.postings[term] = append(m.postings[term], docno)
		m.df[term]++
		m.ctf[term] += count
		m.total += count
	}
	return nil
}

// AddText analyses and indexes the text of a document.
func (m *MemoryIndex) AddText(docno, text string, a preprocess.Analyser) error {
	v, err := preprocess.Vector(a, text)
	if err != nil {
		return errors.Wrapf(err, "analysing %s", docno)
	}
	return m.Add(docno, v)
}

// Len is the number of indexed documents.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// DocCount implements CollectionStatistics.
func (m *MemoryIndex) DocCount() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(len(m.docs)), nil
}

// DocumentFrequency implements CollectionStatistics.
func (m *MemoryIndex) DocumentFrequency(term string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.df[term], nil
}

// TotalTermFrequency implements CollectionStatistics.
func (m *MemoryIndex) TotalTermFrequency(term string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctf[term], nil
}

// TermCount implements CollectionStatistics.
func (m *MemoryIndex) TermCount() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total, nil
}

// TermVector returns a fresh copy of the term vector of a document.
func (m *MemoryIndex) TermVector(docno string) (*docexp.TermVector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tf, ok := m.docs[docno]
	if !ok {
		return nil, errors.Errorf("document %s not in index", docno)
	}
	return docexp.TermVectorFromMap(tf), nil
}

// Execute scores every document containing at least one query term and returns the top k.
func (m *MemoryIndex) Execute(query *docexp.Query, k int) (docexp.SearchHits, error) {
	if query == nil || query.Vector == nil || query.Vector.Length() == 0 {
		return docexp.SearchHits{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.total == 0 {
		return docexp.SearchHits{}, nil
	}

	type queryTerm struct {
		term   string
		weight float64
		pc     float64
	}
	var terms []queryTerm
	candidates := make(map[string]struct{})
	for _, term := range query.Vector.Terms() {
		ctf := m.ctf[term]
		if ctf == 0 {
			continue
		}
		terms = append(terms, queryTerm{
			term:   term,
			weight: query.Vector.Weight(term) / query.Vector.Length(),
			pc:     (ctf + 1) / m.total,
		})
		for _, docno := range m.postings[term] {
			candidates[docno] = struct{}{}
		}
	}

	hits := make(docexp.SearchHits, 0, len(candidates))
	for docno := range candidates {
		var score float64
		for _, t := range terms {
			p := (m.docs[docno][t.term] + m.Mu*t.pc) / (m.lengths[docno] + m.Mu)
			if p > 0 {
				score += t.weight * math.Log(p)
			}
		}
		hits = append(hits, docexp.NewSearchHit(docno, score, m))
	}
	hits.Sort()
	return hits.Crop(k), nil
}

// LoadTrecCollection indexes every <DOC> element of a TREC formatted collection. The text of a document is everything
// inside the element apart from its <DOCNO>.
func (m *MemoryIndex) LoadTrecCollection(r io.Reader, a preprocess.Analyser) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	var (
		inDoc bool
		docno string
		text  strings.Builder
	)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "<DOC>"):
			inDoc = true
			docno = ""
			text.Reset()
		case strings.HasPrefix(trimmed, "</DOC>"):
			if !inDoc {
				continue
			}
			inDoc = false
			if len(docno) == 0 {
				return errors.New("document without a DOCNO")
			}
			if err := m.AddText(docno, text.String(), a); err != nil {
				return err
			}
		case inDoc && strings.HasPrefix(trimmed, "<DOCNO>"):
			docno = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, "<DOCNO>"), "</DOCNO>"))
		case inDoc:
			text.WriteString(line)
			text.WriteRune('\n')
		}
	}
	return errors.Wrap(scanner.Err(), "reading collection")
}

// LoadTrecCollectionPath indexes a TREC collection file, or every file in a directory.
func (m *MemoryIndex) LoadTrecCollectionPath(path string, a preprocess.Analyser) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "opening collection %s", path)
	}
	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*"))
		if err != nil {
			return err
		}
	}
	for _, file := range files {
		if fi, err := os.Stat(file); err != nil || fi.IsDir() {
			continue
		}
		f, err := os.Open(file)
		if err != nil {
			return errors.Wrapf(err, "opening collection file %s", file)
		}
		err = m.LoadTrecCollection(f, a)
		f.Close()
		if err != nil {
			return errors.Wrapf(err, "indexing %s", file)
		}
	}
	return nil
}
