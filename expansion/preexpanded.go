package expansion

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/stats"
	"github.com/pkg/errors"
)

// PreExpandedDocumentExpander serves expansion documents computed ahead of time.
type PreExpandedDocumentExpander struct {
	index    stats.StatisticsSource
	clusters map[string][]CachedHit
}

// NewPreExpandedDocumentExpander reads a clusters file where each line is `docno expansionDocno score`. Expansion
// documents of each document are ranked by descending score.
func NewPreExpandedDocumentExpander(r io.Reader, index stats.StatisticsSource) (*PreExpandedDocumentExpander, error) {
	e := &PreExpandedDocumentExpander{
		index:    index,
		clusters: make(map[string][]CachedHit),
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return nil, errors.Errorf("line %d: expected `docno expansionDocno score`", line)
		}
		score, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		e.clusters[fields[0]] = append(e.clusters[fields[0]], CachedHit{Docno: fields[1], Score: score})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading clusters")
	}

	for _, hits := range e.clusters {
		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].Score > hits[j].Score
		})
	}
	return e, nil
}

// LoadPreExpandedDocumentExpander reads a clusters file from disk.
func LoadPreExpandedDocumentExpander(path string, index stats.StatisticsSource) (*PreExpandedDocumentExpander, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening clusters %s", path)
	}
	defer f.Close()
	return NewPreExpandedDocumentExpander(f, index)
}

// Index implements Expander.
func (e *PreExpandedDocumentExpander) Index() stats.StatisticsSource {
	return e.index
}

// ExpandDocument implements Expander. Documents without expansion documents have an empty list. Stored scores are
// log-likelihoods whatever the index.
func (e *PreExpandedDocumentExpander) ExpandDocument(doc *docexp.SearchHit, numDocs int) (docexp.SearchHits, error) {
	cluster := e.clusters[doc.Docno]
	hits := make(docexp.SearchHits, 0, len(cluster))
	for _, c := range cluster {
		if c.Docno == doc.Docno {
			continue
		}
		hits = append(hits, docexp.NewSearchHit(c.Docno, c.Score, e.index))
	}
	return hits.Crop(numDocs), nil
}
