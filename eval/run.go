package eval

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hscells/docexp"
	"github.com/pkg/errors"
)

// ReadRun reads a trec run file of "query iter docno rank score tag" lines. Lines of the same query must be
// contiguous; a query reappearing after another query's lines is an error. Term vectors of the hits are fetched from
// src when they are first used.
func ReadRun(r io.Reader, src docexp.VectorSource) (*docexp.SearchHitsBatch, error) {
	batch := docexp.NewSearchHitsBatch()

	var (
		current string
		hits    docexp.SearchHits
		seen    = make(map[string]bool)
		line    int
	)
	flush := func() {
		if current != "" {
			batch.Set(current, hits)
		}
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 5 {
			return nil, errors.Errorf("line %d: expected at least 5 fields, got %d", line, len(fields))
		}
		query := fields[0]
		if query != current {
			if seen[query] {
				return nil, errors.Errorf("line %d: query %s is not contiguous", line, query)
			}
			flush()
			seen[query] = true
			current = query
			hits = nil
		}
		score, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: parsing score", line)
		}
		hits = append(hits, docexp.NewSearchHit(fields[2], score, src))
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading run")
	}
	flush()
	return batch, nil
}

// LoadRun reads a trec run file from disk.
func LoadRun(path string, src docexp.VectorSource) (*docexp.SearchHitsBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening run")
	}
	defer f.Close()
	return ReadRun(f, src)
}
