package query

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/hscells/docexp/preprocess"
	"github.com/pkg/errors"
)

// KeywordQuerySource is a source of queries that contain only one "string". A file holds one "<title> <text...>"
// query per line; a directory holds one query per file, titled by the file name.
type KeywordQuerySource struct {
	analyser preprocess.Analyser
}

// Load reads keyword queries from a file or a directory.
func (kw KeywordQuerySource) Load(path string) (*Queries, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening queries")
	}
	if info.IsDir() {
		return kw.loadDirectory(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening queries")
	}
	defer f.Close()

	queries := NewQueries()
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if len(line) == 0 {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		text := ""
		if len(fields) == 2 {
			text = fields[1]
		}
		q, err := analyse(kw.analyser, fields[0], text)
		if err != nil {
			return nil, errors.Wrapf(err, "query %s", fields[0])
		}
		queries.Add(q)
	}
	return queries, errors.Wrap(s.Err(), "reading queries")
}

func (kw KeywordQuerySource) loadDirectory(directory string) (*Queries, error) {
	// First, get a list of files in the directory.
	files, err := os.ReadDir(directory)
	if err != nil {
		return nil, err
	}

	// Next, analyse each file as a query.
	queries := NewQueries()
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		source, err := os.ReadFile(filepath.Join(directory, f.Name()))
		if err != nil {
			return nil, err
		}
		q, err := analyse(kw.analyser, f.Name(), strings.TrimSpace(string(source)))
		if err != nil {
			return nil, errors.Wrapf(err, "query %s", f.Name())
		}
		queries.Add(q)
	}
	return queries, nil
}

// NewKeywordQuerySource creates a new keyword query source that analyses queries with a.
func NewKeywordQuerySource(a preprocess.Analyser) KeywordQuerySource {
	return KeywordQuerySource{analyser: a}
}
