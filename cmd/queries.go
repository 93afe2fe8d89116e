package cmd

import (
	"strings"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/config"
	"github.com/hscells/docexp/preprocess"
	"github.com/hscells/docexp/query"
)

// LoadStopper reads the stoplist of a config. Without a stoplist nothing is stopped.
func LoadStopper(c *config.Config) (*docexp.Stopper, error) {
	path := c.Stoplist()
	if len(path) == 0 {
		return docexp.NewStopper(), nil
	}
	return docexp.LoadStopper(path)
}

// QueriesSource picks a query reader for a path: JSON for .json files and plain text otherwise.
func QueriesSource(path string, a preprocess.Analyser) query.QueriesSource {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return query.NewJSONQueriesSource(a)
	}
	return query.NewKeywordQuerySource(a)
}

// LoadQueries reads the query set of a config.
func LoadQueries(c *config.Config) (*query.Queries, error) {
	path, err := c.Queries()
	if err != nil {
		return nil, err
	}
	return QueriesSource(path, preprocess.NewStandardAnalyser()).Load(path)
}

// Stopped returns a copy of a query with stop words removed.
func Stopped(q *docexp.Query, stopper *docexp.Stopper) *docexp.Query {
	q = q.Copy()
	q.ApplyStopper(stopper)
	return q
}
