// Package query provides sources for loading queries in different formats.
package query

import (
	"sort"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/preprocess"
)

// QueriesSource represents a source for queries and how to parse them.
type QueriesSource interface {
	// Load reads the queries found at path.
	Load(path string) (*Queries, error)
}

// Queries is an ordered set of queries addressable by title.
type Queries struct {
	queries []*docexp.Query
	byTitle map[string]*docexp.Query
}

// NewQueries creates a query set. A repeated title keeps its first query.
func NewQueries(queries ...*docexp.Query) *Queries {
	q := &Queries{byTitle: make(map[string]*docexp.Query)}
	for _, query := range queries {
		q.Add(query)
	}
	return q
}

// Add appends a query unless one with the same title is already present.
func (q *Queries) Add(query *docexp.Query) {
	if _, ok := q.byTitle[query.Title]; ok {
		return
	}
	q.queries = append(q.queries, query)
	q.byTitle[query.Title] = query
}

// All returns the queries in the order they were read.
func (q *Queries) All() []*docexp.Query {
	return q.queries
}

// Named returns the query with the given title, or nil.
func (q *Queries) Named(title string) *docexp.Query {
	return q.byTitle[title]
}

// Titles lists the query titles in ascending order.
func (q *Queries) Titles() []string {
	titles := make([]string, 0, len(q.queries))
	for _, query := range q.queries {
		titles = append(titles, query.Title)
	}
	sort.Strings(titles)
	return titles
}

// Len is the number of queries.
func (q *Queries) Len() int {
	return len(q.queries)
}

func analyse(a preprocess.Analyser, title, text string) (*docexp.Query, error) {
	v, err := preprocess.Vector(a, text)
	if err != nil {
		return nil, err
	}
	return &docexp.Query{Title: title, Text: text, Vector: v}, nil
}
