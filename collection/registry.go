// Package collection resolves named test collections to their index, queries and relevance judgments. Resources
// are loaded the first time a collection is asked for and shared afterwards.
package collection

import (
	"path/filepath"
	"sync"

	"github.com/hscells/docexp/config"
	"github.com/hscells/docexp/eval"
	"github.com/hscells/docexp/preprocess"
	"github.com/hscells/docexp/query"
	"github.com/hscells/docexp/scoring"
	"github.com/hscells/docexp/stats"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Names are the file names of the queries and relevance judgments of a collection.
type Names struct {
	Queries string
	Qrels   string
}

// DefaultNames maps the standard TREC collections to their topic and qrels file names.
var DefaultNames = map[string]Names{
	"AP_88-89": {Queries: "101-200", Qrels: "ap"},
	"robust":   {Queries: "robust", Qrels: "robust"},
	"wt10g":    {Queries: "451-550", Qrels: "wt10g"},
}

// Resources are the loaded parts of one collection.
type Resources struct {
	Name    string
	Index   stats.StatisticsSource
	Queries *query.Queries
	Qrels   *eval.Qrels
	// Scorer is a Dirichlet document scorer over Index.
	Scorer scoring.DocScorer
}

// Opener creates a statistics source for an index location.
type Opener func(location string) (stats.StatisticsSource, error)

// Registry loads collections from an indexes, queries and qrels directory. It is safe for concurrent use and each
// collection is loaded at most once.
type Registry struct {
	indexesDir string
	queriesDir string
	qrelsDir   string
	names      map[string]Names
	mu         float64
	open       Opener
	queries    query.QueriesSource

	sync.Mutex
	resources map[string]*Resources
	group     singleflight.Group
}

// RegistryDirectories sets the directories collections are found in.
func RegistryDirectories(indexes, queries, qrels string) func(*Registry) {
	return func(r *Registry) {
		r.indexesDir = indexes
		r.queriesDir = queries
		r.qrelsDir = qrels
	}
}

// RegistryNames adds or replaces the file names of a collection.
func RegistryNames(collection string, names Names) func(*Registry) {
	return func(r *Registry) {
		r.names[collection] = names
	}
}

// RegistryMu sets the Dirichlet smoothing parameter of the collection scorers.
func RegistryMu(mu float64) func(*Registry) {
	return func(r *Registry) {
		r.mu = mu
	}
}

// RegistryOpener sets how index locations become statistics sources.
func RegistryOpener(open Opener) func(*Registry) {
	return func(r *Registry) {
		r.open = open
	}
}

// RegistryQueriesSource sets how query files are read.
func RegistryQueriesSource(source query.QueriesSource) func(*Registry) {
	return func(r *Registry) {
		r.queries = source
	}
}

// NewRegistry creates an empty registry. By default indexes are opened with stats.Open and queries are JSON.
func NewRegistry(options ...func(*Registry)) *Registry {
	r := &Registry{
		names:     make(map[string]Names),
		mu:        scoring.DefaultMu,
		queries:   query.NewJSONQueriesSource(preprocess.NewStandardAnalyser()),
		resources: make(map[string]*Resources),
	}
	for name, n := range DefaultNames {
		r.names[name] = n
	}
	r.open = func(location string) (stats.StatisticsSource, error) {
		return stats.Open(location, preprocess.NewStandardAnalyser(), r.mu)
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// NewRegistryFromConfig creates a registry using the indexes-dir, queries-dir, qrels-dir and mu settings.
func NewRegistryFromConfig(c *config.Config, options ...func(*Registry)) *Registry {
	options = append([]func(*Registry){
		RegistryDirectories(c.IndexesDir(), c.QueriesDir(), c.QrelsDir()),
		RegistryMu(c.Mu()),
	}, options...)
	return NewRegistry(options...)
}

// Names returns the file names used for a collection. Collections without an entry use their own name.
func (r *Registry) Names(collection string) Names {
	if n, ok := r.names[collection]; ok {
		return n
	}
	return Names{Queries: collection, Qrels: collection}
}

// Get returns the resources of a collection, loading them on first use.
func (r *Registry) Get(collection string) (*Resources, error) {
	r.Lock()
	res, ok := r.resources[collection]
	r.Unlock()
	if ok {
		return res, nil
	}

	v, err, _ := r.group.Do(collection, func() (interface{}, error) {
		r.Lock()
		res, ok := r.resources[collection]
		r.Unlock()
		if ok {
			return res, nil
		}
		res, err := r.load(collection)
		if err != nil {
			return nil, err
		}
		r.Lock()
		r.resources[collection] = res
		r.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Resources), nil
}

// Loaded lists the collections that have been loaded so far.
func (r *Registry) Loaded() []string {
	r.Lock()
	defer r.Unlock()
	names := make([]string, 0, len(r.resources))
	for name := range r.resources {
		names = append(names, name)
	}
	return names
}

func (r *Registry) load(collection string) (*Resources, error) {
	names := r.Names(collection)

	queries, err := r.queries.Load(filepath.Join(r.queriesDir, "topics."+names.Queries+".json"))
	if err != nil {
		return nil, errors.Wrapf(err, "loading queries of %s", collection)
	}

	qrels, err := eval.LoadQrels(filepath.Join(r.qrelsDir, "qrels."+names.Qrels))
	if err != nil {
		return nil, errors.Wrapf(err, "loading qrels of %s", collection)
	}

	// The index is opened last since it is the most expensive to load.
	index, err := r.open(filepath.Join(r.indexesDir, collection))
	if err != nil {
		return nil, errors.Wrapf(err, "opening index of %s", collection)
	}

	return &Resources{
		Name:    collection,
		Index:   index,
		Queries: queries,
		Qrels:   qrels,
		Scorer:  scoring.NewDirichletDocScorer(index, scoring.DirichletMu(r.mu)),
	}, nil
}
