package cmd

import (
	"io"
	"math/rand"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/config"
	"github.com/hscells/docexp/expansion"
	"github.com/hscells/docexp/output"
	"github.com/hscells/docexp/pipeline"
	"github.com/hscells/docexp/preprocess"
	"github.com/hscells/docexp/stats"
)

// Common are the arguments every driver accepts.
type Common struct {
	Config  string `arg:"positional,required" help:"properties file naming the indexes and resources"`
	Workers int    `arg:"-w" help:"number of items processed at once"`
	Seed    int64  `help:"seed for random sampling"`
}

// DefaultCommon are the defaults of the common arguments.
func DefaultCommon() Common {
	return Common{Workers: runtime.NumCPU(), Seed: 1}
}

// Env is the environment shared by a driver's workers.
type Env struct {
	Config  *config.Config
	Stopper *docexp.Stopper
	Rand    *rand.Rand
	Workers int

	mu        sync.Mutex
	caches    map[string]expansion.HitsCacher
	expanders map[string]*expansion.DocumentExpander
}

// Setup loads the config and stoplist named by the common arguments.
func Setup(args Common) (*Env, error) {
	c, err := config.Load(args.Config)
	if err != nil {
		return nil, err
	}
	stopper, err := LoadStopper(c)
	if err != nil {
		return nil, err
	}
	return &Env{
		Config:    c,
		Stopper:   stopper,
		Rand:      rand.New(rand.NewSource(args.Seed)),
		Workers:   args.Workers,
		caches:    make(map[string]expansion.HitsCacher),
		expanders: make(map[string]*expansion.DocumentExpander),
	}, nil
}

// OpenIndex opens an index location with the config's smoothing parameter.
func (e *Env) OpenIndex(location string) (stats.StatisticsSource, error) {
	return stats.Open(location, preprocess.NewStandardAnalyser(), e.Config.Mu())
}

// TargetIndex opens the target-index of the config.
func (e *Env) TargetIndex() (stats.StatisticsSource, error) {
	location, err := e.Config.TargetIndex()
	if err != nil {
		return nil, err
	}
	return e.OpenIndex(location)
}

// ExpansionIndexes opens every expansion-index of the config.
func (e *Env) ExpansionIndexes() ([]stats.StatisticsSource, []string, error) {
	locations, err := e.Config.ExpansionIndexes()
	if err != nil {
		return nil, nil, err
	}
	indexes := make([]stats.StatisticsSource, len(locations))
	for i, location := range locations {
		if indexes[i], err = e.OpenIndex(location); err != nil {
			return nil, nil, err
		}
	}
	return indexes, locations, nil
}

// HitsCache is the cache of expansion documents: on disk below cache-dir when it is set, in memory otherwise.
// Each index gets its own cache, shared by every expander created for it.
func (e *Env) HitsCache(name string) (expansion.HitsCacher, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hitsCache(name)
}

func (e *Env) hitsCache(name string) (expansion.HitsCacher, error) {
	if c, ok := e.caches[name]; ok {
		return c, nil
	}
	var c expansion.HitsCacher
	if dir := e.Config.CacheDir(); len(dir) > 0 {
		c = expansion.NewDiskHitsCache(filepath.Join(dir, name))
	} else {
		var err error
		if c, err = expansion.NewLRUHitsCache(stats.DefaultCacheSize); err != nil {
			return nil, err
		}
	}
	e.caches[name] = c
	return c, nil
}

// Expander creates a document expander over index using the stoplist and a cache.
func (e *Env) Expander(index stats.StatisticsSource, name string, options ...func(*expansion.DocumentExpander)) (*expansion.DocumentExpander, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expander(index, name, options...)
}

func (e *Env) expander(index stats.StatisticsSource, name string, options ...func(*expansion.DocumentExpander)) (*expansion.DocumentExpander, error) {
	cache, err := e.hitsCache(name)
	if err != nil {
		return nil, err
	}
	options = append([]func(*expansion.DocumentExpander){
		expansion.ExpanderStopper(e.Stopper),
		expansion.ExpanderCache(cache),
	}, options...)
	return expansion.NewDocumentExpander(index, options...), nil
}

// SharedExpander returns the expander registered under name, creating it over index on first use so that workers
// share its cache.
func (e *Env) SharedExpander(name string, index stats.StatisticsSource, options ...func(*expansion.DocumentExpander)) (*expansion.DocumentExpander, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if x, ok := e.expanders[name]; ok {
		return x, nil
	}
	x, err := e.expander(index, name, options...)
	if err != nil {
		return nil, err
	}
	e.expanders[name] = x
	return x, nil
}

// Pipeline creates a feature pipeline writing comma separated values to w and, when output-db is set, to a SQLite
// table. The returned writer must be closed once the pipeline has run.
func (e *Env) Pipeline(w, progress io.Writer, table string, header []string) (pipeline.FeaturePipeline, output.FeatureWriter, error) {
	fw, err := output.FeatureWriters(w, e.Config.OutputDB(), table)
	if err != nil {
		return pipeline.FeaturePipeline{}, nil, err
	}
	return pipeline.NewFeaturePipeline(header,
		pipeline.Workers(e.Workers),
		pipeline.Output(fw),
		pipeline.Progress(progress),
	), fw, nil
}
