// Package config reads the properties files that configure the batch drivers.
package config

import (
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

// Config is a properties file of driver settings.
type Config struct {
	p *properties.Properties
}

// Load reads a properties file.
func Load(path string) (*Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config %s", path)
	}
	return &Config{p: p}, nil
}

// Parse reads properties from a string.
func Parse(s string) (*Config, error) {
	p, err := properties.LoadString(s)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	return &Config{p: p}, nil
}

// String returns the value of key, or def when it is not set.
func (c *Config) String(key, def string) string {
	return c.p.GetString(key, def)
}

// Int returns the integer value of key, or def when it is not set or not an integer.
func (c *Config) Int(key string, def int) int {
	return c.p.GetInt(key, def)
}

// Float returns the real value of key, or def when it is not set or not a number.
func (c *Config) Float(key string, def float64) float64 {
	return c.p.GetFloat64(key, def)
}

// Require returns the value of a key that must be set.
func (c *Config) Require(key string) (string, error) {
	v, ok := c.p.Get(key)
	if !ok || len(strings.TrimSpace(v)) == 0 {
		return "", errors.Errorf("config key %s is not set", key)
	}
	return strings.TrimSpace(v), nil
}

// List splits a comma separated value, dropping empty items.
func (c *Config) List(key string) []string {
	var items []string
	for _, item := range strings.Split(c.p.GetString(key, ""), ",") {
		if item = strings.TrimSpace(item); len(item) > 0 {
			items = append(items, item)
		}
	}
	return items
}

// TargetIndex is the location of the index documents are retrieved from.
func (c *Config) TargetIndex() (string, error) { return c.Require("target-index") }

// ExpansionIndexes are the locations of the indexes expansion documents are retrieved from.
func (c *Config) ExpansionIndexes() ([]string, error) {
	indexes := c.List("expansion-index")
	if len(indexes) == 0 {
		return nil, errors.New("config key expansion-index is not set")
	}
	return indexes, nil
}

// Queries is the path of the query set.
func (c *Config) Queries() (string, error) { return c.Require("queries") }

// Qrels is the path of the relevance judgments.
func (c *Config) Qrels() (string, error) { return c.Require("qrels") }

// Stoplist is the path of the stop word list; an empty path means no stopping.
func (c *Config) Stoplist() string { return c.String("stoplist", "") }

// BaselineRun is the path of the initial retrieval run.
func (c *Config) BaselineRun() (string, error) { return c.Require("baseline-run") }

// ExpansionRun is the path of the run retrieved with expanded documents.
func (c *Config) ExpansionRun() (string, error) { return c.Require("expansion-run") }

// OptimalParams is the path of the tuned parameters file.
func (c *Config) OptimalParams() (string, error) { return c.Require("optimal-params") }

// Clusters is the path of a pre-computed expansion file, empty when expansion is computed.
func (c *Config) Clusters() string { return c.String("clusters", "") }

// IndexesDir is the directory named collections are found in.
func (c *Config) IndexesDir() string { return c.String("indexes-dir", "") }

// QueriesDir is the directory named query sets are found in.
func (c *Config) QueriesDir() string { return c.String("queries-dir", "") }

// QrelsDir is the directory named relevance judgments are found in.
func (c *Config) QrelsDir() string { return c.String("qrels-dir", "") }

// MinDocs is the smallest number of expansion documents tried.
func (c *Config) MinDocs() int { return c.Int("min-docs", 5) }

// MaxDocs is the largest number of expansion documents tried.
func (c *Config) MaxDocs() int { return c.Int("max-docs", 25) }

// DocsInterval is the step between numbers of expansion documents.
func (c *Config) DocsInterval() int { return c.Int("docs-interval", 5) }

// MinFeedbackDocs is the smallest number of relevance model feedback documents tried.
func (c *Config) MinFeedbackDocs() int { return c.Int("min-fbdocs", 10) }

// MaxFeedbackDocs is the largest number of relevance model feedback documents tried.
func (c *Config) MaxFeedbackDocs() int { return c.Int("max-fbdocs", 50) }

// FeedbackDocsInterval is the step between numbers of feedback documents.
func (c *Config) FeedbackDocsInterval() int { return c.Int("fbdocs-interval", 10) }

// MinFeedbackTerms is the smallest number of relevance model terms tried.
func (c *Config) MinFeedbackTerms() int { return c.Int("min-fbterms", 10) }

// MaxFeedbackTerms is the largest number of relevance model terms tried.
func (c *Config) MaxFeedbackTerms() int { return c.Int("max-fbterms", 50) }

// FeedbackTermsInterval is the step between numbers of feedback terms.
func (c *Config) FeedbackTermsInterval() int { return c.Int("fbterms-interval", 10) }

// SampleSize is the number of items drawn when sampling.
func (c *Config) SampleSize() int { return c.Int("sample-size", 500) }

// Field is the index field statistics are read from.
func (c *Config) Field() string { return c.String("field", "text") }

// Mu is the Dirichlet smoothing parameter.
func (c *Config) Mu() float64 { return c.Float("mu", 2500) }

// CacheDir is the directory expansion results are cached in, empty for an in-memory cache.
func (c *Config) CacheDir() string { return c.String("cache-dir", "") }

// OutputDB is the path of a SQLite database features are also written to, empty for none.
func (c *Config) OutputDB() string { return c.String("output-db", "") }
