package stats

import (
	"net/url"
	"strings"

	"github.com/hscells/docexp/preprocess"
	"github.com/pkg/errors"
)

// Open creates a cached statistics source from a location. Locations of the form http(s)://host:port/index?field=f
// refer to an Elasticsearch index; any other location is a TREC collection file or directory which is indexed in
// memory using the analyser.
func Open(location string, a preprocess.Analyser, mu float64) (*CachedStatisticsSource, error) {
	var source StatisticsSource
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing index location %s", location)
		}
		index := strings.Trim(u.Path, "/")
		field := u.Query().Get("field")
		if len(field) == 0 {
			field = "text"
		}
		host := u.Scheme + "://" + u.Host
		es, err := NewElasticsearchStatisticsSource(
			ElasticsearchHosts(host),
			ElasticsearchIndex(index),
			ElasticsearchField(field),
		)
		if err != nil {
			return nil, err
		}
		source = es
	} else {
		m := NewMemoryIndex(MemoryIndexMu(mu))
		if err := m.LoadTrecCollectionPath(location, a); err != nil {
			return nil, err
		}
		source = m
	}
	return NewCachedStatisticsSource(source, DefaultCacheSize)
}
