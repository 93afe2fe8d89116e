package stats

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hscells/docexp"
	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"
)

// ElasticsearchStatisticsSource is a way of gathering statistics for a collection using Elasticsearch. Document
// identifiers in the index are expected to be the docnos of the collection.
type ElasticsearchStatisticsSource struct {
	client *elastic.Client
	hosts  []string
	index  string
	field  string

	once      sync.Once
	termCount float64
	termErr   error
}

// ElasticsearchHosts sets the hosts for the Elasticsearch client.
func ElasticsearchHosts(hosts ...string) func(*ElasticsearchStatisticsSource) {
	return func(es *ElasticsearchStatisticsSource) {
		es.hosts = hosts
	}
}

// ElasticsearchClient uses an existing client instead of creating one from hosts.
func ElasticsearchClient(client *elastic.Client) func(*ElasticsearchStatisticsSource) {
	return func(es *ElasticsearchStatisticsSource) {
		es.client = client
	}
}

// ElasticsearchIndex sets the index for the Elasticsearch client.
func ElasticsearchIndex(index string) func(*ElasticsearchStatisticsSource) {
	return func(es *ElasticsearchStatisticsSource) {
		es.index = index
	}
}

// ElasticsearchField sets the field statistics are computed on.
func ElasticsearchField(field string) func(*ElasticsearchStatisticsSource) {
	return func(es *ElasticsearchStatisticsSource) {
		es.field = field
	}
}

// NewElasticsearchStatisticsSource creates a new ElasticsearchStatisticsSource using functional options. Without
// hosts or a client, the source connects to http://localhost:9200.
func NewElasticsearchStatisticsSource(options ...func(*ElasticsearchStatisticsSource)) (*ElasticsearchStatisticsSource, error) {
	es := &ElasticsearchStatisticsSource{field: "text"}
	for _, option := range options {
		option(es)
	}

	if es.client == nil {
		if len(es.hosts) == 0 {
			es.hosts = []string{"http://localhost:9200"}
		}
		var err error
		es.client, err = elastic.NewClient(elastic.SetURL(es.hosts...), elastic.SetSniff(false))
		if err != nil {
			return nil, errors.Wrap(err, "creating elasticsearch client")
		}
	}
	if len(es.index) == 0 {
		return nil, errors.New("no elasticsearch index specified")
	}
	return es, nil
}

// DocCount is the number of documents in the index.
func (es *ElasticsearchStatisticsSource) DocCount() (float64, error) {
	resp, err := es.client.IndexStats(es.index).Do(context.Background())
	if err != nil {
		return 0, err
	}
	if resp.All == nil || resp.All.Total == nil || resp.All.Total.Docs == nil {
		return 0, nil
	}
	return float64(resp.All.Total.Docs.Count), nil
}

// termStatistics issues an artificial document containing only term to obtain its collection statistics.
func (es *ElasticsearchStatisticsSource) termStatistics(term string) (*elastic.TermsInfo, *elastic.FieldStatistics, error) {
	resp, err := es.client.TermVectors(es.index).
		Doc(map[string]string{es.field: term}).
		FieldStatistics(true).
		TermStatistics(true).
		Offsets(false).
		Positions(false).
		Payloads(false).
		Fields(es.field).
		Do(context.Background())
	if err != nil {
		return nil, nil, err
	}

	tv, ok := resp.TermVectors[es.field]
	if !ok {
		return nil, nil, nil
	}
	fs := tv.FieldStatistics
	if info, ok := tv.Terms[term]; ok {
		return &info, &fs, nil
	}
	return nil, &fs, nil
}

// DocumentFrequency is the document frequency (the number of documents containing the current term).
func (es *ElasticsearchStatisticsSource) DocumentFrequency(term string) (float64, error) {
	info, _, err := es.termStatistics(term)
	if err != nil || info == nil {
		return 0, err
	}
	return float64(info.DocFreq), nil
}

// TotalTermFrequency is the number of times term occurs in the field across the index.
func (es *ElasticsearchStatisticsSource) TotalTermFrequency(term string) (float64, error) {
	info, _, err := es.termStatistics(term)
	if err != nil || info == nil {
		return 0, err
	}
	return float64(info.Ttf), nil
}

// TermCount is the sum of the total term frequencies in the field. It is obtained once using a term that cannot
// exist in the index.
func (es *ElasticsearchStatisticsSource) TermCount() (float64, error) {
	es.once.Do(func() {
		_, fs, err := es.termStatistics(uuid.New().String())
		if err != nil {
			es.termErr = err
			return
		}
		if fs != nil {
			es.termCount = float64(fs.SumTtf)
		}
	})
	return es.termCount, es.termErr
}

// TermVector retrieves the term vector of a document.
func (es *ElasticsearchStatisticsSource) TermVector(docno string) (*docexp.TermVector, error) {
	resp, err := es.client.TermVectors(es.index).
		Id(docno).
		FieldStatistics(false).
		TermStatistics(false).
		Offsets(false).
		Positions(false).
		Payloads(false).
		Fields(es.field).
		Do(context.Background())
	if err != nil {
		return nil, err
	}
	if !resp.Found {
		return nil, errors.Errorf("document %s not found in %s", docno, es.index)
	}

	v := docexp.NewTermVector()
	for term, info := range resp.TermVectors[es.field].Terms {
		v.Add(term, float64(info.TermFreq))
	}
	return v, nil
}

// Execute issues the query as a disjunction of boosted term queries and returns the top k hits.
func (es *ElasticsearchStatisticsSource) Execute(query *docexp.Query, k int) (docexp.SearchHits, error) {
	if query == nil || query.Vector == nil || query.Vector.FeatureCount() == 0 {
		return docexp.SearchHits{}, nil
	}

	bq := elastic.NewBoolQuery()
	for _, term := range query.Vector.Terms() {
		bq.Should(elastic.NewTermQuery(es.field, term).Boost(query.Vector.Weight(term)))
	}

	result, err := es.client.Search(es.index).
		Query(bq).
		Size(k).
		FetchSource(false).
		Do(context.Background())
	if err != nil {
		return nil, errors.Wrapf(err, "executing query %s", query.Title)
	}

	hits := make(docexp.SearchHits, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var score float64
		if hit.Score != nil {
			score = *hit.Score
		}
		hits = append(hits, docexp.NewSearchHit(hit.Id, score, es))
	}
	return hits, nil
}

// LinearScores reports that search scores are BM25 scores rather than log-likelihoods.
func (es *ElasticsearchStatisticsSource) LinearScores() bool {
	return true
}
