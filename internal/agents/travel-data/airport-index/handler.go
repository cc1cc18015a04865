// internal/agents/travel-data/airport-index/handler.go
package airportindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "travelbot/internal/common/errors"
	"travelbot/internal/common/logger"
	"travelbot/internal/common/metrics"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	AgentName    = "airport-index"
	providerName = "elasticsearch"
)

var (
	ErrMissingIndex = errors.New("missing index name")
	ErrSearchFailed = errors.New("SEARCH_QUERY_FAILED")
)

// Airport is one document in the airport reference index.
type Airport struct {
	IATACode string `json:"iata_code"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country,omitempty"`
}

// Index looks up airport codes in Elasticsearch instead of the Amadeus
// locations API.
type Index struct {
	config   *Config
	esClient *elasticsearch.Client
	logger   logger.Logger
}

func NewIndex(config *Config, esClient *elasticsearch.Client, log logger.Logger) *Index {
	return &Index{
		config:   config,
		esClient: esClient,
		logger: log.WithFields(map[string]interface{}{
			"agent": AgentName,
			"index": config.Index,
		}),
	}
}

// GuessAirportCode returns the best-scoring airport code for a city name, or
// "" on no hit or any failure.
func (ix *Index) GuessAirportCode(ctx context.Context, cityName string) string {
	cityName = strings.TrimSpace(cityName)
	if cityName == "" {
		return ""
	}

	started := time.Now()
	hit, err := ix.search(ctx, cityName)
	n := 0
	if hit != nil {
		n = 1
	}
	metrics.ObserveProvider(providerName, "airport_lookup", metrics.OutcomeFor(err, n), started)

	if err != nil {
		ix.logger.Error("airport index search failed", map[string]interface{}{
			"city":  cityName,
			"code":  apperrors.Normalize(err).Code,
			"error": err.Error(),
		})
		return ""
	}
	if hit == nil {
		return ""
	}
	return strings.ToUpper(hit.IATACode)
}

func (ix *Index) search(ctx context.Context, cityName string) (*Airport, error) {
	if ix.config.Index == "" {
		return nil, ErrMissingIndex
	}
	if ix.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ix.config.Timeout)
		defer cancel()
	}

	body, _ := json.Marshal(buildLookupQuery(cityName))
	size := 1
	req := esapi.SearchRequest{
		Index: []string{ix.config.Index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, ix.esClient)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(ix.config.Index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(ix.config.Index, errors.New(res.String()))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source Airport `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(ix.config.Index, fmt.Errorf("decode: %w", err))
	}

	for _, h := range r.Hits.Hits {
		if h.Source.IATACode != "" {
			airport := h.Source
			return &airport, nil
		}
	}
	return nil, nil
}

// buildLookupQuery matches the city, favouring an exact IATA code when the
// user typed one.
func buildLookupQuery(cityName string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{
							"iata_code": map[string]interface{}{
								"value": strings.ToUpper(cityName),
								"boost": 5,
							},
						},
					},
					map[string]interface{}{
						"match": map[string]interface{}{
							"city": map[string]interface{}{
								"query": cityName,
								"boost": 2,
							},
						},
					},
					map[string]interface{}{
						"match": map[string]interface{}{"name": cityName},
					},
				},
				"minimum_should_match": 1,
			},
		},
	}
}
