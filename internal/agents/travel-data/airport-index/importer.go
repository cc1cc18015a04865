// internal/agents/travel-data/airport-index/importer.go
package airportindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"iata_code": map[string]interface{}{"type": "keyword"},
			"name":      map[string]interface{}{"type": "text"},
			"city":      map[string]interface{}{"type": "text"},
			"country":   map[string]interface{}{"type": "keyword"},
		},
	},
}

// EnsureIndex creates the airport index with its mapping. An index that
// already exists is left alone.
func (ix *Index) EnsureIndex(ctx context.Context) error {
	if ix.config.Index == "" {
		return ErrMissingIndex
	}

	exists, err := esapi.IndicesExistsRequest{Index: []string{ix.config.Index}}.Do(ctx, ix.esClient)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	body, _ := json.Marshal(indexMapping)
	res, err := esapi.IndicesCreateRequest{
		Index: ix.config.Index,
		Body:  bytes.NewReader(body),
	}.Do(ctx, ix.esClient)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: create index: %s", ErrSearchFailed, res.String())
	}

	ix.logger.Info("airport index created", nil)
	return nil
}

// Import indexes airports keyed by IATA code, replacing existing documents.
// It returns how many were written before the first failure.
func (ix *Index) Import(ctx context.Context, airports []Airport) (int, error) {
	written := 0
	for _, a := range airports {
		code := strings.ToUpper(strings.TrimSpace(a.IATACode))
		if code == "" {
			continue
		}
		a.IATACode = code

		doc, _ := json.Marshal(a)
		res, err := esapi.IndexRequest{
			Index:      ix.config.Index,
			DocumentID: code,
			Body:       bytes.NewReader(doc),
		}.Do(ctx, ix.esClient)
		if err != nil {
			return written, fmt.Errorf("%w: index %s: %v", ErrSearchFailed, code, err)
		}
		res.Body.Close()
		if res.IsError() {
			return written, fmt.Errorf("%w: index %s: %s", ErrSearchFailed, code, res.Status())
		}
		written++
	}

	res, err := esapi.IndicesRefreshRequest{Index: []string{ix.config.Index}}.Do(ctx, ix.esClient)
	if err == nil {
		res.Body.Close()
	}

	ix.logger.Info("airports imported", map[string]interface{}{"count": written})
	return written, nil
}

// DecodeAirports reads a JSON array of airports.
func DecodeAirports(r io.Reader) ([]Airport, error) {
	var airports []Airport
	if err := json.NewDecoder(r).Decode(&airports); err != nil {
		return nil, fmt.Errorf("decode airports: %w", err)
	}
	return airports, nil
}
