// internal/agents/travel-data/airport-index/handler_test.go
package airportindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	apperrors "travelbot/internal/common/errors"
	"travelbot/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{Index: "airports"}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewTestLogger(t)
}

// fakeES answers like an Elasticsearch node, recording each request.
type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*fakeES, *elasticsearch.Client) {
	f := &fakeES{handler: handler}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.bodies = append(f.bodies, string(body))
		f.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		f.handler(w, r)
	}))
	t.Cleanup(server.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return f, es
}

func searchResponse(sources ...string) string {
	hits := make([]string, 0, len(sources))
	for _, s := range sources {
		hits = append(hits, `{"_index": "airports", "_score": 1.0, "_source": `+s+`}`)
	}
	return fmt.Sprintf(`{"took": 1, "hits": {"total": {"value": %d}, "hits": [%s]}}`, len(sources), strings.Join(hits, ","))
}

func TestIndex_GuessAirportCode(t *testing.T) {
	fake, es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchResponse(`{"iata_code": "bcn", "name": "Barcelona El Prat", "city": "Barcelona"}`)))
	})
	ix := NewIndex(createTestConfig(), es, createTestLogger(t))

	code := ix.GuessAirportCode(context.Background(), "Barcelona")

	assert.Equal(t, "BCN", code)
	require.Len(t, fake.requests, 1)
	assert.Equal(t, "POST /airports/_search", fake.requests[0])

	var query map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(fake.bodies[0]), &query))
	should := query["query"].(map[string]interface{})["bool"].(map[string]interface{})["should"].([]interface{})
	assert.Len(t, should, 3)
}

func TestIndex_GuessAirportCode_EmptyOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "no hits", status: http.StatusOK, payload: searchResponse()},
		{name: "hit without code", status: http.StatusOK, payload: searchResponse(`{"name": "Somewhere"}`)},
		{name: "missing index", status: http.StatusNotFound, payload: `{"error": {"type": "index_not_found_exception"}, "status": 404}`},
		{name: "garbage", status: http.StatusOK, payload: `{"hits": "nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			})
			ix := NewIndex(createTestConfig(), es, createTestLogger(t))

			assert.Equal(t, "", ix.GuessAirportCode(context.Background(), "Atlantis"))
		})
	}
}

func TestIndex_Search_FailureCode(t *testing.T) {
	_, es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"type": "index_not_found_exception"}, "status": 404}`))
	})
	ix := NewIndex(createTestConfig(), es, createTestLogger(t))

	hit, err := ix.search(context.Background(), "Atlantis")

	assert.Nil(t, hit)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSearchQueryFailed), "got %v", err)
	assert.Contains(t, apperrors.Normalize(err).Details, "index: airports")
}

func TestIndex_GuessAirportCode_BlankAndUnconfigured(t *testing.T) {
	fake, es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchResponse()))
	})

	ix := NewIndex(createTestConfig(), es, createTestLogger(t))
	assert.Equal(t, "", ix.GuessAirportCode(context.Background(), " "))

	noIndex := NewIndex(&Config{}, es, createTestLogger(t))
	assert.Equal(t, "", noIndex.GuessAirportCode(context.Background(), "Paris"))

	assert.Empty(t, fake.requests)
}

func TestIndex_EnsureIndexAndImport(t *testing.T) {
	fake, es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/airports":
			_, _ = w.Write([]byte(`{"acknowledged": true, "index": "airports"}`))
		case strings.HasPrefix(r.URL.Path, "/airports/_doc/"):
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"result": "created"}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	})
	ix := NewIndex(createTestConfig(), es, createTestLogger(t))
	ctx := context.Background()

	require.NoError(t, ix.EnsureIndex(ctx))

	airports, err := DecodeAirports(strings.NewReader(`[
		{"iata_code": "dtw", "name": "Detroit Metropolitan", "city": "Detroit", "country": "US"},
		{"iata_code": "", "name": "No code"},
		{"iata_code": "BCN", "name": "Barcelona El Prat", "city": "Barcelona", "country": "ES"}
	]`))
	require.NoError(t, err)

	written, err := ix.Import(ctx, airports)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	assert.Contains(t, fake.requests, "HEAD /airports")
	assert.Contains(t, fake.requests, "PUT /airports")
	assert.Contains(t, fake.requests, "PUT /airports/_doc/DTW")
	assert.Contains(t, fake.requests, "PUT /airports/_doc/BCN")
}

func TestIndex_EnsureIndex_AlreadyExists(t *testing.T) {
	fake, es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ix := NewIndex(createTestConfig(), es, createTestLogger(t))

	require.NoError(t, ix.EnsureIndex(context.Background()))
	assert.Equal(t, []string{"HEAD /airports"}, fake.requests)
}

func TestDecodeAirports_Invalid(t *testing.T) {
	_, err := DecodeAirports(strings.NewReader(`{"iata_code": "DTW"}`))
	assert.Error(t, err)
}
