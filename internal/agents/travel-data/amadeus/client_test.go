// internal/agents/travel-data/amadeus/client_test.go
package amadeus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Logger Implementation
// ==========================

type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{t: t, fields: make(map[string]interface{})}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{t: l.t, fields: merged}
}

// ==========================
// Test Helper Functions
// ==========================

// fakeAmadeus serves the token endpoint plus whatever routes the test adds,
// and rejects API calls that arrive without the issued token.
type fakeAmadeus struct {
	t           *testing.T
	mux         *http.ServeMux
	tokenCalls  int32
	server      *httptest.Server
	lastQueries map[string]map[string]string
}

func newFakeAmadeus(t *testing.T) *fakeAmadeus {
	f := &fakeAmadeus{t: t, mux: http.NewServeMux(), lastQueries: map[string]map[string]string{}}
	f.mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "test-secret", r.PostForm.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "tok-123", "token_type": "Bearer", "expires_in": 1799}`))
	})
	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAmadeus) handle(path string, status int, body string) {
	f.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "Bearer tok-123", r.Header.Get("Authorization"))
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		f.lastQueries[path] = q
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func createTestConfig(baseURL string) *Config {
	return &Config{
		BaseURL:         baseURL,
		ClientID:        "test-id",
		ClientSecret:    "test-secret",
		Timeout:         2 * time.Second,
		MaxRetries:      0,
		MaxFlightOffers: 5,
		Adults:          1,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestClient_TokenIsReused(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.handle("/v1/reference-data/locations", http.StatusOK,
		`{"data": [{"subType": "AIRPORT", "iataCode": "BCN", "name": "AIRPORT EL PRAT"}]}`)

	client := NewClient(createTestConfig(fake.server.URL), NewTestLogger(t))
	ctx := context.Background()

	assert.Equal(t, "BCN", client.GuessAirportCode(ctx, "Barcelona"))
	assert.Equal(t, "BCN", client.GuessAirportCode(ctx, "Barcelona"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.tokenCalls))
}

func TestClient_GuessAirportCode(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "city entry preferred",
			status: http.StatusOK,
			body: `{"data": [
				{"subType": "AIRPORT", "iataCode": "JFK"},
				{"subType": "CITY", "iataCode": "NYC"}
			]}`,
			want: "NYC",
		},
		{
			name:   "first airport when no city",
			status: http.StatusOK,
			body:   `{"data": [{"subType": "AIRPORT", "iataCode": "aus"}, {"subType": "AIRPORT", "iataCode": "HYI"}]}`,
			want:   "AUS",
		},
		{
			name:   "no matches",
			status: http.StatusOK,
			body:   `{"data": []}`,
			want:   "",
		},
		{
			name:   "api error",
			status: http.StatusBadRequest,
			body:   `{"errors": [{"status": 400, "code": 477, "title": "INVALID FORMAT"}]}`,
			want:   "",
		},
		{
			name:   "garbage body",
			status: http.StatusOK,
			body:   `not json`,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeAmadeus(t)
			fake.handle("/v1/reference-data/locations", tt.status, tt.body)
			client := NewClient(createTestConfig(fake.server.URL), NewTestLogger(t))

			assert.Equal(t, tt.want, client.GuessAirportCode(context.Background(), "somewhere"))
		})
	}
}

func TestClient_GuessAirportCode_BlankNameSkipsRequest(t *testing.T) {
	fake := newFakeAmadeus(t)
	client := NewClient(createTestConfig(fake.server.URL), NewTestLogger(t))

	assert.Equal(t, "", client.GuessAirportCode(context.Background(), "   "))
	assert.Equal(t, int32(0), atomic.LoadInt32(&fake.tokenCalls))
}

func TestClient_AuthFailureYieldsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(createTestConfig(server.URL), NewTestLogger(t))

	assert.Equal(t, "", client.GuessAirportCode(context.Background(), "Paris"))
	assert.Empty(t, client.FindFlights(context.Background(), "DTW", "PAR", "2025-06-01", ""))
}

func TestClient_UnreachableYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(createTestConfig(url), NewTestLogger(t))

	assert.NotNil(t, client.GetHotelsInCity(context.Background(), "PAR", 10))
	assert.Empty(t, client.GetHotelsInCity(context.Background(), "PAR", 10))
	assert.Empty(t, client.FindActivities(context.Background(), 48.85, 2.35, 5))
}

func TestParsePrice(t *testing.T) {
	v, ok := parsePrice(" 412.50 ")
	assert.True(t, ok)
	assert.Equal(t, 412.5, v)

	for _, bad := range []string{"", "N/A", "12,00"} {
		_, ok := parsePrice(bad)
		assert.False(t, ok, bad)
	}
}
