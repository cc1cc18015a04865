// internal/agents/travel-data/amadeus/client.go
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	commonhttp "travelbot/internal/common/http"
	"travelbot/internal/common/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	AgentName    = "amadeus"
	providerName = "amadeus"
	tokenPath    = "/v1/security/oauth2/token"
)

var ErrUnexpectedStatus = errors.New("AMADEUS_UNEXPECTED_STATUS")

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Client searches flights, hotels and activities. Every lookup is
// fail-soft: a transport, auth or decode failure is logged and counted, and
// the caller gets an empty result.
type Client struct {
	config *Config
	client *commonhttp.Client
	logger Logger
}

// NewClient builds a client whose requests carry a bearer token obtained
// with the client-credentials grant. Tokens are cached until they expire.
func NewClient(config *Config, log Logger) *Client {
	base := strings.TrimRight(config.BaseURL, "/")
	creds := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     base + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: config.Timeout})
	authed := creds.Client(tokenCtx)
	authed.Timeout = config.Timeout

	return &Client{
		config: config,
		client: commonhttp.NewClient(config.Timeout,
			commonhttp.WithHTTPClient(authed),
			commonhttp.WithMaxRetries(config.MaxRetries),
		),
		logger: log.With(map[string]interface{}{
			"agent":   AgentName,
			"baseUrl": base,
		}),
	}
}

// call runs fn inside a span and records the provider metric. n reports how
// many results fn produced so empty answers are distinguishable from errors.
func (c *Client) call(ctx context.Context, operation string, fn func(ctx context.Context) (int, error)) {
	ctx, span := otel.Tracer("travelbot/amadeus").Start(ctx, "amadeus."+operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	started := time.Now()
	n, err := fn(ctx)
	metrics.ObserveProvider(providerName, operation, metrics.OutcomeFor(err, n), started)
	span.SetAttributes(attribute.Int("amadeus.results", n))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("amadeus request failed", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
	}
}

// getJSON issues an authenticated GET and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("%w: status %d: %s %s", ErrUnexpectedStatus, resp.StatusCode,
				apiErr.Errors[0].Title, apiErr.Errors[0].Detail)
		}
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// parsePrice reads a decimal price string such as "412.50".
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// urlValues builds a query, leaving out empty parameters.
func urlValues(params map[string]string) url.Values {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
