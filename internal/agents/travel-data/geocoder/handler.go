// internal/agents/travel-data/geocoder/handler.go
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	commonhttp "travelbot/internal/common/http"
	"travelbot/internal/common/metrics"
	"travelbot/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	AgentName    = "geocoder"
	providerName = "nominatim"
)

var (
	ErrGeocodeStatus     = errors.New("GEOCODE_UNEXPECTED_STATUS")
	ErrInvalidCoordinate = errors.New("GEOCODE_INVALID_COORDINATE")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Geocoder struct {
	config *Config
	client *commonhttp.Client
	logger Logger
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func New(config *Config, log Logger) *Geocoder {
	return &Geocoder{
		config: config,
		client: commonhttp.NewClient(config.Timeout, commonhttp.WithMaxRetries(config.MaxRetries)),
		logger: log.With(map[string]interface{}{
			"agent": AgentName,
		}),
	}
}

// GeocodePlace returns the top match for a free-text place, or nil when
// there is no match or the lookup fails.
func (g *Geocoder) GeocodePlace(ctx context.Context, query string) *models.GeoPoint {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	ctx, span := otel.Tracer("travelbot/geocoder").Start(ctx, "geocoder.search", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("geocoder.query", query))

	started := time.Now()
	point, err := g.search(ctx, query)
	n := 0
	if point != nil {
		n = 1
	}
	metrics.ObserveProvider(providerName, "search", metrics.OutcomeFor(err, n), started)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.Error("geocoding failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil
	}
	if point == nil {
		g.logger.Info("no geocoding match", map[string]interface{}{"query": query})
	}
	return point
}

func (g *Geocoder) search(ctx context.Context, query string) (*models.GeoPoint, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	endpoint := strings.TrimRight(g.config.BaseURL, "/") + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", g.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrGeocodeStatus, resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: lat %q", ErrInvalidCoordinate, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: lon %q", ErrInvalidCoordinate, places[0].Lon)
	}

	return &models.GeoPoint{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: places[0].DisplayName,
	}, nil
}
