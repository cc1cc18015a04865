// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	airportindex "travelbot/internal/agents/travel-data/airport-index"
	"travelbot/internal/common/config"
	"travelbot/internal/common/database"
	"travelbot/internal/common/logger"
	"travelbot/internal/session"
	"travelbot/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// These tests talk to real Redis, PostgreSQL and Elasticsearch on
// localhost (docker compose). Set TRAVELBOT_E2E=1 to run them.

// Logger adapter to bridge logger.Logger to the session Logger interface
type sessionLoggerAdapter struct {
	logger.Logger
}

func (a *sessionLoggerAdapter) With(fields map[string]interface{}) session.Logger {
	return &sessionLoggerAdapter{a.Logger.With(fields)}
}

func requireE2E(t *testing.T) {
	t.Helper()
	if testing.Short() || os.Getenv("TRAVELBOT_E2E") == "" {
		t.Skip("Skipping E2E tests; set TRAVELBOT_E2E=1 with local services running")
	}
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("REDIS_ADDRESS", envOr("E2E_REDIS_ADDRESS", "localhost:6379"))
	t.Setenv("DB_HOST", envOr("E2E_DB_HOST", "localhost"))
	t.Setenv("DB_USER", envOr("E2E_DB_USER", "travelbot"))
	t.Setenv("DB_PASSWORD", envOr("E2E_DB_PASSWORD", "travelbot"))
	t.Setenv("ELASTICSEARCH_URL", envOr("E2E_ELASTICSEARCH_URL", "http://localhost:9200"))

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestServiceConnectivity(t *testing.T) {
	requireE2E(t)
	cfg := loadConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdb.Close()
	assert.NoError(t, rdb.Ping(ctx), "Redis ping failed")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	assert.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	assert.NoError(t, es.Ping(ctx), "Elasticsearch ping failed")
}

func TestSessionRoundTripInRedis(t *testing.T) {
	requireE2E(t)
	cfg := loadConfig(t)
	ctx := context.Background()
	log := logger.NewZapAdapter(zaptest.NewLogger(t))

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdb.Close()

	store := session.NewRedisStore(rdb.Client, &session.Config{
		KeyPrefix: "travelbot:e2e:",
		TTL:       time.Minute,
	}, &sessionLoggerAdapter{log})

	sess := session.New("e2e-" + time.Now().UTC().Format("150405.000000"))
	sess.State.Step = wizard.StepDates
	sess.State.OriginCode = "DTW"
	sess.State.DestinationCode = "BCN"
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepDates, loaded.State.Step)
	assert.Equal(t, "BCN", loaded.State.DestinationCode)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Load(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAuditTrailInPostgres(t *testing.T) {
	requireE2E(t)
	cfg := loadConfig(t)
	ctx := context.Background()
	log := logger.NewZapAdapter(zaptest.NewLogger(t))

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, session.Migrate(ctx, pg.DB))

	sessionID := "e2e-audit-" + time.Now().UTC().Format("150405.000000")
	auditor := session.NewPostgresAuditor(pg.DB, &sessionLoggerAdapter{log})
	auditor.Record(ctx, session.Event{
		SessionID: sessionID,
		Type:      session.EventActionApplied,
		FromStep:  int(wizard.StepFlights),
		ToStep:    int(wizard.StepHotels),
		Details:   map[string]interface{}{"action": wizard.ActionConfirmFlight},
	})

	var eventType string
	var toStep int
	err = pg.DB.QueryRowContext(ctx,
		`SELECT event_type, to_step FROM wizard_events WHERE session_id = $1`, sessionID,
	).Scan(&eventType, &toStep)
	require.NoError(t, err)
	assert.Equal(t, session.EventActionApplied, eventType)
	assert.Equal(t, int(wizard.StepHotels), toStep)

	_, err = pg.DB.ExecContext(ctx, `DELETE FROM wizard_events WHERE session_id = $1`, sessionID)
	assert.NoError(t, err)
}

func TestAirportIndexInElasticsearch(t *testing.T) {
	requireE2E(t)
	cfg := loadConfig(t)
	ctx := context.Background()
	log := logger.NewZapAdapter(zaptest.NewLogger(t))

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)

	airports, err := airportindex.DecodeAirports(strings.NewReader(`[
		{"iata_code": "BCN", "name": "Josep Tarradellas Barcelona-El Prat Airport", "city": "Barcelona", "country": "Spain"},
		{"iata_code": "LIS", "name": "Humberto Delgado Airport", "city": "Lisbon", "country": "Portugal"}
	]`))
	require.NoError(t, err)

	index := airportindex.NewIndex(&airportindex.Config{
		Index:   "airports-e2e",
		Timeout: 5 * time.Second,
	}, es.Client, log)

	require.NoError(t, index.EnsureIndex(ctx))
	n, err := index.Import(ctx, airports)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "BCN", index.GuessAirportCode(ctx, "Barcelona"))
	assert.Equal(t, "LIS", index.GuessAirportCode(ctx, "lisbon"))
	assert.Equal(t, "", index.GuessAirportCode(ctx, "Atlantis"))
}
