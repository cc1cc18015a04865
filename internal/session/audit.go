// internal/session/audit.go
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	apperrors "travelbot/internal/common/errors"

	"github.com/google/uuid"
)

// Event types written to the audit trail.
const (
	EventSessionCreated = "session_created"
	EventSessionEnded   = "session_ended"
	EventActionApplied  = "action_applied"
	EventActionRejected = "action_rejected"
	EventItineraryShare = "itinerary_shared"
)

// Event is one audited wizard occurrence.
type Event struct {
	SessionID string
	Type      string
	FromStep  int
	ToStep    int
	Details   map[string]interface{}
}

// Auditor records wizard events. Recording never fails the caller.
type Auditor interface {
	Record(ctx context.Context, e Event)
}

// NopAuditor drops events; used when no database is configured.
type NopAuditor struct{}

func (NopAuditor) Record(ctx context.Context, e Event) {}

// PostgresAuditor appends events to the wizard_events table.
type PostgresAuditor struct {
	db     *sql.DB
	logger Logger
}

func NewPostgresAuditor(db *sql.DB, log Logger) *PostgresAuditor {
	return &PostgresAuditor{
		db: db,
		logger: log.With(map[string]interface{}{
			"component": "audit",
		}),
	}
}

// Record inserts e. A failed insert is logged and otherwise ignored; the
// audit trail never blocks the wizard.
func (a *PostgresAuditor) Record(ctx context.Context, e Event) {
	if err := a.Insert(ctx, e); err != nil {
		a.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":     err.Error(),
			"code":      apperrors.Normalize(err).Code,
			"sessionId": e.SessionID,
			"eventType": e.Type,
		})
	}
}

// Insert writes e to wizard_events.
func (a *PostgresAuditor) Insert(ctx context.Context, e Event) error {
	details, err := json.Marshal(e.Details)
	if err != nil || e.Details == nil {
		details = []byte("{}")
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO wizard_events (id, session_id, event_type, from_step, to_step, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(),
		e.SessionID,
		e.Type,
		e.FromStep,
		e.ToStep,
		details,
		time.Now().UTC(),
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// Schema creates the audit table.
const Schema = `
CREATE TABLE IF NOT EXISTS wizard_events (
	id          UUID PRIMARY KEY,
	session_id  TEXT        NOT NULL,
	event_type  TEXT        NOT NULL,
	from_step   SMALLINT    NOT NULL,
	to_step     SMALLINT    NOT NULL,
	details     JSONB       NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS wizard_events_session_idx ON wizard_events (session_id, created_at);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
