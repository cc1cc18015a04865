// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "travelbot/internal/common/errors"
	"travelbot/internal/common/metrics"
	"travelbot/internal/common/validation"
	"travelbot/internal/models"
	"travelbot/internal/notify"
	"travelbot/internal/session"
	"travelbot/internal/wizard"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Sharer delivers a finished itinerary. A nil Sharer means sharing is off.
type Sharer interface {
	Share(ctx context.Context, req notify.Request) (*notify.Result, error)
}

// Pinger is implemented by stores that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the wizard over HTTP. Every request loads the session,
// applies at most one confirmed action, re-enters the current step and
// saves the session again.
type Handler struct {
	config  *Config
	machine *wizard.Machine
	store   session.Store
	auditor session.Auditor
	sharer  Sharer
	errors  *apperrors.ErrorHandler
	logger  Logger
}

func NewHandler(config *Config, machine *wizard.Machine, store session.Store, auditor session.Auditor, sharer Sharer, log Logger) *Handler {
	if auditor == nil {
		auditor = session.NopAuditor{}
	}
	log = log.With(map[string]interface{}{"component": "api"})
	return &Handler{
		config:  config,
		machine: machine,
		store:   store,
		auditor: auditor,
		sharer:  sharer,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
	}
}

// Routes returns the mux with every endpoint registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/sessions", h.createSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.getSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", h.deleteSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/actions", h.applyAction)
	mux.HandleFunc("GET /api/v1/sessions/{id}/hotels/{hotelId}/offers", h.hotelOffers)
	mux.HandleFunc("POST /api/v1/sessions/{id}/dates/parse", h.parseDates)
	mux.HandleFunc("POST /api/v1/sessions/{id}/share", h.share)

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /ready", h.ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	return withRequestLog(h.logger, mux)
}

type sessionResponse struct {
	SessionID string        `json:"sessionId"`
	State     *wizard.State `json:"state"`
	View      *wizard.View  `json:"view"`
}

type actionRequest struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

type hotelOffersResponse struct {
	HotelID string              `json:"hotelId"`
	Offers  []models.HotelOffer `json:"offers"`
	Message string              `json:"message,omitempty"`
}

type parseDatesRequest struct {
	Text string `json:"text"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.New(uuid.New().String())

	view := h.enter(ctx, sess)
	if err := h.store.Save(ctx, sess); err != nil {
		h.errors.Write(w, r, storeError(sess.ID, err))
		return
	}

	metrics.SessionsCreated.Inc()
	h.auditor.Record(ctx, session.Event{SessionID: sess.ID, Type: session.EventSessionCreated})
	h.logger.Info("session created", map[string]interface{}{"sessionId": sess.ID})

	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sess.ID, State: sess.State, View: view})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	view := h.enter(r.Context(), sess)
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.errors.Write(w, r, storeError(sess.ID, err))
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, State: sess.State, View: view})
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if err := h.store.Delete(ctx, id); err != nil {
		h.errors.Write(w, r, storeError(id, err))
		return
	}

	metrics.SessionsEnded.Inc()
	h.auditor.Record(ctx, session.Event{SessionID: id, Type: session.EventSessionEnded})
	h.logger.Info("session ended", map[string]interface{}{"sessionId": id})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) applyAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.load(w, r)
	if !ok {
		return
	}

	var req actionRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if result := validation.ValidateAction(req.Type, req.Payload); !result.Valid {
		h.errors.Write(w, r, apperrors.NewValidationFailedError(
			"Invalid action payload", strings.Join(result.GetErrorMessages(), "; ")))
		return
	}

	from := sess.State.Step
	if err := h.apply(sess, req.Type, req.Payload); err != nil {
		h.auditor.Record(ctx, session.Event{
			SessionID: sess.ID,
			Type:      session.EventActionRejected,
			FromStep:  int(from),
			ToStep:    int(sess.State.Step),
			Details:   map[string]interface{}{"action": req.Type, "error": err.Error()},
		})
		h.errors.Write(w, r, err)
		return
	}

	view := h.enter(ctx, sess)
	if err := h.store.Save(ctx, sess); err != nil {
		h.errors.Write(w, r, storeError(sess.ID, err))
		return
	}

	h.auditor.Record(ctx, session.Event{
		SessionID: sess.ID,
		Type:      session.EventActionApplied,
		FromStep:  int(from),
		ToStep:    int(sess.State.Step),
		Details:   map[string]interface{}{"action": req.Type, "total": sess.State.Total()},
	})
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, State: sess.State, View: view})
}

func (h *Handler) hotelOffers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.load(w, r)
	if !ok {
		return
	}

	hotelID := r.PathValue("hotelId")
	offers, err := h.machine.HotelOffers(ctx, sess.State, hotelID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	sess.Options.HotelOffers = offers
	if err := h.store.Save(ctx, sess); err != nil {
		h.errors.Write(w, r, storeError(sess.ID, err))
		return
	}

	resp := hotelOffersResponse{HotelID: hotelID, Offers: offers}
	if len(offers) == 0 {
		resp.Offers = []models.HotelOffer{}
		resp.Message = wizard.MsgNoHotelOffers
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) parseDates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.load(w, r)
	if !ok {
		return
	}

	var req parseDatesRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.errors.Write(w, r, apperrors.NewValidationFailedError("Please describe your travel dates.", "text is empty"))
		return
	}

	parsed, err := h.machine.ParseDates(ctx, sess.State, sess.Conversation, req.Text)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if err := h.store.Save(ctx, sess); err != nil {
		h.errors.Write(w, r, storeError(sess.ID, err))
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}

func (h *Handler) share(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	if sess.State.Step != wizard.StepReview {
		h.errors.Write(w, r, apperrors.NewMissingPreconditionError("Finish the wizard before sharing the itinerary."))
		return
	}

	var payload map[string]interface{}
	if err := h.decode(w, r, &payload); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if result := validation.ValidateShare(payload); !result.Valid {
		h.errors.Write(w, r, apperrors.NewValidationFailedError(
			"Invalid share request", strings.Join(result.GetErrorMessages(), "; ")))
		return
	}
	if h.sharer == nil {
		h.errors.Write(w, r, apperrors.NewNotificationDisabledError("all"))
		return
	}

	email, _ := payload["email"].(string)
	phone, _ := payload["phone"].(string)
	result, err := h.sharer.Share(ctx, notify.Request{
		SessionID: sess.ID,
		Email:     email,
		Phone:     phone,
		Summary:   wizard.Summarize(sess.State).Text(),
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	h.auditor.Record(ctx, session.Event{
		SessionID: sess.ID,
		Type:      session.EventItineraryShare,
		FromStep:  int(sess.State.Step),
		ToStep:    int(sess.State.Step),
		Details: map[string]interface{}{
			"notificationId": result.NotificationID,
			"status":         result.Status,
			"channels":       result.Channels,
			"failed":         result.Failed,
		},
	})
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.store.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			h.logger.Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// enter builds the view of the current step and remembers what it offered.
func (h *Handler) enter(ctx context.Context, sess *session.Session) *wizard.View {
	view := h.machine.Enter(ctx, sess.State, sess.Conversation)
	sess.Options.Remember(view)
	return view
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	sess, err := h.store.Load(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, storeError(id, err))
		return nil, false
	}
	return sess, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if h.config.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidationFailedError("Request body must be a JSON object", err.Error())
	}
	return nil
}

func storeError(id string, err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return apperrors.NewSessionNotFoundError(id)
	}
	return apperrors.NewSessionStoreFailedError(err)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
