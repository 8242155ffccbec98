// Package mailapi exposes the triage pipeline and its read models over
// HTTP.
package mailapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/sift/internal/summary"
	"github.com/linnemanlabs/sift/internal/triage"
)

// TriageService defines the business operations mailapi needs.
type TriageService interface {
	Process(ctx context.Context, e *triage.Email) *triage.Outcome
	Get(ctx context.Context, id string) (*triage.Email, bool, error)
	List(ctx context.Context) ([]*triage.Email, error)
	Alerts(ctx context.Context) ([]*triage.Alert, error)
	Drafts(ctx context.Context) ([]*triage.Draft, error)
}

// Summarizer defines the digest operations mailapi needs.
type Summarizer interface {
	Generate(ctx context.Context) (*summary.Summary, error)
	ActionItems(ctx context.Context) ([]summary.ActionItem, error)
	UpcomingDeadlines(ctx context.Context) ([]summary.Deadline, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger log.Logger
	svc    TriageService
	sum    Summarizer
}

// New creates a new API handler.
func New(logger log.Logger, svc TriageService, sum Summarizer) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("triage service is required"))
	}
	return &API{
		logger: logger,
		svc:    svc,
		sum:    sum,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/emails", a.handleIngestEmail)
		r.Get("/emails", a.handleListEmails)
		r.Get("/emails/{id}", a.handleGetEmail)
		r.Get("/alerts", a.handleListAlerts)
		r.Get("/drafts", a.handleListDrafts)
		r.Get("/summary", a.handleSummary)
		r.Get("/action-items", a.handleActionItems)
		r.Get("/deadlines", a.handleDeadlines)
	})
}

func (a *API) handleGetEmail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("sift.email.id", id))

	e, ok, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get email", "id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	span.SetAttributes(attribute.String("sift.email.category", string(e.Category)))

	writeJSON(w, http.StatusOK, e)
}

func (a *API) handleListEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := a.svc.List(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list emails")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"emails": emails})
}

func (a *API) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := a.svc.Alerts(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list alerts")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (a *API) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := a.svc.Drafts(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list drafts")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := a.sum.Generate(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to generate summary")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (a *API) handleActionItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.sum.ActionItems(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list action items")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"action_items": items})
}

func (a *API) handleDeadlines(w http.ResponseWriter, r *http.Request) {
	deadlines, err := a.sum.UpcomingDeadlines(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list deadlines")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deadlines": deadlines})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
