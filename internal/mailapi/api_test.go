package mailapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/sift/internal/summary"
	"github.com/linnemanlabs/sift/internal/triage"
	"github.com/linnemanlabs/sift/internal/triage/memstore"
)

func newTestRouter(t *testing.T) (chi.Router, *triage.Service) {
	t.Helper()
	store := memstore.New()
	svc := triage.NewService(triage.NewConfig(""), store, nil, nil, log.Nop(), nil)
	gen := summary.NewGenerator(store, log.Nop())
	api := New(nil, svc, gen)
	r := chi.NewRouter()
	api.RegisterRoutes(r)
	return r, svc
}

//  New / constructor

func TestNew_NilLogger(t *testing.T) {
	t.Parallel()

	svc := triage.NewService(triage.NewConfig(""), memstore.New(), nil, nil, log.Nop(), nil)
	api := New(nil, svc, nil)
	if api == nil {
		t.Fatal("New(nil, svc, nil) returned nil API")
	}
	if api.logger == nil {
		t.Fatal("New(nil, svc, nil) left logger nil; expected Nop logger")
	}
}

func TestNew_NilService_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("New(nil, nil, nil) did not panic; expected panic for nil service")
		}
	}()
	New(nil, nil, nil)
}

// Routing

func TestRegisterRoutes_EmailIngestion(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"POST valid email", http.MethodPost, `{"from":"a@b.com","subject":"hi","body":"hello"}`, http.StatusOK},
		{"POST invalid JSON", http.MethodPost, `{bad`, http.StatusBadRequest},
		{"POST missing from", http.MethodPost, `{"subject":"hi"}`, http.StatusBadRequest},
		{"PUT not allowed", http.MethodPut, "", http.StatusMethodNotAllowed},
		{"DELETE not allowed", http.MethodDelete, "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/api/v1/emails", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRegisterRoutes_ReadEndpoints(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	paths := []string{
		"/api/v1/emails",
		"/api/v1/alerts",
		"/api/v1/drafts",
		"/api/v1/summary",
		"/api/v1/action-items",
		"/api/v1/deadlines",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("GET %s Content-Type = %q, want application/json", path, ct)
		}
	}
}

func TestRegisterRoutes_NotFound(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// Handlers

func TestHandleIngestEmail_ReturnsOutcome(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	payload := `{"from":"boss@company.com","subject":"URGENT: Project deadline moved up","body":"We need to deliver the project by tomorrow. Please update me on your progress ASAP."}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/emails", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var out triage.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal outcome: %v", err)
	}
	if out.Email == nil || out.Email.Category != triage.CategoryUrgent {
		t.Fatalf("outcome email = %+v, want Urgent category", out.Email)
	}
	if out.Email.ID == "" {
		t.Error("outcome email ID empty, want generated ID")
	}
	if out.Alert == nil || out.Alert.Kind != triage.AlertUrgent {
		t.Errorf("outcome alert = %+v, want URGENT kind", out.Alert)
	}
	if out.Draft == nil {
		t.Error("outcome draft = nil, want drafted reply")
	}
}

func TestHandleGetEmail(t *testing.T) {
	t.Parallel()

	r, svc := newTestRouter(t)

	out := svc.Process(context.Background(), &triage.Email{
		From:    "a@b.com",
		Subject: "hello",
		Body:    "plain message",
		Date:    time.Now(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/emails/"+out.Email.ID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got triage.Email
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal email: %v", err)
	}
	if got.ID != out.Email.ID || got.Subject != "hello" {
		t.Errorf("got = %+v, want stored email", got)
	}
}

func TestHandleGetEmail_Missing(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/emails/does-not-exist", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleListAlerts_AfterSecurityEmail(t *testing.T) {
	t.Parallel()

	r, svc := newTestRouter(t)

	svc.Process(context.Background(), &triage.Email{
		From:    "no-reply@service-alerts.com",
		Subject: "Account notice",
		Body:    "Unauthorized password change detected. Click here to review.",
		Date:    time.Now(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp struct {
		Alerts []*triage.Alert `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Alerts) != 1 || resp.Alerts[0].Kind != triage.AlertSecurity {
		t.Errorf("alerts = %+v, want one SECURITY alert", resp.Alerts)
	}
}

func TestHandleListDrafts_AfterUrgentEmail(t *testing.T) {
	t.Parallel()

	r, svc := newTestRouter(t)

	out := svc.Process(context.Background(), &triage.Email{
		From:    "boss@company.com",
		Subject: "URGENT: sign-off needed",
		Body:    "Need your sign-off asap.",
		Date:    time.Now(),
	})
	if out.Draft == nil {
		t.Fatal("Process produced no draft for urgent email")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp struct {
		Drafts []*triage.Draft `json:"drafts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Drafts) != 1 || resp.Drafts[0].ID != out.Draft.ID {
		t.Errorf("drafts = %+v, want the generated draft %s", resp.Drafts, out.Draft.ID)
	}
}

func TestHandleSummary(t *testing.T) {
	t.Parallel()

	r, svc := newTestRouter(t)

	svc.Process(context.Background(), &triage.Email{
		From:    "colleague@company.com",
		Subject: "Follow up on previous discussion",
		Body:    "Please let me know by tomorrow.",
		Date:    time.Now(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var sum summary.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if sum.Stats == nil || sum.Stats.Total != 1 {
		t.Errorf("summary stats = %+v, want 1 processed email", sum.Stats)
	}
}
