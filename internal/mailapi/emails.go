package mailapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/linnemanlabs/sift/internal/triage"
)

// ingestRequest is the POST /emails payload: one raw message.
type ingestRequest struct {
	ID          string              `json:"id"`
	From        string              `json:"from"`
	To          string              `json:"to"`
	Subject     string              `json:"subject"`
	Body        string              `json:"body"`
	Date        time.Time           `json:"date"`
	Attachments []triage.Attachment `json:"attachments"`
}

func (a *API) handleIngestEmail(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if req.From == "" {
		http.Error(w, `{"error":"from is required"}`, http.StatusBadRequest)
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	e := &triage.Email{
		ID:          req.ID,
		From:        req.From,
		To:          req.To,
		Subject:     req.Subject,
		Body:        req.Body,
		Date:        req.Date,
		Attachments: req.Attachments,
	}

	// Process never fails; a degenerate message still produces an outcome.
	outcome := a.svc.Process(r.Context(), e)

	writeJSON(w, http.StatusOK, outcome)
}
