// Package memstore provides an in-memory implementation of triage.Store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/linnemanlabs/sift/internal/triage"
)

// Store holds triage output in memory. Suitable for dev/demo/testing.
type Store struct {
	mu     sync.RWMutex
	emails map[string]*triage.Email // email ID -> email
	order  []string                 // insertion order of email IDs
	alerts []*triage.Alert
	drafts []*triage.Draft
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		emails: make(map[string]*triage.Email),
	}
}

// SaveEmail stores a copy of the email, replacing any prior version.
func (s *Store) SaveEmail(_ context.Context, e *triage.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emails[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	cp := *e
	s.emails[e.ID] = &cp
	return nil
}

// GetEmail retrieves an email by ID. Returns a copy.
func (s *Store) GetEmail(_ context.Context, id string) (*triage.Email, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.emails[id]
	if !ok {
		return nil, false, nil
	}
	cp := *e
	return &cp, true, nil
}

// ListEmails returns all stored emails, newest message date first.
func (s *Store) ListEmails(_ context.Context) ([]*triage.Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*triage.Email, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.emails[id]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// History returns prior messages whose sender contains the given
// address, case-insensitively, newest first. Unknown senders yield an
// empty slice.
func (s *Store) History(_ context.Context, sender string) ([]*triage.Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sender = strings.ToLower(sender)
	var out []*triage.Email
	for _, id := range s.order {
		e := s.emails[id]
		if strings.Contains(strings.ToLower(e.From), sender) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ListFollowUps returns follow-up-flagged emails ordered by deadline,
// soonest first.
func (s *Store) ListFollowUps(_ context.Context) ([]*triage.Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*triage.Email
	for _, id := range s.order {
		e := s.emails[id]
		if e.FollowUp {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FollowUpDeadline.Before(out[j].FollowUpDeadline)
	})
	return out, nil
}

// Stats counts emails processed in [from, to) by category.
func (s *Store) Stats(_ context.Context, from, to time.Time) (*triage.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &triage.Stats{}
	for _, e := range s.emails {
		if e.ProcessedAt.Before(from) || !e.ProcessedAt.Before(to) {
			continue
		}
		st.Total++
		switch e.Category {
		case triage.CategoryUrgent:
			st.Urgent++
		case triage.CategoryImportant:
			st.Important++
		case triage.CategoryLow:
			st.Low++
		default:
			st.Regular++
		}
	}
	return st, nil
}

// SaveAlert stores a copy of the alert.
func (s *Store) SaveAlert(_ context.Context, a *triage.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.alerts = append(s.alerts, &cp)
	return nil
}

// ListAlerts returns raised alerts in insertion order.
func (s *Store) ListAlerts(_ context.Context) ([]*triage.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*triage.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// SaveDraft stores a copy of the draft.
func (s *Store) SaveDraft(_ context.Context, d *triage.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.drafts = append(s.drafts, &cp)
	return nil
}

// ListDrafts returns generated drafts in creation order, oldest first.
func (s *Store) ListDrafts(_ context.Context) ([]*triage.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*triage.Draft, 0, len(s.drafts))
	for _, d := range s.drafts {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}
