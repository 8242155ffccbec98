package triage

import (
	"context"
	"time"
)

// Stats counts processed emails by category over a time window.
type Stats struct {
	Total     int `json:"total"`
	Urgent    int `json:"urgent"`
	Important int `json:"important"`
	Regular   int `json:"regular"`
	Low       int `json:"low_priority"`
}

// Store is the persistence boundary for the pipeline. The Service treats
// every call as fire-and-forget: errors are logged, never propagated to
// the pipeline's caller, and a failed History lookup is an empty history.
type Store interface {
	SaveEmail(ctx context.Context, e *Email) error
	GetEmail(ctx context.Context, id string) (*Email, bool, error)

	// ListEmails returns processed emails, newest first.
	ListEmails(ctx context.Context) ([]*Email, error)

	// History returns prior messages whose sender address contains the
	// given address, case-insensitively, newest first. Unknown senders
	// yield an empty slice, not an error.
	History(ctx context.Context, sender string) ([]*Email, error)

	// ListFollowUps returns follow-up-flagged emails ordered by deadline,
	// soonest first.
	ListFollowUps(ctx context.Context) ([]*Email, error)

	// Stats counts emails processed in [from, to) by category.
	Stats(ctx context.Context, from, to time.Time) (*Stats, error)

	SaveAlert(ctx context.Context, a *Alert) error
	ListAlerts(ctx context.Context) ([]*Alert, error)

	SaveDraft(ctx context.Context, d *Draft) error

	// ListDrafts returns generated drafts in creation order, oldest first.
	ListDrafts(ctx context.Context) ([]*Draft, error)
}

// Notifier is the notification sink consumed when an alert fires. A
// no-op or log-only implementation is acceptable.
type Notifier interface {
	Send(ctx context.Context, a *Alert) error
}
