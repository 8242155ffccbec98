// Package summary produces the daily triage digest: per-category counts,
// open action items, and upcoming follow-up deadlines.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/sift/internal/triage"
)

// deadlineLookaheadDays bounds the upcoming-deadline window.
const deadlineLookaheadDays = 7

// ActionItem is a follow-up-flagged email awaiting a response.
type ActionItem struct {
	EmailID  string          `json:"email_id"`
	Subject  string          `json:"subject"`
	From     string          `json:"from"`
	Category triage.Category `json:"category,omitempty"`
	Deadline time.Time       `json:"deadline,omitzero"`
}

// Deadline is an upcoming follow-up deadline.
type Deadline struct {
	EmailID string    `json:"email_id"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`
}

// Summary is one day's digest.
type Summary struct {
	Date        string        `json:"date"`
	Stats       *triage.Stats `json:"stats"`
	ActionItems []ActionItem  `json:"action_items"`
	Deadlines   []Deadline    `json:"upcoming_deadlines"`
}

// Generator computes summaries from the triage store.
type Generator struct {
	store  triage.Store
	logger log.Logger
	now    func() time.Time
}

// NewGenerator creates a summary generator.
func NewGenerator(store triage.Store, logger log.Logger) *Generator {
	if logger == nil {
		logger = log.Nop()
	}
	return &Generator{store: store, logger: logger, now: time.Now}
}

// Generate builds the digest for the current day.
func (g *Generator) Generate(ctx context.Context) (*Summary, error) {
	now := g.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := g.store.Stats(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("summary stats: %w", err)
	}

	items, err := g.ActionItems(ctx)
	if err != nil {
		return nil, err
	}

	deadlines, err := g.UpcomingDeadlines(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Date:        dayStart.Format("2006-01-02"),
		Stats:       stats,
		ActionItems: items,
		Deadlines:   deadlines,
	}, nil
}

// ActionItems lists follow-up-flagged emails, most severe category
// first, then soonest deadline within a category.
func (g *Generator) ActionItems(ctx context.Context) ([]ActionItem, error) {
	followUps, err := g.store.ListFollowUps(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary follow-ups: %w", err)
	}

	items := make([]ActionItem, 0, len(followUps))
	for _, e := range followUps {
		items = append(items, ActionItem{
			EmailID:  e.ID,
			Subject:  e.Subject,
			From:     e.From,
			Category: e.Category,
			Deadline: e.FollowUpDeadline,
		})
	}
	// The store returns follow-ups soonest deadline first; a stable sort
	// keeps that order inside each category.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Category.MoreSevere(items[j].Category)
	})
	return items, nil
}

// UpcomingDeadlines lists follow-up deadlines falling in the next seven
// days, soonest first.
func (g *Generator) UpcomingDeadlines(ctx context.Context) ([]Deadline, error) {
	followUps, err := g.store.ListFollowUps(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary deadlines: %w", err)
	}

	now := g.now()
	cutoff := now.AddDate(0, 0, deadlineLookaheadDays)

	var out []Deadline
	for _, e := range followUps {
		d := e.FollowUpDeadline
		if d.IsZero() || d.Before(now) || d.After(cutoff) {
			continue
		}
		out = append(out, Deadline{EmailID: e.ID, Subject: e.Subject, Date: d})
	}
	return out, nil
}

// FormatText renders a summary as plain text for logs and notifications.
func FormatText(s *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Email summary for %s\n\n", s.Date)

	fmt.Fprintf(&b, "Statistics:\n")
	fmt.Fprintf(&b, "  Total new messages: %d\n", s.Stats.Total)
	fmt.Fprintf(&b, "  Urgent: %d\n", s.Stats.Urgent)
	fmt.Fprintf(&b, "  Important: %d\n", s.Stats.Important)
	fmt.Fprintf(&b, "  Regular: %d\n", s.Stats.Regular)
	fmt.Fprintf(&b, "  Low Priority: %d\n\n", s.Stats.Low)

	fmt.Fprintf(&b, "Action items (%d):\n", len(s.ActionItems))
	if len(s.ActionItems) == 0 {
		b.WriteString("  No action items for today.\n")
	}
	for i, item := range s.ActionItems {
		fmt.Fprintf(&b, "  %d. %q from %s", i+1, item.Subject, item.From)
		if !item.Deadline.IsZero() {
			fmt.Fprintf(&b, " (due %s)", item.Deadline.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Upcoming deadlines (%d):\n", len(s.Deadlines))
	if len(s.Deadlines) == 0 {
		b.WriteString("  No upcoming deadlines.\n")
	}
	for i, d := range s.Deadlines {
		fmt.Fprintf(&b, "  %d. %s: %s\n", i+1, d.Date.Format("2006-01-02"), d.Subject)
	}

	return b.String()
}
