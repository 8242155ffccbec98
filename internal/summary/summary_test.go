package summary

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/sift/internal/triage"
	"github.com/linnemanlabs/sift/internal/triage/memstore"
)

var testNow = time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)

func newTestGenerator(t *testing.T) (*Generator, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	g := NewGenerator(store, log.Nop())
	g.now = func() time.Time { return testNow }
	return g, store
}

func saveEmail(t *testing.T, store *memstore.Store, e *triage.Email) {
	t.Helper()
	if err := store.SaveEmail(context.Background(), e); err != nil {
		t.Fatalf("SaveEmail: %v", err)
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	g, store := newTestGenerator(t)
	ctx := context.Background()

	saveEmail(t, store, &triage.Email{
		ID: "e1", From: "boss@company.com", Subject: "deadline",
		Category: triage.CategoryUrgent, ProcessedAt: testNow,
	})
	saveEmail(t, store, &triage.Email{
		ID: "e2", From: "hr@company.com", Subject: "lunch",
		Category: triage.CategoryRegular, ProcessedAt: testNow.Add(time.Hour),
		FollowUp: true, FollowUpDeadline: testNow.AddDate(0, 0, 2),
	})
	// Processed yesterday, outside today's stats window.
	saveEmail(t, store, &triage.Email{
		ID: "e3", From: "news@industry.com", Subject: "digest",
		Category: triage.CategoryLow, ProcessedAt: testNow.AddDate(0, 0, -1),
	})

	sum, err := g.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if sum.Date != "2026-03-04" {
		t.Errorf("Date = %q, want 2026-03-04", sum.Date)
	}
	if sum.Stats.Total != 2 || sum.Stats.Urgent != 1 || sum.Stats.Regular != 1 {
		t.Errorf("Stats = %+v, want total 2, urgent 1, regular 1", sum.Stats)
	}
	if len(sum.ActionItems) != 1 || sum.ActionItems[0].EmailID != "e2" {
		t.Errorf("ActionItems = %+v, want one item for e2", sum.ActionItems)
	}
	if len(sum.Deadlines) != 1 || sum.Deadlines[0].EmailID != "e2" {
		t.Errorf("Deadlines = %+v, want one deadline for e2", sum.Deadlines)
	}
}

func TestActionItems_SoonestFirst(t *testing.T) {
	t.Parallel()

	g, store := newTestGenerator(t)

	saveEmail(t, store, &triage.Email{
		ID: "later", Subject: "later", FollowUp: true,
		FollowUpDeadline: testNow.AddDate(0, 0, 7),
	})
	saveEmail(t, store, &triage.Email{
		ID: "soon", Subject: "soon", FollowUp: true,
		FollowUpDeadline: testNow.AddDate(0, 0, 1),
	})

	items, err := g.ActionItems(context.Background())
	if err != nil {
		t.Fatalf("ActionItems: %v", err)
	}
	if len(items) != 2 || items[0].EmailID != "soon" || items[1].EmailID != "later" {
		t.Errorf("items = %+v, want [soon later]", items)
	}
}

func TestActionItems_SevereFirst(t *testing.T) {
	t.Parallel()

	g, store := newTestGenerator(t)

	// The regular item has the soonest deadline but the urgent one still
	// leads; ties on category keep deadline order.
	saveEmail(t, store, &triage.Email{
		ID: "regular", Subject: "regular", Category: triage.CategoryRegular,
		FollowUp: true, FollowUpDeadline: testNow.AddDate(0, 0, 1),
	})
	saveEmail(t, store, &triage.Email{
		ID: "urgent-late", Subject: "urgent-late", Category: triage.CategoryUrgent,
		FollowUp: true, FollowUpDeadline: testNow.AddDate(0, 0, 5),
	})
	saveEmail(t, store, &triage.Email{
		ID: "urgent-soon", Subject: "urgent-soon", Category: triage.CategoryUrgent,
		FollowUp: true, FollowUpDeadline: testNow.AddDate(0, 0, 2),
	})

	items, err := g.ActionItems(context.Background())
	if err != nil {
		t.Fatalf("ActionItems: %v", err)
	}
	want := []string{"urgent-soon", "urgent-late", "regular"}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for i, id := range want {
		if items[i].EmailID != id {
			t.Errorf("items[%d].EmailID = %q, want %q", i, items[i].EmailID, id)
		}
	}
}

func TestUpcomingDeadlines_Window(t *testing.T) {
	t.Parallel()

	g, store := newTestGenerator(t)

	mk := func(id string, deadline time.Time) *triage.Email {
		return &triage.Email{ID: id, Subject: id, FollowUp: true, FollowUpDeadline: deadline}
	}
	saveEmail(t, store, mk("past", testNow.AddDate(0, 0, -1)))
	saveEmail(t, store, mk("in-window", testNow.AddDate(0, 0, 3)))
	saveEmail(t, store, mk("beyond", testNow.AddDate(0, 0, 10)))
	saveEmail(t, store, mk("no-deadline", time.Time{}))

	got, err := g.UpcomingDeadlines(context.Background())
	if err != nil {
		t.Fatalf("UpcomingDeadlines: %v", err)
	}
	if len(got) != 1 || got[0].EmailID != "in-window" {
		t.Errorf("deadlines = %+v, want only in-window", got)
	}
}

func TestFormatText(t *testing.T) {
	t.Parallel()

	s := &Summary{
		Date:  "2026-03-04",
		Stats: &triage.Stats{Total: 3, Urgent: 1, Regular: 2},
		ActionItems: []ActionItem{
			{Subject: "Project update", From: "boss@company.com", Deadline: testNow.AddDate(0, 0, 1)},
		},
		Deadlines: []Deadline{
			{Subject: "Project update", Date: testNow.AddDate(0, 0, 1)},
		},
	}

	got := FormatText(s)
	for _, want := range []string{
		"Email summary for 2026-03-04",
		"Total new messages: 3",
		"Urgent: 1",
		`1. "Project update" from boss@company.com (due 2026-03-05)`,
		"1. 2026-03-05: Project update",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatText() missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatText_Empty(t *testing.T) {
	t.Parallel()

	s := &Summary{Date: "2026-03-04", Stats: &triage.Stats{}}
	got := FormatText(s)
	if !strings.Contains(got, "No action items for today.") {
		t.Errorf("FormatText() missing empty action-items line:\n%s", got)
	}
	if !strings.Contains(got, "No upcoming deadlines.") {
		t.Errorf("FormatText() missing empty deadlines line:\n%s", got)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	g, _ := newTestGenerator(t)
	s := NewScheduler(g, log.Nop())

	if err := s.Start(context.Background(), "0 8 * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestScheduler_BadSpec(t *testing.T) {
	t.Parallel()

	g, _ := newTestGenerator(t)
	s := NewScheduler(g, log.Nop())

	if err := s.Start(context.Background(), "not a cron spec"); err == nil {
		t.Error("Start() = nil, want error for invalid spec")
	}
}
