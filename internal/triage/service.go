package triage

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
)

// Service is the business boundary for email triage. It runs the four
// pipeline stages per message, persists results, and raises alerts.
// Every stage degrades rather than fails: Process always returns an
// Outcome and never an error.
type Service struct {
	classifier *Classifier
	evaluator  *Evaluator
	organizer  *Organizer
	drafter    *Drafter
	store      Store
	notifier   Notifier
	logger     log.Logger
	metrics    *Metrics

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a triage service. notifier, metrics and mover may
// be nil; a nil mover means folder routing is log-only.
func NewService(cfg Config, store Store, notifier Notifier, mover Mover, logger log.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		classifier: NewClassifier(cfg),
		evaluator:  NewEvaluator(cfg),
		organizer:  NewOrganizer(cfg, mover),
		drafter:    NewDrafter(cfg),
		store:      store,
		notifier:   notifier,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Process runs one email through the pipeline: classify, then organize
// and evaluate alerts (mutually independent), then draft a reply when
// the category warrants one. Store and notifier failures are logged and
// swallowed so a collaborator outage can never block triage.
func (s *Service) Process(ctx context.Context, e *Email) *Outcome {
	if e == nil {
		return &Outcome{}
	}
	start := s.now()

	if e.ID == "" {
		e.ID = ulid.Make().String()
	}
	L := s.logger.With("email_id", e.ID, "from", e.From)

	category := s.classifier.Classify(e)

	organized := s.organizer.Organize(e, category, s.now())
	organized.ProcessedAt = s.now()
	outcome := &Outcome{Email: organized}

	for _, folder := range organized.Folders {
		L.Info(ctx, "routing email to folder", "folder", string(folder), "subject", e.Subject)
		if s.metrics != nil {
			s.metrics.FolderRoutes.WithLabelValues(string(folder)).Inc()
		}
	}
	if organized.FollowUp {
		L.Info(ctx, "flagged for follow-up", "deadline", organized.FollowUpDeadline.Format("2006-01-02"))
		if s.metrics != nil {
			s.metrics.FollowUpsTotal.Inc()
		}
	}

	if kind, ok := s.evaluator.Evaluate(e, category); ok {
		outcome.Alert = s.raise(ctx, e, kind)
	}

	// Only the top two categories warrant a drafted reply.
	if category == CategoryUrgent || category == CategoryImportant {
		outcome.Draft = s.draftReply(ctx, e)
	}

	// History lookups above must see only prior correspondence, so the
	// message itself is persisted last.
	if err := s.store.SaveEmail(ctx, organized); err != nil {
		L.Error(ctx, err, "failed to persist email")
		s.countStoreError("save_email")
	}

	if s.metrics != nil {
		s.metrics.EmailsTotal.WithLabelValues(string(category)).Inc()
		s.metrics.ProcessDuration.Observe(s.now().Sub(start).Seconds())
	}

	L.Info(ctx, "email triaged",
		"category", string(category),
		"folders", len(organized.Folders),
		"alerted", outcome.Alert != nil,
		"drafted", outcome.Draft != nil,
	)

	return outcome
}

// Get retrieves a processed email by ID.
func (s *Service) Get(ctx context.Context, id string) (*Email, bool, error) {
	return s.store.GetEmail(ctx, id)
}

// List returns processed emails, newest first.
func (s *Service) List(ctx context.Context) ([]*Email, error) {
	return s.store.ListEmails(ctx)
}

// Alerts returns raised alerts.
func (s *Service) Alerts(ctx context.Context) ([]*Alert, error) {
	return s.store.ListAlerts(ctx)
}

// Drafts returns generated reply drafts.
func (s *Service) Drafts(ctx context.Context) ([]*Draft, error) {
	return s.store.ListDrafts(ctx)
}

// raise renders and dispatches an alert. Delivery is simulated: the
// notifier may be absent or log-only, and its errors never propagate.
func (s *Service) raise(ctx context.Context, e *Email, kind AlertKind) *Alert {
	a := &Alert{
		ID:        ulid.Make().String(),
		EmailID:   e.ID,
		Kind:      kind,
		Message:   RenderAlert(e, kind),
		From:      e.From,
		Subject:   e.Subject,
		CreatedAt: s.now(),
	}

	s.logger.Info(ctx, "alert raised", "kind", string(kind), "message", a.Message)
	if s.metrics != nil {
		s.metrics.AlertsTotal.WithLabelValues(string(kind)).Inc()
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, a); err != nil {
			s.logger.Error(ctx, err, "alert notification failed", "kind", string(kind))
		}
	}

	if err := s.store.SaveAlert(ctx, a); err != nil {
		s.logger.Error(ctx, err, "failed to persist alert")
		s.countStoreError("save_alert")
	}

	return a
}

// draftReply drafts a contextual reply. A failed history lookup is
// treated as an empty history rather than an error.
func (s *Service) draftReply(ctx context.Context, e *Email) *Draft {
	history, err := s.store.History(ctx, e.From)
	if err != nil {
		s.logger.Error(ctx, err, "history lookup failed, drafting without context")
		s.countStoreError("history")
		history = nil
	}

	d := s.drafter.Draft(e, len(history))
	d.ID = ulid.Make().String()
	d.CreatedAt = s.now()

	s.logger.Info(ctx, "response drafted", "intent", string(d.Intent), "history_len", len(history))
	if s.metrics != nil {
		s.metrics.DraftsTotal.WithLabelValues(string(d.Intent)).Inc()
	}

	if err := s.store.SaveDraft(ctx, d); err != nil {
		s.logger.Error(ctx, err, "failed to persist draft")
		s.countStoreError("save_draft")
	}

	return d
}

func (s *Service) countStoreError(op string) {
	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(op).Inc()
	}
}
