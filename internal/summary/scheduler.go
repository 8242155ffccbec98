package summary

import (
	"context"
	"fmt"

	"github.com/linnemanlabs/go-core/log"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the summary generator on a cron schedule. The digest is
// logged; delivery beyond logging belongs to a collaborator.
type Scheduler struct {
	gen    *Generator
	logger log.Logger
	cron   *cron.Cron
}

// NewScheduler creates a stopped scheduler for the given generator.
func NewScheduler(gen *Generator, logger log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Nop()
	}
	return &Scheduler{
		gen:    gen,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start registers the daily summary job with a 5-field cron spec and
// begins the schedule.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(ctx) })
	if err != nil {
		return fmt.Errorf("schedule summary job: %w", err)
	}
	s.cron.Start()
	s.logger.Info(ctx, "daily summary job scheduled", "spec", spec)
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	<-s.cron.Stop().Done()
	s.logger.Info(ctx, "daily summary job stopped")
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	sum, err := s.gen.Generate(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "daily summary generation failed")
		return
	}
	s.logger.Info(ctx, "daily summary generated", "date", sum.Date, "total", sum.Stats.Total)
	s.logger.Info(ctx, FormatText(sum))
}
