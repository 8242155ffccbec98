// Package demo seeds the triage pipeline with a fixed set of sample
// emails so the service has something to show without a mailbox hooked
// up. Intended for local runs and demos only.
package demo

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/sift/internal/triage"
)

// Processor runs one email through the full pipeline.
type Processor interface {
	Process(ctx context.Context, e *triage.Email) *triage.Outcome
}

// Emails returns the demo messages, oldest first so sender history
// accumulates the way it would with real traffic. Timestamps are
// relative to now.
func Emails(now time.Time) []*triage.Email {
	return []*triage.Email{
		{
			ID:      "demo-10",
			Subject: "Office supplies order confirmation",
			From:    "supplies@vendor.com",
			To:      "you@example.com",
			Date:    now.Add(-10 * time.Hour),
			Body:    "This is a confirmation of your recent office supplies order. Your order will be delivered within 3-5 business days.",
		},
		{
			ID:      "demo-9",
			Subject: "New product launch timeline",
			From:    "product@company.com",
			To:      "you@example.com",
			Date:    now.Add(-9 * time.Hour),
			Body:    "Here's the updated timeline for our new product launch. Please review and provide your feedback by tomorrow.",
		},
		{
			ID:      "demo-8",
			Subject: "Team lunch next Friday",
			From:    "hr@company.com",
			To:      "you@example.com",
			Date:    now.Add(-8 * time.Hour),
			Body:    "We're organizing a team lunch next Friday at 12:30 PM. Please let me know if you can join us.",
		},
		{
			ID:      "demo-7",
			Subject: "Question about the API documentation",
			From:    "developer@partner.com",
			To:      "you@example.com",
			Date:    now.Add(-7 * time.Hour),
			Body:    "I'm trying to integrate with your API but I'm having trouble understanding the authentication flow. Could you provide some clarification?",
		},
		{
			ID:      "demo-6",
			Subject: "Your account security alert",
			From:    "security@service.com",
			To:      "you@example.com",
			Date:    now.Add(-6 * time.Hour),
			Body:    "We detected a suspicious login attempt to your account. Please verify your account security by clicking here.",
		},
		{
			ID:      "demo-5",
			Subject: "Follow up on previous discussion",
			From:    "colleague@company.com",
			To:      "you@example.com",
			Date:    now.Add(-5 * time.Hour),
			Body:    "I wanted to follow up on our conversation from last week. Have you had a chance to look into those issues we discussed?",
		},
		{
			ID:      "demo-4",
			Subject: "Weekly newsletter",
			From:    "news@industry.com",
			To:      "you@example.com",
			Date:    now.Add(-4 * time.Hour),
			Body:    "Here are this week's top industry news and updates. No action required.",
		},
		{
			ID:      "demo-3",
			Subject: "Important client feedback",
			From:    "client@important.com",
			To:      "you@example.com",
			Date:    now.Add(-3 * time.Hour),
			Body:    "We reviewed the latest deliverables and have some important feedback to share. Could we schedule a call tomorrow?",
		},
		{
			ID:      "demo-2",
			Subject: "Meeting invitation: Quarterly review",
			From:    "manager@company.com",
			To:      "you@example.com",
			Date:    now.Add(-2 * time.Hour),
			Body:    "I would like to schedule a quarterly review meeting on March 15th at 2:00 PM. Please confirm your availability.",
		},
		{
			ID:      "demo-1",
			Subject: "URGENT: Project deadline moved up",
			From:    "boss@company.com",
			To:      "you@example.com",
			Date:    now.Add(-1 * time.Hour),
			Body:    "We need to deliver the project by tomorrow. Please update me on your progress ASAP.",
		},
	}
}

// Seed runs every demo email through the pipeline.
func Seed(ctx context.Context, proc Processor, logger log.Logger) {
	if logger == nil {
		logger = log.Nop()
	}
	emails := Emails(time.Now())
	for _, e := range emails {
		proc.Process(ctx, e)
	}
	logger.Info(ctx, "demo data loaded", "emails", len(emails))
}
