package triage

import (
	"regexp"
	"strings"
)

// signature is appended to every drafted reply.
const signature = "\n\nBest regards,\n[Your Name]"

// genericReply is the fallback body used when drafting cannot proceed.
const genericReply = "Thank you for your email. I'll review your message and get back to you soon."

// meetingTimeRe finds a month-name + day + year + time mention in a body,
// e.g. "March 15th, 2026 at 2:00 PM".
var meetingTimeRe = regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2}(?:st|nd|rd|th)?,? \d{4},? (?:at )?\d{1,2}(?::\d{2})? ?(?:am|pm|AM|PM)\b`)

// intentChecks is the ordered intent detection table; first match wins.
var intentChecks = []struct {
	intent   Intent
	keywords []string
}{
	{IntentMeetingRequest, []string{"meeting", "calendar", "schedule", "availability"}},
	{IntentInformationRequest, []string{"information", "details", "question", "inquiry", "how to", "could you provide"}},
	{IntentFollowUp, []string{"follow up", "following up", "checking in", "any updates", "status update"}},
	{IntentUrgent, []string{"urgent", "asap", "immediately", "emergency"}},
	{IntentImportant, []string{"important", "priority", "critical", "significant"}},
}

// templates holds three reply variants per intent. Variant selection is
// history-driven: senders with more prior correspondence get later, more
// familiar variants.
var templates = map[Intent][]string{
	IntentUrgent: {
		"I've received your urgent message and will address it immediately. I'll get back to you with a full response as soon as possible.",
		"Thank you for your urgent email. I'm looking into this matter right now and will respond shortly.",
		"I acknowledge receipt of your time-sensitive email. I'm prioritizing this and will respond very soon.",
	},
	IntentImportant: {
		"Thank you for your important email. I'll review this thoroughly and get back to you within [timeframe].",
		"I appreciate you bringing this important matter to my attention. I'll respond with my thoughts by [timeframe].",
		"Thank you for your email. This is important to me, and I'll make sure to address all your points in my response by [timeframe].",
	},
	IntentMeetingRequest: {
		"Thank you for the meeting invitation. I've checked my calendar and can confirm my availability for [meeting_time].",
		"I appreciate the meeting request. I'm available at the suggested time and have added it to my calendar.",
		"Thank you for organizing this meeting. I've reviewed my schedule and can attend as requested.",
	},
	IntentInformationRequest: {
		"Thank you for your inquiry. I'm gathering the information you requested and will provide a complete response by [timeframe].",
		"I've received your request for information. I'll compile everything you need and send it over by [timeframe].",
		"Thank you for reaching out. I'm working on collecting the details you requested and will share them with you soon.",
	},
	IntentFollowUp: {
		"Thank you for following up. I apologize for the delay in my response. Here's an update on the situation: [placeholder]",
		"I appreciate your follow-up. I'm still working on this matter and expect to have a resolution by [timeframe].",
		"Thank you for checking in. I haven't forgotten about this and am currently in the process of [placeholder].",
	},
	IntentGeneral: {
		"Thank you for your email. I'll review your message and respond appropriately by [timeframe].",
		"I appreciate you reaching out. I'll consider your message and get back to you soon.",
		"Thank you for your email. I'll look into this and respond within [timeframe].",
	},
}

// Drafter generates reply drafts from a message and the length of its
// prior correspondence history. It is pure and safe for concurrent use.
type Drafter struct {
	cfg Config
}

// NewDrafter creates a drafter with the given shared configuration.
func NewDrafter(cfg Config) *Drafter {
	return &Drafter{cfg: cfg}
}

// Draft produces a reply for the email. historyLen is the count of prior
// messages from the same sender and only modulates template choice.
// Draft never fails: any defect falls back to the generic reply.
func (d *Drafter) Draft(e *Email, historyLen int) *Draft {
	if e == nil {
		return FallbackDraft(&Email{})
	}

	intent := DetectIntent(e)
	template := selectTemplate(intent, historyLen)
	body := personalize(template, e)

	return &Draft{
		To:              e.From,
		Subject:         replySubject(e.Subject),
		Body:            body,
		Intent:          intent,
		OriginalEmailID: e.ID,
	}
}

// FallbackDraft is the greeting-less generic reply used when drafting
// cannot run at all, e.g. on malformed input.
func FallbackDraft(e *Email) *Draft {
	return &Draft{
		To:              e.From,
		Subject:         replySubject(e.Subject),
		Body:            genericReply,
		Intent:          IntentGeneral,
		OriginalEmailID: e.ID,
	}
}

// DetectIntent classifies the drafting-relevant purpose of the message
// via ordered keyword checks, first match wins.
func DetectIntent(e *Email) Intent {
	text := content(e)
	for _, check := range intentChecks {
		if containsAny(text, check.keywords) {
			return check.intent
		}
	}
	return IntentGeneral
}

// selectTemplate picks the variant for an intent, capped at the last
// available variant for long-running correspondents.
func selectTemplate(intent Intent, historyLen int) string {
	variants, ok := templates[intent]
	if !ok {
		variants = templates[IntentGeneral]
	}
	idx := historyLen
	if idx < 0 {
		idx = 0
	}
	if idx > len(variants)-1 {
		idx = len(variants) - 1
	}
	return variants[idx]
}

// personalize adds a greeting, fills placeholder tokens, and appends the
// signature block.
func personalize(template string, e *Email) string {
	body := "Hello " + senderFirstName(e.From) + ",\n\n" + template

	body = strings.Replace(body, "[timeframe]", timeframe(e), 1)
	body = strings.Replace(body, "[meeting_time]", meetingTime(e.Body), 1)
	body = strings.Replace(body, "[placeholder]", "addressing your request", 1)

	return body + signature
}

// senderFirstName extracts a first name from an address like
// "Ada Lovelace <ada@example.com>", defaulting to "there".
func senderFirstName(from string) string {
	display, _, _ := strings.Cut(from, "<")
	fields := strings.Fields(display)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

// timeframe resolves the [timeframe] placeholder from urgency mentions
// in the message.
func timeframe(e *Email) string {
	text := content(e)
	switch {
	case containsAny(text, []string{"urgent", "asap", "immediately", "today"}):
		return "the end of today"
	case containsAny(text, []string{"tomorrow", "next day"}):
		return "tomorrow"
	default:
		return "24-48 hours"
	}
}

// meetingTime resolves the [meeting_time] placeholder from the first
// date-and-time mention in the body.
func meetingTime(body string) string {
	if m := meetingTimeRe.FindString(body); m != "" {
		return m
	}
	return "the proposed time"
}

// replySubject prefixes "Re: " unless the subject already carries it.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}
