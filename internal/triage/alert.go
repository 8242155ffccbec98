package triage

import (
	"fmt"
	"regexp"
	"strings"
)

// urlRe matches URL-like tokens when scanning for suspicious link volume.
var urlRe = regexp.MustCompile(`https?://\S+`)

// maxBenignLinks is the number of URL-like tokens a body may carry
// before it counts as a suspicious-link signal.
const maxBenignLinks = 3

// Evaluator decides whether a categorized email warrants an alert and of
// which kind. Like the Classifier it is pure and safe for concurrent use.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an alert evaluator with the given shared configuration.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate returns at most one alert kind for the email. Precedence is
// fixed, first match wins: Urgent > VIP > TimeSensitive > Security.
// Calling it twice with the same inputs yields the same answer; a
// message that trips no rule yields ok=false, never an error.
func (ev *Evaluator) Evaluate(e *Email, category Category) (AlertKind, bool) {
	if e == nil {
		return "", false
	}

	if category == CategoryUrgent {
		return AlertUrgent, true
	}

	if ev.cfg.VIPs.Match(e.From) {
		return AlertVIP, true
	}

	if containsAny(content(e), ev.cfg.Lexicons.TimeSensitive) {
		return AlertTimeSensitive, true
	}

	if ev.isSecurityThreat(e) {
		return AlertSecurity, true
	}

	return "", false
}

// isSecurityThreat requires a security-lexicon hit plus at least one
// delivery signal: a call-to-action phrase, an unusually link-heavy
// body, or a sender address that does not look like a person.
func (ev *Evaluator) isSecurityThreat(e *Email) bool {
	if !containsAny(content(e), ev.cfg.Lexicons.Security) {
		return false
	}

	body := strings.ToLower(e.Body)
	if strings.Contains(body, "click here") {
		return true
	}
	if len(urlRe.FindAllString(e.Body, -1)) > maxBenignLinks {
		return true
	}

	from := strings.ToLower(e.From)
	return !strings.Contains(from, "@") ||
		strings.Contains(from, "no-reply") ||
		strings.Contains(from, "noreply") ||
		strings.Contains(from, "notification")
}

// RenderAlert produces the fixed notification text for an alert kind.
func RenderAlert(e *Email, kind AlertKind) string {
	switch kind {
	case AlertUrgent:
		return fmt.Sprintf("URGENT email from %s: %q", e.From, e.Subject)
	case AlertVIP:
		return fmt.Sprintf("VIP contact %s sent: %q", e.From, e.Subject)
	case AlertTimeSensitive:
		return fmt.Sprintf("Time-sensitive email from %s: %q", e.From, e.Subject)
	case AlertSecurity:
		return fmt.Sprintf("SECURITY ALERT: Potential threat in email from %s: %q", e.From, e.Subject)
	default:
		return fmt.Sprintf("Alert for email from %s: %q", e.From, e.Subject)
	}
}
