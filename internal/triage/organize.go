package triage

import (
	"strings"
	"time"
)

// archiveAfterDays is the age, in whole days (ceiling-rounded), beyond
// which a message is routed to the Archived folder.
const archiveAfterDays = 30

// defaultFollowUpDays is the deadline applied when a follow-up message
// names no timeframe of its own.
const defaultFollowUpDays = 3

// Mover receives simulated folder routing. The core never physically
// moves mail; a mail-store collaborator may implement this to do so.
type Mover interface {
	Move(e *Email, folder Folder)
}

// MoverFunc adapts a plain function to Mover.
type MoverFunc func(e *Email, folder Folder)

// Move implements Mover.
func (f MoverFunc) Move(e *Email, folder Folder) { f(e, folder) }

// dispositionRule is one (predicate, action) pair. Rules are kept in an
// explicit ordered slice so precedence is a visible contract; more than
// one rule may fire for the same message.
type dispositionRule struct {
	name      string
	condition func(o *Organizer, e *Email, now time.Time) bool
	action    func(o *Organizer, e *Email, now time.Time)
}

// rules is the fixed, ordered disposition rule set. Category rules are
// mutually exclusive; the follow-up and archival rules are independent
// of them and of each other.
var rules = []dispositionRule{
	{
		name:      "urgent emails",
		condition: func(_ *Organizer, e *Email, _ time.Time) bool { return e.Category == CategoryUrgent },
		action:    func(o *Organizer, e *Email, _ time.Time) { o.route(e, FolderUrgent) },
	},
	{
		name:      "important emails",
		condition: func(_ *Organizer, e *Email, _ time.Time) bool { return e.Category == CategoryImportant },
		action:    func(o *Organizer, e *Email, _ time.Time) { o.route(e, FolderImportant) },
	},
	{
		name:      "regular emails",
		condition: func(_ *Organizer, e *Email, _ time.Time) bool { return e.Category == CategoryRegular },
		action:    func(o *Organizer, e *Email, _ time.Time) { o.route(e, FolderRegular) },
	},
	{
		name:      "low priority emails",
		condition: func(_ *Organizer, e *Email, _ time.Time) bool { return e.Category == CategoryLow },
		action:    func(o *Organizer, e *Email, _ time.Time) { o.route(e, FolderLow) },
	},
	{
		name:      "follow-up needed",
		condition: func(o *Organizer, e *Email, _ time.Time) bool { return o.needsFollowUp(e) },
		action:    func(o *Organizer, e *Email, now time.Time) { o.flagForFollowUp(e, now) },
	},
	{
		name:      "old emails",
		condition: func(_ *Organizer, e *Email, now time.Time) bool { return isOld(e, now) },
		action:    func(o *Organizer, e *Email, _ time.Time) { o.route(e, FolderArchived) },
	},
}

// Organizer applies the fixed disposition rule set to categorized
// emails. It holds no mutable state and is safe for concurrent use.
type Organizer struct {
	cfg   Config
	mover Mover
}

// NewOrganizer creates an organizer. mover may be nil, in which case
// folder routing is recorded on the email only.
func NewOrganizer(cfg Config, mover Mover) *Organizer {
	return &Organizer{cfg: cfg, mover: mover}
}

// Organize evaluates every rule against a copy of the email, in order,
// and returns the augmented copy. Rule evaluation never aborts early: a
// message can land in several folders. A nil email is returned as nil
// rather than failing.
func (o *Organizer) Organize(e *Email, category Category, now time.Time) *Email {
	if e == nil {
		return nil
	}

	cp := *e
	cp.Category = category
	cp.Folders = nil

	for _, rule := range rules {
		if rule.condition(o, &cp, now) {
			rule.action(o, &cp, now)
		}
	}

	return &cp
}

func (o *Organizer) route(e *Email, folder Folder) {
	e.Folders = append(e.Folders, folder)
	if o.mover != nil {
		o.mover.Move(e, folder)
	}
}

func (o *Organizer) needsFollowUp(e *Email) bool {
	return containsAny(content(e), o.cfg.Lexicons.FollowUp)
}

func (o *Organizer) flagForFollowUp(e *Email, now time.Time) {
	e.FollowUp = true
	e.FollowUpDeadline = followUpDeadline(e, now)
	o.route(e, FolderFollowUp)
}

// followUpDeadline infers a deadline from timeframe mentions in the
// message, falling back to defaultFollowUpDays from now.
func followUpDeadline(e *Email, now time.Time) time.Time {
	text := content(e)

	switch {
	case strings.Contains(text, "tomorrow"):
		return now.AddDate(0, 0, 1)
	case strings.Contains(text, "next week"):
		return now.AddDate(0, 0, 7)
	case strings.Contains(text, "end of week"), strings.Contains(text, "this week"):
		return nextFriday(now)
	default:
		return now.AddDate(0, 0, defaultFollowUpDays)
	}
}

// nextFriday returns the next occurring Friday, counting today if it
// already is one.
func nextFriday(now time.Time) time.Time {
	offset := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	return now.AddDate(0, 0, offset)
}

// isOld reports whether the message age, ceiling-rounded to whole days,
// exceeds archiveAfterDays. Age is measured from now regardless of
// category.
func isOld(e *Email, now time.Time) bool {
	if e.Date.IsZero() {
		return false
	}
	age := now.Sub(e.Date)
	if age < 0 {
		age = -age
	}
	days := int64(age / (24 * time.Hour))
	if age%(24*time.Hour) != 0 {
		days++
	}
	return days > archiveAfterDays
}
