package triage

import "strings"

// Scoring thresholds. These are tuned heuristics, not derived values;
// adjust with care and re-run the classifier tests.
var (
	urgentThreshold      = 1.5
	importantThreshold   = 1.2
	lowPriorityThreshold = 0.8
)

// Classifier assigns a priority category to an email based on the
// sender, subject and body. It is a pure function of its inputs plus the
// shared Config and is safe for concurrent use.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a classifier with the given shared configuration.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns exactly one category for the email. It never fails:
// a message that matches nothing, or that is missing fields, comes back
// Regular so classification can never block the pipeline.
func (c *Classifier) Classify(e *Email) Category {
	if e == nil {
		return CategoryRegular
	}

	// VIP senders short-circuit everything else.
	if c.cfg.VIPs.Match(e.From) {
		return CategoryUrgent
	}

	// An urgency keyword in the subject alone is decisive.
	if containsAny(strings.ToLower(e.Subject), c.cfg.Lexicons.Urgent) {
		return CategoryUrgent
	}

	text := content(e)

	urgent := scoreLexicon(text, c.cfg.Lexicons.Urgent)
	important := scoreLexicon(text, c.cfg.Lexicons.Important)
	low := scoreLexicon(text, c.cfg.Lexicons.LowPriority)

	switch {
	case urgent > urgentThreshold:
		return CategoryUrgent
	case important > importantThreshold:
		return CategoryImportant
	case low > lowPriorityThreshold:
		return CategoryLow
	default:
		return CategoryRegular
	}
}

// scoreLexicon sums per-keyword scores over the lowercased text.
func scoreLexicon(text string, keywords []string) float64 {
	var total float64
	for _, kw := range keywords {
		total += keywordScore(text, kw)
	}
	return total
}

// keywordScore combines three terms for one keyword: presence (1 if the
// keyword occurs at all), a frequency term rewarding repetition, and a
// position term rewarding keywords that appear early in the text.
func keywordScore(text, keyword string) float64 {
	idx := strings.Index(text, keyword)
	if idx < 0 {
		return 0
	}

	freq := float64(strings.Count(text, keyword))

	var position float64
	if len(text) > 0 {
		position = 1 - float64(idx)/float64(len(text))
		if position < 0 {
			position = 0
		}
	}

	return 1 + 0.5*freq + 0.5*position
}
