package triage

import "strings"

// Lexicons are the fixed keyword sets driving classification, alerting
// and organization. All matching is case-insensitive substring matching,
// so entries must be lowercase.
type Lexicons struct {
	Urgent        []string
	Important     []string
	LowPriority   []string
	TimeSensitive []string
	Security      []string
	FollowUp      []string
}

// DefaultLexicons returns the standard keyword sets.
func DefaultLexicons() Lexicons {
	return Lexicons{
		Urgent: []string{
			"urgent", "immediately", "asap", "emergency", "critical",
			"deadline", "today", "now", "priority", "important",
			"action required", "time-sensitive", "urgent matter",
		},
		Important: []string{
			"important", "significant", "key", "essential", "vital",
			"required", "necessary", "attention", "review", "consider",
			"please respond", "feedback needed", "action item",
		},
		LowPriority: []string{
			"fyi", "for your information", "newsletter", "update", "bulletin",
			"announcement", "no action required", "no response needed", "no rush",
			"when you have time", "at your convenience", "promotional",
		},
		TimeSensitive: []string{
			"deadline", "due today", "due tomorrow", "by end of day",
			"urgent", "asap", "immediately", "time-sensitive",
			"expires", "closing soon", "last chance", "final notice",
		},
		Security: []string{
			"password", "security breach", "unauthorized", "suspicious",
			"hack", "compromised", "phishing", "fraud", "scam",
			"urgent security", "account access", "verify your account",
		},
		FollowUp: []string{
			"follow up", "get back to me", "let me know",
			"waiting for your response", "need your input",
			"please respond", "your thoughts", "feedback",
			"by tomorrow", "by next week", "deadline",
		},
	}
}

// VIPList is the configured set of sender addresses always treated as
// highest priority. Entries are stored lowercase.
type VIPList []string

// ParseVIPList splits a comma-separated address list, trimming and
// lowercasing entries. Empty input yields an empty list.
func ParseVIPList(s string) VIPList {
	var vips VIPList
	for _, entry := range strings.Split(s, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			vips = append(vips, entry)
		}
	}
	return vips
}

// Match reports whether the sender address contains any VIP entry,
// case-insensitively. An empty list never matches.
func (v VIPList) Match(from string) bool {
	from = strings.ToLower(from)
	for _, vip := range v {
		if strings.Contains(from, vip) {
			return true
		}
	}
	return false
}

// Config is the immutable, shared configuration threaded into every
// pipeline component. Load it once at startup and never mutate it.
type Config struct {
	VIPs     VIPList
	Lexicons Lexicons
}

// NewConfig builds a pipeline Config from a comma-separated VIP address
// list and the default lexicons.
func NewConfig(vipContacts string) Config {
	return Config{
		VIPs:     ParseVIPList(vipContacts),
		Lexicons: DefaultLexicons(),
	}
}

// content returns the lowercased subject+body concatenation used for
// keyword analysis.
func content(e *Email) string {
	return strings.ToLower(e.Subject + " " + e.Body)
}

// containsAny reports whether s contains any of the given keywords.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
