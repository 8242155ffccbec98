package triage

import "time"

// Category is the priority assigned to an email. Exactly one per message.
type Category string

const (
	CategoryUrgent    Category = "Urgent"
	CategoryImportant Category = "Important"
	CategoryRegular   Category = "Regular"
	CategoryLow       Category = "Low Priority"
)

// severityRank orders categories from most to least severe.
func severityRank(c Category) int {
	switch c {
	case CategoryUrgent:
		return 0
	case CategoryImportant:
		return 1
	case CategoryRegular:
		return 2
	case CategoryLow:
		return 3
	default:
		return 4
	}
}

// MoreSevere reports whether c outranks other.
func (c Category) MoreSevere(other Category) bool {
	return severityRank(c) < severityRank(other)
}

// AlertKind is the single reason (if any) a message warrants an
// out-of-band notification.
type AlertKind string

const (
	AlertUrgent        AlertKind = "URGENT"
	AlertVIP           AlertKind = "VIP"
	AlertTimeSensitive AlertKind = "TIME_SENSITIVE"
	AlertSecurity      AlertKind = "SECURITY"
)

// Intent is the drafting-relevant purpose of a message, independent of
// its priority category.
type Intent string

const (
	IntentMeetingRequest     Intent = "MEETING_REQUEST"
	IntentInformationRequest Intent = "INFORMATION_REQUEST"
	IntentFollowUp           Intent = "FOLLOW_UP"
	IntentUrgent             Intent = "URGENT"
	IntentImportant          Intent = "IMPORTANT"
	IntentGeneral            Intent = "GENERAL"
)

// Folder is a simulated mailbox destination.
type Folder string

const (
	FolderUrgent    Folder = "Urgent"
	FolderImportant Folder = "Important"
	FolderRegular   Folder = "Regular"
	FolderLow       Folder = "Low Priority"
	FolderFollowUp  Folder = "Follow Up"
	FolderArchived  Folder = "Archived"
)

// Attachment describes a file attached to an email. The pipeline never
// inspects attachment contents.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size,omitempty"`
}

// Email is the unit of work. The pipeline never mutates ID, From, To,
// Subject, Body or Date; it attaches Category and follow-up fields.
type Email struct {
	ID          string       `json:"id"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Date        time.Time    `json:"date"`
	Attachments []Attachment `json:"attachments,omitempty"`

	// Derived by the pipeline.
	Category         Category  `json:"category,omitempty"`
	Folders          []Folder  `json:"folders,omitempty"`
	FollowUp         bool      `json:"follow_up,omitempty"`
	FollowUpDeadline time.Time `json:"follow_up_deadline,omitzero"`
	ProcessedAt      time.Time `json:"processed_at,omitzero"`
}

// Alert records a fired notification for one email.
type Alert struct {
	ID        string    `json:"id"`
	EmailID   string    `json:"email_id"`
	Kind      AlertKind `json:"kind"`
	Message   string    `json:"message"`
	From      string    `json:"from"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is a generated reply. It is handed to the Store; sending is out
// of scope.
type Draft struct {
	ID              string    `json:"id"`
	To              string    `json:"to"`
	Subject         string    `json:"subject"`
	Body            string    `json:"body"`
	Intent          Intent    `json:"intent"`
	OriginalEmailID string    `json:"original_email_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// Outcome is the result of one pipeline pass over one email.
type Outcome struct {
	Email *Email `json:"email"`
	Alert *Alert `json:"alert,omitempty"`
	Draft *Draft `json:"draft,omitempty"`
}
