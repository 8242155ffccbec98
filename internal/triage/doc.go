// Package triage provides the business boundary for sift's email triage
// pipeline. It defines the Classifier, alert evaluation, the Organizer,
// the response Drafter, the Service that runs them per message, the Store
// interface (persistence), and the domain models.
package triage
