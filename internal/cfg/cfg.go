// Package cfg holds sift's application-level configuration.
package cfg

import (
	"errors"
	"flag"
	"fmt"

	"github.com/robfig/cron/v3"
)

// summaryCronParser accepts standard 5-field cron expressions.
var summaryCronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Config adds sift-specific configuration fields to the common
// cfg.Registerable and cfg.Validatable interfaces.
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	APIToken              string
	VIPContacts           string
	DatabaseURL           string
	SlackWebhookURL       string
	SummaryCron           string
	DemoMode              bool
	IMAPAddr              string
	IMAPUser              string
	IMAPPassword          string
	IMAPMailbox           string
	IMAPPollSeconds       int
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.APIToken, "api-token", "", "static bearer token for the API (empty = auth disabled)")
	fs.StringVar(&c.VIPContacts, "vip-contacts", "", "comma-separated sender addresses always triaged as Urgent")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory store)")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for alert notifications")
	fs.StringVar(&c.SummaryCron, "summary-cron", "0 8 * * *", "5-field cron expression for the daily summary job")
	fs.BoolVar(&c.DemoMode, "demo-mode", true, "seed canned demo emails at startup instead of polling a mailbox")
	fs.StringVar(&c.IMAPAddr, "imap-addr", "", "IMAP server host:port (empty = no mailbox polling)")
	fs.StringVar(&c.IMAPUser, "imap-user", "", "IMAP account username")
	fs.StringVar(&c.IMAPPassword, "imap-password", "", "IMAP account password")
	fs.StringVar(&c.IMAPMailbox, "imap-mailbox", "INBOX", "IMAP mailbox to poll for unseen messages")
	fs.IntVar(&c.IMAPPollSeconds, "imap-poll-seconds", 60, "seconds between mailbox polls (1..3600)")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	if _, err := summaryCronParser.Parse(c.SummaryCron); err != nil {
		errs = append(errs, fmt.Errorf("invalid SUMMARY_CRON %q: %w", c.SummaryCron, err))
	}

	// Polling needs credentials; demo mode and polling are exclusive.
	if c.IMAPAddr != "" {
		if c.IMAPUser == "" || c.IMAPPassword == "" {
			errs = append(errs, errors.New("IMAP_ADDR set but IMAP_USER/IMAP_PASSWORD missing"))
		}
		if c.DemoMode {
			errs = append(errs, errors.New("DEMO_MODE and IMAP_ADDR are mutually exclusive"))
		}
	}
	if c.IMAPPollSeconds <= 0 || c.IMAPPollSeconds > 3600 {
		errs = append(errs, fmt.Errorf("invalid IMAP_POLL_SECONDS %d (must be 1..3600)", c.IMAPPollSeconds))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
