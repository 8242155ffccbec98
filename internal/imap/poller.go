// Package imap polls a mailbox for unseen messages and feeds them to the
// triage pipeline. The pipeline makes no assumption about arrival
// cadence, and poller failures only log: a broken mailbox connection
// never takes triage down with it.
package imap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/sift/internal/triage"
)

// Processor consumes fetched messages, one at a time.
type Processor interface {
	Process(ctx context.Context, e *triage.Email) *triage.Outcome
}

// Options configures the poller.
type Options struct {
	Addr     string // host:port, TLS
	Username string
	Password string
	Mailbox  string // defaults to INBOX
	Interval time.Duration
}

// Poller periodically fetches unseen messages over IMAP.
type Poller struct {
	opts   Options
	proc   Processor
	logger log.Logger
}

// NewPoller creates a stopped poller.
func NewPoller(opts Options, proc Processor, logger log.Logger) *Poller {
	if opts.Mailbox == "" {
		opts.Mailbox = "INBOX"
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Poller{opts: opts, proc: proc, logger: logger}
}

// Run polls until the context is cancelled. Each cycle dials a fresh
// connection; per-cycle errors are logged and the next tick retries.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info(ctx, "mailbox poller started",
		"addr", p.opts.Addr, "mailbox", p.opts.Mailbox, "interval", p.opts.Interval.String())

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		if n, err := p.poll(ctx); err != nil {
			p.logger.Error(ctx, err, "mailbox poll failed")
		} else if n > 0 {
			p.logger.Info(ctx, "processed new messages", "count", n)
		}

		select {
		case <-ctx.Done():
			p.logger.Info(ctx, "mailbox poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// poll fetches and triages all currently unseen messages.
func (p *Poller) poll(ctx context.Context) (int, error) {
	c, err := client.DialTLS(p.opts.Addr, nil)
	if err != nil {
		return 0, fmt.Errorf("dial %s: %w", p.opts.Addr, err)
	}
	defer func() { _ = c.Logout() }()

	if err := c.Login(p.opts.Username, p.opts.Password); err != nil {
		return 0, fmt.Errorf("login: %w", err)
	}

	if _, err := c.Select(p.opts.Mailbox, false); err != nil {
		return 0, fmt.Errorf("select %s: %w", p.opts.Mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return 0, fmt.Errorf("search unseen: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope, imap.FetchUid}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var processed int
	for msg := range messages {
		e, err := parseMessage(msg, section)
		if err != nil {
			p.logger.Error(ctx, err, "failed to parse message, skipping")
			continue
		}
		p.proc.Process(ctx, e)
		processed++
	}

	if err := <-done; err != nil {
		return processed, fmt.Errorf("fetch: %w", err)
	}
	return processed, nil
}

// parseMessage converts one fetched IMAP message into a triage email.
func parseMessage(msg *imap.Message, section *imap.BodySectionName) (*triage.Email, error) {
	env := msg.Envelope
	if env == nil {
		return nil, fmt.Errorf("message %d has no envelope", msg.SeqNum)
	}

	e := &triage.Email{
		ID:      env.MessageId,
		Subject: env.Subject,
		Date:    env.Date,
		From:    formatAddresses(env.From),
		To:      formatAddresses(env.To),
	}

	if r := msg.GetBody(section); r != nil {
		body, names, err := readBody(r)
		if err != nil {
			return nil, err
		}
		e.Body = body
		for _, name := range names {
			e.Attachments = append(e.Attachments, triage.Attachment{Name: name})
		}
	}

	return e, nil
}

func formatAddresses(addrs []*imap.Address) string {
	if len(addrs) == 0 {
		return ""
	}
	a := addrs[0]
	addr := a.MailboxName + "@" + a.HostName
	if a.PersonalName != "" {
		return a.PersonalName + " <" + addr + ">"
	}
	return addr
}

// readBody extracts the first text part as the body and collects
// attachment filenames. Non-text inline parts are ignored.
func readBody(r io.Reader) (string, []string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("read message: %w", err)
	}

	var body string
	var atts []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("read part: %w", err)
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			if body == "" {
				b, err := io.ReadAll(part.Body)
				if err != nil {
					return "", nil, fmt.Errorf("read body: %w", err)
				}
				body = string(b)
			}
		case *mail.AttachmentHeader:
			name, err := h.Filename()
			if err == nil && name != "" {
				atts = append(atts, name)
			}
		}
	}
	return body, atts, nil
}
