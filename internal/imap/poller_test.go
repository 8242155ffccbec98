package imap

import (
	"strings"
	"testing"

	"github.com/emersion/go-imap"
)

func TestReadBodyPlainText(t *testing.T) {
	t.Parallel()

	raw := "From: Alice <alice@example.com>\r\n" +
		"To: bob@example.com\r\n" +
		"Subject: hello\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Just checking in.\r\n"

	body, atts, err := readBody(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("readBody() error = %v", err)
	}
	if !strings.Contains(body, "Just checking in.") {
		t.Errorf("body = %q, want it to contain %q", body, "Just checking in.")
	}
	if len(atts) != 0 {
		t.Errorf("attachments = %v, want none", atts)
	}
}

func TestReadBodyMultipartWithAttachment(t *testing.T) {
	t.Parallel()

	raw := "From: alice@example.com\r\n" +
		"To: bob@example.com\r\n" +
		"Subject: report\r\n" +
		"Content-Type: multipart/mixed; boundary=BOUNDARY\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Report attached.\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: application/pdf\r\n" +
		"Content-Disposition: attachment; filename=\"q3.pdf\"\r\n" +
		"\r\n" +
		"%PDF-fake\r\n" +
		"--BOUNDARY--\r\n"

	body, atts, err := readBody(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("readBody() error = %v", err)
	}
	if !strings.Contains(body, "Report attached.") {
		t.Errorf("body = %q, want it to contain %q", body, "Report attached.")
	}
	if len(atts) != 1 || atts[0] != "q3.pdf" {
		t.Errorf("attachments = %v, want [q3.pdf]", atts)
	}
}

func TestFormatAddresses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		addrs []*imap.Address
		want  string
	}{
		{"empty", nil, ""},
		{
			"bare",
			[]*imap.Address{{MailboxName: "boss", HostName: "company.com"}},
			"boss@company.com",
		},
		{
			"with display name",
			[]*imap.Address{{PersonalName: "The Boss", MailboxName: "boss", HostName: "company.com"}},
			"The Boss <boss@company.com>",
		},
		{
			"first of several",
			[]*imap.Address{
				{MailboxName: "a", HostName: "x.com"},
				{MailboxName: "b", HostName: "y.com"},
			},
			"a@x.com",
		},
	}
	for _, tt := range tests {
		if got := formatAddresses(tt.addrs); got != tt.want {
			t.Errorf("%s: formatAddresses() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
