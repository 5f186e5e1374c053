package mailparse

import (
	"strings"
	"testing"
)

func crlf(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func TestParse_Multipart(t *testing.T) {
	raw := crlf(
		"From: Alice <alice@example.com>",
		"To: inbox+42@example.org",
		"Subject: Quarterly report",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="BOUNDARY"`,
		"",
		"--BOUNDARY",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Hello world",
		"--BOUNDARY",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="report.pdf"`,
		"",
		"%PDF-FAKE",
		"--BOUNDARY--",
		"",
	)

	email := Parse(raw)

	if email.Sender != "alice@example.com" {
		t.Errorf("sender = %q", email.Sender)
	}
	if email.Subject != "Quarterly report" {
		t.Errorf("subject = %q", email.Subject)
	}
	if !strings.Contains(email.TextBody, "Hello world") {
		t.Errorf("text body = %q", email.TextBody)
	}
	if len(email.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(email.Attachments))
	}
	att := email.Attachments[0]
	if att.Filename != "report.pdf" {
		t.Errorf("filename = %q", att.Filename)
	}
	if !strings.HasPrefix(att.MIMEType, "application/pdf") {
		t.Errorf("mime type = %q", att.MIMEType)
	}
	if !strings.Contains(string(att.Content), "%PDF-FAKE") {
		t.Errorf("content = %q", att.Content)
	}
}

func TestParse_HTMLOnly(t *testing.T) {
	raw := crlf(
		"From: bob@example.com",
		"Subject: hi",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>Hi there</p>",
		"",
	)

	email := Parse(raw)
	if email.TextBody != "" {
		t.Errorf("text body = %q, want empty", email.TextBody)
	}
	if !strings.Contains(email.HTMLBody, "<p>Hi there</p>") {
		t.Errorf("html body = %q", email.HTMLBody)
	}
}

func TestParse_MalformedFallsBackToRaw(t *testing.T) {
	raw := []byte("\x00\x01 this is not an email")
	email := Parse(raw)
	if email.TextBody != string(raw) {
		t.Errorf("malformed input must become the plain-text body, got %q", email.TextBody)
	}
}

func TestParse_AttachmentWithoutFilename(t *testing.T) {
	raw := crlf(
		"From: bob@example.com",
		"Subject: blob",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="B"`,
		"",
		"--B",
		"Content-Type: application/octet-stream",
		"Content-Disposition: attachment",
		"",
		"DATA",
		"--B--",
		"",
	)
	email := Parse(raw)
	if len(email.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(email.Attachments))
	}
	if got := email.Attachments[0].Name(); got != "attachment.bin" {
		t.Errorf("Name() = %q, want default", got)
	}
}
