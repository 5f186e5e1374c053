package render

import (
	"fmt"
	"strings"
)

const (
	fallbackSubject = "No Subject"
	fallbackSnippet = "No readable text content."
)

// Notification carries the display fields of one relayed email. All fields
// are raw text; HTML escaping happens inside HTML(), once per field.
type Notification struct {
	Sender          string
	Recipient       string
	Subject         string
	AttachmentCount int
	Summary         string
	Snippet         string
}

// HTML renders the notification body: header, metadata block, summary
// block, message block. It is deterministic and cannot fail; upstream
// fallbacks guarantee non-empty summary, and empty subject or snippet get
// fixed placeholders here.
func (n Notification) HTML() string {
	subject := n.Subject
	if subject == "" {
		subject = fallbackSubject
	}
	snippet := n.Snippet
	if snippet == "" {
		snippet = fallbackSnippet
	}

	var b strings.Builder
	b.WriteString("\U0001F4EC <b>New Mail Received</b>\n\n")
	fmt.Fprintf(&b, "<b>From:</b> %s\n", Escape(n.Sender))
	fmt.Fprintf(&b, "<b>To:</b> %s\n", Escape(strings.ToLower(n.Recipient)))
	fmt.Fprintf(&b, "<b>Subject:</b> %s\n", Escape(subject))
	fmt.Fprintf(&b, "<b>Attachments:</b> %d\n\n", n.AttachmentCount)
	fmt.Fprintf(&b, "<b>Summary:</b>\n<i>%s</i>\n\n", Escape(n.Summary))
	fmt.Fprintf(&b, "<b>Message:</b>\n%s", Escape(snippet))
	return b.String()
}

// Caption renders the file-transfer caption: name and size in kilobytes
// with two-decimal precision, escaped for HTML parse mode.
func Caption(name string, sizeKB float64) string {
	return fmt.Sprintf("%s (%.2f KB)", Escape(name), sizeKB)
}
