// Package mailparse decodes raw RFC 822 messages into domain.Email values
// using go-message. It is the relay's MIME boundary: downstream code never
// touches raw message bytes.
package mailparse

import (
	"bytes"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"

	"mailgram/internal/domain"
)

// Parse decodes a raw message. It does not fail: when the MIME structure
// cannot be read, the whole payload is treated as a plain-text body so the
// relay still has something to deliver.
func Parse(raw []byte) *domain.Email {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return &domain.Email{TextBody: string(raw)}
	}
	defer mr.Close()

	email := &domain.Email{}
	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		email.Sender = addrs[0].Address
	}
	if subject, err := mr.Header.Subject(); err == nil {
		email.Subject = subject
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			switch {
			case strings.HasPrefix(contentType, "text/plain"):
				email.TextBody = string(body)
			case strings.HasPrefix(contentType, "text/html"):
				email.HTMLBody = string(body)
			}

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			email.Attachments = append(email.Attachments, domain.Attachment{
				Filename: filename,
				MIMEType: contentType,
				Content:  body,
			})
		}
	}

	return email
}
