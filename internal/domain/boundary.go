package domain

import (
	"context"
	"errors"
)

// DismissCallback is the callback payload carried by the dismiss control
// attached to relayed notifications.
const DismissCallback = "dismiss"

// AttachmentLimitMB is the chat platform's ceiling for document uploads,
// named in the fallback notice sent when an upload is rejected for size.
const AttachmentLimitMB = 50

var (
	// ErrNoCredential indicates the messaging API credential is not
	// configured. Raised on the first processing attempt, not at startup.
	ErrNoCredential = errors.New("messaging credential is not configured")

	// ErrAttachmentTooLarge indicates the platform rejected an upload for
	// exceeding its size ceiling.
	ErrAttachmentTooLarge = errors.New("attachment exceeds the platform upload limit")
)

// Messenger is the outbound boundary to the chat platform. Implementations
// perform a single attempt per call; the relay never retries.
type Messenger interface {
	// SendText delivers an HTML-formatted message. When withDismiss is set,
	// a dismiss control is attached whose activation later deletes the
	// delivered message.
	SendText(ctx context.Context, chatID, html string, withDismiss bool) error

	// SendDocument uploads an attachment with an HTML caption. A rejection
	// for size is reported as an error wrapping ErrAttachmentTooLarge.
	SendDocument(ctx context.Context, chatID string, att Attachment, caption string) error

	// DeleteMessage removes a previously delivered message.
	DeleteMessage(ctx context.Context, chatID string, messageID int) error

	// AckCallback acknowledges a callback event so the client stops its
	// loading indicator. Failures are not actionable.
	AckCallback(ctx context.Context, callbackID string) error
}

// Summarizer produces a one-sentence summary of body text. It never fails:
// collaborator faults are absorbed into fixed fallback strings.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}
