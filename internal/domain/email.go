package domain

// Email is the parsed form of one inbound message, produced by the MIME
// parsing boundary and never mutated afterwards. At most one of TextBody
// and HTMLBody is expected to be populated.
type Email struct {
	Sender      string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Attachment is a single file carried by an Email. Content is consumed
// read-only by the dispatcher.
type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

// DefaultAttachmentName is used when an attachment carries no filename.
const DefaultAttachmentName = "attachment.bin"

// Name returns the declared filename, or DefaultAttachmentName.
func (a Attachment) Name() string {
	if a.Filename == "" {
		return DefaultAttachmentName
	}
	return a.Filename
}

// SizeKB returns the attachment size in kilobytes.
func (a Attachment) SizeKB() float64 {
	return float64(len(a.Content)) / 1024.0
}
