package server

import "mailgram/internal/domain"

func (e *ingestEmail) toDomain() *domain.Email {
	out := &domain.Email{
		Sender:   e.Sender,
		Subject:  e.Subject,
		TextBody: e.TextBody,
		HTMLBody: e.HTMLBody,
	}
	for _, a := range e.Attachments {
		out.Attachments = append(out.Attachments, domain.Attachment{
			Filename: a.Filename,
			MIMEType: a.MIMEType,
			Content:  a.Content,
		})
	}
	return out
}
