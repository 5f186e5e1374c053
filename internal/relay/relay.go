// Package relay wires the email-to-notification pipeline: resolve the
// routing token from the recipient address, normalize the body, summarize,
// format, and dispatch text plus attachments to the destination chat.
//
// Each inbound event is processed start-to-finish against event-local data
// only; the relay keeps no state across events.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"mailgram/internal/domain"
	"mailgram/internal/mailparse"
	"mailgram/internal/metrics"
	"mailgram/internal/render"
	"mailgram/internal/route"
)

type Config struct {
	Localpart    string // local part of issued addresses
	Domain       string // domain of issued addresses
	SnippetChars int    // snippet cap, defaults to render.SnippetMaxChars
}

type Relay struct {
	cfg        Config
	messenger  domain.Messenger
	summarizer domain.Summarizer
	logger     *slog.Logger
}

// New builds a relay. messenger may be nil when the credential is absent;
// processing then fails per event with domain.ErrNoCredential.
func New(cfg Config, messenger domain.Messenger, summarizer domain.Summarizer, logger *slog.Logger) *Relay {
	if cfg.Localpart == "" {
		cfg.Localpart = "inbox"
	}
	if cfg.SnippetChars <= 0 {
		cfg.SnippetChars = render.SnippetMaxChars
	}
	return &Relay{cfg: cfg, messenger: messenger, summarizer: summarizer, logger: logger}
}

// Ingest parses a raw message and relays it.
func (r *Relay) Ingest(ctx context.Context, recipient string, raw []byte) error {
	return r.Process(ctx, recipient, mailparse.Parse(raw))
}

// Process relays one parsed email addressed to recipient. A recipient
// without a routing token drops the email silently (log only). The text
// notification is always attempted first and exactly once; attachment
// sends follow sequentially regardless of the text send's outcome.
func (r *Relay) Process(ctx context.Context, recipient string, email *domain.Email) error {
	if r.messenger == nil {
		return fmt.Errorf("relay: %w", domain.ErrNoCredential)
	}
	metrics.EmailsReceived.Inc()

	token, ok := route.Token(recipient)
	if !ok {
		metrics.EmailsDropped.Inc()
		r.logger.Info("recipient carries no routing token, dropping",
			"recipient", recipient,
			"sender", email.Sender,
		)
		return nil
	}

	log := r.logger.With("delivery_id", uuid.NewString(), "token", token)

	body := render.Normalize(email.TextBody, email.HTMLBody)
	note := render.Notification{
		Sender:          email.Sender,
		Recipient:       recipient,
		Subject:         email.Subject,
		AttachmentCount: len(email.Attachments),
		Summary:         r.summarizer.Summarize(ctx, body),
		Snippet:         render.Snippet(body, r.cfg.SnippetChars),
	}

	if err := r.messenger.SendText(ctx, token, note.HTML(), true); err != nil {
		metrics.SendFailures.Inc()
		log.Error("notification send failed", "err", err)
	}

	for i, att := range email.Attachments {
		r.sendAttachment(ctx, log, token, i, att)
	}

	metrics.EmailsRelayed.Inc()
	log.Info("email relayed", "attachments", len(email.Attachments), "body_len", len(body))
	return nil
}

// sendAttachment uploads one attachment. A size-limit rejection produces a
// user-visible fallback notice; any other failure is logged only. Failures
// never stop the remaining attachments.
func (r *Relay) sendAttachment(ctx context.Context, log *slog.Logger, token string, idx int, att domain.Attachment) {
	caption := render.Caption(att.Name(), att.SizeKB())
	err := r.messenger.SendDocument(ctx, token, att, caption)
	if err == nil {
		return
	}
	metrics.SendFailures.Inc()

	if errors.Is(err, domain.ErrAttachmentTooLarge) {
		log.Warn("attachment rejected for size", "file", att.Name(), "index", idx)
		notice := fmt.Sprintf(
			"⚠️ Attachment <b>%s</b> was not delivered: it exceeds Telegram's %d MB upload limit.",
			render.Escape(att.Name()), domain.AttachmentLimitMB,
		)
		if err := r.messenger.SendText(ctx, token, notice, false); err != nil {
			metrics.SendFailures.Inc()
			log.Error("size-limit notice send failed", "file", att.Name(), "err", err)
		}
		return
	}

	log.Error("attachment send failed", "file", att.Name(), "index", idx, "err", err)
}
