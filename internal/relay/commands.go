package relay

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mailgram/internal/domain"
	"mailgram/internal/metrics"
	"mailgram/internal/render"
	"mailgram/internal/route"
)

// HandleUpdate processes one inbound webhook event. Two event classes are
// recognized: a provisioning command ("/start" prefix) and the dismiss
// callback. Anything else is accepted and performs no action. A non-nil
// error means the event could not be processed and the webhook should
// answer with a failure status.
func (r *Relay) HandleUpdate(ctx context.Context, upd tgbotapi.Update) error {
	switch {
	case upd.CallbackQuery != nil:
		return r.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.Chat != nil:
		return r.handleMessage(ctx, upd.Message)
	}
	return nil
}

func (r *Relay) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	metrics.WebhookEvents.Inc()

	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	text := msg.Text

	switch {
	case strings.HasPrefix(text, "/start"):
		if r.messenger == nil {
			return fmt.Errorf("provision: %w", domain.ErrNoCredential)
		}
		addr := route.Address(r.cfg.Localpart, chatID, r.cfg.Domain)
		welcome := fmt.Sprintf(
			"\U0001F44B Your disposable address is ready:\n\n<b>%s</b>\n\nAny mail sent to it will show up in this chat.",
			render.Escape(addr),
		)
		if err := r.messenger.SendText(ctx, chatID, welcome, false); err != nil {
			r.logger.Error("welcome send failed", "chat_id", chatID, "err", err)
		}
		r.logger.Info("address provisioned", "chat_id", chatID, "address", addr)

	case strings.HasPrefix(text, "/help"):
		if r.messenger == nil {
			return fmt.Errorf("help: %w", domain.ErrNoCredential)
		}
		help := "Send /start to get a disposable email address bound to this chat. Incoming mail is relayed here with a short summary; use the Dismiss button to remove a notification."
		if err := r.messenger.SendText(ctx, chatID, help, false); err != nil {
			r.logger.Error("help send failed", "chat_id", chatID, "err", err)
		}

	default:
		// Plain chatter and unknown commands are acknowledged silently.
		r.logger.Debug("unhandled message", "chat_id", chatID, "text_len", len(text))
	}
	return nil
}

func (r *Relay) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	metrics.WebhookEvents.Inc()

	if r.messenger == nil {
		return fmt.Errorf("callback: %w", domain.ErrNoCredential)
	}
	if cq.ID != "" {
		// Stop the client's loading spinner; outcome is not actionable.
		if err := r.messenger.AckCallback(ctx, cq.ID); err != nil {
			r.logger.Debug("callback ack failed", "err", err)
		}
	}

	if cq.Data != domain.DismissCallback || cq.Message == nil || cq.Message.Chat == nil {
		return nil
	}

	chatID := strconv.FormatInt(cq.Message.Chat.ID, 10)
	if err := r.messenger.DeleteMessage(ctx, chatID, cq.Message.MessageID); err != nil {
		r.logger.Error("dismiss delete failed",
			"chat_id", chatID,
			"message_id", cq.Message.MessageID,
			"err", err,
		)
	}
	return nil
}
