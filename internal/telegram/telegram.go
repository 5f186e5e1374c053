// Package telegram implements domain.Messenger over the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mailgram/internal/domain"
)

const statusTooLarge = 413

// Client is a thin Messenger over tgbotapi. Each call is a single attempt;
// retry policy belongs to the caller (the relay has none).
type Client struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

type Config struct {
	Token       string
	APIEndpoint string // override for self-hosted Bot API servers
	Logger      *slog.Logger
}

// New connects to the Bot API. An empty token is a configuration error.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, domain.ErrNoCredential
	}
	var (
		bot *tgbotapi.BotAPI
		err error
	)
	if cfg.APIEndpoint != "" {
		bot, err = tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, cfg.APIEndpoint)
	} else {
		bot, err = tgbotapi.NewBotAPI(cfg.Token)
	}
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	cfg.Logger.Info("telegram bot connected", "username", bot.Self.UserName, "id", bot.Self.ID)
	return &Client{bot: bot, logger: cfg.Logger}, nil
}

func (c *Client) SendText(ctx context.Context, chatID, html string, withDismiss bool) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(id, html)
	msg.ParseMode = tgbotapi.ModeHTML
	if withDismiss {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Dismiss", domain.DismissCallback),
			),
		)
	}
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

func (c *Client) SendDocument(ctx context.Context, chatID string, att domain.Attachment, caption string) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(id, tgbotapi.FileBytes{Name: att.Name(), Bytes: att.Content})
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML
	if _, err := c.bot.Send(doc); err != nil {
		if isTooLarge(err) {
			return fmt.Errorf("telegram sendDocument %q: %w", att.Name(), domain.ErrAttachmentTooLarge)
		}
		return fmt.Errorf("telegram sendDocument %q: %w", att.Name(), err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, chatID string, messageID int) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}
	if _, err := c.bot.Request(tgbotapi.NewDeleteMessage(id, messageID)); err != nil {
		return fmt.Errorf("telegram deleteMessage: %w", err)
	}
	return nil
}

func (c *Client) AckCallback(ctx context.Context, callbackID string) error {
	if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("telegram answerCallbackQuery: %w", err)
	}
	return nil
}

func parseChatID(chatID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat ID %q: %w", chatID, err)
	}
	return id, nil
}

// isTooLarge reports whether err is Telegram's payload-too-large rejection.
// A decoded API error is judged by its code alone; the string match only
// covers oversize rejections served before the Bot API produces JSON.
func isTooLarge(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == statusTooLarge
	}
	return strings.Contains(err.Error(), "Request Entity Too Large")
}
