package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mailgram/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// botCall records one Bot API request.
type botCall struct {
	method   string
	values   map[string]string
	fileName string
	fileSize int
}

type fakeBotAPI struct {
	calls    []botCall
	failWith int    // Telegram error_code to return, 0 = success
	failDesc string // description carried by the failure response
}

func (f *fakeBotAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		method := parts[len(parts)-1]

		call := botCall{method: method, values: map[string]string{}}
		if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "multipart/") {
			_ = r.ParseMultipartForm(64 << 20)
			for k, v := range r.MultipartForm.Value {
				if len(v) > 0 {
					call.values[k] = v[0]
				}
			}
			if file, header, err := r.FormFile("document"); err == nil {
				data, _ := io.ReadAll(file)
				file.Close()
				call.fileName = header.Filename
				call.fileSize = len(data)
			}
		} else {
			_ = r.ParseForm()
			for k, v := range r.PostForm {
				if len(v) > 0 {
					call.values[k] = v[0]
				}
			}
		}
		f.calls = append(f.calls, call)

		w.Header().Set("Content-Type", "application/json")
		if f.failWith != 0 {
			json.NewEncoder(w).Encode(map[string]any{
				"ok":          false,
				"error_code":  f.failWith,
				"description": f.failDesc,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": json.RawMessage(`{"message_id":10,"date":0,"chat":{"id":42,"type":"private"}}`),
		})
	}
}

func newTestClient(t *testing.T, f *fakeBotAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	bot := &tgbotapi.BotAPI{Token: "TEST", Client: srv.Client(), Buffer: 100}
	bot.SetAPIEndpoint(srv.URL + "/bot%s/%s")
	return &Client{bot: bot, logger: testLogger()}
}

func TestNew_MissingToken(t *testing.T) {
	_, err := New(Config{Logger: testLogger()})
	if !errors.Is(err, domain.ErrNoCredential) {
		t.Errorf("err = %v, want ErrNoCredential", err)
	}
}

func TestSendText_WithDismiss(t *testing.T) {
	f := &fakeBotAPI{}
	c := newTestClient(t, f)

	if err := c.SendText(context.Background(), "42", "<b>hi</b>", true); err != nil {
		t.Fatal(err)
	}
	if len(f.calls) != 1 || f.calls[0].method != "sendMessage" {
		t.Fatalf("calls = %+v", f.calls)
	}
	v := f.calls[0].values
	if v["chat_id"] != "42" {
		t.Errorf("chat_id = %q", v["chat_id"])
	}
	if v["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %q", v["parse_mode"])
	}
	if !strings.Contains(v["reply_markup"], `"dismiss"`) {
		t.Errorf("reply_markup = %q, want dismiss control", v["reply_markup"])
	}
}

func TestSendText_WithoutDismiss(t *testing.T) {
	f := &fakeBotAPI{}
	c := newTestClient(t, f)

	if err := c.SendText(context.Background(), "7", "welcome", false); err != nil {
		t.Fatal(err)
	}
	if markup := f.calls[0].values["reply_markup"]; strings.Contains(markup, "dismiss") {
		t.Errorf("unexpected dismiss control: %q", markup)
	}
}

func TestSendText_InvalidChatID(t *testing.T) {
	c := newTestClient(t, &fakeBotAPI{})
	if err := c.SendText(context.Background(), "not-a-number", "x", false); err == nil {
		t.Error("expected error for non-numeric chat ID")
	}
}

func TestSendDocument(t *testing.T) {
	f := &fakeBotAPI{}
	c := newTestClient(t, f)

	att := domain.Attachment{Filename: "report.pdf", MIMEType: "application/pdf", Content: []byte("%PDF")}
	if err := c.SendDocument(context.Background(), "42", att, "report.pdf (0.00 KB)"); err != nil {
		t.Fatal(err)
	}

	call := f.calls[0]
	if call.method != "sendDocument" {
		t.Fatalf("method = %q", call.method)
	}
	if call.fileName != "report.pdf" {
		t.Errorf("file name = %q", call.fileName)
	}
	if call.fileSize != 4 {
		t.Errorf("file size = %d", call.fileSize)
	}
	if call.values["caption"] != "report.pdf (0.00 KB)" {
		t.Errorf("caption = %q", call.values["caption"])
	}
	if call.values["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %q", call.values["parse_mode"])
	}
}

func TestSendDocument_DefaultName(t *testing.T) {
	f := &fakeBotAPI{}
	c := newTestClient(t, f)

	att := domain.Attachment{Content: []byte("x")}
	if err := c.SendDocument(context.Background(), "42", att, "caption"); err != nil {
		t.Fatal(err)
	}
	if f.calls[0].fileName != domain.DefaultAttachmentName {
		t.Errorf("file name = %q", f.calls[0].fileName)
	}
}

func TestSendDocument_TooLarge(t *testing.T) {
	f := &fakeBotAPI{failWith: 413, failDesc: "Request Entity Too Large"}
	c := newTestClient(t, f)

	att := domain.Attachment{Filename: "big.iso", Content: []byte("xxxx")}
	err := c.SendDocument(context.Background(), "42", att, "caption")
	if !errors.Is(err, domain.ErrAttachmentTooLarge) {
		t.Errorf("err = %v, want ErrAttachmentTooLarge", err)
	}
}

func TestSendDocument_OtherFailure(t *testing.T) {
	f := &fakeBotAPI{failWith: 400, failDesc: "Bad Request: wrong file identifier"}
	c := newTestClient(t, f)

	err := c.SendDocument(context.Background(), "42", domain.Attachment{Filename: "a", Content: []byte("x")}, "c")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrAttachmentTooLarge) {
		t.Error("a 400 must not classify as too large")
	}
}

func TestSendDocument_CodeDecidesTooLarge(t *testing.T) {
	// A decoded API error is classified by code; the description alone
	// must not promote it to a size-limit rejection.
	f := &fakeBotAPI{failWith: 400, failDesc: "Request Entity Too Large"}
	c := newTestClient(t, f)

	err := c.SendDocument(context.Background(), "42", domain.Attachment{Filename: "a", Content: []byte("x")}, "c")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrAttachmentTooLarge) {
		t.Error("non-413 error classified as too large")
	}
}

func TestDeleteMessage(t *testing.T) {
	f := &fakeBotAPI{}
	c := newTestClient(t, f)

	if err := c.DeleteMessage(context.Background(), "7", 99); err != nil {
		t.Fatal(err)
	}
	call := f.calls[0]
	if call.method != "deleteMessage" {
		t.Fatalf("method = %q", call.method)
	}
	if call.values["chat_id"] != "7" || call.values["message_id"] != "99" {
		t.Errorf("values = %+v", call.values)
	}
}

func TestAckCallback(t *testing.T) {
	f := &fakeBotAPI{}
	c := newTestClient(t, f)

	if err := c.AckCallback(context.Background(), "cb-1"); err != nil {
		t.Fatal(err)
	}
	if f.calls[0].method != "answerCallbackQuery" {
		t.Errorf("method = %q", f.calls[0].method)
	}
}
