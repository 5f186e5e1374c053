// Package server hosts mailgram's HTTP surface: the Telegram webhook, the
// email ingest boundary, and operational endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mailgram/internal/metrics"
	"mailgram/internal/relay"
)

const maxBodyBytes = 1 << 20 // 1MB

type Config struct {
	Host   string
	Port   int
	Logger *slog.Logger
}

type Server struct {
	relay  *relay.Relay
	logger *slog.Logger
	srv    *http.Server
}

func New(cfg Config, rl *relay.Relay) *Server {
	s := &Server{relay: rl, logger: cfg.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook/telegram", s.handleTelegramWebhook)
	mux.HandleFunc("/ingest/email", s.handleIngest)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/metrics", metrics.Handler)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("http server starting", "addr", s.srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// handleTelegramWebhook accepts Telegram update objects. Contract: 200 "OK"
// whenever the update was parsed and handled (including unrecognized
// shapes), 500 on parse or processing failure, 404 for anything else.
func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	var upd tgbotapi.Update
	if err := json.Unmarshal(body, &upd); err != nil {
		s.logger.Error("webhook payload unparseable", "err", err)
		http.Error(w, "invalid update", http.StatusInternalServerError)
		return
	}

	if err := s.relay.HandleUpdate(r.Context(), upd); err != nil {
		s.logger.Error("webhook processing failed", "err", err)
		http.Error(w, "processing failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}

// ingestRequest is the hosting-runtime boundary: a resolved recipient
// address plus either the raw RFC 822 bytes (base64 in JSON) or an
// already-parsed form.
type ingestRequest struct {
	Recipient string       `json:"recipient"`
	Raw       []byte       `json:"raw,omitempty"`
	Email     *ingestEmail `json:"email,omitempty"`
}

type ingestEmail struct {
	Sender      string             `json:"sender"`
	Subject     string             `json:"subject,omitempty"`
	TextBody    string             `json:"textBody,omitempty"`
	HTMLBody    string             `json:"htmlBody,omitempty"`
	Attachments []ingestAttachment `json:"attachments,omitempty"`
}

type ingestAttachment struct {
	Filename string `json:"filename,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Content  []byte `json:"content"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read failed", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req ingestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Recipient == "" {
		http.Error(w, "recipient is required", http.StatusBadRequest)
		return
	}
	if req.Email == nil && len(req.Raw) == 0 {
		http.Error(w, "raw or email is required", http.StatusBadRequest)
		return
	}

	if req.Email != nil {
		err = s.relay.Process(r.Context(), req.Recipient, req.Email.toDomain())
	} else {
		err = s.relay.Ingest(r.Context(), req.Recipient, req.Raw)
	}
	if err != nil {
		s.logger.Error("ingest failed", "recipient", req.Recipient, "err", err)
		http.Error(w, "ingest failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}
