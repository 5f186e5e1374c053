package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mailgram/internal/config"
	"mailgram/internal/domain"
	"mailgram/internal/relay"
	"mailgram/internal/server"
	"mailgram/internal/summary"
	"mailgram/internal/telegram"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	_ = godotenv.Load()
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "mailgram",
		Short: "mailgram: disposable email addresses relayed to Telegram",
		Long:  "mailgram issues disposable email addresses bound to Telegram chats and relays incoming mail there with an AI-generated summary.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: ~/.mailgram/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists at %s", cfgPath)
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the relay: webhook, ingest, and operational endpoints",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		cfg = config.Defaults()
	}
	logger = buildLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var messenger domain.Messenger
	if cfg.Telegram.Token == "" {
		logger.Warn("telegram token not configured; email processing will fail until it is set")
	} else {
		tg, err := telegram.New(telegram.Config{
			Token:       cfg.Telegram.Token,
			APIEndpoint: cfg.Telegram.APIEndpoint,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		messenger = tg
	}

	summarizer := summary.New(summary.Config{
		APIKey:        cfg.Summary.APIKey,
		APIBase:       cfg.Summary.APIBase,
		Model:         cfg.Summary.Model,
		MinInputChars: cfg.Summary.MinInputChars,
		MaxInputChars: cfg.Summary.MaxInputChars,
		Logger:        logger,
	})

	rl := relay.New(relay.Config{
		Localpart:    cfg.Mail.Localpart,
		Domain:       cfg.Mail.Domain,
		SnippetChars: cfg.Mail.SnippetChars,
	}, messenger, summarizer, logger)

	srv := server.New(server.Config{
		Host:   cfg.Server.Host,
		Port:   cfg.Server.Port,
		Logger: logger,
	}, rl)

	logger.Info("mailgram starting", "version", version, "domain", cfg.Mail.Domain)
	return srv.Start(ctx)
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return err
			}
			cfg.Telegram.Token = redact(cfg.Telegram.Token)
			cfg.Summary.APIKey = redact(cfg.Summary.APIKey)
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mailgram version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mailgram v%s\n", version)
		},
	}
}

func redact(s string) string {
	if len(s) <= 4 {
		if s == "" {
			return ""
		}
		return "****"
	}
	return s[:4] + "****"
}

func buildLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.General.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	out := os.Stderr
	if cfg.General.LogFile != "" {
		if f, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			out = f
		} else {
			logger.Warn("cannot open log file, logging to stderr", "path", cfg.General.LogFile, "err", err)
		}
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
