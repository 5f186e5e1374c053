package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"mailgram/internal/config"
	"mailgram/internal/telegram"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your mailgram installation",
		Long: `Verifies that mailgram's configuration, Telegram credential, and
summarizer endpoint are usable. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfgPath := resolveConfigPath()
			fmt.Fprintf(out, "mailgram doctor v%s\n\n", version)

			passed := 0
			failed := 0

			if _, err := os.Stat(cfgPath); err != nil {
				printFail(out, "Config file", fmt.Sprintf("not found at %s", cfgPath))
				failed++
				fmt.Fprintf(out, "\nRun 'mailgram init' to create a default configuration.\n")
				fmt.Fprintf(out, "\n%d passed, %d failed\n", passed, failed)
				return nil
			}
			printPass(out, "Config file", cfgPath)
			passed++

			cfg, err := config.Load(cfgPath)
			if err != nil {
				printFail(out, "Config validation", err.Error())
				failed++
				fmt.Fprintf(out, "\n%d passed, %d failed\n", passed, failed)
				return nil
			}
			printPass(out, "Config validation", "valid")
			passed++

			if cfg.Telegram.Token == "" {
				printFail(out, "Telegram credential", "telegram.token is not set")
				failed++
			} else if _, err := telegram.New(telegram.Config{
				Token:       cfg.Telegram.Token,
				APIEndpoint: cfg.Telegram.APIEndpoint,
				Logger:      logger,
			}); err != nil {
				printFail(out, "Telegram credential", err.Error())
				failed++
			} else {
				printPass(out, "Telegram credential", "bot reachable")
				passed++
			}

			if cfg.Summary.APIKey == "" {
				printFail(out, "Summarizer", "summary.apiKey is not set (summaries will use fallback text)")
				failed++
			} else {
				apiCfg := openai.DefaultConfig(cfg.Summary.APIKey)
				if cfg.Summary.APIBase != "" {
					apiCfg.BaseURL = cfg.Summary.APIBase
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()
				if _, err := openai.NewClientWithConfig(apiCfg).ListModels(ctx); err != nil {
					printFail(out, "Summarizer", err.Error())
					failed++
				} else {
					printPass(out, "Summarizer", "endpoint reachable")
					passed++
				}
			}

			fmt.Fprintf(out, "\n%d passed, %d failed\n", passed, failed)
			return nil
		},
	}
}

func printPass(out io.Writer, name, detail string) {
	fmt.Fprintf(out, "  [ok]   %-22s %s\n", name, detail)
}

func printFail(out io.Writer, name, detail string) {
	fmt.Fprintf(out, "  [fail] %-22s %s\n", name, detail)
}
