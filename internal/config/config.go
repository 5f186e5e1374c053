package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for mailgram. It is loaded once at
// process start and passed explicitly to the components that need it;
// pipeline code never reads ambient state.
type Config struct {
	General  GeneralConfig  `json:"general" yaml:"general"`
	Mail     MailConfig     `json:"mail" yaml:"mail"`
	Telegram TelegramConfig `json:"telegram" yaml:"telegram"`
	Summary  SummaryConfig  `json:"summary" yaml:"summary"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	LogFile  string `json:"logFile,omitempty" yaml:"logFile,omitempty"`
}

// MailConfig describes the disposable address scheme: issued addresses
// have the form <localpart>+<chatID>@<domain>.
type MailConfig struct {
	Domain       string `json:"domain" yaml:"domain"`
	Localpart    string `json:"localpart" yaml:"localpart"`
	SnippetChars int    `json:"snippetChars" yaml:"snippetChars"`
}

type TelegramConfig struct {
	Token       string `json:"token" yaml:"token"`
	APIEndpoint string `json:"apiEndpoint,omitempty" yaml:"apiEndpoint,omitempty"`
}

type SummaryConfig struct {
	APIKey        string `json:"apiKey" yaml:"apiKey"`
	APIBase       string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
	Model         string `json:"model,omitempty" yaml:"model,omitempty"`
	MinInputChars int    `json:"minInputChars" yaml:"minInputChars"`
	MaxInputChars int    `json:"maxInputChars" yaml:"maxInputChars"`
}

type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// DefaultConfigDir returns the default config directory (~/.mailgram).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mailgram"
	}
	return filepath.Join(home, ".mailgram")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Load reads a config file (JSON, or YAML by extension), expands
// environment variable references, applies defaults for unset fields, and
// validates the result.
func Load(path string) (*Config, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.General.LogFile = expandPath(cfg.General.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} references.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match
		}
		return val
	})
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Save writes the config as indented JSON, or YAML by extension.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the config has usable values. It does not require
// the Telegram token: its absence is surfaced at first processing attempt,
// not at load time.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}
	if cfg.Mail.Domain == "" {
		errs = append(errs, "mail.domain must be set")
	}
	if strings.ContainsAny(cfg.Mail.Localpart, "+@") {
		errs = append(errs, "mail.localpart must not contain '+' or '@'")
	}
	if cfg.Mail.SnippetChars < 1 {
		errs = append(errs, "mail.snippetChars must be >= 1")
	}
	if cfg.Summary.MinInputChars < 1 {
		errs = append(errs, "summary.minInputChars must be >= 1")
	}
	if cfg.Summary.MaxInputChars < cfg.Summary.MinInputChars {
		errs = append(errs, "summary.maxInputChars must be >= summary.minInputChars")
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
