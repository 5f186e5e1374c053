package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Mail: MailConfig{
			Domain:       "example.org",
			Localpart:    "inbox",
			SnippetChars: 500,
		},
		Summary: SummaryConfig{
			Model:         "gpt-4o-mini",
			MinInputChars: 20,
			MaxInputChars: 2000,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
	}
}
