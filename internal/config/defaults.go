package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Retention: RetentionConfig{
			ArchiveDays: 7,
			ResetHour:   6,
		},
		Summarizer: SummarizerConfig{
			Enabled:       true,
			Provider:      "anthropic",
			Model:         "claude-3-5-haiku-latest",
			MaxTokens:     512,
			Temperature:   0.3,
			APIKeyEnv:     "ANTHROPIC_API_KEY",
			MaxInputChars: 8000,
		},
		Extraction: ExtractionConfig{
			MaxContentChars: 15000,
			MinLineChars:    20,
			DebounceSeconds: 3,
		},
		Storage: StorageConfig{
			Path:       "~/.config/journey",
			SQLiteFile: "journey.db",
		},
		Daemon: DaemonConfig{
			Host:           "127.0.0.1",
			Port:           7774,
			MaxRequestSize: 10485760,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
