package domain

import (
	"fmt"
	"strings"
	"time"
)

// Store backends.
const (
	BackendJSON     = "json"     // Single JSON file in the data directory
	BackendGit      = "git"      // Git refs and blobs
	BackendPostgres = "postgres" // PostgreSQL table
)

// Codecs for persisted collections.
const (
	CodecJSON = "json"
	CodecYAML = "yaml"
)

// Default configuration values.
const (
	DefaultLogLevel    = "info"
	DefaultBackend     = BackendJSON
	DefaultNamespace   = "focuspilot"
	DefaultLLMBaseURL  = "https://api.openai.com/v1"
	DefaultLLMModel    = "gpt-3.5-turbo"
	DefaultLLMTimeout  = 30 * time.Second
	PlaceholderAPIKey  = "your-api-key-here"
	DefaultNotifyTitle = "FocusPilot"
	maxFocusMinutes    = 24 * 60
)

// Config represents the application configuration.
type Config struct {
	Warnings []string    `toml:"-"`
	Store    StoreConfig `toml:"store"`
	LLM      LLMConfig   `toml:"llm"`
	Focus    FocusConfig `toml:"focus"`
	Log      LogConfig   `toml:"log"`
}

// StoreConfig holds persistence settings from the [store] section.
type StoreConfig struct {
	Backend       string `toml:"backend"`        // json, git or postgres
	Codec         string `toml:"codec"`          // json or yaml (empty = backend default)
	Namespace     string `toml:"namespace"`      // git ref namespace / key prefix
	EncryptionKey string `toml:"encryption_key"` // 64 hex characters, git backend only
	DSN           string `toml:"dsn"`            // postgres connection string
}

// LLMConfig holds completion service settings from the [llm] section.
type LLMConfig struct {
	APIKey  string        `toml:"api_key"`
	BaseURL string        `toml:"base_url"`
	Model   string        `toml:"model"`
	Timeout time.Duration `toml:"-"`
}

// FocusConfig holds focus mode settings from the [focus] section.
type FocusConfig struct {
	EnableCommand  string `toml:"enable_command"`  // Shell command run when a session starts
	DisableCommand string `toml:"disable_command"` // Shell command run when a session ends
	NotifyCommand  string `toml:"notify_command"`  // Program used for notifications (empty = platform default)
	DefaultMinutes int    `toml:"default_minutes"`
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// NewDefaultConfig returns a Config populated with defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:   DefaultBackend,
			Namespace: DefaultNamespace,
		},
		LLM: LLMConfig{
			BaseURL: DefaultLLMBaseURL,
			Model:   DefaultLLMModel,
			Timeout: DefaultLLMTimeout,
		},
		Focus: FocusConfig{
			DefaultMinutes: DefaultFocusMinutes,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// HasAPIKey reports whether a usable credential is configured.
func (c LLMConfig) HasAPIKey() bool {
	key := strings.TrimSpace(c.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

// ResolvedCodec returns the configured codec or the backend default.
func (c StoreConfig) ResolvedCodec() string {
	if c.Codec != "" {
		return c.Codec
	}
	if c.Backend == BackendGit {
		return CodecYAML
	}
	return CodecJSON
}

// Validate checks cross-field constraints and returns the first problem.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendJSON, BackendGit, BackendPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Store.Backend)
	}
	switch c.Store.ResolvedCodec() {
	case CodecJSON, CodecYAML:
	default:
		return fmt.Errorf("unknown codec %q", c.Store.Codec)
	}
	if c.Focus.DefaultMinutes <= 0 || c.Focus.DefaultMinutes > maxFocusMinutes {
		return fmt.Errorf("focus.default_minutes %d: %w", c.Focus.DefaultMinutes, ErrInvalidDuration)
	}
	return nil
}

// RenderConfigTemplate renders a commented config file for config init.
func RenderConfigTemplate(cfg *Config) string {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	var b strings.Builder
	b.WriteString("# focus-pilot configuration\n\n")
	b.WriteString("[store]\n")
	b.WriteString("# Backend: json (single file), git (refs in a local repository) or postgres\n")
	fmt.Fprintf(&b, "backend = %q\n", cfg.Store.Backend)
	b.WriteString("# codec = \"json\"          # json or yaml; defaults to yaml for git\n")
	fmt.Fprintf(&b, "namespace = %q\n", cfg.Store.Namespace)
	b.WriteString("# encryption_key = \"\"     # 64 hex chars, seals git blobs with AES-256-GCM\n")
	b.WriteString("# dsn = \"postgres://localhost/focuspilot\"\n\n")
	b.WriteString("[llm]\n")
	b.WriteString("# api_key = \"\"            # falls back to $OPENAI_API_KEY\n")
	fmt.Fprintf(&b, "base_url = %q\n", cfg.LLM.BaseURL)
	fmt.Fprintf(&b, "model = %q\n", cfg.LLM.Model)
	fmt.Fprintf(&b, "timeout = %q\n\n", cfg.LLM.Timeout.String())
	b.WriteString("[focus]\n")
	fmt.Fprintf(&b, "default_minutes = %d\n", cfg.Focus.DefaultMinutes)
	b.WriteString("# enable_command = \"\"     # e.g. a shortcut that turns on do-not-disturb\n")
	b.WriteString("# disable_command = \"\"\n")
	b.WriteString("# notify_command = \"notify-send\"\n\n")
	b.WriteString("[log]\n")
	fmt.Fprintf(&b, "level = %q\n", cfg.Log.Level)
	return b.String()
}
