// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// Environment variables that override file settings.
const (
	EnvAPIKey      = "OPENAI_API_KEY"
	EnvDataDir     = "FOCUSPILOT_DATA_DIR"
	EnvDatabaseURL = "FOCUSPILOT_DATABASE_URL"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	getenv        func(string) string
	dataDir       string // Path to the data directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/focuspilot)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
		getenv:        os.Getenv,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
		getenv:        os.Getenv,
	}
}

// WithEnv replaces the environment lookup. Tests pass a map-backed func.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultDataDir resolves the data directory from FOCUSPILOT_DATA_DIR,
// then XDG_DATA_HOME, then ~/.local/share.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DataDir(dataHome), nil
}

// Load returns the merged configuration (data dir + global + environment).
// Data dir config takes precedence over global config; environment wins over both.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	local, err := l.LoadData()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- data dir (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if local != nil {
		base = mergeConfigs(base, local)
	}

	l.applyEnv(base)

	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadData returns only the data directory configuration.
func (l *Loader) LoadData() (*domain.Config, error) {
	if l.dataDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.dataDir, domain.ConfigFileName))
}

func (l *Loader) applyEnv(cfg *domain.Config) {
	if v := l.getenv(EnvAPIKey); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := l.getenv(EnvDatabaseURL); v != "" {
		cfg.Store.DSN = v
	}
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
// Only keys present in the file are set; everything else stays zero so
// mergeConfigs can tell them apart.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "store":
			for k, v := range m {
				switch k {
				case "backend":
					setString(&res.Store.Backend, v)
				case "codec":
					setString(&res.Store.Codec, v)
				case "namespace":
					setString(&res.Store.Namespace, v)
				case "encryption_key":
					setString(&res.Store.EncryptionKey, v)
				case "dsn":
					setString(&res.Store.DSN, v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [store]: %s", k))
				}
			}
		case "llm":
			for k, v := range m {
				switch k {
				case "api_key":
					setString(&res.LLM.APIKey, v)
				case "base_url":
					setString(&res.LLM.BaseURL, v)
				case "model":
					setString(&res.LLM.Model, v)
				case "timeout":
					d, err := parseTimeout(v)
					if err != nil {
						warnings = append(warnings, fmt.Sprintf("invalid [llm] timeout: %v", err))
						continue
					}
					res.LLM.Timeout = d
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [llm]: %s", k))
				}
			}
		case "focus":
			for k, v := range m {
				switch k {
				case "enable_command":
					setString(&res.Focus.EnableCommand, v)
				case "disable_command":
					setString(&res.Focus.DisableCommand, v)
				case "notify_command":
					setString(&res.Focus.NotifyCommand, v)
				case "default_minutes":
					if n, ok := v.(int64); ok {
						res.Focus.DefaultMinutes = int(n)
					} else {
						warnings = append(warnings, "invalid [focus] default_minutes: expected integer")
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [focus]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					setString(&res.Log.Level, v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func setString(dst *string, v any) {
	if s, ok := v.(string); ok {
		*dst = s
	}
}

// parseTimeout accepts a duration string ("45s") or whole seconds.
func parseTimeout(v any) (time.Duration, error) {
	var d time.Duration
	switch t := v.(type) {
	case string:
		parsed, err := time.ParseDuration(t)
		if err != nil {
			return 0, err
		}
		d = parsed
	case int64:
		d = time.Duration(t) * time.Second
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = nil
	if len(base.Warnings)+len(override.Warnings) > 0 {
		result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)
	}

	overrideString(&result.Store.Backend, override.Store.Backend)
	overrideString(&result.Store.Codec, override.Store.Codec)
	overrideString(&result.Store.Namespace, override.Store.Namespace)
	overrideString(&result.Store.EncryptionKey, override.Store.EncryptionKey)
	overrideString(&result.Store.DSN, override.Store.DSN)

	overrideString(&result.LLM.APIKey, override.LLM.APIKey)
	overrideString(&result.LLM.BaseURL, override.LLM.BaseURL)
	overrideString(&result.LLM.Model, override.LLM.Model)
	if override.LLM.Timeout > 0 {
		result.LLM.Timeout = override.LLM.Timeout
	}

	overrideString(&result.Focus.EnableCommand, override.Focus.EnableCommand)
	overrideString(&result.Focus.DisableCommand, override.Focus.DisableCommand)
	overrideString(&result.Focus.NotifyCommand, override.Focus.NotifyCommand)
	if override.Focus.DefaultMinutes != 0 {
		result.Focus.DefaultMinutes = override.Focus.DefaultMinutes
	}

	overrideString(&result.Log.Level, override.Log.Level)

	return &result
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
