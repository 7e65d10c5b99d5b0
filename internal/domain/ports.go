package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// KVStore is a flat key-value store holding whole encoded collections.
type KVStore interface {
	// Get returns the value for key, or nil if the key does not exist.
	Get(key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys returns all keys in sorted order.
	Keys() ([]string, error)
}

// Completer sends one system+user exchange to a chat-completion service.
type Completer interface {
	// Available reports whether a credential is configured.
	Available() bool

	// Complete returns the assistant's free-form text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// FocusPresenter toggles OS-level focus presentation and posts local
// notifications. Every method is best-effort; callers log and ignore errors.
type FocusPresenter interface {
	EnableFocusPresentation(ctx context.Context) error
	DisableFocusPresentation(ctx context.Context) error
	PostLocalNotification(ctx context.Context, title, body string) error
}

// CommandExecutor runs external programs.
type CommandExecutor interface {
	// Execute runs the command and returns its combined output.
	Execute(ctx context.Context, cmd *ExecCommand) ([]byte, error)
}

// ExecCommand describes a program invocation.
type ExecCommand struct {
	Program string
	Dir     string
	Args    []string
}

// NewCommand creates an ExecCommand.
func NewCommand(program string, args []string, dir string) *ExecCommand {
	return &ExecCommand{Program: program, Args: args, Dir: dir}
}

// NewShellCommand creates an ExecCommand that runs script with sh -c.
func NewShellCommand(script, dir string) *ExecCommand {
	return &ExecCommand{Program: "sh", Args: []string{"-c", script}, Dir: dir}
}

// Logger records diagnostic messages by category.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards all messages.
type NopLogger struct{}

func (NopLogger) Debug(string, string) {}
func (NopLogger) Info(string, string)  {}
func (NopLogger) Warn(string, string)  {}
func (NopLogger) Error(string, string) {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (data dir + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects and creates config files.
type ConfigManager interface {
	GetGlobalConfigInfo() ConfigInfo
	GetDataConfigInfo() ConfigInfo
	InitGlobalConfig(cfg *Config) error
	InitDataConfig(cfg *Config) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// IDGenerator produces identities for new records.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
