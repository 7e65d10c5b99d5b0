// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
	mu      sync.Mutex
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.NowTime = m.NowTime.Add(d)
	m.mu.Unlock()
}

// SequenceIDs is a domain.IDGenerator that returns prefix-1, prefix-2, ...
type SequenceIDs struct {
	Prefix string
	n      int
	mu     sync.Mutex
}

// NewID returns the next ID in the sequence.
func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n)
}

// MemoryKV is an in-memory domain.KVStore.
// Fields are ordered to minimize memory padding.
type MemoryKV struct {
	Data   map[string][]byte
	GetErr error
	PutErr error
	Puts   int
	mu     sync.Mutex
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{Data: make(map[string][]byte)}
}

// Ensure MemoryKV implements domain.KVStore interface.
var _ domain.KVStore = (*MemoryKV)(nil)

// Get returns a copy of the stored value.
func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.Data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

// Put stores a copy of value.
func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Data[key] = slices.Clone(value)
	m.Puts++
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	return nil
}

// Keys returns the sorted keys.
func (m *MemoryKV) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Data))
	for k := range m.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// LogEntry is one message captured by RecordingLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// RecordingLogger is a domain.Logger that keeps every message.
type RecordingLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure RecordingLogger implements domain.Logger interface.
var _ domain.Logger = (*RecordingLogger)(nil)

func (r *RecordingLogger) add(level, category, msg string) {
	r.mu.Lock()
	r.Entries = append(r.Entries, LogEntry{Level: level, Category: category, Msg: msg})
	r.mu.Unlock()
}

func (r *RecordingLogger) Debug(category, msg string) { r.add("DEBUG", category, msg) }
func (r *RecordingLogger) Info(category, msg string)  { r.add("INFO", category, msg) }
func (r *RecordingLogger) Warn(category, msg string)  { r.add("WARN", category, msg) }
func (r *RecordingLogger) Error(category, msg string) { r.add("ERROR", category, msg) }

// Count returns how many entries were logged at level.
func (r *RecordingLogger) Count(level string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCompleter is a test double for domain.Completer.
// Fields are ordered to minimize memory padding.
type MockCompleter struct {
	Err       error
	Response  string
	Responses []string // Consumed in order before Response
	Prompts   []string
	Systems   []string
	Delay     time.Duration
	Calls     int
	NoKey     bool
	mu        sync.Mutex
}

// Ensure MockCompleter implements domain.Completer interface.
var _ domain.Completer = (*MockCompleter)(nil)

// Available reports whether a credential is configured.
func (m *MockCompleter) Available() bool {
	return !m.NoKey
}

// Complete records the call and returns the configured response.
// With Delay set it blocks until the delay passes or ctx is done.
func (m *MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.Systems = append(m.Systems, system)
	m.Prompts = append(m.Prompts, prompt)
	resp := m.Response
	if len(m.Responses) > 0 {
		resp = m.Responses[0]
		m.Responses = m.Responses[1:]
	}
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	return resp, nil
}

// MockPresenter is a test double for domain.FocusPresenter.
// Fields are ordered to minimize memory padding.
type MockPresenter struct {
	Err           error
	Notifications []string // "title: body"
	Enabled       int
	Disabled      int
	mu            sync.Mutex
}

// Ensure MockPresenter implements domain.FocusPresenter interface.
var _ domain.FocusPresenter = (*MockPresenter)(nil)

// EnableFocusPresentation counts the call.
func (m *MockPresenter) EnableFocusPresentation(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enabled++
	return m.Err
}

// DisableFocusPresentation counts the call.
func (m *MockPresenter) DisableFocusPresentation(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Disabled++
	return m.Err
}

// PostLocalNotification records the notification.
func (m *MockPresenter) PostLocalNotification(_ context.Context, title, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, title+": "+body)
	return m.Err
}

// Snapshot returns the counters under lock.
func (m *MockPresenter) Snapshot() (enabled, disabled int, notifications []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Enabled, m.Disabled, slices.Clone(m.Notifications)
}

// MockExecutor is a test double for domain.CommandExecutor.
type MockExecutor struct {
	Err      error
	Output   []byte
	Commands []*domain.ExecCommand
	mu       sync.Mutex
}

// Ensure MockExecutor implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*MockExecutor)(nil)

// Execute records the command.
func (m *MockExecutor) Execute(_ context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = append(m.Commands, cmd)
	return m.Output, m.Err
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitDataErr      error
	Written          *domain.Config
	InitGlobalErr    error
	DataConfigInfo   domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitDataCalled   bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		DataConfigInfo: domain.ConfigInfo{
			Path: "/home/test/.local/share/focuspilot/config.toml",
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path: "/home/test/.config/focuspilot/config.toml",
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetDataConfigInfo returns the configured data config info.
func (m *MockConfigManager) GetDataConfigInfo() domain.ConfigInfo {
	return m.DataConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitDataConfig records the call.
func (m *MockConfigManager) InitDataConfig(cfg *domain.Config) error {
	m.InitDataCalled = true
	m.Written = cfg
	return m.InitDataErr
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) error {
	m.InitGlobalCalled = true
	m.Written = cfg
	return m.InitGlobalErr
}
