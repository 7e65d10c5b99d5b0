package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/runoshun/focus-pilot/internal/domain"
)

var errNoConfigDir = errors.New("config directory not available")

var _ domain.ConfigManager = (*Manager)(nil)

// Manager inspects and creates the two config.toml files.
type Manager struct {
	dataDir   string
	globalDir string // e.g. ~/.config/focuspilot
}

// NewManager creates a Manager for dataDir and the user config directory.
func NewManager(dataDir string) *Manager {
	return NewManagerWithGlobalDir(dataDir, defaultGlobalConfigDir())
}

// NewManagerWithGlobalDir creates a Manager with an explicit global directory.
func NewManagerWithGlobalDir(dataDir, globalDir string) *Manager {
	return &Manager{dataDir: dataDir, globalDir: globalDir}
}

// GetDataConfigInfo describes <data dir>/config.toml.
func (m *Manager) GetDataConfigInfo() domain.ConfigInfo {
	return describe(m.dataDir)
}

// GetGlobalConfigInfo describes the user-wide config.toml.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	return describe(m.globalDir)
}

// InitDataConfig writes cfg as a commented template into the data directory.
func (m *Manager) InitDataConfig(cfg *domain.Config) error {
	return create(m.dataDir, cfg)
}

// InitGlobalConfig writes cfg as a commented template into the global directory.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	return create(m.globalDir, cfg)
}

func describe(dir string) domain.ConfigInfo {
	if dir == "" {
		return domain.ConfigInfo{}
	}
	info := domain.ConfigInfo{Path: filepath.Join(dir, domain.ConfigFileName)}
	if content, err := os.ReadFile(info.Path); err == nil {
		info.Content = string(content)
		info.Exists = true
	}
	return info
}

// create fails with domain.ErrConfigExists instead of replacing a file.
func create(dir string, cfg *domain.Config) error {
	if dir == "" {
		return errNoConfigDir
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(dir, domain.ConfigFileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return domain.ErrConfigExists
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(domain.RenderConfigTemplate(cfg)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
