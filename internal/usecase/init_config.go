package usecase

import (
	"context"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// InitConfigInput selects where the config file goes and which backend it names.
type InitConfigInput struct {
	Backend string // Storage backend written to [store]; empty keeps the default
	Global  bool   // Write the user-wide file instead of the data directory one
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Config *domain.Config
	Path   string
}

// InitConfig writes a commented config file.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{configManager: configManager}
}

// Execute renders the defaults, with the chosen backend, to the target file.
// It fails with domain.ErrConfigExists rather than overwrite.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	cfg := domain.NewDefaultConfig()
	if in.Backend != "" {
		cfg.Store.Backend = in.Backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	write, info := uc.configManager.InitDataConfig, uc.configManager.GetDataConfigInfo()
	if in.Global {
		write, info = uc.configManager.InitGlobalConfig, uc.configManager.GetGlobalConfigInfo()
	}
	if err := write(cfg); err != nil {
		return nil, err
	}
	return &InitConfigOutput{Path: info.Path, Config: cfg}, nil
}
