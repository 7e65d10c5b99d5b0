package domain

import (
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, BackendJSON, cfg.Store.Backend)
	assert.Equal(t, DefaultNamespace, cfg.Store.Namespace)
	assert.Equal(t, DefaultLLMModel, cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, DefaultFocusMinutes, cfg.Focus.DefaultMinutes)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		mutate  func(*Config)
		name    string
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "git backend", mutate: func(c *Config) { c.Store.Backend = BackendGit }},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "sqlite" }, wantErr: true},
		{name: "unknown codec", mutate: func(c *Config) { c.Store.Codec = "xml" }, wantErr: true},
		{name: "zero minutes", mutate: func(c *Config) { c.Focus.DefaultMinutes = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStoreConfig_ResolvedCodec(t *testing.T) {
	assert.Equal(t, CodecJSON, StoreConfig{Backend: BackendJSON}.ResolvedCodec())
	assert.Equal(t, CodecYAML, StoreConfig{Backend: BackendGit}.ResolvedCodec())
	assert.Equal(t, CodecJSON, StoreConfig{Backend: BackendPostgres}.ResolvedCodec())
	assert.Equal(t, CodecJSON, StoreConfig{Backend: BackendGit, Codec: CodecJSON}.ResolvedCodec())
}

func TestLLMConfig_HasAPIKey(t *testing.T) {
	assert.False(t, LLMConfig{}.HasAPIKey())
	assert.False(t, LLMConfig{APIKey: "  "}.HasAPIKey())
	assert.False(t, LLMConfig{APIKey: PlaceholderAPIKey}.HasAPIKey())
	assert.True(t, LLMConfig{APIKey: "sk-test"}.HasAPIKey())
}

func TestRenderConfigTemplate_IsValidTOML(t *testing.T) {
	content := RenderConfigTemplate(nil)

	var raw map[string]any
	require.NoError(t, toml.Unmarshal([]byte(content), &raw))

	store, ok := raw["store"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, BackendJSON, store["backend"])

	llm, ok := raw["llm"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "30s", llm["timeout"])
}
