package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/testutil"
)

func newConfigTestEnv(t *testing.T) (*testEnv, *testutil.MockConfigManager, *testutil.MockConfigLoader) {
	t.Helper()
	env := newTestContainer(t)
	manager := testutil.NewMockConfigManager()
	loader := testutil.NewMockConfigLoader()
	env.container.ConfigManager = manager
	env.container.ConfigLoader = loader
	return env, manager, loader
}

func TestConfigShow(t *testing.T) {
	env, manager, loader := newConfigTestEnv(t)
	manager.GlobalConfigInfo.Exists = true
	loader.Config.LLM.APIKey = "sk-secret"
	loader.Config.Store.Backend = domain.BackendGit

	out, err := execute(t, newConfigCommand(env.container), "show")
	require.NoError(t, err)

	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, "- /home/test/.config/focuspilot/config.toml\n")
	assert.Contains(t, out, "- /home/test/.local/share/focuspilot/config.toml (not found)")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "backend = 'git'")
	assert.Contains(t, out, "codec = 'yaml'")
	assert.Contains(t, out, "api_key = '********'")
	assert.NotContains(t, out, "sk-secret")
	assert.Contains(t, out, "timeout = '30s'")
}

func TestConfigShow_LoadError(t *testing.T) {
	env, _, loader := newConfigTestEnv(t)
	loader.LoadErr = errors.New("broken toml")

	_, err := execute(t, newConfigCommand(env.container), "show")
	assert.EqualError(t, err, "broken toml")
}

func TestConfigInit(t *testing.T) {
	env, manager, _ := newConfigTestEnv(t)

	out, err := execute(t, newConfigCommand(env.container), "init")
	require.NoError(t, err)
	assert.Equal(t, "Created config file: /home/test/.local/share/focuspilot/config.toml\n", out)
	assert.True(t, manager.InitDataCalled)
	assert.False(t, manager.InitGlobalCalled)
}

func TestConfigInit_Global(t *testing.T) {
	env, manager, _ := newConfigTestEnv(t)

	out, err := execute(t, newConfigCommand(env.container), "init", "--global", "--backend", "postgres")
	require.NoError(t, err)
	assert.Equal(t, "Created config file: /home/test/.config/focuspilot/config.toml\n", out)
	assert.True(t, manager.InitGlobalCalled)
}

func TestConfigInit_Errors(t *testing.T) {
	env, manager, _ := newConfigTestEnv(t)

	_, err := execute(t, newConfigCommand(env.container), "init", "--backend", "sqlite")
	assert.ErrorIs(t, err, domain.ErrUnknownBackend)
	assert.False(t, manager.InitDataCalled)

	manager.InitDataErr = domain.ErrConfigExists
	_, err = execute(t, newConfigCommand(env.container), "init")
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}
