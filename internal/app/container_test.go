package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/infra/crypto"
	"github.com/runoshun/focus-pilot/internal/infra/gitstore"
	"github.com/runoshun/focus-pilot/internal/infra/jsonstore"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/testutil"
	"github.com/runoshun/focus-pilot/internal/usecase"
)

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("FOCUSPILOT_DATABASE_URL", "")
	return t.TempDir()
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o600))
}

func TestNew_JSONBackend(t *testing.T) {
	dir := isolate(t)

	c, err := New(context.Background(), dir)
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &jsonstore.Store{}, c.KV)
	assert.FileExists(t, domain.StorePath(dir))
	assert.False(t, c.Completer.Available())
	assert.Equal(t, dir, c.Config.DataDir)

	_, err = c.Store.Add(store.NewTask{Title: "Persisted"})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	reopened, err := New(context.Background(), dir)
	require.NoError(t, err)
	defer reopened.Close()
	require.Len(t, reopened.Store.Tasks(), 1)
	assert.Equal(t, "Persisted", reopened.Store.Tasks()[0].Title)
}

func TestNew_GitBackendSealed(t *testing.T) {
	dir := isolate(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	writeConfig(t, dir, "[store]\nbackend = \"git\"\nencryption_key = \""+key+"\"\n")

	c, err := New(context.Background(), dir)
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &gitstore.Store{}, c.KV)
	_, err = c.Store.Add(store.NewTask{Title: "Secret plan"})
	require.NoError(t, err)

	raw, err := c.KV.Get(domain.KeyTasks)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Secret plan", "values read through the store are opened")
}

func TestNew_BadEncryptionKey(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "[store]\nbackend = \"git\"\nencryption_key = \"nothex\"\n")

	_, err := New(context.Background(), dir)

	assert.ErrorIs(t, err, crypto.ErrInvalidKey)
}

func TestNew_PostgresWithoutDSN(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "[store]\nbackend = \"postgres\"\n")

	_, err := New(context.Background(), dir)

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestNew_InvalidConfigFallsBackToDefaults(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "[store]\nbackend = \"sqlite\"\n")

	c, err := New(context.Background(), dir)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, domain.BackendJSON, c.AppConfig.Store.Backend)
}

func TestNewWithDeps_FactoriesShareStore(t *testing.T) {
	clock := &testutil.MockClock{}
	c, err := NewWithDeps(Config{}, nil, testutil.NewMemoryKV(), clock, &testutil.SequenceIDs{},
		&testutil.MockCompleter{NoKey: true}, &testutil.MockPresenter{}, &testutil.RecordingLogger{})
	require.NoError(t, err)

	out, err := c.NewTaskUseCase().Execute(context.Background(), usecase.NewTaskInput{Title: "Task"})
	require.NoError(t, err)

	ctrl := c.FocusController(false)
	_, err = c.StartFocusUseCase(ctrl).Execute(context.Background(), usecase.StartFocusInput{TaskID: out.Task.ID, Minutes: 25})
	require.NoError(t, err)
	assert.Equal(t, domain.TimerRunning, ctrl.Snapshot().Timer.State)

	presenter := c.Presenter.(*testutil.MockPresenter)
	enabled, _, _ := presenter.Snapshot()
	assert.Equal(t, 1, enabled)

	quiet := c.FocusController(true)
	require.NoError(t, quiet.Start(context.Background(), out.Task.ID, 5))
	enabled, _, _ = presenter.Snapshot()
	assert.Equal(t, 1, enabled, "quiet controller skips presentation")
}
