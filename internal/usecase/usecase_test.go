package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/infra/persist"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/testutil"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type env struct {
	kv     *testutil.MemoryKV
	clock  *testutil.MockClock
	ids    *testutil.SequenceIDs
	logger *testutil.RecordingLogger
	store  *store.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		kv:     testutil.NewMemoryKV(),
		clock:  &testutil.MockClock{NowTime: testNow},
		ids:    &testutil.SequenceIDs{Prefix: "t"},
		logger: &testutil.RecordingLogger{},
	}
	e.store = store.New(persist.New(e.kv, nil, nil), e.clock, e.ids, e.logger)
	return e
}

func (e *env) addTask(t *testing.T, in store.NewTask) domain.Task {
	t.Helper()
	task, err := e.store.Add(in)
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T {
	return &v
}
