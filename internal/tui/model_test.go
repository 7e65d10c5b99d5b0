package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/focus"
	"github.com/runoshun/focus-pilot/internal/infra/persist"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/testutil"
)

func newTestModel(t *testing.T, minutes int) (*Model, *store.Store, *testutil.MockPresenter) {
	t.Helper()
	clock := &testutil.MockClock{NowTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ids := &testutil.SequenceIDs{Prefix: "id"}
	st := store.New(persist.New(testutil.NewMemoryKV(), nil, nil), clock, ids, nil)
	task, err := st.Add(store.NewTask{Title: "Write report", Priority: domain.PriorityHigh})
	require.NoError(t, err)

	presenter := &testutil.MockPresenter{}
	ctrl := focus.NewController(st, presenter, clock, ids, nil)
	require.NoError(t, ctrl.Start(context.Background(), task.ID, minutes))
	return New(context.Background(), ctrl), st, presenter
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and feeds its message back into the model.
func runCmd(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	return next
}

func TestModel_InitSchedulesTick(t *testing.T) {
	m, _, _ := newTestModel(t, 1)
	assert.NotNil(t, m.Init())
}

func TestModel_TickCountsDown(t *testing.T) {
	m, _, _ := newTestModel(t, 1)

	_, cmd := m.Update(MsgTick{})

	assert.NotNil(t, cmd)
	assert.Equal(t, 59, m.ctrl.Snapshot().Timer.Remaining)
	assert.Contains(t, m.View(), "00:59")
	assert.Contains(t, m.View(), "Write report")
}

func TestModel_TogglePauseResume(t *testing.T) {
	m, _, _ := newTestModel(t, 1)

	m.Update(keyMsg(" "))
	assert.Equal(t, domain.TimerPaused, m.ctrl.Snapshot().Timer.State)
	assert.Contains(t, m.View(), "paused")

	m.Update(MsgTick{})
	assert.Equal(t, 60, m.ctrl.Snapshot().Timer.Remaining, "paused timer must not count down")

	m.Update(keyMsg(" "))
	assert.Equal(t, domain.TimerRunning, m.ctrl.Snapshot().Timer.State)
	assert.NoError(t, m.Err())
}

func TestModel_Reset(t *testing.T) {
	m, _, _ := newTestModel(t, 1)
	m.Update(MsgTick{})
	m.Update(MsgTick{})

	m.Update(keyMsg("r"))

	snap := m.ctrl.Snapshot()
	assert.Equal(t, 60, snap.Timer.Remaining)
	assert.Equal(t, domain.TimerPaused, snap.Timer.State)
}

func TestModel_StopRecordsSession(t *testing.T) {
	m, st, presenter := newTestModel(t, 25)

	_, cmd := m.Update(keyMsg("s"))
	quit := runCmd(t, m, cmd)

	require.NotNil(t, m.Result())
	assert.False(t, m.Result().Completed)
	assert.Equal(t, 0, m.Result().Minutes)
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
	assert.Contains(t, m.View(), "Session stopped")

	sessions := st.Sessions()
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].IsFinished())

	_, disabled, _ := presenter.Snapshot()
	assert.Equal(t, 1, disabled)
}

func TestModel_CompletesAfterLastTick(t *testing.T) {
	m, st, _ := newTestModel(t, 1)

	var cmd tea.Cmd
	for range 60 {
		_, cmd = m.Update(MsgTick{})
	}
	runCmd(t, m, cmd)

	require.NotNil(t, m.Result())
	assert.True(t, m.Result().Completed)
	assert.Equal(t, 1, m.Result().Minutes)
	assert.Contains(t, m.View(), "Session complete: 1 min focused")

	task := st.Tasks()[0]
	require.NotNil(t, task.ActualMinutes)
	assert.Equal(t, 1, *task.ActualMinutes)
}

func TestModel_ErrorMessageQuits(t *testing.T) {
	m, _, _ := newTestModel(t, 1)

	_, cmd := m.Update(MsgError{Err: domain.ErrStoreUnavailable})

	require.NotNil(t, cmd)
	assert.ErrorIs(t, m.Err(), domain.ErrStoreUnavailable)
	assert.Nil(t, m.Result())
}

func TestModel_WindowSize(t *testing.T) {
	m, _, _ := newTestModel(t, 1)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, 80, m.width)
	assert.Equal(t, 72, m.progress.Width)
}

func TestPriorityBadge(t *testing.T) {
	for _, p := range []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow} {
		assert.Contains(t, PriorityBadge(p), string(p))
	}
}
