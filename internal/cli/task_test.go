package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focus-pilot/internal/app"
	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/testutil"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	container *app.Container
	completer *testutil.MockCompleter
	presenter *testutil.MockPresenter
}

func newTestContainer(t *testing.T) *testEnv {
	t.Helper()
	completer := &testutil.MockCompleter{NoKey: true}
	presenter := &testutil.MockPresenter{}
	c, err := app.NewWithDeps(app.Config{DataDir: t.TempDir()}, nil, testutil.NewMemoryKV(),
		&testutil.MockClock{NowTime: testNow}, &testutil.SequenceIDs{Prefix: "t"},
		completer, presenter, &testutil.RecordingLogger{})
	require.NoError(t, err)
	return &testEnv{container: c, completer: completer, presenter: presenter}
}

func (e *testEnv) addTask(t *testing.T, in store.NewTask) domain.Task {
	t.Helper()
	task, err := e.container.Store.Add(in)
	require.NoError(t, err)
	return task
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTaskAdd(t *testing.T) {
	env := newTestContainer(t)

	out, err := execute(t, newTaskAddCommand(env.container),
		"Fix login bug", "--priority", "high", "--due", "2025-03-14", "--estimate", "45", "-d", "users locked out")
	require.NoError(t, err)
	assert.Equal(t, "Created task t-1: Fix login bug\n", out)

	task, ok := env.container.Store.Task("t-1")
	require.True(t, ok)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, "users locked out", task.Description)
	require.NotNil(t, task.EstimatedMinutes)
	assert.Equal(t, 45, *task.EstimatedMinutes)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC), *task.DueDate)
}

func TestTaskAdd_Errors(t *testing.T) {
	env := newTestContainer(t)

	_, err := execute(t, newTaskAddCommand(env.container), "")
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = execute(t, newTaskAddCommand(env.container), "x", "--priority", "urgent")
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	_, err = execute(t, newTaskAddCommand(env.container), "x", "--due", "14/03/2025")
	assert.Error(t, err)

	assert.Empty(t, env.container.Store.Tasks())
}

func TestTaskList(t *testing.T) {
	env := newTestContainer(t)

	out, err := execute(t, newTaskListCommand(env.container))
	require.NoError(t, err)
	assert.Equal(t, "No tasks.\n", out)

	env.addTask(t, store.NewTask{Title: "Open task", Priority: domain.PriorityLow})
	done := env.addTask(t, store.NewTask{Title: "Done task", Priority: domain.PriorityMedium})
	_, err = env.container.Store.Complete(done.ID)
	require.NoError(t, err)

	out, err = execute(t, newTaskListCommand(env.container))
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Open task")
	assert.NotContains(t, out, "Done task")

	out, err = execute(t, newTaskListCommand(env.container), "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Done task")
}

func TestTaskList_JSON(t *testing.T) {
	env := newTestContainer(t)
	env.addTask(t, store.NewTask{Title: "Open task", Priority: domain.PriorityLow})

	out, err := execute(t, newTaskListCommand(env.container), "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Open task"`)
	assert.Contains(t, out, `"isRecommendedToday": false`)
}

func TestTaskShow(t *testing.T) {
	env := newTestContainer(t)
	task := env.addTask(t, store.NewTask{Title: "Write report", Description: "Q1 numbers", Priority: domain.PriorityHigh})
	_, _, err := env.container.Store.AddSubtask(task.ID, "Collect data")
	require.NoError(t, err)

	out, err := execute(t, newTaskShowCommand(env.container), task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "# Write report")
	assert.Contains(t, out, "Q1 numbers")
	assert.Contains(t, out, "Status: Pending")
	assert.Contains(t, out, "Checklist (0%):")
	assert.Contains(t, out, "[ ] Collect data")
}

func TestTaskShow_NotFound(t *testing.T) {
	env := newTestContainer(t)

	_, err := execute(t, newTaskShowCommand(env.container), "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskEdit(t *testing.T) {
	env := newTestContainer(t)
	due := testNow.Add(48 * time.Hour)
	task := env.addTask(t, store.NewTask{Title: "Draft", Priority: domain.PriorityHigh, DueDate: &due})

	out, err := execute(t, newTaskEditCommand(env.container), task.ID,
		"--title", "Final", "--priority", "low", "--status", "in_progress", "--clear-due")
	require.NoError(t, err)
	assert.Equal(t, "Updated task t-1: Final\n", out)

	got, _ := env.container.Store.Task(task.ID)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, domain.PriorityLow, got.Priority)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Nil(t, got.DueDate)
}

func TestTaskEdit_NoFields(t *testing.T) {
	env := newTestContainer(t)
	task := env.addTask(t, store.NewTask{Title: "Draft"})

	_, err := execute(t, newTaskEditCommand(env.container), task.ID)
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestTaskDoneAndDelete(t *testing.T) {
	env := newTestContainer(t)
	a := env.addTask(t, store.NewTask{Title: "A"})
	b := env.addTask(t, store.NewTask{Title: "B"})

	out, err := execute(t, newTaskDoneCommand(env.container), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Completed task t-1: A\n", out)
	got, _ := env.container.Store.Task(a.ID)
	assert.True(t, got.IsCompleted())

	out, err = execute(t, newTaskDeleteCommand(env.container), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deleted task t-2: B\n", out)
	_, ok := env.container.Store.Task(b.ID)
	assert.False(t, ok)

	out, err = execute(t, newTaskClearCommand(env.container))
	require.NoError(t, err)
	assert.Equal(t, "Removed 1 completed task(s)\n", out)
	assert.Empty(t, env.container.Store.Tasks())
}

func TestTaskSeed(t *testing.T) {
	env := newTestContainer(t)

	out, err := execute(t, newTaskSeedCommand(env.container))
	require.NoError(t, err)
	assert.Equal(t, "Added 6 sample tasks\n", out)
	assert.Len(t, env.container.Store.Tasks(), 6)

	out, err = execute(t, newTaskSeedCommand(env.container))
	require.NoError(t, err)
	assert.Contains(t, out, "nothing seeded")
	assert.Len(t, env.container.Store.Tasks(), 6)
}

func TestResolveTaskID(t *testing.T) {
	env := newTestContainer(t)
	env.addTask(t, store.NewTask{Title: "A"})
	env.addTask(t, store.NewTask{Title: "B"})

	id, err := resolveTaskID(env.container, "t-2")
	require.NoError(t, err)
	assert.Equal(t, "t-2", id)

	id, err = resolveTaskID(env.container, "nope")
	require.NoError(t, err)
	assert.Equal(t, "nope", id)

	_, err = resolveTaskID(env.container, "t-")
	assert.ErrorIs(t, err, errAmbiguousID)
}

func TestSubtaskCommands(t *testing.T) {
	env := newTestContainer(t)
	task := env.addTask(t, store.NewTask{Title: "Write report"})

	out, err := execute(t, newSubtaskCommand(env.container), "add", task.ID, "Outline")
	require.NoError(t, err)
	assert.Equal(t, "Added #1 to t-1: Outline\n", out)

	out, err = execute(t, newSubtaskCommand(env.container), "toggle", task.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, "Checklist 1/1, task is Completed\n", out)

	out, err = execute(t, newSubtaskCommand(env.container), "toggle", task.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, "Checklist 0/1, task is In Progress\n", out)

	_, err = execute(t, newSubtaskCommand(env.container), "toggle", task.ID, "9")
	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)
}

func TestParseDue(t *testing.T) {
	got, err := parseDue("2025-03-14", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC), got)

	_, err = parseDue("tomorrow", time.UTC)
	assert.Error(t, err)
}
