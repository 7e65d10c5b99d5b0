package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
)

func TestStandup_Fallback(t *testing.T) {
	env := newTestContainer(t)
	env.addTask(t, store.NewTask{Title: "Low thing", Priority: domain.PriorityLow})
	env.addTask(t, store.NewTask{Title: "Urgent fix", Priority: domain.PriorityHigh})

	out, err := execute(t, newStandupCommand(env.container))
	require.NoError(t, err)

	assert.Contains(t, out, "Recommendations (priority fallback):")
	assert.Contains(t, out, "Urgent fix")
	assert.Contains(t, out, "Low thing")
	assert.NotContains(t, out, "Selected")
	assert.Equal(t, 0, env.completer.Calls)
	assert.Len(t, env.container.Store.Recommendations(), 2)
}

func TestStandup_Assistant(t *testing.T) {
	env := newTestContainer(t)
	env.completer.NoKey = false
	env.completer.Response = `[{"taskTitle":"Write report","reason":"Due soon","suggestedDuration":50}]`
	env.addTask(t, store.NewTask{Title: "Write report"})
	env.addTask(t, store.NewTask{Title: "Water plants"})

	out, err := execute(t, newStandupCommand(env.container))
	require.NoError(t, err)

	assert.Contains(t, out, "Recommendations (assistant):")
	assert.Contains(t, out, "Due soon")
	assert.NotContains(t, out, "Water plants")
	assert.Equal(t, 1, env.completer.Calls)
}

func TestStandup_AssistantFailureFallsBack(t *testing.T) {
	env := newTestContainer(t)
	env.completer.NoKey = false
	env.completer.Err = errors.New("rate limited")
	env.addTask(t, store.NewTask{Title: "Write report"})

	out, err := execute(t, newStandupCommand(env.container))
	require.NoError(t, err)
	assert.Contains(t, out, "priority fallback")
}

func TestStandup_AcceptAll(t *testing.T) {
	env := newTestContainer(t)
	a := env.addTask(t, store.NewTask{Title: "A", Priority: domain.PriorityHigh})
	b := env.addTask(t, store.NewTask{Title: "B"})

	out, err := execute(t, newStandupCommand(env.container), "--accept-all")
	require.NoError(t, err)
	assert.Contains(t, out, "Selected 2 task(s) for today")

	for _, id := range []string{a.ID, b.ID} {
		task, _ := env.container.Store.Task(id)
		assert.True(t, task.RecommendedToday, id)
	}
	last, ok := env.container.Store.LastStandup()
	require.True(t, ok)
	assert.True(t, last.Equal(testNow))
}

func TestStandup_AcceptSubset(t *testing.T) {
	env := newTestContainer(t)
	a := env.addTask(t, store.NewTask{Title: "A", Priority: domain.PriorityHigh})
	b := env.addTask(t, store.NewTask{Title: "B"})

	out, err := execute(t, newStandupCommand(env.container), "--accept", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Selected 1 task(s) for today")

	got, _ := env.container.Store.Task(b.ID)
	assert.False(t, got.RecommendedToday)

	_, err = execute(t, newStandupCommand(env.container), "--accept", "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestStandup_NoTasks(t *testing.T) {
	env := newTestContainer(t)

	out, err := execute(t, newStandupCommand(env.container))
	require.NoError(t, err)
	assert.Contains(t, out, "No open tasks to recommend.")
}

func TestToday(t *testing.T) {
	env := newTestContainer(t)

	out, err := execute(t, newTodayCommand(env.container))
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing planned yet")

	env.addTask(t, store.NewTask{Title: "Write report", Priority: domain.PriorityHigh})
	_, err = execute(t, newStandupCommand(env.container), "--accept-all")
	require.NoError(t, err)

	out, err = execute(t, newTodayCommand(env.container))
	require.NoError(t, err)
	assert.Contains(t, out, "Recommended:")
	assert.Contains(t, out, "Selected:")
	assert.Contains(t, out, "* Write report")
}

func TestToday_HidesEarlierDays(t *testing.T) {
	env := newTestContainer(t)
	task := env.addTask(t, store.NewTask{Title: "Write report"})
	require.NoError(t, env.container.Store.SetRecommendations([]domain.Recommendation{{
		ID:               "r-1",
		TaskID:           task.ID,
		Reason:           "Old",
		SuggestedMinutes: 25,
		CreatedAt:        testNow.Add(-24 * time.Hour),
	}}))

	out, err := execute(t, newTodayCommand(env.container))
	require.NoError(t, err)
	assert.NotContains(t, out, "Old")
}

func TestBreakdown_DryRunFallback(t *testing.T) {
	env := newTestContainer(t)
	task := env.addTask(t, store.NewTask{Title: "Launch website"})

	out, err := execute(t, newBreakdownCommand(env.container), task.ID, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, `Steps for "Launch website" (priority fallback):`)
	assert.Contains(t, out, "1. Analyze requirements")
	assert.Contains(t, out, "Dry run, checklist unchanged")

	got, _ := env.container.Store.Task(task.ID)
	assert.Empty(t, got.Subtasks)
}

func TestBreakdown_Assistant(t *testing.T) {
	env := newTestContainer(t)
	env.completer.NoKey = false
	env.completer.Response = `[{"title":"Pick a domain"},{"title":"Design pages"},{"title":"Write copy"},{"title":"Deploy"}]`
	task := env.addTask(t, store.NewTask{Title: "Launch website"})

	out, err := execute(t, newBreakdownCommand(env.container), task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "(assistant)")
	assert.Contains(t, out, "4. Deploy")

	got, _ := env.container.Store.Task(task.ID)
	require.Len(t, got.Subtasks, 4)
	assert.Equal(t, "Pick a domain", got.Subtasks[0].Title)
}
