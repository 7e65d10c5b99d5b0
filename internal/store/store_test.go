package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/infra/persist"
	"github.com/runoshun/focus-pilot/internal/testutil"
)

type fixture struct {
	kv    *testutil.MemoryKV
	clock *testutil.MockClock
	store *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := testutil.NewMemoryKV()
	clock := &testutil.MockClock{NowTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	return &fixture{
		kv:    kv,
		clock: clock,
		store: New(persist.New(kv, nil, nil), clock, &testutil.SequenceIDs{}, nil),
	}
}

// reload builds a fresh store on the same backing data.
func (f *fixture) reload() *Store {
	return New(persist.New(f.kv, nil, nil), f.clock, &testutil.SequenceIDs{Prefix: "re"}, nil)
}

func (f *fixture) add(t *testing.T, title string, p domain.Priority) domain.Task {
	t.Helper()
	task, err := f.store.Add(NewTask{Title: title, Priority: p})
	require.NoError(t, err)
	return task
}

func TestStore_Add(t *testing.T) {
	f := newFixture(t)

	task, err := f.store.Add(NewTask{Title: "  Write report ", Description: "quarterly"})
	require.NoError(t, err)

	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, f.clock.NowTime, task.CreatedAt)
	assert.Empty(t, task.Subtasks)

	assert.Equal(t, []domain.Task{task}, f.reload().Tasks())
}

func TestStore_Add_EmptyTitle(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Add(NewTask{Title: "   "})

	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Empty(t, f.store.Tasks())
}

func TestStore_PreservesInsertionOrder(t *testing.T) {
	f := newFixture(t)
	f.add(t, "c", domain.PriorityLow)
	f.add(t, "a", domain.PriorityHigh)
	f.add(t, "b", domain.PriorityMedium)

	var titles []string
	for _, task := range f.reload().Tasks() {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"c", "a", "b"}, titles)
}

func TestStore_UpdateUnknownIsNoop(t *testing.T) {
	f := newFixture(t)
	f.add(t, "a", domain.PriorityHigh)
	puts := f.kv.Puts

	ok, err := f.store.Update(domain.Task{ID: "missing", Title: "x"})

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, puts, f.kv.Puts)
	assert.Len(t, f.store.Tasks(), 1)
}

func TestStore_Update(t *testing.T) {
	f := newFixture(t)
	task := f.add(t, "a", domain.PriorityHigh)

	task.Title = "renamed"
	task.Priority = domain.PriorityLow
	ok, err := f.store.Update(task)
	require.NoError(t, err)
	require.True(t, ok)

	got, found := f.reload().Task(task.ID)
	require.True(t, found)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, domain.PriorityLow, got.Priority)
}

func TestStore_QueriesReturnCopies(t *testing.T) {
	f := newFixture(t)
	task := f.add(t, "a", domain.PriorityHigh)
	_, _, err := f.store.AddSubtask(task.ID, "step")
	require.NoError(t, err)

	tasks := f.store.Tasks()
	tasks[0].Title = "mutated"
	tasks[0].Subtasks[0].Title = "mutated"

	got, _ := f.store.Task(task.ID)
	assert.Equal(t, "a", got.Title)
	assert.Equal(t, "step", got.Subtasks[0].Title)
}

func TestStore_AddCopiesInputPointers(t *testing.T) {
	f := newFixture(t)
	due := f.clock.NowTime.Add(48 * time.Hour)
	estimate := 45

	task, err := f.store.Add(NewTask{Title: "Write report", DueDate: &due, EstimatedMinutes: &estimate})
	require.NoError(t, err)

	due = due.Add(240 * time.Hour)
	estimate = 5
	*task.DueDate = time.Time{}

	got, _ := f.store.Task(task.ID)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(f.clock.NowTime.Add(48*time.Hour)))
	require.NotNil(t, got.EstimatedMinutes)
	assert.Equal(t, 45, *got.EstimatedMinutes)
}

func TestStore_DeleteAndComplete(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a", domain.PriorityHigh)
	b := f.add(t, "b", domain.PriorityHigh)

	ok, err := f.store.Delete(a.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.store.Delete(a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	f.clock.Advance(time.Hour)
	ok, err = f.store.Complete(b.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, _ := f.store.Task(b.ID)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, f.clock.NowTime, *got.CompletedAt)
}

func TestStore_ToggleSubtaskReconcilesStatus(t *testing.T) {
	f := newFixture(t)
	task := f.add(t, "a", domain.PriorityHigh)
	ok, err := f.store.SetSubtasks(task.ID, []string{"one", "two", "  "})
	require.NoError(t, err)
	require.True(t, ok)

	task, _ = f.store.Task(task.ID)
	require.Len(t, task.Subtasks, 2)

	for _, sub := range task.Subtasks {
		ok, err := f.store.ToggleSubtask(task.ID, sub.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	got, _ := f.store.Task(task.ID)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	_, err = f.store.ToggleSubtask(task.ID, task.Subtasks[0].ID)
	require.NoError(t, err)
	got, _ = f.store.Task(task.ID)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Nil(t, got.CompletedAt)

	ok, err = f.store.ToggleSubtask(task.ID, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = f.store.ToggleSubtask("missing", task.Subtasks[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_AddSubtaskToCompletedTaskReopensIt(t *testing.T) {
	f := newFixture(t)
	task := f.add(t, "a", domain.PriorityHigh)
	sub, _, err := f.store.AddSubtask(task.ID, "first")
	require.NoError(t, err)
	_, err = f.store.ToggleSubtask(task.ID, sub.ID)
	require.NoError(t, err)

	_, ok, err := f.store.AddSubtask(task.ID, "second")
	require.NoError(t, err)
	require.True(t, ok)

	got, _ := f.store.Task(task.ID)
	assert.Equal(t, domain.StatusInProgress, got.Status)
}

func TestStore_ClearCompleted(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a", domain.PriorityHigh)
	f.add(t, "b", domain.PriorityHigh)
	_, err := f.store.Complete(a.ID)
	require.NoError(t, err)

	n, err := f.store.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, f.reload().Tasks(), 1)

	n, err = f.store.ClearCompleted()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_StatusQueries(t *testing.T) {
	f := newFixture(t)
	pending := f.add(t, "pending", domain.PriorityHigh)
	active := f.add(t, "active", domain.PriorityHigh)
	done := f.add(t, "done", domain.PriorityHigh)
	_, _ = f.store.MarkInProgress(active.ID)
	_, _ = f.store.Complete(done.ID)

	past := f.clock.NowTime.Add(-time.Hour)
	pending.DueDate = &past
	_, err := f.store.Update(pending)
	require.NoError(t, err)

	assert.Len(t, f.store.Pending(), 1)
	assert.Len(t, f.store.InProgress(), 1)
	assert.Len(t, f.store.Completed(), 1)
	assert.Len(t, f.store.Open(), 2)
	overdue := f.store.Overdue()
	require.Len(t, overdue, 1)
	assert.Equal(t, pending.ID, overdue[0].ID)
}

func TestStore_SetRecommendations(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a", domain.PriorityHigh)
	b := f.add(t, "b", domain.PriorityHigh)
	c := f.add(t, "c", domain.PriorityHigh)

	require.NoError(t, f.store.SetRecommendations([]domain.Recommendation{
		{ID: "r1", TaskID: a.ID, CreatedAt: f.clock.NowTime, SuggestedMinutes: 30},
		{ID: "r2", TaskID: b.ID, CreatedAt: f.clock.NowTime, SuggestedMinutes: 30},
	}))
	require.NoError(t, f.store.SetRecommendations([]domain.Recommendation{
		{ID: "r3", TaskID: c.ID, CreatedAt: f.clock.NowTime, SuggestedMinutes: 30},
		{ID: "r4", TaskID: "deleted-task", CreatedAt: f.clock.NowTime, SuggestedMinutes: 30},
	}))

	reloaded := f.reload()
	assert.Len(t, reloaded.Recommendations(), 2)
	today := reloaded.TodayRecommended()
	require.Len(t, today, 1)
	assert.Equal(t, c.ID, today[0].ID)

	for _, task := range reloaded.Tasks() {
		assert.Equal(t, task.ID == c.ID, task.RecommendedToday, task.Title)
	}
}

func TestStore_RecommendationsExpireAtMidnight(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a", domain.PriorityHigh)
	require.NoError(t, f.store.SetRecommendations([]domain.Recommendation{
		{ID: "r1", TaskID: a.ID, CreatedAt: f.clock.NowTime, SuggestedMinutes: 30},
	}))

	f.clock.Advance(24 * time.Hour)

	assert.Empty(t, f.store.Recommendations())
	assert.Empty(t, f.store.TodayRecommended())
	assert.Empty(t, f.reload().Recommendations())
}

func TestStore_SelectRecommended(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a", domain.PriorityHigh)
	b := f.add(t, "b", domain.PriorityHigh)

	require.NoError(t, f.store.SelectRecommended([]string{b.ID}))

	got, _ := f.store.Task(a.ID)
	assert.False(t, got.RecommendedToday)
	got, _ = f.store.Task(b.ID)
	assert.True(t, got.RecommendedToday)

	at, ok := f.store.LastStandup()
	require.True(t, ok)
	assert.True(t, at.Equal(f.clock.NowTime))
}

func TestStore_SelectionExpiresOnLaterDay(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a", domain.PriorityHigh)
	b := f.add(t, "b", domain.PriorityLow)
	require.NoError(t, f.store.SetRecommendations([]domain.Recommendation{
		{ID: "r1", TaskID: a.ID, CreatedAt: f.clock.NowTime, SuggestedMinutes: 30},
	}))
	require.NoError(t, f.store.SelectRecommended([]string{a.ID, b.ID}))

	sameDay := f.reload()
	for _, task := range sameDay.Tasks() {
		assert.True(t, task.RecommendedToday, task.Title)
	}

	f.clock.Advance(3 * 24 * time.Hour)
	later := f.reload()

	assert.Empty(t, later.Recommendations())
	for _, task := range later.Tasks() {
		assert.False(t, task.RecommendedToday, task.Title)
	}
}

func TestStore_SelectionKeptForTodaysRecommendations(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a", domain.PriorityHigh)
	require.NoError(t, f.store.SelectRecommended([]string{a.ID}))

	f.clock.Advance(24 * time.Hour)
	require.NoError(t, f.store.SetRecommendations([]domain.Recommendation{
		{ID: "r1", TaskID: a.ID, CreatedAt: f.clock.NowTime, SuggestedMinutes: 30},
	}))

	got, ok := f.reload().Task(a.ID)
	require.True(t, ok)
	assert.True(t, got.RecommendedToday)
}

func TestStore_Sessions(t *testing.T) {
	f := newFixture(t)
	task := f.add(t, "a", domain.PriorityHigh)

	require.NoError(t, f.store.AppendSession(domain.FocusSession{
		ID: "s1", TaskID: task.ID, PlannedMinutes: 25, StartedAt: f.clock.NowTime,
	}))
	f.clock.Advance(10 * time.Minute)
	ok, err := f.store.FinishSession("s1", 10, false)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.store.FinishSession("s1", 25, true)
	assert.ErrorIs(t, err, domain.ErrSessionFinished)

	ok, err = f.store.FinishSession("missing", 1, true)
	require.NoError(t, err)
	assert.False(t, ok)

	sessions := f.reload().Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, 10, *sessions[0].ActualMinutes)
	assert.False(t, sessions[0].Completed)

	sessions[0].ActualMinutes = nil
	assert.NotNil(t, f.store.Sessions()[0].ActualMinutes)
}

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	f := newFixture(t)
	f.kv.PutErr = errors.New("disk full")

	task, err := f.store.Add(NewTask{Title: "a"})

	assert.Error(t, err)
	_, found := f.store.Task(task.ID)
	assert.True(t, found)
}

func TestStore_Subscribe(t *testing.T) {
	f := newFixture(t)
	var mu sync.Mutex
	var events []Event
	unsubscribe := f.store.Subscribe(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
		// Re-entrant reads must not deadlock.
		_ = f.store.Tasks()
	})

	task := f.add(t, "a", domain.PriorityHigh)
	_, _ = f.store.Complete(task.ID)
	_, _ = f.store.Complete("missing")
	unsubscribe()
	_, _ = f.store.Delete(task.ID)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, Event{Kind: EventTaskAdded, TaskID: task.ID}, events[0])
	assert.Equal(t, EventTaskCompleted, events[1].Kind)
	assert.Equal(t, "task_completed", events[1].Kind.String())
}

func TestStore_ConcurrentMutations(t *testing.T) {
	f := newFixture(t)
	task := f.add(t, "a", domain.PriorityHigh)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.store.AddActualMinutes(task.ID, 1)
			_ = f.store.Tasks()
		}()
	}
	wg.Wait()

	got, _ := f.store.Task(task.ID)
	require.NotNil(t, got.ActualMinutes)
	assert.Equal(t, 50, *got.ActualMinutes)
}
