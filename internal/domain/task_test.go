package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func taskWithSubtasks(n int) *Task {
	task := &Task{
		ID:        "t1",
		Title:     "Ship release",
		Priority:  PriorityHigh,
		Status:    StatusPending,
		CreatedAt: testNow,
	}
	for i := 0; i < n; i++ {
		task.Subtasks = append(task.Subtasks, Subtask{
			ID:        string(rune('a' + i)),
			Title:     "step",
			CreatedAt: testNow,
		})
	}
	return task
}

func TestTask_ReconcileStatus_AllSubtasksCompleted(t *testing.T) {
	task := taskWithSubtasks(3)

	for i := range task.Subtasks {
		task.Subtasks[i].Toggle(testNow)
		task.ReconcileStatus(testNow)
	}

	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
}

func TestTask_ReconcileStatus_ReopenedSubtask(t *testing.T) {
	task := taskWithSubtasks(2)
	for i := range task.Subtasks {
		task.Subtasks[i].Toggle(testNow)
	}
	task.ReconcileStatus(testNow)
	require.Equal(t, StatusCompleted, task.Status)

	task.Subtasks[1].Toggle(testNow.Add(time.Minute))
	task.ReconcileStatus(testNow.Add(time.Minute))

	assert.Equal(t, StatusInProgress, task.Status)
	assert.Nil(t, task.CompletedAt)
	assert.Nil(t, task.Subtasks[1].CompletedAt)
	assert.False(t, task.Subtasks[1].Completed)
}

func TestTask_ReconcileStatus_PartialKeepsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   Status
	}{
		{name: "pending stays pending", status: StatusPending, want: StatusPending},
		{name: "in progress stays in progress", status: StatusInProgress, want: StatusInProgress},
		{name: "completed reverts", status: StatusCompleted, want: StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := taskWithSubtasks(2)
			task.Status = tt.status
			task.Subtasks[0].Toggle(testNow)

			task.ReconcileStatus(testNow)

			assert.Equal(t, tt.want, task.Status)
		})
	}
}

func TestTask_ReconcileStatus_NoSubtasksKeepsExplicitStatus(t *testing.T) {
	task := taskWithSubtasks(0)
	task.MarkCompleted(testNow)

	task.ReconcileStatus(testNow.Add(time.Hour))

	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
}

func TestTask_CompletionRatio(t *testing.T) {
	task := taskWithSubtasks(4)
	assert.InDelta(t, 0.0, task.CompletionRatio(), 1e-9)

	task.Subtasks[0].Toggle(testNow)
	assert.InDelta(t, 0.25, task.CompletionRatio(), 1e-9)

	empty := taskWithSubtasks(0)
	assert.InDelta(t, 0.0, empty.CompletionRatio(), 1e-9)
	empty.MarkCompleted(testNow)
	assert.InDelta(t, 1.0, empty.CompletionRatio(), 1e-9)
}

func TestTask_IsOverdue(t *testing.T) {
	yesterday := testNow.Add(-24 * time.Hour)
	tomorrow := testNow.Add(24 * time.Hour)

	tests := []struct {
		due    *time.Time
		name   string
		status Status
		want   bool
	}{
		{name: "no due date", due: nil, status: StatusPending, want: false},
		{name: "past due and open", due: &yesterday, status: StatusPending, want: true},
		{name: "past due but completed", due: &yesterday, status: StatusCompleted, want: false},
		{name: "due in future", due: &tomorrow, status: StatusInProgress, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{DueDate: tt.due, Status: tt.status}
			assert.Equal(t, tt.want, task.IsOverdue(testNow))
		})
	}
}

func TestTask_DaysUntilDue(t *testing.T) {
	task := &Task{}
	_, ok := task.DaysUntilDue(testNow)
	assert.False(t, ok)

	due := testNow.Add(72*time.Hour + time.Hour)
	task.DueDate = &due
	days, ok := task.DaysUntilDue(testNow)
	assert.True(t, ok)
	assert.Equal(t, 3, days)
}

func TestTask_AddActualMinutes(t *testing.T) {
	task := &Task{}
	task.AddActualMinutes(0)
	assert.Nil(t, task.ActualMinutes)

	task.AddActualMinutes(25)
	task.AddActualMinutes(10)
	require.NotNil(t, task.ActualMinutes)
	assert.Equal(t, 35, *task.ActualMinutes)
}

func TestTask_Clone(t *testing.T) {
	due := testNow.Add(time.Hour)
	est := 30
	task := taskWithSubtasks(1)
	task.DueDate = &due
	task.EstimatedMinutes = &est

	c := task.Clone()
	c.Subtasks[0].Title = "changed"
	*c.DueDate = testNow
	*c.EstimatedMinutes = 99

	assert.Equal(t, "step", task.Subtasks[0].Title)
	assert.Equal(t, due, *task.DueDate)
	assert.Equal(t, 30, *task.EstimatedMinutes)
}

func TestTask_FindSubtask(t *testing.T) {
	task := taskWithSubtasks(2)
	assert.Equal(t, 1, task.FindSubtask("b"))
	assert.Equal(t, -1, task.FindSubtask("zz"))
}
