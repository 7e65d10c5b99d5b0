package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
)

const recommendSystemPrompt = `You are a productivity coach for solo founders and independent developers.

From the user's task list, recommend 3 to 5 tasks to prioritize today. Weigh:
1. Task priority (high / medium / low)
2. How close the due date is
3. Complexity and estimated duration
4. Dependencies between tasks
5. A sustainable pace for the day

Reply with a JSON array only. Each element has:
- taskTitle: the task title exactly as given
- reason: one sentence explaining the pick
- suggestedDuration: focus minutes as an integer

Example:
[
  {"taskTitle": "Finish the auth module", "reason": "High priority and due tomorrow", "suggestedDuration": 45}
]`

const breakdownSystemPrompt = `You are a project management coach who turns vague tasks into concrete steps.

Split the user's task into 3 to 8 subtasks. Each subtask should:
1. Be specific and actionable
2. Take between 30 minutes and 2 hours
3. Have a clear definition of done
4. Appear in logical order

Reply with a JSON array only. Each element has:
- title: the subtask title

Example:
[
  {"title": "Sketch the sign-up form"},
  {"title": "Implement the sign-up endpoint"},
  {"title": "Validate sign-up input"}
]`

const dueDateLayout = "Jan 2, 2006"

func buildRecommendPrompt(tasks []domain.Task, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today is %s. These are the open tasks:\n\n", now.Format(dueDateLayout))
	for _, t := range tasks {
		fmt.Fprintf(&b, "Task: %s\n", t.Title)
		if t.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", t.Description)
		}
		fmt.Fprintf(&b, "Priority: %s\n", t.Priority)
		if t.DueDate != nil {
			fmt.Fprintf(&b, "Due: %s\n", t.DueDate.Format(dueDateLayout))
		}
		if t.EstimatedMinutes != nil {
			fmt.Fprintf(&b, "Estimate: %d minutes\n", *t.EstimatedMinutes)
		}
		fmt.Fprintf(&b, "Status: %s\n", t.Status)
		b.WriteString("---\n")
	}
	b.WriteString("\nRecommend the 3 to 5 most important tasks for today and explain each pick.")
	return b.String()
}

func buildBreakdownPrompt(t domain.Task) string {
	var b strings.Builder
	b.WriteString("Break this task into concrete subtasks:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
	}
	fmt.Fprintf(&b, "Priority: %s\n", t.Priority)
	if t.DueDate != nil {
		fmt.Fprintf(&b, "Due: %s\n", t.DueDate.Format(dueDateLayout))
	}
	return b.String()
}
