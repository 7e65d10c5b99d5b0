package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/focus-pilot/internal/app"
	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/tui"
)

// shortIDLen is the number of ID characters shown in tables.
const shortIDLen = 8

// dueLayout is the accepted --due format.
const dueLayout = "2006-01-02"

// errAmbiguousID is returned when an ID prefix matches several tasks.
var errAmbiguousID = errors.New("ambiguous task id")

// resolveTaskID expands a unique ID prefix to the full task ID.
// Unknown IDs are returned unchanged so use cases report not found.
func resolveTaskID(c *app.Container, arg string) (string, error) {
	if _, ok := c.Store.Task(arg); ok {
		return arg, nil
	}
	var matches []string
	for _, t := range c.Store.Tasks() {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d tasks", errAmbiguousID, arg, len(matches))
	}
}

func resolveTaskIDs(c *app.Container, args []string) ([]string, error) {
	ids := make([]string, 0, len(args))
	for _, a := range args {
		id, err := resolveTaskID(c, a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// parseDue parses a YYYY-MM-DD date as the end of that day in loc.
func parseDue(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dueLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d.Add(24*time.Hour - time.Second), nil
}

func formatDue(t *domain.Task, now time.Time) string {
	if t.DueDate == nil {
		return "-"
	}
	s := t.DueDate.Format("Jan 2")
	if t.IsOverdue(now) {
		s += " (overdue)"
	}
	return s
}

func formatMinutes(m *int) string {
	if m == nil {
		return "-"
	}
	return fmt.Sprintf("%dm", *m)
}

func formatChecklist(t *domain.Task) string {
	if len(t.Subtasks) == 0 {
		return "-"
	}
	done := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(t.Subtasks))
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []domain.Task, now time.Time) {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tEST\tCHECKLIST\tTITLE")

	for _, task := range tasks {
		title := task.Title
		if task.RecommendedToday {
			title = "* " + title
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(task.ID),
			task.Status,
			tui.PriorityBadge(task.Priority),
			formatDue(&task, now),
			formatMinutes(task.EstimatedMinutes),
			formatChecklist(&task),
			title,
		)
	}
}

// printTaskDetails prints a task with its checklist.
func printTaskDetails(w io.Writer, task domain.Task, now time.Time) {
	_, _ = fmt.Fprintf(w, "# %s\n\n", task.Title)

	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", task.Description)
	}

	_, _ = fmt.Fprintf(w, "ID: %s\n", task.ID)
	_, _ = fmt.Fprintf(w, "Status: %s\n", task.Status.Display())
	_, _ = fmt.Fprintf(w, "Priority: %s\n", tui.PriorityBadge(task.Priority))
	_, _ = fmt.Fprintf(w, "Due: %s\n", formatDue(&task, now))
	_, _ = fmt.Fprintf(w, "Estimate: %s\n", formatMinutes(task.EstimatedMinutes))
	_, _ = fmt.Fprintf(w, "Focused: %s\n", formatMinutes(task.ActualMinutes))
	_, _ = fmt.Fprintf(w, "Created: %s\n", task.CreatedAt.Format(time.RFC3339))
	if task.CompletedAt != nil {
		_, _ = fmt.Fprintf(w, "Completed: %s\n", task.CompletedAt.Format(time.RFC3339))
	}
	if task.RecommendedToday {
		_, _ = fmt.Fprintln(w, "Selected for today: yes")
	}

	if len(task.Subtasks) > 0 {
		_, _ = fmt.Fprintf(w, "\nChecklist (%.0f%%):\n", task.CompletionRatio()*100)
		for _, s := range task.Subtasks {
			mark := " "
			if s.Completed {
				mark = "x"
			}
			_, _ = fmt.Fprintf(w, "  [%s] %s  %s\n", mark, s.Title, shortID(s.ID))
		}
	}
}
