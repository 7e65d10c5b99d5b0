package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/focus-pilot/internal/app"
	"github.com/runoshun/focus-pilot/internal/usecase"
)

// newTaskCommand creates the task command with its subcommands.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage tasks",
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(
		newTaskAddCommand(c),
		newTaskListCommand(c),
		newTaskShowCommand(c),
		newTaskEditCommand(c),
		newTaskDeleteCommand(c),
		newTaskDoneCommand(c),
		newTaskClearCommand(c),
		newTaskSeedCommand(c),
	)
	return cmd
}

// newTaskAddCommand creates the task add subcommand.
func newTaskAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Description string
		Priority    string
		Due         string
		Estimate    int
	}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a new task",
		Long: `Create a new pending task.

Examples:
  # Create a task with default priority (medium)
  focuspilot task add "Write quarterly report"

  # Create a high priority task due on a date with an estimate
  focuspilot task add "Fix login bug" --priority high --due 2025-03-14 --estimate 45`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.NewTaskInput{
				Title:       args[0],
				Description: opts.Description,
				Priority:    opts.Priority,
			}
			if opts.Due != "" {
				due, err := parseDue(opts.Due, c.Clock.Now().Location())
				if err != nil {
					return err
				}
				input.DueDate = &due
			}
			if cmd.Flags().Changed("estimate") {
				input.EstimatedMinutes = &opts.Estimate
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Priority: high, medium or low")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&opts.Estimate, "estimate", "e", 0, "Estimated minutes")

	return cmd
}

// newTaskListCommand creates the task list subcommand.
func newTaskListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status      string
		Priority    string
		All         bool
		Overdue     bool
		Recommended bool
		JSON        bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `Display a list of tasks.

By default, completed tasks are hidden. Use --all to include them.
Tasks selected at today's standup are marked with "*".

Examples:
  # List open tasks
  focuspilot task list

  # List everything including completed tasks
  focuspilot task list --all

  # Only overdue high priority tasks
  focuspilot task list --overdue --priority high`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Status:          opts.Status,
				Priority:        opts.Priority,
				IncludeDone:     opts.All,
				OverdueOnly:     opts.Overdue,
				RecommendedOnly: opts.Recommended,
			})
			if err != nil {
				return err
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out.Tasks)
			}
			printTaskList(cmd.OutOrStdout(), out.Tasks, c.Clock.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status (pending, in_progress, completed)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Filter by priority")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include completed tasks")
	cmd.Flags().BoolVar(&opts.Overdue, "overdue", false, "Only overdue tasks")
	cmd.Flags().BoolVar(&opts.Recommended, "today", false, "Only tasks selected for today")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

// newTaskShowCommand creates the task show subcommand.
func newTaskShowCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long: `Display a task with its checklist, today's recommendation
and the focus sessions recorded on it.

The ID may be abbreviated to any unique prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			printTaskDetails(w, out.Task, c.Clock.Now())
			if out.Recommendation != nil {
				_, _ = fmt.Fprintf(w, "\nRecommended today: %s (%d min)\n",
					out.Recommendation.Reason, out.Recommendation.SuggestedMinutes)
			}
			if len(out.Sessions) > 0 {
				_, _ = fmt.Fprintf(w, "\nSessions (%d min total):\n", out.FocusMinutes)
				for _, s := range out.Sessions {
					_, _ = fmt.Fprintf(w, "  %s  %d min  %s\n",
						s.StartedAt.Format(time.DateTime), s.EffectiveMinutes(), sessionOutcome(s.Completed))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// newTaskEditCommand creates the task edit subcommand.
func newTaskEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Status      string
		Due         string
		Estimate    int
		ClearDue    bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Change fields of an existing task. Only the given flags are applied.

Examples:
  focuspilot task edit 3f2a --priority low
  focuspilot task edit 3f2a --status in_progress --due 2025-03-20
  focuspilot task edit 3f2a --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			input := usecase.EditTaskInput{TaskID: id, ClearDueDate: opts.ClearDue}
			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("description") {
				input.Description = &opts.Description
			}
			if flags.Changed("priority") {
				input.Priority = &opts.Priority
			}
			if flags.Changed("status") {
				input.Status = &opts.Status
			}
			if flags.Changed("estimate") {
				input.EstimatedMinutes = &opts.Estimate
			}
			if flags.Changed("due") {
				due, err := parseDue(opts.Due, c.Clock.Now().Location())
				if err != nil {
					return err
				}
				input.DueDate = &due
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "New priority")
	cmd.Flags().StringVar(&opts.Status, "status", "", "New status")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&opts.Estimate, "estimate", "e", 0, "New estimate in minutes")
	cmd.Flags().BoolVar(&opts.ClearDue, "clear-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")

	return cmd
}

// newTaskDeleteCommand creates the task rm subcommand.
func newTaskDeleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			return nil
		},
	}
}

// newTaskDoneCommand creates the task done subcommand.
func newTaskDoneCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			return nil
		},
	}
}

// newTaskClearCommand creates the task clear subcommand.
func newTaskClearCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ClearCompletedUseCase().Execute(cmd.Context(), usecase.ClearCompletedInput{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed task(s)\n", out.Removed)
			return nil
		},
	}
}

// newTaskSeedCommand creates the task seed subcommand.
func newTaskSeedCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add sample tasks to an empty list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.SeedSampleTasksUseCase().Execute(cmd.Context(), usecase.SeedSampleTasksInput{})
			if err != nil {
				return err
			}
			if out.Skipped {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Task list is not empty, nothing seeded")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d sample tasks\n", len(out.Tasks))
			return nil
		},
	}
}

// newSubtaskCommand creates the subtask command.
func newSubtaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage a task's checklist",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Append a checklist item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.AddSubtaskUseCase().Execute(cmd.Context(), usecase.AddSubtaskInput{TaskID: id, Title: args[1]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added #%d to %s: %s\n",
				len(out.Task.Subtasks), shortID(out.Task.ID), out.Subtask.Title)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <task-id> <n|subtask-id>",
		Short: "Toggle a checklist item",
		Long: `Toggle a checklist item by its 1-based position or its ID.

Completing the last open item completes the task; reopening an item
of a completed task moves it back to in_progress.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			subID := resolveSubtaskID(c, id, args[1])
			out, err := c.ToggleSubtaskUseCase().Execute(cmd.Context(), usecase.ToggleSubtaskInput{TaskID: id, SubtaskID: subID})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Checklist %s, task is %s\n",
				formatChecklist(&out.Task), out.Task.Status.Display())
			return nil
		},
	})

	return cmd
}

// resolveSubtaskID maps a 1-based position or ID prefix to a subtask ID.
func resolveSubtaskID(c *app.Container, taskID, arg string) string {
	task, ok := c.Store.Task(taskID)
	if !ok {
		return arg
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(task.Subtasks) {
		return task.Subtasks[n-1].ID
	}
	for _, s := range task.Subtasks {
		if arg != "" && strings.HasPrefix(s.ID, arg) {
			return s.ID
		}
	}
	return arg
}
