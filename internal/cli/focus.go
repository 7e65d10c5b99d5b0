package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/focus-pilot/internal/app"
	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/focus"
	"github.com/runoshun/focus-pilot/internal/tui"
	"github.com/runoshun/focus-pilot/internal/usecase"
)

// runFocusScreenFunc launches the focus screen, allowing it to be mocked in tests.
var runFocusScreenFunc = tui.Run

// headlessInterval is the tick interval of headless sessions.
var headlessInterval = time.Second

// newFocusCommand creates the focus command.
func newFocusCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Minutes  int
		Headless bool
		Quiet    bool
	}

	cmd := &cobra.Command{
		Use:   "focus <id>",
		Short: "Run a focus session on a task",
		Long: fmt.Sprintf(`Start a focus timer on a task.

While the timer runs, the configured do-not-disturb command is executed
and a notification is posted when the session starts and completes.
Stopping early records the whole minutes focused so far.

Without --minutes the length comes from today's recommendation, then
from the task's estimate or title, then from focus.default_minutes.
Common lengths: %v minutes.

Examples:
  # Interactive timer
  focuspilot focus 3f2a

  # 45 minute session without the screen; Ctrl+C stops it
  focuspilot focus 3f2a --minutes 45 --headless`, domain.FocusPresets),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			ctrl := c.FocusController(opts.Quiet)
			out, err := c.StartFocusUseCase(ctrl).Execute(cmd.Context(), usecase.StartFocusInput{
				TaskID:  id,
				Minutes: opts.Minutes,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			var res focus.Result
			if opts.Headless {
				_, _ = fmt.Fprintf(w, "Focusing on %q for %d min (Ctrl+C to stop)\n", out.Snapshot.TaskTitle, out.Minutes)
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				res, err = ctrl.Run(ctx, headlessInterval)
			} else {
				res, err = runFocusScreenFunc(cmd.Context(), ctrl)
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(w, "Session %s: %d min on %q\n", sessionOutcome(res.Completed), res.Minutes, out.Snapshot.TaskTitle)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Minutes, "minutes", "m", 0, "Session length in minutes")
	cmd.Flags().BoolVar(&opts.Headless, "headless", false, "Run without the interactive screen")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Skip do-not-disturb commands and notifications")

	return cmd
}

func sessionOutcome(completed bool) string {
	if completed {
		return "completed"
	}
	return "stopped"
}

// newSessionsCommand creates the sessions command.
func newSessionsCommand(c *app.Container) *cobra.Command {
	var opts struct {
		TaskID string
		Today  bool
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List focus sessions",
		Long: `List recorded focus sessions, newest first.

Examples:
  focuspilot sessions --today
  focuspilot sessions --task 3f2a`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListSessionsInput{TodayOnly: opts.Today}
			if opts.TaskID != "" {
				id, err := resolveTaskID(c, opts.TaskID)
				if err != nil {
					return err
				}
				input.TaskID = id
			}

			out, err := c.ListSessionsUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out.Sessions)
			}
			if len(out.Sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No sessions.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "STARTED\tPLANNED\tACTUAL\tRESULT\tTASK")
			for _, s := range out.Sessions {
				title := s.TaskTitle
				if title == "" {
					title = "(deleted) " + shortID(s.Session.TaskID)
				}
				result := "open"
				if s.Session.IsFinished() {
					result = sessionOutcome(s.Session.Completed)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%dm\t%s\t%s\t%s\n",
					s.Session.StartedAt.Format(time.DateTime),
					s.Session.PlannedMinutes,
					formatMinutes(s.Session.ActualMinutes),
					result,
					title,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.TaskID, "task", "", "Only sessions of this task")
	cmd.Flags().BoolVar(&opts.Today, "today", false, "Only sessions started today")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

// newStatsCommand creates the stats command.
func newStatsCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task and focus statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowStatsUseCase().Execute(cmd.Context(), usecase.ShowStatsInput{})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "[Tasks]")
			_, _ = fmt.Fprintf(w, "Total: %d (pending %d, in progress %d, completed %d)\n",
				out.TotalTasks, out.Pending, out.InProgress, out.Completed)
			_, _ = fmt.Fprintf(w, "Overdue: %d\n", out.Overdue)
			_, _ = fmt.Fprintf(w, "Completion rate: %.0f%%\n", out.CompletionRate()*100)
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, "[Focus]")
			_, _ = fmt.Fprintf(w, "Sessions: %d (%d completed, %d today)\n",
				out.TotalSessions, out.CompletedSessions, out.TodaySessions)
			_, _ = fmt.Fprintf(w, "Focused: %d min total, %d min today\n", out.TotalFocusMinutes, out.TodayFocusMinutes)
			_, _ = fmt.Fprintf(w, "Average session: %.1f min\n", out.AverageSessionMinutes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
