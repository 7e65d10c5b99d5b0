package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/focus-pilot/internal/app"
	"github.com/runoshun/focus-pilot/internal/recommend"
	"github.com/runoshun/focus-pilot/internal/usecase"
)

// newStandupCommand creates the standup command.
func newStandupCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Accept    []string
		AcceptAll bool
		JSON      bool
	}

	cmd := &cobra.Command{
		Use:   "standup",
		Short: "Generate today's recommendations",
		Long: `Ask the assistant which open tasks to work on today.

Without an API key, or when the assistant fails, tasks are ranked by
priority and due date instead. Recommendations replace any earlier
ones. Accept a selection with --accept or --accept-all to mark the
tasks for today.

Examples:
  # Show proposals
  focuspilot standup

  # Accept every proposed task
  focuspilot standup --accept-all

  # Accept a subset
  focuspilot standup --accept 3f2a --accept 9bc1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.GenerateRecommendationsUseCase().Execute(cmd.Context(), usecase.GenerateRecommendationsInput{})
			if err != nil {
				return err
			}

			var accepted *usecase.AcceptStandupOutput
			if opts.AcceptAll || len(opts.Accept) > 0 {
				ids, err := resolveTaskIDs(c, opts.Accept)
				if err != nil {
					return err
				}
				accepted, err = c.AcceptStandupUseCase().Execute(cmd.Context(), usecase.AcceptStandupInput{TaskIDs: ids})
				if err != nil {
					return err
				}
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Standup  *usecase.GenerateRecommendationsOutput `json:"standup"`
					Accepted *usecase.AcceptStandupOutput          `json:"accepted,omitempty"`
				}{out, accepted})
			}

			w := cmd.OutOrStdout()
			if out.LastStandup != nil {
				_, _ = fmt.Fprintf(w, "Last standup: %s\n", out.LastStandup.Format(time.DateTime))
			}
			if len(out.Items) == 0 {
				_, _ = fmt.Fprintln(w, "No open tasks to recommend.")
				return nil
			}
			_, _ = fmt.Fprintf(w, "Recommendations (%s):\n", sourceLabel(out.Source))
			printRecommendations(w, out.Items)

			if accepted != nil {
				_, _ = fmt.Fprintf(w, "\nSelected %d task(s) for today\n", len(accepted.Tasks))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.Accept, "accept", nil, "Accept the given task for today (repeatable)")
	cmd.Flags().BoolVar(&opts.AcceptAll, "accept-all", false, "Accept every recommended task")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("accept", "accept-all")

	return cmd
}

// newTodayCommand creates the today command.
func newTodayCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's plan",
		Long: `Show today's recommendations and the tasks selected at the standup.

Recommendations from earlier days are not shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTodayUseCase().Execute(cmd.Context(), usecase.ListTodayInput{})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			if len(out.Recommendations) == 0 && len(out.Selected) == 0 {
				_, _ = fmt.Fprintln(w, `Nothing planned yet. Run "focuspilot standup".`)
				return nil
			}
			if len(out.Recommendations) > 0 {
				_, _ = fmt.Fprintln(w, "Recommended:")
				printRecommendations(w, out.Recommendations)
			}
			if len(out.Selected) > 0 {
				_, _ = fmt.Fprintln(w, "\nSelected:")
				printTaskList(w, out.Selected, c.Clock.Now())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// newBreakdownCommand creates the breakdown command.
func newBreakdownCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "breakdown <id>",
		Short: "Split a task into checklist steps",
		Long: `Ask the assistant to split a task into 3 to 8 concrete steps and
replace the task's checklist with them. Without an API key a generic
plan is used.

Use --dry-run to print the steps without changing the task.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.BreakdownTaskUseCase().Execute(cmd.Context(), usecase.BreakdownTaskInput{TaskID: id, DryRun: dryRun})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Steps for %q (%s):\n", out.Task.Title, sourceLabel(out.Source))
			for i, title := range out.Titles {
				_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, title)
			}
			if dryRun {
				_, _ = fmt.Fprintln(w, "Dry run, checklist unchanged")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the steps without saving them")

	return cmd
}

func sourceLabel(s recommend.Source) string {
	if s == recommend.SourceAI {
		return "assistant"
	}
	return "priority fallback"
}

// printRecommendations prints recommendations in TSV format.
func printRecommendations(w io.Writer, items []usecase.RecommendedTask) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tPRIORITY\tMINUTES\tTITLE\tREASON")
	for _, item := range items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			shortID(item.Task.ID),
			item.Task.Priority,
			item.Recommendation.SuggestedMinutes,
			item.Task.Title,
			item.Recommendation.Reason,
		)
	}
}
