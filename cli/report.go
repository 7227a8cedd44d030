package cli

import (
	"endify/app"
	"fmt"

	"github.com/spf13/cobra"
)

func newOverdueCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List pending tasks whose due time has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(func(a *app.App) error {
				tasks, err := a.Overdue.Overdue(cmd.Context())
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing overdue.")
					return nil
				}
				printTasks(cmd.OutOrStdout(), tasks)
				return nil
			})
		},
	}
}

func newStatsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show productivity statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(func(a *app.App) error {
				p, err := a.Tasks.Productivity(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total tasks:       %d\n", p.TotalTasks)
				fmt.Fprintf(out, "Completed:         %d\n", p.CompletedTasks)
				fmt.Fprintf(out, "Busiest day:       %s (%d tasks)\n", p.BusiestDay, p.BusiestDayCount)
				fmt.Fprintf(out, "Average per day:   %.1f\n", p.AvgTasksPerDay)
				fmt.Fprintf(out, "\n%s\n", p.Recommendation)
				return nil
			})
		},
	}
}

func newThemeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the preferred theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"light", "dark"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(func(a *app.App) error {
				if len(args) == 1 {
					if err := a.Preferences.SetTheme(cmd.Context(), args[0]); err != nil {
						return err
					}
				}
				theme, err := a.Preferences.GetTheme(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
				return nil
			})
		},
	}
}
