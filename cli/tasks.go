package cli

import (
	"endify/app"
	"endify/models"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAddCmd(rt *runtime) *cobra.Command {
	var req models.CreateTaskRequest

	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a task",
		Example: `  endify add "History essay" --subject History --teacher "Ms. Ruiz" --date 2026-03-02 --time 08:00`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = strings.Join(args, " ")

			return rt.withApp(func(a *app.App) error {
				if err := a.Validator.Validate(req); err != nil {
					return err
				}

				task, err := a.Tasks.Create(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s (due %s %s)\n", task.ID, task.Name, task.Date, task.Time)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Subject, "subject", "", "subject the task belongs to")
	cmd.Flags().StringVar(&req.Teacher, "teacher", "", "teacher who assigned the task")
	cmd.Flags().StringVar(&req.Date, "date", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Time, "time", "", "due time (HH:MM)")
	cmd.Flags().StringVar(&req.Color, "color", "", "tag color, one of "+strings.Join(models.Palette, " "))
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func newListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List tasks, optionally filtered by name, subject or teacher",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			return rt.withApp(func(a *app.App) error {
				tasks, err := a.Tasks.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
					return nil
				}
				printTasks(cmd.OutOrStdout(), tasks)
				return nil
			})
		},
	}
}

func newDoneCmd(rt *runtime) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return rt.withApp(func(a *app.App) error {
				task, err := a.Tasks.SetCompleted(cmd.Context(), id, !undo)
				if err != nil {
					return err
				}
				state := "completed"
				if !task.Completed {
					state = "pending"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", task.ID, state)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark the task as pending again")
	return cmd
}

func newDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return rt.withApp(func(a *app.App) error {
				if err := a.Tasks.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
				return nil
			})
		},
	}
}

func printTasks(w io.Writer, tasks []models.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tDUE\tNAME\tSUBJECT\tTEACHER")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\t%s\n", t.ID, done, t.Date, t.Time, t.Name, t.Subject, t.Teacher)
	}
	tw.Flush()
}
