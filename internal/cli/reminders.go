package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRemindersCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List or delete plan reminders",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List reminders, syncing their status with the owning plans",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if err := e.enter(ctx, "/reminders"); err != nil {
					return err
				}
				reminders := e.app.Reminders()
				if err := reminders.Mount(ctx); err != nil {
					return err
				}
				defer reminders.Unmount()

				list := reminders.Reminders()
				if len(list) == 0 {
					fmt.Fprintln(e.out, "No reminders")
					return nil
				}
				w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tPLAN\tDUE\tSTATUS\tMESSAGE")
				for _, r := range list {
					title, completed := r.PlanTitle, r.Completed
					if plan, ok := reminders.Plan(r.PlanID); ok {
						title, completed = plan.Title, plan.Completed()
					}
					status := "pending"
					if completed {
						status = "completed"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, title, r.DueDate.Display(), status, r.Message)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:     "delete [reminder-id]",
			Aliases: []string{"rm"},
			Short:   "Delete a reminder",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "reminder-id")
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				if err := e.enter(ctx, "/reminders"); err != nil {
					return err
				}
				reminders := e.app.Reminders()
				if err := reminders.Mount(ctx); err != nil {
					return err
				}
				defer reminders.Unmount()
				return reminders.Delete(ctx, id)
			},
		},
	)
	return cmd
}

func newLearningPlansCommand(e *env) *cobra.Command {
	var ack bool

	cmd := &cobra.Command{
		Use:   "learning-plans",
		Short: "Announce pending plan reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.enter(ctx, "/learning-plans"); err != nil {
				return err
			}
			landing := e.app.LearningPlans()
			if err := landing.Mount(ctx); err != nil {
				return err
			}
			defer landing.Unmount()

			announced := landing.Announced()
			if len(announced) == 0 {
				fmt.Fprintln(e.out, "Nothing pending")
				return nil
			}
			fmt.Fprintf(e.out, "%d pending plan(s)\n", len(announced))
			if ack {
				// Dismissing the visible announcement acknowledges its reminder
				e.app.Notifier.Clear()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ack, "ack", false, "dismiss the last announcement, deleting its reminder")
	return cmd
}
