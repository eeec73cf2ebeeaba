package main

import (
	"fmt"

	"github.com/dori/tally/internal/app"
	"github.com/dori/tally/internal/model"
	"github.com/spf13/cobra"
)

func archiveCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Move finished tasks out of the task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd, func(a *app.App, list *model.List) error {
				n, err := a.Store.Archive(list)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived %d finished tasks, %d remaining\n", n, list.Len())
				return nil
			})
		},
	}
}

func remindCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send desktop notifications for tasks due today or overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd, func(a *app.App, list *model.List) error {
				today := rt.now()
				due, err := a.DueTasks(list, today)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(due) == 0 {
					fmt.Fprintln(out, "Nothing due")
					return nil
				}
				fmt.Fprintln(out, rt.renderer(a.Config).Tasks(due))

				if !a.Notifier.IsEnabled() {
					a.Logger.Info("notifications disabled", "due", len(due))
					return nil
				}
				sent, err := a.Notifier.Remind(due, today)
				a.Logger.Info("sent reminders", "sent", sent, "due", len(due))
				return err
			})
		},
	}
}
