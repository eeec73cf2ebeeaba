package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dori/tally/internal/app"
	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/todofile"
	"github.com/spf13/cobra"
)

func watchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the task list again whenever todo.txt changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, func(a *app.App) error {
				store, ok := a.Store.(*todofile.Store)
				if !ok {
					return errors.New("watch needs the file backend")
				}
				// Only reads from here on
				a.ReleaseLock()

				show := func() {
					list, err := store.Load()
					if err != nil {
						a.Logger.Error("reload failed", "err", err)
						return
					}
					var open []model.Task
					for _, t := range list.Tasks() {
						if !t.Finished && t.IsVisible(rt.now()) {
							open = append(open, t)
						}
					}
					model.Sort(open)
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", rt.renderer(a.Config).Tasks(open))
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				show()
				a.Logger.Info("watching", "path", store.TodoPath)
				return store.Watch(ctx, show)
			})
		},
	}
}
