package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dori/tally/internal/app"
	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/todotxt"
	"github.com/spf13/cobra"
)

func addCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task>",
		Short: "Quick add a task",
		Long: `Add a task written in todo.txt format. The creation date is set to
today unless given, and due: and t: accept natural dates.

Examples:
  tally add "(A) call mom +family @phone due:tomorrow"
  tally add review PR +work t:mon due:fri`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := rt.now()
			line := expandDates(strings.Join(args, " "), today)

			task, err := todotxt.Parse(line)
			if err != nil {
				return err
			}
			if task.CreateDate == nil && !task.Finished {
				task.CreateDate = &today
			}

			return rt.load(cmd, func(a *app.App, list *model.List) error {
				added := list.Add(task)
				if err := a.Store.Save(list); err != nil {
					return err
				}
				a.Logger.Debug("added task", "id", added.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d: %s\n", added.ID, todotxt.Format(added))
				return nil
			})
		},
	}
}

func doneCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>...",
		Short: "Mark tasks as finished",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := rt.now()
			return rt.update(cmd, args, "Finished", func(list *model.List, t model.Task) error {
				return list.Replace(t.Complete(today))
			})
		},
	}
}

func undoCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <id>...",
		Short: "Reopen finished tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := rt.now()
			return rt.update(cmd, args, "Reopened", func(list *model.List, t model.Task) error {
				return list.Replace(reopen(t, today))
			})
		},
	}
}

func rmCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"del"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.update(cmd, args, "Deleted", func(list *model.List, t model.Task) error {
				return list.Remove(t.ID)
			})
		},
	}
}

// reopen clears the finished state. A task without a creation date gets
// today's, as add does, so the line never starts with its subject.
func reopen(t model.Task, today time.Time) model.Task {
	r := t.Reopen()
	if r.CreateDate == nil {
		d := model.DateOf(today)
		r.CreateDate = &d
	}
	return r
}

// update applies fn to every task named in args and saves once. Nothing is
// saved when an ID is unknown.
func (rt *runtime) update(cmd *cobra.Command, args []string, verb string, fn func(*model.List, model.Task) error) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	return rt.load(cmd, func(a *app.App, list *model.List) error {
		var changed []model.Task
		for _, id := range ids {
			t, ok := list.Get(id)
			if !ok {
				return fmt.Errorf("task %d: %w", id, model.ErrTaskNotFound)
			}
			if err := fn(list, t); err != nil {
				return err
			}
			changed = append(changed, t)
		}

		if err := a.Store.Save(list); err != nil {
			return err
		}
		for _, t := range changed {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d: %s\n", verb, t.ID, t.Subject)
		}
		return nil
	})
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid task id %q", arg)
		}
		ids[i] = id
	}
	return ids, nil
}
