package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dori/tally/internal/app"
	"github.com/dori/tally/internal/markup"
	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/tags"
	"github.com/spf13/cobra"
)

func listCmd(rt *runtime) *cobra.Command {
	var (
		projects []string
		contexts []string
		all      bool
		html     bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, most pressing first",
		Long: `List tasks sorted by due date, priority and subject.

Finished tasks and tasks whose threshold date (t:) lies in the future are
hidden unless --all is given. With --project or --context only unfinished
tasks carrying one of the given tags are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(projects) > 0 && len(contexts) > 0 {
				return errors.New("use either --project or --context, not both")
			}

			return rt.load(cmd, func(a *app.App, list *model.List) error {
				today := rt.now()

				var tasks []model.Task
				switch {
				case len(projects) > 0:
					tasks = tags.VisibleTasks(list, tags.Projects, withSigil(projects, tags.Projects), today)
				case len(contexts) > 0:
					tasks = tags.VisibleTasks(list, tags.Contexts, withSigil(contexts, tags.Contexts), today)
				case all:
					tasks = list.Tasks()
				default:
					for _, t := range list.Tasks() {
						if !t.Finished && t.IsVisible(today) {
							tasks = append(tasks, t)
						}
					}
				}
				model.Sort(tasks)

				out := cmd.OutOrStdout()
				if html {
					return writeHTML(out, tasks)
				}
				_, err := fmt.Fprintln(out, rt.renderer(a.Config).Tasks(tasks))
				return err
			})
		},
	}

	cmd.Flags().StringSliceVarP(&projects, "project", "p", nil, "Only tasks in these projects")
	cmd.Flags().StringSliceVarP(&contexts, "context", "c", nil, "Only tasks in these contexts")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include finished and deferred tasks")
	cmd.Flags().BoolVar(&html, "html", false, "Print subjects as HTML markup")

	return cmd
}

// withSigil lets filters be given as "home" or "+home"
func withSigil(filters []string, family tags.Family) []string {
	out := make([]string, len(filters))
	for i, f := range filters {
		if !strings.HasPrefix(f, family.Sigil()) {
			f = family.Sigil() + f
		}
		out[i] = f
	}
	return out
}

func writeHTML(w io.Writer, tasks []model.Task) error {
	var b strings.Builder
	b.WriteString("<ul>\n")
	for _, t := range tasks {
		class := "open"
		if t.Finished {
			class = "done"
		}
		fmt.Fprintf(&b, "  <li class=\"%s\" data-id=\"%d\">%s</li>\n", class, t.ID, markup.RenderSubject(t))
	}
	b.WriteString("</ul>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
