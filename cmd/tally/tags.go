package main

import (
	"fmt"

	"github.com/dori/tally/internal/app"
	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/tags"
	"github.com/spf13/cobra"
)

// tagsCmd lists the projects or contexts that still have open work
func tagsCmd(rt *runtime, family tags.Family) *cobra.Command {
	return &cobra.Command{
		Use:   family.String(),
		Short: fmt.Sprintf("Show progress of %s with unfinished tasks", family),
		Long: fmt.Sprintf(`Show every %s tag that still has unfinished tasks, with the share of
finished tasks. A tag also counts the tasks of its sub-tags, so %sHome
includes %sHome-Garden.`, family, family.Sigil(), family.Sigil()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd, func(a *app.App, list *model.List) error {
				active := tags.BuildActiveFilters(list, family)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), rt.renderer(a.Config).ProgressTable(family, active))
				return err
			})
		},
	}
}
