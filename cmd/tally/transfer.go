package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dori/tally/internal/app"
	"github.com/dori/tally/internal/export"
	"github.com/dori/tally/internal/model"
	"github.com/spf13/cobra"
)

func exportCmd(rt *runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd, func(a *app.App, list *model.List) error {
				doc := export.Export(list)
				if output == "" || output == "-" {
					return export.Write(cmd.OutOrStdout(), doc)
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				if err := export.Write(f, doc); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				a.Logger.Info("exported tasks", "count", len(doc.Tasks), "path", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func importCmd(rt *runtime) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add tasks from a JSON export",
		Long: `Add the tasks of a JSON export to the task list. The file is validated
against the export schema first; nothing is changed when it is invalid.
Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			imported, err := export.Read(r)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			return rt.load(cmd, func(a *app.App, list *model.List) error {
				if replace {
					for _, t := range list.Tasks() {
						if err := list.Remove(t.ID); err != nil {
							return err
						}
					}
				}
				for _, t := range imported.Tasks() {
					list.Add(t)
				}
				if err := a.Store.Save(list); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", imported.Len())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the task list instead of appending")
	return cmd
}
