package main

import (
	"fmt"
	"time"

	"github.com/dori/tally/internal/app"
	"github.com/dori/tally/internal/config"
	"github.com/dori/tally/internal/logging"
	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/tags"
	"github.com/dori/tally/internal/ui"
	"github.com/dori/tally/internal/ui/theme"
	"github.com/spf13/cobra"
)

// runtime carries the global flags and builds the app for each command
type runtime struct {
	configPath string
	todoFile   string
	backend    string
	theme      string
	logLevel   string

	// today is fixed for tests, zero means the current day
	today time.Time
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&runtime{})
}

func newRootCmdWith(rt *runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tally",
		Short: "tally - todo.txt task lists with projects, contexts and progress",
		Long: `tally keeps a todo.txt task list, either as plain files or in SQLite.

Tasks use the todo.txt format: an optional (A) priority, +project and
@context tags, and key:value keywords such as due:2024-05-01 or t:2024-04-20.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rt.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tally/config.toml)")
	flags.StringVarP(&rt.todoFile, "todo-file", "f", "", "todo.txt file to use")
	flags.StringVar(&rt.backend, "backend", "", "Storage backend (file, sqlite)")
	flags.StringVar(&rt.theme, "theme", "", "Theme (nord, dracula, gruvbox, catppuccin)")
	flags.StringVar(&rt.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		listCmd(rt),
		addCmd(rt),
		doneCmd(rt),
		undoCmd(rt),
		rmCmd(rt),
		tagsCmd(rt, tags.Projects),
		tagsCmd(rt, tags.Contexts),
		archiveCmd(rt),
		remindCmd(rt),
		exportCmd(rt),
		importCmd(rt),
		watchCmd(rt),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig layers the global flags over files and environment
func (rt *runtime) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	return config.Load(rt.configPath, func(cfg *config.Config) {
		if flags.Changed("todo-file") {
			cfg.TodoFile = rt.todoFile
		}
		if flags.Changed("backend") {
			cfg.Backend = rt.backend
		}
		if flags.Changed("theme") {
			cfg.Theme = rt.theme
		}
		if flags.Changed("log-level") {
			cfg.LogLevel = rt.logLevel
		}
	})
}

// run opens the app, calls fn and closes the app again
func (rt *runtime) run(cmd *cobra.Command, fn func(*app.App) error) error {
	cfg, err := rt.loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.NewWithOptions(cmd.ErrOrStderr(), logging.Options{
		Level:     cfg.LogLevel,
		Formatter: cfg.LogFormat,
	})
	if err != nil {
		return err
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close failed", "err", err)
		}
	}()

	return fn(a)
}

// load runs fn with the loaded task list
func (rt *runtime) load(cmd *cobra.Command, fn func(*app.App, *model.List) error) error {
	return rt.run(cmd, func(a *app.App) error {
		list, err := a.Store.Load()
		if err != nil {
			return err
		}
		return fn(a, list)
	})
}

func (rt *runtime) now() time.Time {
	if !rt.today.IsZero() {
		return model.DateOf(rt.today)
	}
	return model.Today()
}

func (rt *runtime) renderer(cfg *config.Config) *ui.Renderer {
	th, ok := theme.ByName(cfg.Theme)
	if !ok {
		th = theme.Nord
	}
	r := ui.NewRenderer(th, 0)
	r.Today = rt.now()
	return r
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tally v%s\n", version)
		},
	}
}
