// Package cli implements the grocerylist command line.
package cli

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/grocerylistapp/grocerylist/internal/config"
	"github.com/grocerylistapp/grocerylist/internal/di"
)

// app carries state shared by every subcommand.
type app struct {
	overrides config.Overrides
	cfg       *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "grocerylist",
		Short: "Offline-first grocery list",
		Long: `grocerylist keeps a categorised grocery list in a local database and
synchronises it with a remote backend when one is reachable.

Run "grocerylist serve" to expose the local API to a UI shell, or use the
other commands to work with the list directly from a terminal.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			cfg, err := config.Load(a.overrides)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.overrides.EnvFile, "env-file", "", "path to .env file (default: .env)")
	flags.StringVar(&a.overrides.Environment, "env", "", "environment: development, staging or production")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.overrides.DataPath, "data-path", "", `database directory, or "memory" (default: ~/.grocerylist/data)`)
	flags.StringVar(&a.overrides.RemoteURL, "remote-url", "", "backend base URL used until one is saved")
	flags.StringVar(&a.overrides.RemoteTimeout, "remote-timeout", "", "backend request timeout, e.g. 10s")
	flags.StringVar(&a.overrides.Port, "port", "", "local API port")
	flags.StringVar(&a.overrides.DuplicatePolicy, "duplicates", "", "duplicate text policy: reject or allow")
	flags.StringVar(&a.overrides.CascadeDeletes, "cascade", "", "delete a category's items with it: true or false")

	rootCmd.AddCommand(a.serveCommand())
	rootCmd.AddCommand(a.showCommand())
	rootCmd.AddCommand(a.addCommand())
	rootCmd.AddCommand(a.editCommand())
	rootCmd.AddCommand(a.checkCommand())
	rootCmd.AddCommand(a.resetCommand())
	rootCmd.AddCommand(a.pushCommand())
	rootCmd.AddCommand(a.pullCommand())
	rootCmd.AddCommand(a.pingCommand())
	rootCmd.AddCommand(a.loginCommand())
	rootCmd.AddCommand(a.logoutCommand())
	rootCmd.AddCommand(a.whoamiCommand())
	rootCmd.AddCommand(a.inspectCommand())
	rootCmd.AddCommand(versionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// run builds a container for a single command and shuts it down afterwards.
func (a *app) run(fn func(injector *do.RootScope) error) error {
	injector := di.NewContainer(a.cfg)
	log := logger(injector)
	defer func() {
		if err := injector.Shutdown(); err != nil {
			log.Warn("shutdown", "error", err)
		}
	}()
	return fn(injector)
}

func logger(injector *do.RootScope) *slog.Logger {
	return do.MustInvoke[*slog.Logger](injector)
}
