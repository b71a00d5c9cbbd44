// Package cli provides the command-line interface for dynabind.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dynabind/internal/cli/commands"
	"github.com/leapstack-labs/dynabind/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dynabind",
		Short: "dynabind - dynamic member access over database and script handles",
		Long: `dynabind forwards named-member access onto wrapped handles: database
connections, parameterized commands, row cursors, and objects living in
embedded Starlark scripts.

Targets are named entries in dynabind.yaml; members are read, written,
and invoked through a uniform surface regardless of what backs them.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Verbose)
			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				fmt.Fprintf(os.Stderr, "targets configured: %v\n", cfg.TargetNames())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: dynabind.yaml)")
	rootCmd.PersistentFlags().String("format", config.DefaultFormat, "output format: table, json, csv, md")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		commands.NewMembersCommand(),
		commands.NewGetCommand(),
		commands.NewSetCommand(),
		commands.NewCallCommand(),
		commands.NewREPLCommand(),
		commands.NewVersionCommand(Version, BuildDate, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. Verbose mode enables debug output
// on stderr; otherwise only warnings and errors are shown.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
