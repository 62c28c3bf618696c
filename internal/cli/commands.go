package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hession/npmate/internal/config"
	"github.com/hession/npmate/internal/logger"
	"github.com/hession/npmate/internal/mcpserver"
	"github.com/hession/npmate/internal/tools"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that NPM is reachable and the credentials work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			health, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			return app.printJSON(map[string]any{
				"url":      client.BaseURL(),
				"status":   health.Status,
				"version":  health.Version.String(),
				"readonly": client.ReadOnly(),
			})
		},
	}
}

func newServeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the NPM tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			server, err := mcpserver.New(tools.NewDefaultRegistry(client), Version, logger.L())
			if err != nil {
				return err
			}
			return server.Serve(cmd.Context(), app.in, app.out, mcpErrorLog(logger.GetDefault(), app.errOut))
		},
	}
}

// mcpErrorLog routes MCP protocol errors into the log file when one is open
func mcpErrorLog(l *logger.Logger, fallback io.Writer) io.Writer {
	if l == nil {
		return fallback
	}
	return l.GetWriter(logger.ERROR)
}

func newToolsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the MCP tool schemas as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := app.Registry()
			if err != nil {
				return err
			}
			return app.printJSON(registry.GetSchemas())
		},
	}
}

func newConfigCommand(app *App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			app.printf("%s\n", cfg.String())

			path, _ := config.ConfigPath()
			app.printf("\nConfig file path: %s\n", path)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to check config file: %w", err)
			}

			if err := config.Save(config.DefaultConfig()); err != nil {
				return err
			}
			logger.Info("default configuration written to %s", path)
			app.printf("Configuration written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config.yaml")

	configCmd.AddCommand(initCmd)
	return configCmd
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.printf("npmate v%s\n", Version)
		},
	}
}
