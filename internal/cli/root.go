package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/config"
)

// Execute runs one command line against app
func Execute(ctx context.Context, app *App, args []string) error {
	if args == nil {
		args = []string{}
	}
	root := NewRootCommand(app)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Trees hold flag state, so build a
// new one for every command line.
func NewRootCommand(app *App) *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:   "npmate",
		Short: "npmate - Nginx Proxy Manager from the shell and from AI assistants",
		Long: `npmate manages an Nginx Proxy Manager instance through its REST API.

It can:
  • List, create and remove proxy hosts, streams, redirections and 404 hosts
  • Request and renew SSL certificates
  • Manage access lists and inspect users
  • Serve all of the above as MCP tools (npmate serve)`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configDir != "" {
				config.SetConfigDir(configDir)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.unknownCommand(cmd, args)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ./config or $NPMATE_CONFIG_DIR)")
	root.SetIn(app.in)
	root.SetOut(app.out)
	root.SetErr(app.errOut)

	root.AddCommand(
		newStatusCommand(app),
		newProxyHostsCommand(app),
		newStreamsCommand(app),
		newCertificatesCommand(app),
		newRedirectionsCommand(app),
		newAccessListsCommand(app),
		newDeadHostsCommand(app),
		newUsersCommand(app),
		newServeCommand(app),
		newShellCommand(app),
		newConfigCommand(app),
		newToolsCommand(app),
		newVersionCommand(app),
	)
	return root
}

const groupAnnotation = "npmate/group"

// groupCommand is a command that only dispatches to its subcommands
func groupCommand(app *App, use, short string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:         use,
		Short:       short,
		Args:        cobra.ArbitraryArgs,
		Annotations: map[string]string{groupAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.unknownCommand(cmd, args)
		},
	}
	cmd.AddCommand(subcommands...)
	return cmd
}

// unknownCommand prints the full usage to stdout and fails
func (a *App) unknownCommand(cmd *cobra.Command, args []string) error {
	writeUsage(a.out, cmd.Root())

	switch {
	case !cmd.HasParent() && len(args) == 0:
		return apperr.Input("missing command")
	case !cmd.HasParent():
		return apperr.Input("unknown command %q", args[0])
	case len(args) == 0:
		return apperr.Input("missing subcommand for %s", cmd.Name())
	default:
		return apperr.Input("unknown subcommand %q for %s", args[0], cmd.Name())
	}
}

// writeUsage lists every command and subcommand of root
func writeUsage(w io.Writer, root *cobra.Command) {
	type line struct{ use, short string }
	var lines []line
	width := 0

	for _, cmd := range root.Commands() {
		if !cmd.IsAvailableCommand() {
			continue
		}
		if cmd.Annotations[groupAnnotation] == "" {
			lines = append(lines, line{cmd.Use, cmd.Short})
		}
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				lines = append(lines, line{cmd.Name() + " " + sub.Use, sub.Short})
			}
		}
	}
	for _, l := range lines {
		width = max(width, len(l.use))
	}

	fmt.Fprintf(w, "Usage:\n  %s <command> <subcommand> [id] [flags]\n\nCommands:\n", root.Name())
	for _, l := range lines {
		fmt.Fprintf(w, "  %-*s  %s\n", width, l.use, l.short)
	}
	fmt.Fprintf(w, "\nGlobal Flags:\n%s", root.PersistentFlags().FlagUsages())
	fmt.Fprintf(w, "\nUse \"%s <command> <subcommand> --help\" for the flags of a subcommand.\n", root.Name())
}

// parseID converts a positional id argument
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, apperr.Input("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}
