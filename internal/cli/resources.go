package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hession/npmate/internal/npm"
	"github.com/hession/npmate/internal/validation"
)

func listCommand[T any](app *App, short string, list func(*npm.Client, context.Context, ...string) ([]T, error)) *cobra.Command {
	var expand []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			items, err := list(client, cmd.Context(), expand...)
			if err != nil {
				return err
			}
			if items == nil {
				items = []T{}
			}
			return app.printJSON(items)
		},
	}
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "related objects to include, e.g. owner,certificate")
	return cmd
}

func getCommand[T any](app *App, short string, get func(*npm.Client, context.Context, int, ...string) (*T, error)) *cobra.Command {
	var expand []string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			item, err := get(client, cmd.Context(), id, expand...)
			if err != nil {
				return err
			}
			return app.printJSON(item)
		},
	}
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "related objects to include, e.g. owner,certificate")
	return cmd
}

// actionCommand runs an id-only call and prints "<label> <id> <done>"
func actionCommand(app *App, verb, done, short, label string, act func(*npm.Client, context.Context, int) error) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			if err := act(client, cmd.Context(), id); err != nil {
				return err
			}
			app.printf("%s %d %s\n", label, id, done)
			return nil
		},
	}
}

// createCommand validates the flag struct opts, converts it with input and
// prints the created resource
func createCommand[In, Out any](app *App, use, short string, opts any, bind func(*cobra.Command), input func() (In, error), create func(*npm.Client, context.Context, In) (*Out, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.Struct(opts); err != nil {
				return err
			}
			in, err := input()
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			created, err := create(client, cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.printJSON(created)
		},
	}
	bind(cmd)
	return cmd
}

func newProxyHostsCommand(app *App) *cobra.Command {
	opts := &proxyHostOptions{}
	return groupCommand(app, "proxy-hosts", "Manage proxy hosts",
		listCommand(app, "List proxy hosts", (*npm.Client).ListProxyHosts),
		getCommand(app, "Show a proxy host", (*npm.Client).GetProxyHost),
		createCommand(app, "create", "Create a proxy host", opts, opts.bind, opts.input, (*npm.Client).CreateProxyHost),
		actionCommand(app, "delete", "deleted", "Delete a proxy host", "Proxy host", (*npm.Client).DeleteProxyHost),
		actionCommand(app, "enable", "enabled", "Enable a proxy host", "Proxy host", (*npm.Client).EnableProxyHost),
		actionCommand(app, "disable", "disabled", "Disable a proxy host", "Proxy host", (*npm.Client).DisableProxyHost),
	)
}

func newStreamsCommand(app *App) *cobra.Command {
	opts := &streamOptions{}
	return groupCommand(app, "streams", "Manage TCP/UDP streams",
		listCommand(app, "List streams", (*npm.Client).ListStreams),
		getCommand(app, "Show a stream", (*npm.Client).GetStream),
		createCommand(app, "create", "Create a stream", opts, opts.bind, opts.input, (*npm.Client).CreateStream),
		actionCommand(app, "delete", "deleted", "Delete a stream", "Stream", (*npm.Client).DeleteStream),
		actionCommand(app, "enable", "enabled", "Enable a stream", "Stream", (*npm.Client).EnableStream),
		actionCommand(app, "disable", "disabled", "Disable a stream", "Stream", (*npm.Client).DisableStream),
	)
}

func newCertificatesCommand(app *App) *cobra.Command {
	opts := &certificateOptions{}
	renew := func(c *npm.Client, ctx context.Context, id int) error {
		_, err := c.RenewCertificate(ctx, id)
		return err
	}
	return groupCommand(app, "certificates", "Manage SSL certificates",
		listCommand(app, "List certificates", (*npm.Client).ListCertificates),
		getCommand(app, "Show a certificate", (*npm.Client).GetCertificate),
		createCommand(app, "create", "Request a Let's Encrypt certificate", opts, opts.bind, opts.input, (*npm.Client).CreateCertificate),
		actionCommand(app, "delete", "deleted", "Delete a certificate", "Certificate", (*npm.Client).DeleteCertificate),
		actionCommand(app, "renew", "renewed", "Renew a Let's Encrypt certificate", "Certificate", renew),
	)
}

func newRedirectionsCommand(app *App) *cobra.Command {
	opts := &redirectionOptions{}
	return groupCommand(app, "redirections", "Manage redirection hosts",
		listCommand(app, "List redirection hosts", (*npm.Client).ListRedirectionHosts),
		getCommand(app, "Show a redirection host", (*npm.Client).GetRedirectionHost),
		createCommand(app, "create", "Create a redirection host", opts, opts.bind, opts.input, (*npm.Client).CreateRedirectionHost),
		actionCommand(app, "delete", "deleted", "Delete a redirection host", "Redirection host", (*npm.Client).DeleteRedirectionHost),
		actionCommand(app, "enable", "enabled", "Enable a redirection host", "Redirection host", (*npm.Client).EnableRedirectionHost),
		actionCommand(app, "disable", "disabled", "Disable a redirection host", "Redirection host", (*npm.Client).DisableRedirectionHost),
	)
}

func newAccessListsCommand(app *App) *cobra.Command {
	opts := &accessListOptions{}
	return groupCommand(app, "access-lists", "Manage access lists",
		listCommand(app, "List access lists", (*npm.Client).ListAccessLists),
		getCommand(app, "Show an access list", (*npm.Client).GetAccessList),
		createCommand(app, "create", "Create an access list", opts, opts.bind, opts.input, (*npm.Client).CreateAccessList),
		actionCommand(app, "delete", "deleted", "Delete an access list", "Access list", (*npm.Client).DeleteAccessList),
	)
}

func newDeadHostsCommand(app *App) *cobra.Command {
	opts := &deadHostOptions{}
	return groupCommand(app, "dead-hosts", "Manage 404 hosts",
		listCommand(app, "List 404 hosts", (*npm.Client).ListDeadHosts),
		getCommand(app, "Show a 404 host", (*npm.Client).GetDeadHost),
		createCommand(app, "create", "Create a 404 host", opts, opts.bind, opts.input, (*npm.Client).CreateDeadHost),
		actionCommand(app, "delete", "deleted", "Delete a 404 host", "Dead host", (*npm.Client).DeleteDeadHost),
		actionCommand(app, "enable", "enabled", "Enable a 404 host", "Dead host", (*npm.Client).EnableDeadHost),
		actionCommand(app, "disable", "disabled", "Disable a 404 host", "Dead host", (*npm.Client).DisableDeadHost),
	)
}

func newUsersCommand(app *App) *cobra.Command {
	return groupCommand(app, "users", "Inspect users",
		listCommand(app, "List users", (*npm.Client).ListUsers),
		getCommand(app, "Show a user", (*npm.Client).GetUser),
	)
}
