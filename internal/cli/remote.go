package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// RemoteOptions holds flags for the remote command.
type RemoteOptions struct {
	*RootOptions
	QueryFile string
}

// NewRemoteCommand creates the remote command.
func NewRemoteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remote <endpoint> [sparql]",
		Short: "Run a SPARQL SELECT query against a remote endpoint",
		Long: `Run a SPARQL SELECT query against a remote SPARQL endpoint.

The query is parsed locally first; malformed queries are never sent.
The connect timeout from the configuration is passed to the endpoint
as its timeout parameter.

Example:
  rdfkit remote https://dbpedia.org/sparql 'SELECT ?s WHERE { ?s ?p ?o } LIMIT 5'`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := queryText(args[1:], opts.QueryFile)
			if err != nil {
				return err
			}
			return runRemote(cmd.Context(), opts, args[0], text, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.QueryFile, "file", "f", "", "read the query from a file")

	return cmd
}

func runRemote(ctx context.Context, opts *RemoteOptions, endpoint, text string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	m, err := newManager(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer m.Close()

	table, err := m.QueryEndpoint(ctx, m.CreateEndpointStore(endpoint), text)
	if err != nil {
		return out.Fail("remote query failed", err)
	}
	return out.Table(table)
}
