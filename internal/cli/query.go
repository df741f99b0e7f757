package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Store     StoreOptions
	QueryFile string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query [sparql]",
		Short: "Run a SPARQL SELECT query against a local store",
		Long: `Run a SPARQL SELECT query against a local store.

IRIs in the result are compacted with the PREFIX declarations of the
query. Unbound cells are empty.

Examples:
  rdfkit query --store ./graph 'SELECT * WHERE { ?s ?p ?o } LIMIT 10'
  rdfkit query --data people.ttl --data-syntax TURTLE --ontology -f people.rq`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := queryText(args, opts.QueryFile)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), opts, text, cmd)
		},
	}

	addStoreFlags(cmd, &opts.Store)
	cmd.Flags().StringVarP(&opts.QueryFile, "file", "f", "", "read the query from a file")

	return cmd
}

func runQuery(ctx context.Context, opts *QueryOptions, text string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	m, err := newManager(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer m.Close()

	st, release, err := openStore(ctx, m, &opts.Store)
	if err != nil {
		return out.Fail("failed to open store", err)
	}
	defer release()

	table, err := m.Query(ctx, st, text)
	if err != nil {
		return out.Fail("query failed", err)
	}
	return out.Table(table)
}

// queryText takes the query from the single argument or from file.
func queryText(args []string, file string) (string, error) {
	switch {
	case len(args) == 1 && file != "":
		return "", NewExitError(ExitCommandError, "give the query as an argument or with --file, not both")
	case len(args) == 1:
		return args[0], nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", WrapExitError(ExitCommandError, "failed to read query file", err)
		}
		return string(data), nil
	}
	return "", NewExitError(ExitCommandError, "a query is required")
}
