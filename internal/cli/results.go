package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// ResultsOptions holds flags for the results command.
type ResultsOptions struct {
	*RootOptions
	Query string
}

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "results <file>",
		Short: "Convert a SPARQL results document into a table",
		Long: `Convert a saved SPARQL results document (XML or JSON) into a table.

When --query parses, its PREFIX declarations compact the IRIs in the
table; otherwise cells are printed in full.

Example:
  rdfkit results answer.srx --query 'PREFIX foaf: <http://xmlns.com/foaf/0.1/> SELECT ...'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "query that produced the document")

	return cmd
}

func runResults(opts *ResultsOptions, path string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read results document", err)
	}

	m, err := newManager(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer m.Close()

	table, err := m.ParseResultDocument(data, opts.Query)
	if err != nil {
		return out.Fail("failed to parse results document", err)
	}
	return out.Table(table)
}
