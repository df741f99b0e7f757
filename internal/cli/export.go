package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Store  StoreOptions
	Syntax string
	Output string
	Upload string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialize a store as Turtle or N3",
		Long: `Serialize a store as Turtle or N3.

The text is written to stdout, to --output, or uploaded to an
s3://bucket/key object with --upload.

Examples:
  rdfkit export --store ./graph
  rdfkit export --store ./graph --syntax N3 -o graph.n3
  rdfkit export --store ./graph --upload s3://exports/graph.ttl`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, cmd)
		},
	}

	addStoreFlags(cmd, &opts.Store)
	cmd.Flags().StringVarP(&opts.Syntax, "syntax", "s", "TURTLE", "output syntax (TURTLE or N3)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringVar(&opts.Upload, "upload", "", "upload to an s3://bucket/key object")

	return cmd
}

func runExport(ctx context.Context, opts *ExportOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	if opts.Output != "" && opts.Upload != "" {
		return NewExitError(ExitCommandError, "--output and --upload are mutually exclusive")
	}

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

	if opts.Upload != "" {
		if err := m.ExportToObject(ctx, st, opts.Syntax, opts.Upload); err != nil {
			return out.Fail("export failed", err)
		}
		return out.Success(fmt.Sprintf("Uploaded %s to %s", opts.Syntax, opts.Upload))
	}

	text, err := m.Serialize(ctx, st, opts.Syntax)
	if err != nil {
		return out.Fail("export failed", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(text), 0644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return out.Success(fmt.Sprintf("Wrote %s to %s", opts.Syntax, opts.Output))
	}

	if opts.Format == "json" {
		return out.Success(map[string]string{"syntax": opts.Syntax, "text": text})
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}
