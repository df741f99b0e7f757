package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// SizeOptions holds flags for the size command.
type SizeOptions struct {
	*RootOptions
	Store StoreOptions
}

// NewSizeCommand creates the size command.
func NewSizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "size",
		Short: "Print the number of asserted triples in a store",
		Example: `  rdfkit size --store ./graph
  rdfkit size --data people.ttl --data-syntax TURTLE`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSize(cmd.Context(), opts, cmd)
		},
	}

	addStoreFlags(cmd, &opts.Store)

	return cmd
}

func runSize(ctx context.Context, opts *SizeOptions, cmd *cobra.Command) error {
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

	size, err := m.Size(ctx, st)
	if err != nil {
		return out.Fail("failed to read store size", err)
	}
	if opts.Format == "json" {
		return out.Success(map[string]int64{"size": size})
	}
	return out.Success(fmt.Sprintf("%d", size))
}
