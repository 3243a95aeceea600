package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/passview/pkg/artifact"
	"github.com/matzehuels/passview/pkg/sink"
)

// lsCommand creates the ls command that lists recorded passes.
func (c *CLI) lsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "ls [destination]",
		Short: "List recorded passes",
		Long: `List the passes recorded at a destination, one row per pass.

Without an argument the configured output destination is used.`,
		Example: `  passview ls ./diagrams
  passview ls redis://localhost:6379/0
  passview ls --all ./diagrams`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := c.destination(args)
			if err != nil {
				return err
			}
			return c.listPasses(cmd.Context(), dest, all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "also list entries that are not pass diagrams")

	return cmd
}

func (c *CLI) listPasses(ctx context.Context, dest string, all bool) error {
	s, err := openSink(ctx, dest)
	if err != nil {
		return err
	}
	defer s.Close()

	passes, other, err := loadPasses(ctx, s)
	if err != nil {
		return err
	}
	if len(passes) == 0 {
		printInfo("No recorded passes at %s", dest)
		return nil
	}

	fmt.Println(artifactTable(passes))
	printDetail("%d passes in %s (%s)", len(passes), dest, s.Backend())

	if all && len(other) > 0 {
		printNewline()
		printInfo("Other entries")
		for _, name := range other {
			printFile(name)
		}
	}
	return nil
}

// loadPasses lists a sink and groups the pass diagrams. Entries that are not
// pass diagrams are returned separately.
func loadPasses(ctx context.Context, s sink.Sink) ([]artifact.Pass, []string, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	var other []string
	for _, n := range names {
		if _, ok := artifact.Parse(n); !ok {
			other = append(other, n)
		}
	}
	return artifact.Group(names), other, nil
}
