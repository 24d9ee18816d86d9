package cli

import (
	"github.com/spf13/cobra"

	"github.com/chiehanchen/steiner/pkg/buildinfo"
	"github.com/chiehanchen/steiner/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The root command itself routes a net: "steiner <input> <output>" reads the
// net file, solves it and writes the segment file, like "steiner solve".
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose bool
		flags   solveFlags
	)

	root := &cobra.Command{
		Use:   "steiner <input> <output>",
		Short: "Steiner routes nets with rectilinear Steiner trees",
		Long: `Steiner connects the pins of a net with axis-aligned wire segments.

It builds a rectilinear minimum spanning tree over the pins and improves it
with Steiner points taken from the Hanan grid, then writes the tree as
horizontal and vertical segments.`,
		Version:       buildinfo.Version,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
				observability.SetLogHooks(observability.NewLogHooks(c.Logger))
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], args[1], &flags, false)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.register(root)

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.genCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}
