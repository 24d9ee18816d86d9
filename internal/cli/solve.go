package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	netio "github.com/chiehanchen/steiner/pkg/io"
	"github.com/chiehanchen/steiner/pkg/pipeline"
)

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		flags  solveFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "solve <input> <output>",
		Short: "Route a net and write its segments",
		Long: `Route the net in <input> and write the segments to <output>.

The input holds the boundary "xl yl xh yh", the pin count and one "x y" line
per pin. The output holds the segment count and one "x1 y1 x2 y2" line per
segment. With --json the output is a JSON document including statistics.`,
		Example: `  steiner solve net.txt out.txt
  steiner solve --max-passes 50 --workers -1 net.txt out.txt
  steiner solve --json --no-cache net.txt out.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], args[1], &flags, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the solution as JSON")

	return cmd
}

// runSolve routes the net at in and writes the result to out.
func (c *CLI) runSolve(cmd *cobra.Command, in, out string, flags *solveFlags, asJSON bool) error {
	ctx := cmd.Context()
	cfg, err := flags.load(cmd)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, flags.explicitCache())
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := flags.options(ctx, cfg)
	prog := newProgress(c.Logger)

	var res *pipeline.Result
	if asJSON {
		n, err := runner.ReadNet(ctx, in)
		if err != nil {
			return err
		}
		if res, err = runner.Solve(ctx, n, opts); err != nil {
			return err
		}
		if err := netio.WriteJSONFile(out, netio.NewSolutionJSON(res.Net, res.Segments, res.Stats)); err != nil {
			return err
		}
	} else if res, err = runner.Execute(ctx, in, out, opts); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Routed %d pins", len(res.Net.Pins)))

	printSuccess("Wrote %d segments", len(res.Segments))
	printFile(out)
	printSolveStats(res.Stats, res.CacheHit)
	return nil
}
