package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chiehanchen/steiner/pkg/errors"
	netio "github.com/chiehanchen/steiner/pkg/io"
	"github.com/chiehanchen/steiner/pkg/pipeline"
	"github.com/chiehanchen/steiner/pkg/render"
	"github.com/chiehanchen/steiner/pkg/steiner"
)

// plotOpts holds the command-line flags for the plot command.
type plotOpts struct {
	output string  // output file; defaults to the input name with the format extension
	format string  // svg, png or dot
	scale  float64 // pixels per unit; zero fits the plot to 800px
	margin float64 // boundary padding as a fraction of its size
}

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	var (
		flags solveFlags
		opts  plotOpts
	)

	cmd := &cobra.Command{
		Use:   "plot <input> [segments]",
		Short: "Render a routed net",
		Long: `Render the boundary, pins, Steiner points and segments of a net.

If a segment file is given it is drawn as is; otherwise the net is routed
first. SVG is drawn natively; PNG is rasterized by Graphviz.`,
		Example: `  steiner plot net.txt
  steiner plot net.txt out.txt -f png -o net.png
  steiner plot net.txt --scale 4 --margin 0.05`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var segPath string
			if len(args) == 2 {
				segPath = args[1]
			}
			return c.runPlot(cmd, args[0], segPath, &flags, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, dot")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "pixels per coordinate unit (default: fit to 800px)")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "padding as a fraction of the boundary size (default 0.1, negative for none)")

	return cmd
}

func (c *CLI) runPlot(cmd *cobra.Command, in, segPath string, flags *solveFlags, po plotOpts) error {
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
	switch {
	case po.format != "":
		opts.Format = po.format
	case po.output != "":
		if opts.Format, err = formatFromPath(po.output); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("scale") {
		opts.Scale = po.scale
	}
	if cmd.Flags().Changed("margin") {
		opts.Margin = po.margin
	}
	if err := opts.ValidateForPlot(); err != nil {
		return err
	}

	n, err := runner.ReadNet(ctx, in)
	if err != nil {
		return err
	}
	res, err := c.routing(cmd, runner, n, segPath, opts)
	if err != nil {
		return err
	}

	out := po.output
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + "." + opts.Format
	}

	spin := startSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", opts.Format))
	data, cached, err := runner.Plot(ctx, res, opts)
	if spin.stop() && err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return err
	}
	if err := netio.WriteFile(out, data); err != nil {
		return err
	}

	status := iconFresh
	if cached {
		status = iconCached
	}
	printSuccess("Rendered %s plot (%s)", strings.ToUpper(opts.Format), status)
	printFile(out)
	return nil
}

// routing returns the routing to draw: the segment file when given, the
// solved net otherwise.
func (c *CLI) routing(cmd *cobra.Command, runner *pipeline.Runner, n netio.Net, segPath string, opts pipeline.Options) (*pipeline.Result, error) {
	if segPath == "" {
		return runner.Solve(cmd.Context(), n, opts)
	}
	segs, err := netio.ReadSegmentsFile(segPath)
	if err != nil {
		return nil, err
	}
	if err := steiner.Verify(n.Boundary, n.Pins, segs); err != nil {
		// Invalid routings are still drawn; the plot is how they get debugged.
		printWarning("%s: %v", segPath, err)
	}
	return &pipeline.Result{Net: n, Segments: segs, Stats: steiner.Stats{Pins: len(n.Pins)}}, nil
}

// formatFromPath guesses a plot format from a file extension. Paths without
// an extension are drawn as SVG.
func formatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return render.FormatSVG, nil
	}
	if err := errors.ValidateFormat(ext, render.Formats...); err != nil {
		return "", err
	}
	return ext, nil
}
