package cli

import (
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/chiehanchen/steiner/pkg/errors"
	"github.com/chiehanchen/steiner/pkg/geom"
	netio "github.com/chiehanchen/steiner/pkg/io"
)

// genOpts holds the command-line flags for the gen command.
type genOpts struct {
	output string
	pins   int
	seed   uint64
	width  int
	height int
}

// genCommand creates the gen command for writing random nets.
func (c *CLI) genCommand() *cobra.Command {
	opts := genOpts{pins: 10, width: 100, height: 100}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write a random net",
		Long: `Write a net with uniformly random pins inside a width x height boundary
anchored at the origin. The same seed always produces the same net.`,
		Example: `  steiner gen -n 50 --seed 7 -o net.txt
  steiner gen -n 1000 --width 5000 --height 5000 | steiner solve /dev/stdin out.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				opts.seed = uint64(time.Now().UnixNano())
			}
			return c.runGen(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVarP(&opts.pins, "pins", "n", opts.pins, "number of pins")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (default: time based)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "boundary width")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "boundary height")

	return cmd
}

func (c *CLI) runGen(opts genOpts) error {
	if err := errors.ValidateRange("pins", opts.pins, 0, netio.MaxPins); err != nil {
		return err
	}
	if err := errors.ValidateRange("width", opts.width, 0, 0); err != nil {
		return err
	}
	if err := errors.ValidateRange("height", opts.height, 0, 0); err != nil {
		return err
	}

	n := randomNet(opts.seed, opts.pins, opts.width, opts.height)
	c.Logger.Debug("generated net", "pins", opts.pins, "seed", opts.seed)

	if opts.output == "" {
		return netio.WriteNet(stdout, n)
	}
	if err := netio.WriteNetFile(opts.output, n); err != nil {
		return err
	}
	printSuccess("Generated %d pins (seed %d)", opts.pins, opts.seed)
	printFile(opts.output)
	printNextStep("Route it", "steiner "+opts.output+" out.txt")
	return nil
}

// randomNet places n pins uniformly in [0, width] x [0, height].
func randomNet(seed uint64, n, width, height int) netio.Net {
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
	net := netio.Net{
		Boundary: geom.Rect{XL: 0, YL: 0, XH: width, YH: height},
		Pins:     make([]geom.Point, n),
	}
	for i := range net.Pins {
		net.Pins[i] = geom.Pt(rng.IntN(width+1), rng.IntN(height+1))
	}
	return net
}
