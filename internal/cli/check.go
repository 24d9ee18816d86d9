package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chiehanchen/steiner/pkg/errors"
	"github.com/chiehanchen/steiner/pkg/geom"
	netio "github.com/chiehanchen/steiner/pkg/io"
	"github.com/chiehanchen/steiner/pkg/mst"
	"github.com/chiehanchen/steiner/pkg/steiner"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <input> <segments>",
		Short: "Verify a segment file against its net",
		Long: `Check that the segments in <segments> route the net in <input>: every
segment is horizontal or vertical, lies inside the boundary, and together
the segments connect all pins. Exits non-zero if the routing is invalid.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(args[0], args[1])
		},
	}
}

func (c *CLI) runCheck(netPath, segPath string) error {
	n, err := netio.ReadNetFile(netPath)
	if err != nil {
		return err
	}
	segs, err := netio.ReadSegmentsFile(segPath)
	if err != nil {
		return err
	}
	c.Logger.Debug("checking routing", "pins", len(n.Pins), "segments", len(segs))

	if err := steiner.Verify(n.Boundary, n.Pins, segs); err != nil {
		printError("Invalid routing")
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", segPath)
	}

	length := geom.TotalLength(segs)
	printSuccess("Valid routing")
	printNewline()
	printKeyValue("pins", strconv.Itoa(len(n.Pins)))
	printKeyValue("segments", strconv.Itoa(len(segs)))
	printKeyValue("length", strconv.Itoa(length))
	if len(n.Pins) >= 2 {
		ref := mst.Prim(n.Pins).Length
		printKeyValue("spanning", strconv.Itoa(ref))
		if ref > 0 {
			printKeyValue("saving", fmt.Sprintf("%.1f%%", 100*float64(ref-length)/float64(ref)))
		}
	}
	return nil
}
