package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flashtrack/pkg/play"
)

// playCommand creates the play command, which checks a recorded trace.
func (c *CLI) playCommand() *cobra.Command {
	var (
		trace string
		mark  bool
	)

	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Check a traced path against a course",
		Long: `Check a traced path against a course.

The trace holds one "x y" position per line. The run starts once a position
lands in the start circle, fails when a segment crosses an edge and completes
when a position reaches the finish circle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			ed, f, err := openEditor(cfg, args[0])
			if err != nil {
				return err
			}

			in, err := os.Open(trace)
			if err != nil {
				return fmt.Errorf("open trace: %w", err)
			}
			defer in.Close()
			points, err := play.ParseTrace(in)
			if err != nil {
				return err
			}

			run := play.New(ed.Course())
			state := run.FeedAll(points)
			loggerFromContext(cmd.Context()).Debug("trace played",
				"points", len(points), "used", len(run.Trace()), "state", state)

			switch state {
			case play.Complete:
				printSuccess("Course %s complete", StyleHighlight.Render(f.Name))
				if mark && !f.Completed {
					f.Completed = true
					if err := writeCourse(f, args[0]); err != nil {
						return err
					}
					printDetail("marked completed")
				}
			case play.OutOfBounds:
				id, _ := run.Crossed()
				printError("Out of bounds: crossed edge %d", id)
			case play.Drawing:
				printWarning("Trace ended before the finish")
			default:
				printWarning("Trace never entered the start circle")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&trace, "trace", "t", "", "trace file")
	cmd.Flags().BoolVar(&mark, "mark", false, "mark the course completed on success")
	_ = cmd.MarkFlagRequired("trace")
	return cmd
}
