package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flashtrack/pkg/render/dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file path, "-" for stdout
	format    string // "dot", "svg" or "png"
	noCache   bool   // bypass the render cache
	labels    bool   // print node ids
	landmarks bool   // draw the start and finish circles
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(dot.FormatSVG), landmarks: true}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a course with Graphviz",
		Long: `Render a course with Graphviz.

Nodes are pinned at their course positions and laid out with neato, so the
picture matches the editor. SVG and PNG output is cached by content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <file>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label nodes with their ids")
	cmd.Flags().BoolVar(&opts.landmarks, "landmarks", opts.landmarks, "draw start and finish")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, err := dot.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	ed, f, err := openEditor(cfg, path)
	if err != nil {
		return err
	}
	r, err := c.newRenderer(opts.noCache)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(format)
	}

	spinner := newSpinnerWithContext(ctx, "Rendering "+f.Name+"...")
	if out != "-" {
		spinner.Start()
	}
	prog := newProgress(logger)
	data, err := r.Render(ctx, ed.Course(), format, dot.Options{
		Scale:     cfg.Render.Scale,
		Color:     f.Color,
		Landmarks: opts.landmarks,
		Labels:    opts.labels,
	})
	if out != "-" {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	logger.Debug("rendered", "format", format, "bytes", len(data))

	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	prog.done("Rendered " + filepath.Base(out))
	printSuccess("Rendered %s", StyleHighlight.Render(f.Name))
	printStats(ed.Course().NodeCount(), ed.Course().EdgeCount(), string(format))
	printFile(out)
	return nil
}
