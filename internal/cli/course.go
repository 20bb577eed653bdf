package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flashtrack/pkg/editor"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	ftio "github.com/matzehuels/flashtrack/pkg/io"
)

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create an empty course file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return errs.New(errs.ErrCodeInvalidInput, "%s exists (use --force to overwrite)", path)
				}
			}
			if name == "" {
				name = nameFromPath(path)
			}
			if err := errs.ValidateCourseName(name); err != nil {
				return err
			}

			f := ftio.NewFile(name, cfg.NewCourse())
			f.Color = cfg.Course.Color
			if err := writeCourse(f, path); err != nil {
				return err
			}

			printSuccess("Created course %s", StyleHighlight.Render(name))
			printFile(path)
			printNextStep("Edit it", fmt.Sprintf("%s tui %s", appName, path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "course name (default: file name)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// showCommand creates the "show" command.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print a course summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			ed, f, err := openEditor(cfg, args[0])
			if err != nil {
				return err
			}
			crs := ed.Course()

			fmt.Println(StyleTitle.Render(f.Name))
			printKeyValue("Color", f.Color)
			printKeyValue("Completed", fmt.Sprint(f.Completed))
			printKeyValue("Start", fmt.Sprint(crs.Start()))
			printKeyValue("Finish", fmt.Sprint(crs.Finish()))
			printStats(crs.NodeCount(), crs.EdgeCount())
			return nil
		},
	}
}

// editCommand creates the "edit" command, which replays an event script.
func (c *CLI) editCommand() *cobra.Command {
	var (
		script string
		output string
	)

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Apply a pointer event script to a course",
		Long: `Apply a pointer event script to a course.

A script holds one event per line:

  mode draw
  down 100 100
  drag 150 100
  up 200 100

Events are handled exactly as the interactive editor handles them. The
result is written back to the course file, or to --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())

			ed, f, err := openEditor(cfg, args[0])
			if err != nil {
				return err
			}

			in, err := os.Open(script)
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer in.Close()
			events, err := editor.ParseScript(in)
			if err != nil {
				return err
			}
			logger.Debug("script parsed", "events", len(events))

			prog := newProgress(logger)
			if err := ed.ApplyAll(events); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Applied %d events", len(events)))

			if output == "" {
				output = args[0]
			}
			if err := writeCourse(withCourse(f, ed.Course()), output); err != nil {
				return err
			}
			printSuccess("Edited %s", StyleHighlight.Render(f.Name))
			printStats(ed.Course().NodeCount(), ed.Course().EdgeCount())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&script, "script", "s", "", "event script file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

// convertCommand creates the "convert" command.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert between JSON and legacy XML course files",
		Long: `Convert between JSON and legacy XML course files.

The format is chosen by extension: .xml uses the legacy layout, anything
else is JSON. Use "-" as output to print JSON to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			ed, f, err := openEditor(cfg, args[0])
			if err != nil {
				return err
			}
			if err := writeCourse(withCourse(f, ed.Course()), args[1]); err != nil {
				return err
			}
			if args[1] != "-" {
				printSuccess("Converted %s", StyleHighlight.Render(f.Name))
				printFile(args[1])
			}
			return nil
		},
	}
}

// validateCommand creates the "validate" command. Files are checked concurrently.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check course files for malformed graphs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}

			results := make([]error, len(args))
			var g errgroup.Group
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, path := range args {
				g.Go(func() error {
					ed, _, err := openEditor(cfg, path)
					if err == nil {
						err = ed.Course().Validate()
					}
					results[i] = err
					return nil
				})
			}
			_ = g.Wait()

			failed := 0
			for i, err := range results {
				if err != nil {
					failed++
					printError("%s: %s", args[i], userError(err))
					continue
				}
				printSuccess("%s", args[i])
			}
			if failed > 0 {
				return errs.New(errs.ErrCodeMalformedGraph, "%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}
