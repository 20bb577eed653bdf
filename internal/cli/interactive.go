package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flashtrack/pkg/config"
	"github.com/matzehuels/flashtrack/pkg/editor"
	ftio "github.com/matzehuels/flashtrack/pkg/io"
	"github.com/matzehuels/flashtrack/pkg/store"
)

// tuiCommand creates the interactive terminal editor command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [file]",
		Short: "Edit a course in the terminal with the mouse",
		Long: `Edit a course in the terminal with the mouse.

With a file argument the course is read from and saved to that file.
Without one, pick a course from the configured store; saving writes it
back to the store.

Keys: d draw, m move, e erase, p play, c clear, s save, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return c.editFile(cfg, args[0])
			}
			return c.editStored(cmd.Context(), cfg)
		},
	}
}

func (c *CLI) editFile(cfg *config.Config, path string) error {
	ed, f, err := openEditor(cfg, path)
	if errors.Is(err, os.ErrNotExist) {
		f = ftio.NewFile(nameFromPath(path), cfg.NewCourse())
		f.Color = cfg.Course.Color
		ed, err = editor.New(cfg.NewCourse()), nil
	}
	if err != nil {
		return err
	}
	return c.runEditor(cfg, ed, f, func(f ftio.File) error {
		return writeCourse(f, path)
	})
}

func (c *CLI) editStored(ctx context.Context, cfg *config.Config) error {
	return c.withStore(ctx, func(st store.Store) error {
		infos, err := st.List(ctx)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			printInfo("No saved courses")
			printNextStep("Create one", fmt.Sprintf("%s tui course.json", appName))
			return nil
		}

		final, err := tea.NewProgram(NewCourseListModel(infos), tea.WithAltScreen()).Run()
		if err != nil {
			return err
		}
		picked := final.(CourseListModel).Selected
		if picked == nil {
			return nil
		}

		rec, err := st.Load(ctx, picked.Name)
		if err != nil {
			return store.NotFound(err, picked.Name)
		}
		f, err := rec.File()
		if err != nil {
			return err
		}
		crs, err := f.Build(cfg.CourseOptions())
		if err != nil {
			return err
		}
		return c.runEditor(cfg, editor.New(crs), f, func(f ftio.File) error {
			_, err := st.Save(ctx, f)
			return err
		})
	})
}

func (c *CLI) runEditor(cfg *config.Config, ed *editor.Editor, f ftio.File, save func(ftio.File) error) error {
	m := NewEditorModel(ed, f, float64(cfg.Course.Width), float64(cfg.Course.Height), save)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(EditorModel); ok && fm.Dirty() {
		printWarning("Quit with unsaved changes to %s", f.Name)
	}
	return nil
}
