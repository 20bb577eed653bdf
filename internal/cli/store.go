package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flashtrack/pkg/store"
)

// storeCommand creates the store command group.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage saved courses",
		Long: `Manage saved courses in the configured store.

The backend is chosen by [store] backend in the config file: file (default),
memory, redis or mongo.`,
	}

	cmd.AddCommand(c.storeSaveCommand())
	cmd.AddCommand(c.storeLoadCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())

	return cmd
}

// withStore opens the store, runs fn and closes the store.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) storeSaveCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Save a course file to the store",
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
			f = withCourse(f, ed.Course())
			if name != "" {
				f.Name = name
			}
			if f.Name == "" {
				f.Name = nameFromPath(args[0])
			}

			return c.withStore(cmd.Context(), func(st store.Store) error {
				info, err := st.Save(cmd.Context(), f)
				if err != nil {
					return err
				}
				printSuccess("Saved %s", StyleHighlight.Render(info.Name))
				printStats(info.Nodes, info.Edges)
				printDetail("id %s", info.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "store under this name")
	return cmd
}

func (c *CLI) storeLoadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Write a stored course to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := st.Load(cmd.Context(), name)
				if err != nil {
					return store.NotFound(err, name)
				}
				f, err := rec.File()
				if err != nil {
					return err
				}
				if output == "" {
					output = name + ".json"
				}
				if err := writeCourse(f, output); err != nil {
					return err
				}
				if output != "-" {
					printSuccess("Loaded %s", StyleHighlight.Render(name))
					printFile(output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored courses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				infos, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(infos) == 0 {
					printInfo("No saved courses")
					return nil
				}
				printTable(os.Stdout, courseTable(infos))
				return nil
			})
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored course",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Delete(cmd.Context(), name); err != nil {
					return store.NotFound(err, name)
				}
				printSuccess("Deleted %s", StyleHighlight.Render(name))
				return nil
			})
		},
	}
}
