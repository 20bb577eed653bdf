package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flashtrack/internal/api"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editing HTTP API",
		Long: `Run the editing HTTP API.

Clients open sessions, send pointer events and save courses to the
configured store. The server stops cleanly on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			r, err := c.newRenderer(noCache)
			if err != nil {
				return err
			}

			srv, err := api.New(api.Options{
				Config:   cfg,
				Store:    st,
				Renderer: r,
				Logger:   c.Logger,
			})
			if err != nil {
				return err
			}

			c.Logger.Info("store opened", "backend", cfg.Store.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	return cmd
}
