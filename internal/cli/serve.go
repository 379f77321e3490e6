package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cactus/internal/server"
	"github.com/matzehuels/cactus/pkg/observability"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a tree and interactive viewport sessions over HTTP",
		Long: `Serve lays out the tree once and exposes it over HTTP:

  GET    /api/tree                       the laid-out tree as JSON
  GET    /api/route?from=&to=            the hierarchical route between two nodes
  POST   /api/sessions                   create a viewport session
  GET    /api/sessions/{id}              session state
  POST   /api/sessions/{id}/events       apply pointer, wheel and touch events
  GET    /api/sessions/{id}/frame.{svg|png}  render the session's current view
  DELETE /api/sessions/{id}              end a session`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			opts, err := c.renderOptions()
			if err != nil {
				return err
			}
			src, closeSrc, err := c.openSource(ctx, args)
			if err != nil {
				return err
			}
			defer closeSrc()
			opts.Source = src

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.SetInteractionHooks(logInteractionHooks{c.Logger})
			srv, err := server.New(ctx, runner, server.Config{
				Render:     opts,
				Viewport:   cfg.Viewport,
				SessionTTL: cfg.Server.SessionTTL,
			}, c.Logger)
			if err != nil {
				return err
			}

			printSuccess("Serving %s", src.Name())
			printKeyValue("address", StyleLink.Render(cfg.Server.Addr))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
