package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/pipeline"
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		highlight string
		noLabels  bool
	)

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Pan and zoom a cactus diagram in the terminal",
		Long: `View lays out the tree and opens a full-screen viewer. Drag or use the
arrow keys to pan, scroll or press +/- to zoom, and hover a node to light up
its edges. Enter toggles the highlight on the hovered node.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.renderOptions()
			if err != nil {
				return err
			}
			for _, id := range parseIDs(highlight) {
				opts.Highlight = append(opts.Highlight, hierarchy.NodeID(id))
			}
			opts.NoLabels = noLabels
			opts.SetDefaults()

			l, _, err := c.loadLayout(ctx, args, opts)
			if err != nil {
				return err
			}

			sc := pipeline.NewScene(l, opts)
			m := NewViewModel(sc, c.cfg().Viewport, pipeline.FrameOptions(l.Width, l.Height, opts), l.Width)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("viewer closed", "redraws", m.Redraw)
			return nil
		},
	}

	cmd.Flags().StringVar(&highlight, "highlight", "", "node IDs to highlight (comma-separated)")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "do not draw node labels")
	return cmd
}
