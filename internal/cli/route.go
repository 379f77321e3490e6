package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cactus/pkg/errors"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/pipeline"
)

// routeHop is one node on a printed route.
type routeHop struct {
	ID    hierarchy.NodeID `json:"id"`
	Name  string           `json:"name,omitempty"`
	Depth int              `json:"depth"`
	X     float64          `json:"x"`
	Y     float64          `json:"y"`
}

// routeCommand creates the route command.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		input  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Print the hierarchical route between two nodes",
		Long: `Route prints the chain of nodes an edge between two nodes is bent
through: up from the source to their nearest common ancestor, then down to
the target.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for _, id := range args {
				if err := errors.ValidateNodeID(id); err != nil {
					return err
				}
			}
			opts, err := c.renderOptions()
			if err != nil {
				return err
			}
			opts.SetDefaults()

			var srcArgs []string
			if input != "" {
				srcArgs = []string{input}
			}
			l, _, err := c.loadLayout(ctx, srcArgs, opts)
			if err != nil {
				return err
			}

			sc := pipeline.NewScene(l, opts)
			path, ok := sc.Route(hierarchy.NodeID(args[0]), hierarchy.NodeID(args[1]))
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "unknown node in route %s → %s", args[0], args[1])
			}

			hops := make([]routeHop, len(path))
			for i, n := range path {
				hops[i] = routeHop{ID: n.Key(), Name: n.Name, Depth: n.Depth, X: n.X, Y: n.Y}
			}
			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(hops)
			}
			names := make([]string, len(hops))
			for i, h := range hops {
				names[i] = StyleValue.Render(string(h.ID))
				if i == 0 || i == len(hops)-1 {
					names[i] = StyleHighlight.Render(string(h.ID))
				}
			}
			fmt.Println(strings.Join(names, " "+StyleDim.Render(iconArrow)+" "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", `tree document ("-" for stdin, default [mongo] source)`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the route as JSON")
	return cmd
}
