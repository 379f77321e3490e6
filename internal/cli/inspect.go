package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cactus/pkg/pipeline"
)

// levelSummary describes one leaf-relative level.
type levelSummary struct {
	Level int `json:"level"`
	Nodes int `json:"nodes"`
}

// inspectReport is the output of "cactus inspect".
type inspectReport struct {
	Source    string         `json:"source"`
	Nodes     int            `json:"nodes"`
	Edges     int            `json:"edges"`
	Leaves    int            `json:"leaves"`
	MaxDepth  int            `json:"max_depth"`
	Levels    []levelSummary `json:"levels"`
	MinZoom   float64        `json:"min_zoom"`
	MaxZoom   float64        `json:"max_zoom"`
	LayoutHit bool           `json:"layout_cached"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the hierarchy levels and zoom limits of a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.renderOptions()
			if err != nil {
				return err
			}
			opts.SetDefaults()

			l, hit, err := c.loadLayout(ctx, args, opts)
			if err != nil {
				return err
			}
			sc := pipeline.NewScene(l, opts)
			ix := sc.Index()

			rep := inspectReport{
				Source:    sourceLabel(args),
				Nodes:     ix.Len(),
				Edges:     len(sc.Edges()),
				Leaves:    len(ix.Leaves()),
				MaxDepth:  ix.MaxDepth(),
				LayoutHit: hit,
			}
			for _, lvl := range ix.Levels() {
				rep.Levels = append(rep.Levels, levelSummary{Level: lvl, Nodes: len(ix.Level(lvl))})
			}
			rep.MinZoom, rep.MaxZoom = sc.ZoomLimits(opts.Width, opts.Height)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			printReport(rep)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(rep inspectReport) {
	fmt.Println(StyleTitle.Render(rep.Source))
	printStats(rep.Nodes, rep.Edges, rep.LayoutHit)
	printKeyValue("leaves", strconv.Itoa(rep.Leaves))
	printKeyValue("max depth", strconv.Itoa(rep.MaxDepth))
	printKeyValue("zoom", fmt.Sprintf("%.3g – %.3g", rep.MinZoom, rep.MaxZoom))
	if len(rep.Levels) == 0 {
		return
	}

	rows := make([][]string, len(rep.Levels))
	for i, lvl := range rep.Levels {
		rows[i] = []string{strconv.Itoa(lvl.Level), strconv.Itoa(lvl.Nodes)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Level", "Nodes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 1:
				return StyleNumber.Padding(0, 1)
			default:
				return StyleValue.Padding(0, 1)
			}
		})
	fmt.Println(t.Render())
}

// sourceLabel names the input for display.
func sourceLabel(args []string) string {
	if len(args) == 0 {
		return "mongo"
	}
	if args[0] == stdinName {
		return "stdin"
	}
	return args[0]
}
