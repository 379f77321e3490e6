package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cactus/pkg/errors"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/pipeline"
	"github.com/matzehuels/cactus/pkg/styles"
)

// renderFlags holds the command-line flags for the render command.
// Zero values leave the config file's setting in place.
type renderFlags struct {
	output    string
	formats   string
	width     float64
	height    float64
	zoom      float64
	bundling  float64
	style     string
	highlight string
	columns   int
	detailed  bool
	graphviz  bool
	noLabels  bool
	refresh   bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a tree as a cactus diagram",
		Long: `Render lays out a JSON tree document and writes one file per format.

Without a file argument the tree is read from the [mongo] source in the
config file. Use "-" to read the document from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.renderOptions()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, flags.output, opts)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, json, dot, txt (comma-separated)")
	cmd.Flags().Float64Var(&flags.width, "width", 0, "frame width")
	cmd.Flags().Float64Var(&flags.height, "height", 0, "frame height")
	cmd.Flags().Float64Var(&flags.zoom, "zoom", 0, "layout zoom factor")
	cmd.Flags().Float64Var(&flags.bundling, "bundling", 0, "edge bundling strength in [0, 1]")
	cmd.Flags().StringVar(&flags.style, "style", "", "style file (TOML or JSON)")
	cmd.Flags().StringVar(&flags.highlight, "highlight", "", "node IDs to highlight (comma-separated)")
	cmd.Flags().IntVar(&flags.columns, "columns", 0, "text render width in characters")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "include weights in DOT and Graphviz output")
	cmd.Flags().BoolVar(&flags.graphviz, "graphviz", false, "render SVG as a Graphviz node-link diagram")
	cmd.Flags().BoolVar(&flags.noLabels, "no-labels", false, "do not draw node labels")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached layouts and renders")

	return cmd
}

// apply overrides opts with every flag the user set.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	changed := cmd.Flags().Changed
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("zoom") {
		opts.Zoom = f.zoom
	}
	if changed("bundling") {
		opts.Bundling = f.bundling
	}
	if changed("columns") {
		opts.Columns = f.columns
	}
	if f.style != "" {
		st, err := styles.Load(f.style)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidStyle, err, "style %s", f.style)
		}
		opts.Style = st
	}
	for _, id := range parseIDs(f.highlight) {
		opts.Highlight = append(opts.Highlight, hierarchy.NodeID(id))
	}
	opts.Detailed = opts.Detailed || f.detailed
	opts.GraphvizSVG = opts.GraphvizSVG || f.graphviz
	opts.NoLabels = opts.NoLabels || f.noLabels
	opts.Refresh = f.refresh
	return nil
}

func (c *CLI) runRender(ctx context.Context, args []string, output string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

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

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", src.Name()))

	input := ""
	if len(args) > 0 && args[0] != stdinName {
		input = args[0]
	}
	paths, err := writeArtifacts(res.Artifacts, output, input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", src.Name())
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each artifact and returns the paths in format order.
// A single artifact goes to output as given; several share output as a base
// path and get the format as extension.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	var paths []string
	for _, f := range formats {
		path := output
		if path == "" || len(formats) > 1 {
			path = basePath(output, input) + "." + f
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, err
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path. If output is empty it strips the
// extension from input, falling back to the app name. A known format
// extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if errors.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
