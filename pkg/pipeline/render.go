package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cactus/pkg/canvas"
	"github.com/matzehuels/cactus/pkg/errors"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	cactusio "github.com/matzehuels/cactus/pkg/io"
	"github.com/matzehuels/cactus/pkg/layout"
	"github.com/matzehuels/cactus/pkg/render/nodelink"
	"github.com/matzehuels/cactus/pkg/scene"
	"github.com/matzehuels/cactus/pkg/viewport"
)

// Render draws l into every format in opts.Formats. Formats are rendered
// concurrently; each one gets its own scene because scenes are not safe for
// concurrent use. The first failure cancels the rest.
func Render(ctx context.Context, l *cactusio.Layout, opts Options) (map[string][]byte, error) {
	if l == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no layout")
	}

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, format, l, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// NewScene builds a scene from a layout with the options' style.
func NewScene(l *cactusio.Layout, opts Options) *scene.Scene {
	nodes := l.Rendered()
	return scene.New(layout.Pointers(nodes), l.Edges, opts.Style)
}

// FrameOptions returns the per-frame options for a surface of the given size.
func FrameOptions(width, height float64, opts Options) scene.Options {
	var hl map[hierarchy.NodeID]struct{}
	if len(opts.Highlight) > 0 {
		hl = make(map[hierarchy.NodeID]struct{}, len(opts.Highlight))
		for _, id := range opts.Highlight {
			hl[id] = struct{}{}
		}
	}
	return scene.Options{
		Width:       width,
		Height:      height,
		Bundling:    opts.Bundling,
		Curve:       opts.Curve,
		Highlighted: hl,
		NoLabels:    opts.NoLabels,
	}
}

func renderFormat(ctx context.Context, format string, l *cactusio.Layout, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The layout is already fitted to the surface, so static renders use the
	// identity viewport.
	vp := viewport.NewState(viewport.FallbackMinZoom, viewport.FallbackMaxZoom)

	switch format {
	case FormatSVG:
		if opts.GraphvizSVG {
			sc := NewScene(l, opts)
			return nodelink.RenderSVG(ctx, nodelink.ToDOT(sc.Index(), l.Edges, sc.Style(), nodelink.Options{Detailed: opts.Detailed}))
		}
		dc := canvas.NewSVG(l.Width, l.Height)
		NewScene(l, opts).Draw(dc, vp, FrameOptions(l.Width, l.Height, opts))
		return dc.Bytes(), nil

	case FormatPNG:
		dc := canvas.NewRaster(int(math.Ceil(l.Width)), int(math.Ceil(l.Height)))
		NewScene(l, opts).Draw(dc, vp, FrameOptions(l.Width, l.Height, opts))
		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatTXT:
		cols := opts.Columns
		// Terminal cells are about twice as tall as they are wide.
		rows := max(1, int(math.Round(float64(cols)*l.Height/l.Width/2)))
		dc := canvas.NewGrid(cols, rows, l.Width/float64(cols), l.Height/float64(rows))
		NewScene(l, opts).Draw(dc, vp, FrameOptions(l.Width, l.Height, opts))
		return []byte(dc.String()), nil

	case FormatJSON:
		var buf bytes.Buffer
		if err := cactusio.WriteLayout(l, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatDOT:
		sc := NewScene(l, opts)
		return []byte(nodelink.ToDOT(sc.Index(), l.Edges, sc.Style(), nodelink.Options{Detailed: opts.Detailed})), nil

	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}
