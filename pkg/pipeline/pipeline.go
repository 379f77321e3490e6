// Package pipeline provides the batch rendering pipeline for Cactus.
//
// The pipeline turns a tree document into finished artifacts and is shared
// by the CLI and the HTTP server so that both cache and render the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a tree document from a [Source] (file, bytes, MongoDB)
//  2. Layout: place the tree as a cactus (cached by tree hash and options)
//  3. Render: draw the scene into every requested format concurrently
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  pipeline.FileSource("tree.json"),
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cactus/pkg/cache"
	"github.com/matzehuels/cactus/pkg/errors"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	cactusio "github.com/matzehuels/cactus/pkg/io"
	"github.com/matzehuels/cactus/pkg/layout"
	"github.com/matzehuels/cactus/pkg/route"
	"github.com/matzehuels/cactus/pkg/styles"
)

const (
	// DefaultWidth is the default surface width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default surface height in pixels.
	DefaultHeight = 600.0

	// DefaultColumns is the width of text renders in terminal cells.
	DefaultColumns = 100
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTXT  = "txt"
)

// Options contains all configuration for one pipeline run.
type Options struct {
	// Source provides the tree document.
	Source Source `json:"-"`

	// Layout options
	Width  float64        `json:"width,omitempty"`
	Height float64        `json:"height,omitempty"`
	Zoom   float64        `json:"zoom,omitempty"`
	Layout layout.Options `json:"layout"`

	// Render options
	Formats     []string           `json:"formats,omitempty"`
	Style       styles.Style       `json:"style"`
	Bundling    float64            `json:"bundling,omitempty"`
	Curve       route.CurveOptions `json:"curve"`
	Highlight   []hierarchy.NodeID `json:"highlight,omitempty"`
	NoLabels    bool               `json:"no_labels,omitempty"`
	Detailed    bool               `json:"detailed,omitempty"`
	Columns     int                `json:"columns,omitempty"`
	GraphvizSVG bool               `json:"graphviz_svg,omitempty"`

	// Refresh skips cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the loaded tree.
	Document *cactusio.Document

	// TreeHash is the content hash of the document.
	TreeHash string

	// Layout is the placed tree.
	Layout *cactusio.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Zoom == 0 {
		o.Zoom = 1
	}
	if o.Layout == (layout.Options{}) {
		o.Layout = layout.DefaultOptions()
	}
	if o.Curve.ControlRatio == 0 {
		o.Curve.ControlRatio = route.DefaultControlRatio
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(f)
	}
	if o.Columns <= 0 {
		o.Columns = DefaultColumns
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options after defaults have been applied.
func (o *Options) Validate() error {
	if o.Source == nil {
		return errors.New(errors.ErrCodeInvalidInput, "a source is required")
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Bundling < 0 || o.Bundling > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "bundling must be in [0, 1], got %g", o.Bundling)
	}
	for _, id := range o.Highlight {
		if err := errors.ValidateNodeID(string(id)); err != nil {
			return err
		}
	}
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:          o.Width,
		Height:         o.Height,
		Zoom:           o.Zoom,
		Overlap:        o.Layout.Overlap,
		ArcSpan:        o.Layout.ArcSpan,
		SizeGrowthRate: o.Layout.SizeGrowthRate,
		Orientation:    o.Layout.Orientation,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	styleHash, _ := cache.HashJSON(struct {
		Style     styles.Style
		Curve     route.CurveOptions
		Highlight []hierarchy.NodeID
		NoLabels  bool
		Columns   int
		Graphviz  bool
	}{o.Style, o.Curve, o.Highlight, o.NoLabels, o.Columns, o.GraphvizSVG})
	return cache.ArtifactKeyOpts{
		Format:    format,
		StyleHash: styleHash,
		Bundling:  o.Bundling,
		Detailed:  o.Detailed,
	}
}
