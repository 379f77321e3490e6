package pipeline

import (
	"github.com/matzehuels/cactus/pkg/errors"
	cactusio "github.com/matzehuels/cactus/pkg/io"
	"github.com/matzehuels/cactus/pkg/layout"
)

// ComputeLayout places doc as a cactus for the options' surface size.
func ComputeLayout(doc *cactusio.Document, opts Options) (*cactusio.Layout, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no document")
	}
	if err := errors.ValidateDimensions(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	nodes := layout.Compute(opts.Width, opts.Height, opts.Zoom, doc.Nodes, opts.Layout)
	return cactusio.NewLayout(opts.Width, opts.Height, nodes, doc.Edges), nil
}
