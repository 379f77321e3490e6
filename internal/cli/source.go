package cli

import (
	"context"
	"io"
	"os"

	"github.com/matzehuels/cactus/pkg/cache"
	"github.com/matzehuels/cactus/pkg/errors"
	cactusio "github.com/matzehuels/cactus/pkg/io"
	"github.com/matzehuels/cactus/pkg/pipeline"
	"github.com/matzehuels/cactus/pkg/source/mongo"
)

// stdinName is the input argument that reads the document from stdin.
const stdinName = "-"

// openSource resolves the tree source: a file argument, "-" for stdin, or
// the [mongo] section of the config file when no argument is given. The
// returned close function is never nil.
func (c *CLI) openSource(ctx context.Context, args []string) (pipeline.Source, func(), error) {
	noop := func() {}
	if len(args) > 0 {
		if args[0] == stdinName {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return nil, noop, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
			}
			return pipeline.BytesSource{Label: "stdin", Data: data}, noop, nil
		}
		return pipeline.FileSource(args[0]), noop, nil
	}

	opts := c.cfg().Mongo
	if opts.URI == "" {
		return nil, noop, errors.New(errors.ErrCodeInvalidInput, "no input file given and no [mongo] source configured")
	}
	src, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, noop, err
	}
	return src, func() {
		if err := src.Close(context.WithoutCancel(ctx)); err != nil {
			c.Logger.Warn("mongo disconnect failed", "err", err)
		}
	}, nil
}

// loadLayout loads the tree named by args and lays it out through the
// runner's layout cache.
func (c *CLI) loadLayout(ctx context.Context, args []string, opts pipeline.Options) (*cactusio.Layout, bool, error) {
	src, closeSrc, err := c.openSource(ctx, args)
	if err != nil {
		return nil, false, err
	}
	defer closeSrc()

	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, false, err
	}
	defer runner.Close()

	doc, err := runner.Load(ctx, src)
	if err != nil {
		return nil, false, err
	}
	treeHash, err := cache.HashJSON(doc)
	if err != nil {
		return nil, false, err
	}
	return runner.LayoutWithCacheInfo(ctx, doc, treeHash, opts)
}
