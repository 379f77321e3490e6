package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cactus/pkg/errors"
	cactusio "github.com/matzehuels/cactus/pkg/io"
	"github.com/matzehuels/cactus/pkg/source/mongo"
)

// fetchCommand creates the command that exports a MongoDB tree to JSON.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		output string
		flags  mongo.Options
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Export a tree stored in MongoDB as a JSON document",
		Long: `Fetch reads node documents (and optionally edge documents) from MongoDB
and writes them as a tree document that render, view and serve accept.
Flags override the [mongo] section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.cfg().Mongo
			changed := cmd.Flags().Changed
			if changed("uri") {
				opts.URI = flags.URI
			}
			if changed("db") {
				opts.Database = flags.Database
			}
			if changed("collection") {
				opts.Collection = flags.Collection
			}
			if changed("edges") {
				opts.EdgeCollection = flags.EdgeCollection
			}
			if changed("timeout") {
				opts.Timeout = flags.Timeout
			}
			return c.runFetch(ctx, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&flags.URI, "uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&flags.Database, "db", "", "database name")
	cmd.Flags().StringVar(&flags.Collection, "collection", "", "node collection")
	cmd.Flags().StringVar(&flags.EdgeCollection, "edges", "", "edge collection (optional)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", mongo.DefaultTimeout, "connect and query timeout")
	return cmd
}

func (c *CLI) runFetch(ctx context.Context, opts mongo.Options, output string) error {
	logger := loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Fetching from MongoDB...")
	spinner.Start()
	src, err := mongo.Connect(ctx, opts)
	if err != nil {
		spinner.StopWithError("Connection failed")
		return err
	}
	defer func() {
		if err := src.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("mongo disconnect failed", "err", err)
		}
	}()

	prog := newProgress(logger)
	doc, err := src.Load(ctx)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return err
	}
	spinner.Stop()
	prog.done("Fetched " + src.Name())

	if output == "" {
		return cactusio.WriteJSON(doc, os.Stdout)
	}
	if err := cactusio.ExportJSON(doc, output); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
	}
	printSuccess("Fetched %s", src.Name())
	printStats(len(doc.Nodes), len(doc.Edges), false)
	printFile(output)
	printNextStep("Render it", "cactus render "+output)
	return nil
}
