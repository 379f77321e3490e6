package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/cactus/pkg/cache"
	"github.com/matzehuels/cactus/pkg/errors"
	cactusio "github.com/matzehuels/cactus/pkg/io"
)

// DefaultTimeout bounds connecting and each query.
const DefaultTimeout = 10 * time.Second

// Options configures a Source.
type Options struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	// EdgeCollection holds extra edges. Empty means the tree has none.
	EdgeCollection string `toml:"edge_collection"`
	// Filter selects node documents. Nil selects all.
	Filter  bson.M        `toml:"-"`
	Fields  Fields        `toml:"fields"`
	Timeout time.Duration `toml:"timeout"`
}

func (o Options) validate() error {
	switch {
	case o.URI == "":
		return errors.New(errors.ErrCodeInvalidInput, "mongo: uri is required")
	case o.Database == "":
		return errors.New(errors.ErrCodeInvalidInput, "mongo: database is required")
	case o.Collection == "":
		return errors.New(errors.ErrCodeInvalidInput, "mongo: collection is required")
	}
	return nil
}

// finder is the part of *mongo.Collection a Source reads through.
type finder interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Source loads a tree document from MongoDB.
type Source struct {
	opts   Options
	client *mongo.Client
	nodes  finder
	edges  finder
}

// Connect opens a client and verifies the server is reachable.
func Connect(ctx context.Context, opts Options) (*Source, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI).SetConnectTimeout(opts.Timeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		pctx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		return classify(client.Ping(pctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	db := client.Database(opts.Database)
	s := &Source{opts: opts, client: client, nodes: db.Collection(opts.Collection)}
	if opts.EdgeCollection != "" {
		s.edges = db.Collection(opts.EdgeCollection)
	}
	return s, nil
}

// newSource builds a Source over arbitrary finders.
func newSource(opts Options, nodes, edges finder) *Source {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Source{opts: opts, nodes: nodes, edges: edges}
}

// Name identifies the collection without exposing credentials.
func (s *Source) Name() string {
	return fmt.Sprintf("mongo:%s.%s", s.opts.Database, s.opts.Collection)
}

// Load reads every matching node document, and every edge document when an
// edge collection is configured. Transient network failures are retried.
func (s *Source) Load(ctx context.Context) (*cactusio.Document, error) {
	filter := s.opts.Filter
	if filter == nil {
		filter = bson.M{}
	}
	nodeDocs, err := s.find(ctx, s.nodes, filter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load nodes from %s", s.Name())
	}
	nodes, err := DecodeNodes(nodeDocs, s.opts.Fields)
	if err != nil {
		return nil, err
	}
	doc := &cactusio.Document{Nodes: nodes}

	if s.edges != nil {
		edgeDocs, err := s.find(ctx, s.edges, bson.M{})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load edges from %s", s.Name())
		}
		doc.Edges = DecodeEdges(edgeDocs, s.opts.Fields)
	}

	if err := doc.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid tree in %s", s.Name())
	}
	return doc, nil
}

func (s *Source) find(ctx context.Context, f finder, filter bson.M) ([]bson.M, error) {
	var docs []bson.M
	err := cache.RetryWithBackoff(ctx, func() error {
		qctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
		cur, err := f.Find(qctx, filter, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
		if err != nil {
			return classify(err)
		}
		docs = docs[:0]
		return classify(cur.All(qctx, &docs))
	})
	return docs, err
}

// Close disconnects the client.
func (s *Source) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// classify marks transient driver errors as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(fmt.Errorf("%w: %w", cache.ErrNetwork, err))
	}
	return err
}
