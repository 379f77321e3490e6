// Package mongo loads trees from a MongoDB collection.
//
// Each document in the node collection is one tree node. Field names are
// configurable through [Fields]; by default a node looks like
//
//	{"_id": "a", "parent": "root", "name": "Alpha", "weight": 3}
//
// Identifiers may be strings, integers, floats or ObjectIDs; all of them are
// converted to their text form. An optional edge collection holds documents
// with "source" and "target" fields.
//
// A [Source] satisfies the pipeline's source interface, so it can feed the
// render pipeline directly:
//
//	src, err := mongo.Connect(ctx, mongo.Options{URI: uri, Database: "org", Collection: "units"})
//	if err != nil {
//	    return err
//	}
//	defer src.Close(ctx)
//	result, err := runner.Execute(ctx, pipeline.Options{Source: src})
package mongo
