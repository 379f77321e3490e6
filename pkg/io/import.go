package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cactus/pkg/hierarchy"
)

var (
	// ErrMissingID is returned for a node without an id.
	ErrMissingID = errors.New("node has no id")
	// ErrUnknownNode is returned for an edge naming a node that is not in the document.
	ErrUnknownNode = errors.New("unknown node")
)

// Document is a tree and its extra edges.
type Document struct {
	Nodes []hierarchy.TreeNode `json:"nodes"`
	Edges []hierarchy.Edge     `json:"edges,omitempty"`
}

// ReadJSON decodes a tree document from r.
//
// Nodes must have an id. Duplicate ids are kept; later stages use the first
// occurrence. Parents that name no node are allowed and make roots. Edges must
// reference known nodes. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var doc Document
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &doc.Nodes)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks ids and edge endpoints.
func (d *Document) Validate() error {
	known := make(map[hierarchy.NodeID]struct{}, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: %w", i, ErrMissingID)
		}
		known[n.ID] = struct{}{}
	}
	for _, e := range d.Edges {
		for _, id := range []hierarchy.NodeID{e.Source, e.Target} {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("edge %s->%s: %w %q", e.Source, e.Target, ErrUnknownNode, id)
			}
		}
	}
	return nil
}

// ImportJSON reads a tree document from the file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
