package hierarchy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/styles"
)

// ErrInvalidNodeID is returned when a node ID is neither a string nor a number.
var ErrInvalidNodeID = errors.New("node ID must be a string or a number")

// NodeID identifies a node. Numeric IDs from JSON input are kept in their
// decimal text form, so 7 and "7" name the same node.
type NodeID string

// UnmarshalJSON accepts a JSON string, a JSON number, or null (the empty ID).
func (id *NodeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = NodeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidNodeID, b)
	}
	*id = NodeID(n.String())
	return nil
}

// TreeNode is one node of the input hierarchy. An empty Parent marks a root.
type TreeNode struct {
	ID     NodeID             `json:"id"`
	Name   string             `json:"name,omitempty"`
	Parent NodeID             `json:"parent,omitempty"`
	Weight *float64           `json:"weight,omitempty"`
	Label  *styles.LabelStyle `json:"label,omitempty"`
}

// IsRoot reports whether the node names no parent.
func (n *TreeNode) IsRoot() bool { return n.Parent == "" }

// DisplayName returns Name, or the ID when no name is set.
func (n *TreeNode) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return string(n.ID)
}

// RenderedNode is a TreeNode placed by the layout: center, radius and
// root-relative depth (root = 0). Node points back at the source TreeNode.
type RenderedNode struct {
	ID     NodeID    `json:"id"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Depth  int       `json:"depth"`
	Radius float64   `json:"radius"`
	Name   string    `json:"name,omitempty"`
	Node   *TreeNode `json:"-"`
}

// Center returns the node center in world coordinates.
func (r *RenderedNode) Center() r2.Vec { return r2.Vec{X: r.X, Y: r.Y} }

// Key returns the identity used by the index. Rendered nodes produced without
// an ID fall back to their TreeNode's ID.
func (r *RenderedNode) Key() NodeID {
	if r.ID == "" && r.Node != nil {
		return r.Node.ID
	}
	return r.ID
}

// Edge connects two nodes. It is undirected for routing purposes.
type Edge struct {
	Source NodeID `json:"source"`
	Target NodeID `json:"target"`
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id NodeID) bool { return e.Source == id || e.Target == id }
