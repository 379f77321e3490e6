package mongo

import (
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matzehuels/cactus/pkg/errors"
	"github.com/matzehuels/cactus/pkg/hierarchy"
)

// Fields names the document fields read for each node and edge.
type Fields struct {
	ID     string `toml:"id"`
	Parent string `toml:"parent"`
	Name   string `toml:"name"`
	Weight string `toml:"weight"`
	Source string `toml:"source"`
	Target string `toml:"target"`
}

// DefaultFields returns the field names used when none are configured.
func DefaultFields() Fields {
	return Fields{
		ID:     "_id",
		Parent: "parent",
		Name:   "name",
		Weight: "weight",
		Source: "source",
		Target: "target",
	}
}

func (f Fields) withDefaults() Fields {
	d := DefaultFields()
	if f.ID == "" {
		f.ID = d.ID
	}
	if f.Parent == "" {
		f.Parent = d.Parent
	}
	if f.Name == "" {
		f.Name = d.Name
	}
	if f.Weight == "" {
		f.Weight = d.Weight
	}
	if f.Source == "" {
		f.Source = d.Source
	}
	if f.Target == "" {
		f.Target = d.Target
	}
	return f
}

// DecodeNodes converts node documents to tree nodes, in document order.
// A document without an id fails; a missing or null parent makes a root.
func DecodeNodes(docs []bson.M, f Fields) ([]hierarchy.TreeNode, error) {
	f = f.withDefaults()
	out := make([]hierarchy.TreeNode, 0, len(docs))
	for i, d := range docs {
		id, ok := nodeID(d[f.ID])
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidNode, "document %d: missing or invalid %q", i, f.ID)
		}
		if err := errors.ValidateNodeID(string(id)); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		n := hierarchy.TreeNode{ID: id}
		if p, ok := nodeID(d[f.Parent]); ok {
			n.Parent = p
		}
		if name, ok := d[f.Name].(string); ok {
			n.Name = name
		}
		if w, ok := number(d[f.Weight]); ok && w > 0 {
			n.Weight = &w
		}
		out = append(out, n)
	}
	return out, nil
}

// DecodeEdges converts edge documents. Documents missing an endpoint are skipped.
func DecodeEdges(docs []bson.M, f Fields) []hierarchy.Edge {
	f = f.withDefaults()
	out := make([]hierarchy.Edge, 0, len(docs))
	for _, d := range docs {
		src, ok := nodeID(d[f.Source])
		if !ok {
			continue
		}
		tgt, ok := nodeID(d[f.Target])
		if !ok {
			continue
		}
		out = append(out, hierarchy.Edge{Source: src, Target: tgt})
	}
	return out
}

// nodeID converts a BSON value to a NodeID. Integral floats print without
// a fraction so that 7.0 and 7 name the same node.
func nodeID(v any) (hierarchy.NodeID, bool) {
	switch x := v.(type) {
	case string:
		return hierarchy.NodeID(x), x != ""
	case int32:
		return hierarchy.NodeID(strconv.FormatInt(int64(x), 10)), true
	case int64:
		return hierarchy.NodeID(strconv.FormatInt(x, 10)), true
	case int:
		return hierarchy.NodeID(strconv.Itoa(x)), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return hierarchy.NodeID(strconv.FormatFloat(x, 'f', -1, 64)), true
	case primitive.ObjectID:
		if x.IsZero() {
			return "", false
		}
		return hierarchy.NodeID(x.Hex()), true
	default:
		return "", false
	}
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	default:
		return 0, false
	}
}
