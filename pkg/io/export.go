package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/styles"
)

// WriteJSON encodes a tree document to w. The output can be read back with
// [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a tree document to a file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}

// LayoutNode is a positioned node with its parent reference.
type LayoutNode struct {
	hierarchy.RenderedNode
	Parent hierarchy.NodeID `json:"parent,omitempty"`
	Weight *float64         `json:"weight,omitempty"`
	// Label carries the node's label override.
	Label *styles.LabelStyle `json:"label,omitempty"`
}

// Layout is a computed layout for a surface size.
type Layout struct {
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Nodes  []LayoutNode     `json:"nodes"`
	Edges  []hierarchy.Edge `json:"edges,omitempty"`
}

// NewLayout captures rendered nodes and edges for export.
func NewLayout(width, height float64, nodes []hierarchy.RenderedNode, edges []hierarchy.Edge) *Layout {
	l := &Layout{Width: width, Height: height, Nodes: make([]LayoutNode, len(nodes)), Edges: edges}
	for i, n := range nodes {
		ln := LayoutNode{RenderedNode: n}
		ln.Node = nil
		if n.Node != nil {
			ln.Parent = n.Node.Parent
			ln.Weight = n.Node.Weight
			ln.Label = n.Node.Label
		}
		l.Nodes[i] = ln
	}
	return l
}

// Rendered returns rendered nodes linked to freshly built tree nodes.
func (l *Layout) Rendered() []hierarchy.RenderedNode {
	trees := make([]hierarchy.TreeNode, len(l.Nodes))
	out := make([]hierarchy.RenderedNode, len(l.Nodes))
	for i, ln := range l.Nodes {
		trees[i] = hierarchy.TreeNode{ID: ln.ID, Name: ln.Name, Parent: ln.Parent, Weight: ln.Weight, Label: ln.Label}
		out[i] = ln.RenderedNode
		out[i].Node = &trees[i]
	}
	return out
}

// WriteLayout encodes a layout to w.
func WriteLayout(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

// ReadLayout decodes a layout written by [WriteLayout].
func ReadLayout(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &l, nil
}
