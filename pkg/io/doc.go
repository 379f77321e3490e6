// Package io reads and writes cactus trees and computed layouts as JSON.
//
// # Tree format
//
// A tree document has a "nodes" array and an optional "edges" array:
//
//	{
//	  "nodes": [
//	    {"id": "root", "name": "Root"},
//	    {"id": 1, "parent": "root", "weight": 3},
//	    {"id": 2, "parent": "root", "label": {"color": "#c00"}}
//	  ],
//	  "edges": [
//	    {"source": 1, "target": 2}
//	  ]
//	}
//
// IDs may be strings or numbers; numbers are kept in their decimal text form.
// A node without "parent" (or with null) is a root. Edges are the extra
// connectors drawn between nodes; the hierarchy itself comes from parents.
// A bare JSON array is read as the node list.
//
// # Layout format
//
// [WriteLayout] exports positioned nodes for external tools and for caching:
// each node carries id, parent, x, y, depth, radius and name. [ReadLayout]
// reads it back and [Layout.Rendered] rebuilds rendered nodes linked to
// their tree nodes.
package io
