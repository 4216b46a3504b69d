// Package flowgraph holds the structural operations, the traversal engine and
// the layout algorithms for survey flow graphs.
//
// Operations are total on well-formed input and do not validate that
// referenced node ids exist; a publish-time validator owns well-formedness.
package flowgraph

import (
	"github.com/formlane/formlane/pkg/idwrap"
	"github.com/formlane/formlane/pkg/model/mflow"
	"github.com/formlane/formlane/pkg/patch"
)

// AddNode appends a node of the given kind with type-appropriate default data
// and returns the extended slice plus the new node.
func AddNode(nodes []mflow.Node, kind mflow.NodeKind, x, y float64) ([]mflow.Node, mflow.Node) {
	n := mflow.NewNode(kind, x, y)
	return append(nodes, n), n
}

// AddQuestionNode appends a question node with per-type default data.
func AddQuestionNode(nodes []mflow.Node, qt mflow.QuestionType, x, y float64) ([]mflow.Node, mflow.Node) {
	n := mflow.NewQuestionNode(qt, x, y)
	return append(nodes, n), n
}

// DeleteNode removes the node and every edge incident to it. The ids of the
// removed edges are returned so the caller can prune their conditions.
func DeleteNode(nodes []mflow.Node, edges []mflow.Edge, id idwrap.IDWrap) ([]mflow.Node, []mflow.Edge, []mflow.EdgeID) {
	outNodes := make([]mflow.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ID != id {
			outNodes = append(outNodes, n)
		}
	}

	outEdges := make([]mflow.Edge, 0, len(edges))
	var removed []mflow.EdgeID
	for _, e := range edges {
		if e.Source == id || e.Target == id {
			removed = append(removed, e.ID)
			continue
		}
		outEdges = append(outEdges, e)
	}
	return outNodes, outEdges, removed
}

// UpdateNodeData shallow-merges a sparse patch into the node's data,
// preserving untouched fields. Patches for a different node kind are ignored.
// Reports whether anything was applied.
func UpdateNodeData(nodes []mflow.Node, id idwrap.IDWrap, p patch.NodeDataPatch) bool {
	if p == nil {
		return false
	}
	for i := range nodes {
		if nodes[i].ID == id {
			return p.Apply(nodes[i].Data)
		}
	}
	return false
}

// Connect adds an edge from source to target. The edge id is derived from the
// ordered pair, so reconnecting an already connected pair replaces the edge in
// place instead of duplicating it.
func Connect(edges []mflow.Edge, source, target idwrap.IDWrap) ([]mflow.Edge, mflow.Edge) {
	e := mflow.NewEdge(source, target)
	for i := range edges {
		if edges[i].ID == e.ID {
			edges[i] = e
			return edges, e
		}
	}
	return append(edges, e), e
}
