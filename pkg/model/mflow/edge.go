//nolint:revive // exported
package mflow

import (
	"errors"

	"github.com/google/uuid"

	"github.com/formlane/formlane/pkg/idwrap"
)

var ErrEdgeNotFound = errors.New("edge not found")

// edgeNamespace seeds the deterministic v5 edge ids. Fixed forever: edge ids
// must stay stable across processes so persisted documents keep matching.
var edgeNamespace = uuid.MustParse("8f0f7a46-3c5e-49cb-9d8e-6f1a2b3c4d5e")

// EdgeID identifies an edge. It is derived from the ordered (source, target)
// pair, which makes "at most one edge per ordered pair" a structural fact
// rather than a validation rule.
type EdgeID struct {
	uuid.UUID
}

func NewEdgeID(source, target idwrap.IDWrap) EdgeID {
	name := make([]byte, 0, 32)
	name = append(name, source.Bytes()...)
	name = append(name, target.Bytes()...)
	return EdgeID{uuid.NewSHA1(edgeNamespace, name)}
}

func ParseEdgeID(s string) (EdgeID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EdgeID{}, err
	}
	return EdgeID{id}, nil
}

// Edge is pure topology. Conditions live in the ConditionMap keyed by edge id;
// SourceHandle survives only until the reconciler has run.
type Edge struct {
	ID     EdgeID
	Source idwrap.IDWrap
	Target idwrap.IDWrap

	// SourceHandle is the legacy per-option handle. Empty on every edge of a
	// migrated document.
	SourceHandle string
}

// NewEdge builds an edge with its deterministic id.
func NewEdge(source, target idwrap.IDWrap) Edge {
	return Edge{
		ID:     NewEdgeID(source, target),
		Source: source,
		Target: target,
	}
}

// OutgoingEdges returns the edges leaving source, preserving slice order.
// Traversal depends on that order, so callers must not sort the result.
func OutgoingEdges(edges []Edge, source idwrap.IDWrap) []Edge {
	var out []Edge
	for _, e := range edges {
		if e.Source == source {
			out = append(out, e)
		}
	}
	return out
}

// BuildOutgoingAdjacency builds a map of node ID -> list of target node IDs.
func BuildOutgoingAdjacency(edges []Edge) map[idwrap.IDWrap][]idwrap.IDWrap {
	adj := make(map[idwrap.IDWrap][]idwrap.IDWrap)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}

// BuildIncomingAdjacency builds a map of node ID -> list of source node IDs.
func BuildIncomingAdjacency(edges []Edge) map[idwrap.IDWrap][]idwrap.IDWrap {
	adj := make(map[idwrap.IDWrap][]idwrap.IDWrap)
	for _, e := range edges {
		adj[e.Target] = append(adj[e.Target], e.Source)
	}
	return adj
}

// EdgeExists checks if an edge exists between source and target.
func EdgeExists(edges []Edge, source, target idwrap.IDWrap) bool {
	for _, e := range edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}
