// Package reconcile migrates legacy per-option edge branching into the
// canonical condition-based representation.
//
// Old documents attach a sourceHandle (an option id) to each branching edge
// and flag the question node. The migration turns every such handle into an
// equals condition on the option's text and nulls the handle, so the
// traversal engine's legacy fallback becomes unreachable.
package reconcile

import (
	"github.com/formlane/formlane/pkg/idwrap"
	"github.com/formlane/formlane/pkg/model/mflow"
)

// NeedsMigration reports whether a persisted document at the given schema
// version still has to pass through Reconcile on load. Documents written at
// the current version skip the scan entirely.
func NeedsMigration(version int32) bool {
	return version < mflow.SchemaVersionConditions
}

// Reconcile normalizes a freshly loaded graph. seed carries the conditions
// that arrived embedded on edges; the result map is authoritative afterwards.
//
// Running it on already-migrated data is a no-op: every sourceHandle is
// already empty and no node carries the legacy flag.
func Reconcile(nodes []mflow.Node, edges []mflow.Edge, seed mflow.ConditionMap) ([]mflow.Node, []mflow.Edge, mflow.ConditionMap) {
	conds := seed.Clone()
	if conds == nil {
		conds = make(mflow.ConditionMap)
	}

	outNodes := make([]mflow.Node, len(nodes))
	for i, n := range nodes {
		outNodes[i] = n.Clone()
	}
	outEdges := make([]mflow.Edge, len(edges))
	copy(outEdges, edges)

	nodeMap := mflow.BuildNodeMap(outNodes)

	for i := range outEdges {
		e := &outEdges[i]
		if e.SourceHandle == "" {
			continue
		}
		migrateHandle(nodeMap, e, conds)
	}

	outEdges = dedupe(outEdges, conds)

	// Clear the deprecated branching flag everywhere, also on nodes whose
	// edges were deleted since the flag was set.
	for i := range outNodes {
		if q := outNodes[i].Question(); q != nil {
			q.BranchByOption = false
		}
	}

	return outNodes, outEdges, conds
}

// migrateHandle synthesizes the condition for one legacy edge and nulls its
// handle. An option id with no matching option still clears the handle: the
// invariant that no edge keeps a sourceHandle outranks preserving a branch
// that could never fire.
func migrateHandle(nodeMap map[idwrap.IDWrap]*mflow.Node, e *mflow.Edge, conds mflow.ConditionMap) {
	handle := e.SourceHandle
	e.SourceHandle = ""

	source, ok := nodeMap[e.Source]
	if !ok {
		return
	}
	q := source.Question()
	if q == nil {
		return
	}
	opt, ok := q.OptionByID(handle)
	if !ok {
		return
	}
	if _, exists := conds[e.ID]; exists {
		// An embedded condition wins over the synthesized one.
		return
	}
	conds[e.ID] = mflow.Condition{
		Kind:     mflow.ConditionEquals,
		Value:    opt.Text,
		OptionID: opt.ID,
	}
}

// dedupe enforces one edge per ordered (source, target) pair. The survivor is
// the first edge of the pair that carries a condition, otherwise the first
// seen.
func dedupe(edges []mflow.Edge, conds mflow.ConditionMap) []mflow.Edge {
	type pair struct {
		source, target idwrap.IDWrap
	}
	out := make([]mflow.Edge, 0, len(edges))
	kept := make(map[pair]int)
	for _, e := range edges {
		key := pair{e.Source, e.Target}
		at, seen := kept[key]
		if !seen {
			kept[key] = len(out)
			out = append(out, e)
			continue
		}
		_, keptHasCond := conds[out[at].ID]
		_, dupHasCond := conds[e.ID]
		if !keptHasCond && dupHasCond {
			out[at] = e
		}
	}
	return out
}
