package mflow

// Snapshot is a partialized copy of the document used by the undo stack: just
// the persisted graph, none of the editor's transient selection or drag state.
type Snapshot struct {
	Nodes      []Node       `json:"nodes"`
	Edges      []Edge       `json:"edges"`
	Conditions ConditionMap `json:"edgeConditionMap"`
}

// Clone deep-copies the snapshot so history entries stay immutable while the
// live document keeps mutating.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Conditions: s.Conditions.Clone()}
	if s.Nodes != nil {
		out.Nodes = make([]Node, len(s.Nodes))
		for i, n := range s.Nodes {
			out.Nodes[i] = n.Clone()
		}
	}
	if s.Edges != nil {
		out.Edges = make([]Edge, len(s.Edges))
		copy(out.Edges, s.Edges)
	}
	return out
}
