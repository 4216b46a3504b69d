package flowgraph

import (
	"github.com/formlane/formlane/pkg/condition"
	"github.com/formlane/formlane/pkg/idwrap"
	"github.com/formlane/formlane/pkg/model/mflow"
)

// FindNextNode computes the node a respondent moves to from fromID given
// their answer. It is the single routing implementation shared by the
// author-time preview and the live respondent runtime; both call sites must
// behave identically, so neither may reimplement any part of this.
//
// Resolution order:
//  1. no outgoing edges: nil (terminal)
//  2. exactly one unconditional outgoing edge: plain passthrough
//  3. first outgoing edge (slice order) whose condition holds for the answer
//  4. legacy pre-migration documents: match the answer text to an option and
//     follow the edge carrying that option's sourceHandle
//  5. first outgoing edge with neither condition nor sourceHandle (default)
//  6. first outgoing edge
//
// Malformed data never raises: dangling targets and unmatched options degrade
// to nil, a dead end for the respondent rather than a crash.
func FindNextNode(nodes []mflow.Node, edges []mflow.Edge, conds mflow.ConditionMap, fromID idwrap.IDWrap, answer mflow.Answer) *mflow.Node {
	outgoing := mflow.OutgoingEdges(edges, fromID)
	if len(outgoing) == 0 {
		return nil
	}

	nodeMap := mflow.BuildNodeMap(nodes)

	if len(outgoing) == 1 {
		if _, ok := conds[outgoing[0].ID]; !ok {
			return nodeMap[outgoing[0].Target]
		}
	}

	if answer != nil {
		for _, e := range outgoing {
			c, ok := conds[e.ID]
			if !ok {
				continue
			}
			if condition.Evaluate(c, answer) {
				return nodeMap[e.Target]
			}
		}

		// Legacy sourceHandle routing, only reachable before reconciliation.
		if target := legacyHandleTarget(nodeMap, outgoing, fromID, answer); target != nil {
			return target
		}
	}

	for _, e := range outgoing {
		if _, ok := conds[e.ID]; ok {
			continue
		}
		if e.SourceHandle == "" {
			return nodeMap[e.Target]
		}
	}

	// Nothing matched and no default edge exists. Following the first edge is
	// deliberate: routing availability wins over signaling misconfiguration,
	// which the publish-time validator reports instead.
	return nodeMap[outgoing[0].Target]
}

func legacyHandleTarget(nodeMap map[idwrap.IDWrap]*mflow.Node, outgoing []mflow.Edge, fromID idwrap.IDWrap, answer mflow.Answer) *mflow.Node {
	handled := false
	for _, e := range outgoing {
		if e.SourceHandle != "" {
			handled = true
			break
		}
	}
	if !handled {
		return nil
	}

	from := nodeMap[fromID]
	if from == nil {
		return nil
	}
	q := from.Question()
	if q == nil {
		return nil
	}

	opt, ok := q.OptionByText(condition.CoerceString(answer))
	if !ok {
		return nil
	}
	for _, e := range outgoing {
		if e.SourceHandle == opt.ID {
			return nodeMap[e.Target]
		}
	}
	return nil
}
