//nolint:revive // exported
package mflow

import "github.com/formlane/formlane/pkg/idwrap"

type ConditionKind string

const (
	ConditionEquals      ConditionKind = "equals"
	ConditionNotEquals   ConditionKind = "not_equals"
	ConditionContains    ConditionKind = "contains"
	ConditionGreaterThan ConditionKind = "greater_than"
	ConditionLessThan    ConditionKind = "less_than"

	// ConditionExpression gates an edge on an expr-lang expression evaluated
	// against {"answer": answer}. Value holds the expression source.
	ConditionExpression ConditionKind = "expression"
)

// Condition gates traversal of one edge. Value is a scalar, or a slice with
// OR semantics: the condition holds if it holds for any element.
type Condition struct {
	Kind     ConditionKind `json:"type"`
	Value    any           `json:"value"`
	OptionID string        `json:"optionId,omitempty"`
}

func (c Condition) Clone() Condition {
	out := c
	if vs, ok := c.Value.([]any); ok {
		cp := make([]any, len(vs))
		copy(cp, vs)
		out.Value = cp
	}
	return out
}

// ConditionMap is the authoritative store of edge conditions. A missing key
// means the edge is unconditional.
type ConditionMap map[EdgeID]Condition

func (m ConditionMap) Clone() ConditionMap {
	if m == nil {
		return nil
	}
	out := make(ConditionMap, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// Answer is a respondent's answer to one question: string, []string or a
// number, keyed by node id in Answers.
type Answer = any

type Answers map[idwrap.IDWrap]Answer

// CoveredOptions reports which option ids of an option-based question node
// already have a covering outgoing conditional edge.
func CoveredOptions(node Node, edges []Edge, conds ConditionMap) map[string]bool {
	covered := make(map[string]bool)
	q := node.Question()
	if q == nil || !OptionBranchingTypes[q.QuestionType] {
		return covered
	}
	for _, e := range OutgoingEdges(edges, node.ID) {
		if c, ok := conds[e.ID]; ok && c.OptionID != "" {
			covered[c.OptionID] = true
		}
	}
	return covered
}

// AtOptionLimit reports whether every option of an option-based question node
// is already covered by a conditional edge. Non-option nodes are never at the
// limit.
func AtOptionLimit(node Node, edges []Edge, conds ConditionMap) bool {
	q := node.Question()
	if q == nil || !OptionBranchingTypes[q.QuestionType] || len(q.Options) == 0 {
		return false
	}
	covered := CoveredOptions(node, edges, conds)
	for _, opt := range q.Options {
		if !covered[opt.ID] {
			return false
		}
	}
	return true
}

// NextUncoveredOption returns the first option without a covering conditional
// edge, for auto-generating the next branch.
func NextUncoveredOption(node Node, edges []Edge, conds ConditionMap) (Option, bool) {
	q := node.Question()
	if q == nil || !OptionBranchingTypes[q.QuestionType] {
		return Option{}, false
	}
	covered := CoveredOptions(node, edges, conds)
	for _, opt := range q.Options {
		if !covered[opt.ID] {
			return opt, true
		}
	}
	return Option{}, false
}
