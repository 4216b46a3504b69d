//nolint:revive // exported
package mflow

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"

	"github.com/formlane/formlane/pkg/idwrap"
)

// FlowData is the canonical persisted shape. It is the only place where edge
// conditions appear embedded on the edge: internally the ConditionMap is the
// single source of truth and edges stay pure topology.
type FlowData struct {
	SchemaVersion int32          `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`
	Nodes         []FlowNodeData `json:"nodes" yaml:"nodes"`
	Edges         []FlowEdgeData `json:"edges" yaml:"edges"`
}

type PositionData struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type FlowNodeData struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     string         `json:"kind" yaml:"kind"`
	Position PositionData   `json:"position" yaml:"position"`
	Data     map[string]any `json:"data" yaml:"data"`
}

type FlowEdgeData struct {
	ID           string         `json:"id" yaml:"id"`
	Source       string         `json:"source" yaml:"source"`
	Target       string         `json:"target" yaml:"target"`
	SourceHandle *string        `json:"sourceHandle" yaml:"sourceHandle"`
	Condition    *ConditionData `json:"condition" yaml:"condition"`
}

type ConditionData struct {
	Type     string `json:"type" yaml:"type"`
	Value    any    `json:"value" yaml:"value"`
	OptionID string `json:"optionId,omitempty" yaml:"optionId,omitempty"`
}

// NewFlowData folds a live graph plus its condition map into the canonical
// persisted shape.
func NewFlowData(nodes []Node, edges []Edge, conds ConditionMap) FlowData {
	out := FlowData{
		SchemaVersion: CurrentSchemaVersion,
		Nodes:         make([]FlowNodeData, 0, len(nodes)),
		Edges:         make([]FlowEdgeData, 0, len(edges)),
	}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, NodeToData(n))
	}
	for _, e := range edges {
		ed := FlowEdgeData{
			ID:     e.ID.String(),
			Source: e.Source.String(),
			Target: e.Target.String(),
		}
		if e.SourceHandle != "" {
			h := e.SourceHandle
			ed.SourceHandle = &h
		}
		if c, ok := conds[e.ID]; ok {
			ed.Condition = &ConditionData{
				Type:     string(c.Kind),
				Value:    c.Value,
				OptionID: c.OptionID,
			}
		}
		out.Edges = append(out.Edges, ed)
	}
	return out
}

// Graph parses the canonical shape back into the live model. Conditions
// embedded on edges seed the condition map. Malformed ids fail loudly here:
// shape violations are a caller contract breach, not a routing concern.
func (fd FlowData) Graph() ([]Node, []Edge, ConditionMap, error) {
	nodes := make([]Node, 0, len(fd.Nodes))
	for _, nd := range fd.Nodes {
		n, err := NodeFromData(nd)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("node %s: %w", nd.ID, err)
		}
		nodes = append(nodes, n)
	}

	edges := make([]Edge, 0, len(fd.Edges))
	conds := make(ConditionMap)
	for _, ed := range fd.Edges {
		source, err := idwrap.NewText(ed.Source)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("edge %s source: %w", ed.ID, err)
		}
		target, err := idwrap.NewText(ed.Target)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("edge %s target: %w", ed.ID, err)
		}
		e := Edge{Source: source, Target: target}
		if ed.ID != "" {
			if e.ID, err = ParseEdgeID(ed.ID); err != nil {
				// Legacy documents carry editor-minted edge ids. Re-derive.
				e.ID = NewEdgeID(source, target)
			}
		} else {
			e.ID = NewEdgeID(source, target)
		}
		if ed.SourceHandle != nil {
			e.SourceHandle = *ed.SourceHandle
		}
		if ed.Condition != nil {
			conds[e.ID] = Condition{
				Kind:     ConditionKind(ed.Condition.Type),
				Value:    ed.Condition.Value,
				OptionID: ed.Condition.OptionID,
			}
		}
		edges = append(edges, e)
	}
	return nodes, edges, conds, nil
}

// NodeToData converts one node to its canonical form. The kind-specific data
// struct is flattened to a plain map via its JSON shape.
func NodeToData(n Node) FlowNodeData {
	out := FlowNodeData{
		ID:       n.ID.String(),
		Kind:     StringNodeKind(n.Kind),
		Position: PositionData{X: n.PositionX, Y: n.PositionY},
	}
	if n.Data != nil {
		raw, err := json.Marshal(n.Data)
		if err == nil {
			_ = json.Unmarshal(raw, &out.Data)
		}
	}
	return out
}

// NodeFromData parses one canonical node, decoding the data map into the
// variant struct matching the node kind.
func NodeFromData(nd FlowNodeData) (Node, error) {
	id, err := idwrap.NewText(nd.ID)
	if err != nil {
		return Node{}, fmt.Errorf("parse id: %w", err)
	}
	n := Node{
		ID:        id,
		Kind:      NodeKindFromString(nd.Kind),
		PositionX: nd.Position.X,
		PositionY: nd.Position.Y,
	}
	switch n.Kind {
	case NODE_KIND_START:
		data := &StartData{}
		if err := decodeDataMap(nd.Data, data); err != nil {
			return Node{}, err
		}
		n.Data = data
	case NODE_KIND_QUESTION:
		data := &QuestionData{}
		if err := decodeDataMap(nd.Data, data); err != nil {
			return Node{}, err
		}
		n.Data = data
	case NODE_KIND_END:
		data := &EndData{}
		if err := decodeDataMap(nd.Data, data); err != nil {
			return Node{}, err
		}
		n.Data = data
	}
	return n, nil
}

func decodeDataMap(m map[string]any, target any) error {
	if m == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("decode node data: %w", err)
	}
	return nil
}
