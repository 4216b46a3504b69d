//nolint:revive // exported
package mflow

import (
	"github.com/formlane/formlane/pkg/idwrap"
)

type NodeKind = int32

const (
	NODE_KIND_UNSPECIFIED NodeKind = 0
	NODE_KIND_START       NodeKind = 1
	NODE_KIND_QUESTION    NodeKind = 2
	NODE_KIND_END         NodeKind = 3
)

const (
	KindStartString    = "start"
	KindQuestionString = "question"
	KindEndString      = "end"
)

func StringNodeKind(k NodeKind) string {
	switch k {
	case NODE_KIND_START:
		return KindStartString
	case NODE_KIND_QUESTION:
		return KindQuestionString
	case NODE_KIND_END:
		return KindEndString
	}
	return "unspecified"
}

func NodeKindFromString(s string) NodeKind {
	switch s {
	case KindStartString:
		return NODE_KIND_START
	case KindQuestionString:
		return NODE_KIND_QUESTION
	case KindEndString:
		return NODE_KIND_END
	}
	return NODE_KIND_UNSPECIFIED
}

type QuestionType string

const (
	QuestionMultipleChoiceSingle QuestionType = "multiple_choice_single"
	QuestionMultipleChoiceMulti  QuestionType = "multiple_choice_multi"
	QuestionYesNo                QuestionType = "yes_no"
	QuestionRating               QuestionType = "rating"
	QuestionNPS                  QuestionType = "nps"
	QuestionShortText            QuestionType = "short_text"
	QuestionLongText             QuestionType = "long_text"
	QuestionNumber               QuestionType = "number"
	QuestionEmail                QuestionType = "email"
	QuestionDropdown             QuestionType = "dropdown"
	QuestionDate                 QuestionType = "date"
)

// OptionBranchingTypes are the question types whose answers map one-to-one
// onto options, so conditional edges can cover them option by option.
var OptionBranchingTypes = map[QuestionType]bool{
	QuestionYesNo:                true,
	QuestionMultipleChoiceSingle: true,
	QuestionDropdown:             true,
}

// Option is one selectable answer of an option-based question. Option ids are
// free-form strings because legacy documents carry ids minted by the editor UI.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NodeData is the kind-specific payload variant of a Node.
type NodeData interface {
	isNodeData()
	Clone() NodeData
}

type StartData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ButtonText  string `json:"buttonText"`
}

func (StartData) isNodeData() {}

func (d *StartData) Clone() NodeData {
	c := *d
	return &c
}

type QuestionData struct {
	QuestionType QuestionType `json:"questionType"`
	QuestionText string       `json:"questionText"`
	Description  string       `json:"description,omitempty"`
	Required     bool         `json:"required"`
	Options      []Option     `json:"options,omitempty"`
	MinValue     *int         `json:"minValue,omitempty"`
	MaxValue     *int         `json:"maxValue,omitempty"`
	MinLabel     string       `json:"minLabel,omitempty"`
	MaxLabel     string       `json:"maxLabel,omitempty"`
	Placeholder  string       `json:"placeholder,omitempty"`
	MaxLength    *int         `json:"maxLength,omitempty"`

	// BranchByOption is the legacy per-option-handle branching flag. The
	// reconciler clears it after migrating the node's edges to conditions.
	BranchByOption bool `json:"branchByOption,omitempty"`
}

func (QuestionData) isNodeData() {}

func (d *QuestionData) Clone() NodeData {
	c := *d
	if d.Options != nil {
		c.Options = make([]Option, len(d.Options))
		copy(c.Options, d.Options)
	}
	if d.MinValue != nil {
		v := *d.MinValue
		c.MinValue = &v
	}
	if d.MaxValue != nil {
		v := *d.MaxValue
		c.MaxValue = &v
	}
	if d.MaxLength != nil {
		v := *d.MaxLength
		c.MaxLength = &v
	}
	return &c
}

// OptionByID resolves an option by id. Returns false for unknown ids.
func (d *QuestionData) OptionByID(id string) (Option, bool) {
	for _, opt := range d.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// OptionByText resolves an option by its display text.
func (d *QuestionData) OptionByText(text string) (Option, bool) {
	for _, opt := range d.Options {
		if opt.Text == text {
			return opt, true
		}
	}
	return Option{}, false
}

type EndData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ShowScore   bool   `json:"showScore"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

func (EndData) isNodeData() {}

func (d *EndData) Clone() NodeData {
	c := *d
	return &c
}

// Position holds canvas coordinates of a node's top-left corner.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Node struct {
	ID        idwrap.IDWrap
	Kind      NodeKind
	PositionX float64
	PositionY float64
	Data      NodeData
}

func (n Node) Clone() Node {
	c := n
	if n.Data != nil {
		c.Data = n.Data.Clone()
	}
	return c
}

// Question returns the node's question payload, or nil for non-question nodes.
func (n Node) Question() *QuestionData {
	q, _ := n.Data.(*QuestionData)
	return q
}

// NewNode constructs a node of the given kind with type-appropriate defaults.
func NewNode(kind NodeKind, x, y float64) Node {
	n := Node{
		ID:        idwrap.NewNow(),
		Kind:      kind,
		PositionX: x,
		PositionY: y,
	}
	switch kind {
	case NODE_KIND_START:
		n.Data = &StartData{Title: "Welcome", ButtonText: "Start"}
	case NODE_KIND_QUESTION:
		n.Data = DefaultQuestionData(QuestionShortText)
	case NODE_KIND_END:
		n.Data = &EndData{Title: "Thank you"}
	}
	return n
}

// NewQuestionNode constructs a question node with per-type default data.
func NewQuestionNode(qt QuestionType, x, y float64) Node {
	return Node{
		ID:        idwrap.NewNow(),
		Kind:      NODE_KIND_QUESTION,
		PositionX: x,
		PositionY: y,
		Data:      DefaultQuestionData(qt),
	}
}

// DefaultQuestionData builds the default payload for a question type.
func DefaultQuestionData(qt QuestionType) *QuestionData {
	d := &QuestionData{
		QuestionType: qt,
		QuestionText: "New question",
	}
	switch qt {
	case QuestionMultipleChoiceSingle, QuestionMultipleChoiceMulti, QuestionDropdown:
		d.Options = []Option{
			{ID: idwrap.NewNow().String(), Text: "Option 1"},
			{ID: idwrap.NewNow().String(), Text: "Option 2"},
		}
	case QuestionYesNo:
		d.Options = []Option{
			{ID: idwrap.NewNow().String(), Text: "Yes"},
			{ID: idwrap.NewNow().String(), Text: "No"},
		}
	case QuestionRating:
		minV, maxV := 1, 5
		d.MinValue, d.MaxValue = &minV, &maxV
	case QuestionNPS:
		minV, maxV := 0, 10
		d.MinValue, d.MaxValue = &minV, &maxV
		d.MinLabel, d.MaxLabel = "Not likely", "Very likely"
	case QuestionShortText, QuestionEmail:
		d.Placeholder = "Type your answer"
	case QuestionLongText:
		d.Placeholder = "Type your answer"
	}
	return d
}

// BuildNodeMap creates a map of node ID -> node pointer for quick lookup.
func BuildNodeMap(nodes []Node) map[idwrap.IDWrap]*Node {
	nodeMap := make(map[idwrap.IDWrap]*Node, len(nodes))
	for i := range nodes {
		nodeMap[nodes[i].ID] = &nodes[i]
	}
	return nodeMap
}

// FindStartNode finds the start node in a node slice.
func FindStartNode(nodes []Node) (*Node, bool) {
	for i := range nodes {
		if nodes[i].Kind == NODE_KIND_START {
			return &nodes[i], true
		}
	}
	return nil, false
}
