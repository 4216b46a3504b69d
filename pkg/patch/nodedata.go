package patch

import "github.com/formlane/formlane/pkg/model/mflow"

// NodeDataPatch is a sparse update applied to one node's data variant.
//
// Semantics per field:
//   - Field.IsSet() == false = field not changed (omitted from update)
//   - Field.IsUnset() == true = field explicitly cleared
//   - Field.HasValue() == true = field set to that value
type NodeDataPatch interface {
	// Apply shallow-merges the patch into the data variant. Reports false
	// when the variant's kind does not match the patch.
	Apply(data mflow.NodeData) bool
	HasChanges() bool
}

// StartPatch represents sparse updates to a start screen.
type StartPatch struct {
	Title       Optional[string]
	Description Optional[string]
	ButtonText  Optional[string]
}

func (p StartPatch) HasChanges() bool {
	return p.Title.IsSet() || p.Description.IsSet() || p.ButtonText.IsSet()
}

func (p StartPatch) Apply(data mflow.NodeData) bool {
	d, ok := data.(*mflow.StartData)
	if !ok {
		return false
	}
	if p.Title.IsSet() {
		d.Title, _ = p.Title.Get()
	}
	if p.Description.IsSet() {
		d.Description, _ = p.Description.Get()
	}
	if p.ButtonText.IsSet() {
		d.ButtonText, _ = p.ButtonText.Get()
	}
	return true
}

// QuestionPatch represents sparse updates to a question node.
//
// Note: QuestionType is deliberately absent. Changing the type swaps the whole
// data variant and goes through node recreation in the editor instead.
type QuestionPatch struct {
	QuestionText Optional[string]
	Description  Optional[string]
	Required     Optional[bool]
	Options      Optional[[]mflow.Option]
	MinValue     Optional[int]
	MaxValue     Optional[int]
	MinLabel     Optional[string]
	MaxLabel     Optional[string]
	Placeholder  Optional[string]
	MaxLength    Optional[int]
}

func (p QuestionPatch) HasChanges() bool {
	return p.QuestionText.IsSet() || p.Description.IsSet() || p.Required.IsSet() ||
		p.Options.IsSet() || p.MinValue.IsSet() || p.MaxValue.IsSet() ||
		p.MinLabel.IsSet() || p.MaxLabel.IsSet() || p.Placeholder.IsSet() ||
		p.MaxLength.IsSet()
}

func (p QuestionPatch) Apply(data mflow.NodeData) bool {
	d, ok := data.(*mflow.QuestionData)
	if !ok {
		return false
	}
	if p.QuestionText.IsSet() {
		d.QuestionText, _ = p.QuestionText.Get()
	}
	if p.Description.IsSet() {
		d.Description, _ = p.Description.Get()
	}
	if p.Required.IsSet() {
		d.Required, _ = p.Required.Get()
	}
	if p.Options.IsSet() {
		d.Options, _ = p.Options.Get()
	}
	if p.MinValue.IsSet() {
		d.MinValue = copied(p.MinValue)
	}
	if p.MaxValue.IsSet() {
		d.MaxValue = copied(p.MaxValue)
	}
	if p.MinLabel.IsSet() {
		d.MinLabel, _ = p.MinLabel.Get()
	}
	if p.MaxLabel.IsSet() {
		d.MaxLabel, _ = p.MaxLabel.Get()
	}
	if p.Placeholder.IsSet() {
		d.Placeholder, _ = p.Placeholder.Get()
	}
	if p.MaxLength.IsSet() {
		d.MaxLength = copied(p.MaxLength)
	}
	return true
}

// copied detaches the patched pointer from the patch so later edits to the
// document never write through into a retained patch value.
func copied[T any](o Optional[T]) *T {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

// EndPatch represents sparse updates to an end screen.
type EndPatch struct {
	Title       Optional[string]
	Description Optional[string]
	ShowScore   Optional[bool]
	RedirectURL Optional[string]
}

func (p EndPatch) HasChanges() bool {
	return p.Title.IsSet() || p.Description.IsSet() || p.ShowScore.IsSet() ||
		p.RedirectURL.IsSet()
}

func (p EndPatch) Apply(data mflow.NodeData) bool {
	d, ok := data.(*mflow.EndData)
	if !ok {
		return false
	}
	if p.Title.IsSet() {
		d.Title, _ = p.Title.Get()
	}
	if p.Description.IsSet() {
		d.Description, _ = p.Description.Get()
	}
	if p.ShowScore.IsSet() {
		d.ShowScore, _ = p.ShowScore.Get()
	}
	if p.RedirectURL.IsSet() {
		d.RedirectURL, _ = p.RedirectURL.Get()
	}
	return true
}
