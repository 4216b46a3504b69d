//nolint:revive // exported
package mflow

import "github.com/formlane/formlane/pkg/idwrap"

type FlowStatus string

const (
	FlowStatusDraft     FlowStatus = "draft"
	FlowStatusPublished FlowStatus = "published"
	FlowStatusClosed    FlowStatus = "closed"
)

// Schema versions of the persisted flow shape. Documents below
// SchemaVersionConditions still carry per-option sourceHandle branching and
// must pass through the reconciler on load; documents at or above it skip the
// scan entirely.
const (
	SchemaVersionLegacy     = 1
	SchemaVersionConditions = 2

	CurrentSchemaVersion = SchemaVersionConditions
)

type Flow struct {
	ID            idwrap.IDWrap
	Name          string
	Status        FlowStatus
	SchemaVersion int32
}

// Locked reports whether the flow's structure may no longer be edited.
// Anything past draft is locked.
func (f Flow) Locked() bool {
	return f.Status != FlowStatusDraft && f.Status != ""
}
