//nolint:revive // exported
// Package flowdoc holds the mutable editing state of one survey flow: the
// live graph, selection, dirty/saving flags and the lock gate.
//
// A Document is owned by a single goroutine (the editor event loop); it does
// no internal locking. All mutations are synchronous and run to completion,
// the only asynchrony around it is the external autosave collaborator polling
// IsDirty.
package flowdoc

import (
	"errors"
	"log/slog"

	"github.com/formlane/formlane/pkg/flowgraph"
	"github.com/formlane/formlane/pkg/history"
	"github.com/formlane/formlane/pkg/idwrap"
	"github.com/formlane/formlane/pkg/model/mflow"
	"github.com/formlane/formlane/pkg/patch"
	"github.com/formlane/formlane/pkg/reconcile"
)

var (
	// ErrFlowLocked is returned by every structural mutation once the flow
	// has left draft status. The document is guaranteed untouched.
	ErrFlowLocked = errors.New("flow is locked")

	ErrNodeNotFound = errors.New("node not found")

	// ErrOptionLimit means every option of the question already has a
	// covering conditional edge, so no further branch can be generated.
	ErrOptionLimit = errors.New("question is at its option limit")
)

type Document struct {
	flow  mflow.Flow
	nodes []mflow.Node
	edges []mflow.Edge
	conds mflow.ConditionMap

	selected *idwrap.IDWrap
	dirty    bool
	saving   bool

	layout  flowgraph.LayoutParams
	history *history.Stack
	logger  *slog.Logger
	metrics *docMetrics
}

type Option func(*Document)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) { d.logger = logger }
}

func WithLayoutParams(params flowgraph.LayoutParams) Option {
	return func(d *Document) { d.layout = params }
}

func WithHistory(stack *history.Stack) Option {
	return func(d *Document) { d.history = stack }
}

func New(flow mflow.Flow, opts ...Option) *Document {
	d := &Document{
		flow:    flow,
		conds:   make(mflow.ConditionMap),
		layout:  flowgraph.DefaultLayoutParams(),
		history: history.New(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load replaces the document content with a persisted flow. Documents written
// before the condition migration pass through the reconciler once; current
// ones skip the scan. History is cleared so the load cannot be undone into an
// empty graph.
func (d *Document) Load(data mflow.FlowData) error {
	nodes, edges, conds, err := data.Graph()
	if err != nil {
		return err
	}
	if reconcile.NeedsMigration(data.SchemaVersion) {
		nodes, edges, conds = reconcile.Reconcile(nodes, edges, conds)
		d.logger.Info("migrated legacy flow document",
			slog.String("flow", d.flow.ID.String()),
			slog.Int("schema_version", int(data.SchemaVersion)))
	}
	d.nodes, d.edges, d.conds = nodes, edges, conds
	d.flow.SchemaVersion = mflow.CurrentSchemaVersion
	d.selected = nil
	d.dirty = false
	d.history.Clear()
	return nil
}

// FlowData folds the live graph plus condition map back into the canonical
// persisted shape.
func (d *Document) FlowData() mflow.FlowData {
	return mflow.NewFlowData(d.nodes, d.edges, d.conds)
}

// Graph exports a deep copy of the live (nodes, edges, conditionMap) for the
// traversal engine. Preview and respondent runtime both route over this
// snapshot, never over the document itself.
func (d *Document) Graph() ([]mflow.Node, []mflow.Edge, mflow.ConditionMap) {
	s := d.snapshot().Clone()
	return s.Nodes, s.Edges, s.Conditions
}

// FindNextNode routes over the live graph using the shared traversal engine.
func (d *Document) FindNextNode(fromID idwrap.IDWrap, answer mflow.Answer) *mflow.Node {
	return flowgraph.FindNextNode(d.nodes, d.edges, d.conds, fromID, answer)
}

func (d *Document) Flow() mflow.Flow { return d.flow }

// Locked reports whether structural mutation is gated off. True whenever the
// flow status is past draft.
func (d *Document) Locked() bool { return d.flow.Locked() }

// SetStatus moves the flow through its lifecycle; leaving draft locks the
// graph. Deliberately does not touch the dirty flag, status changes are
// persisted by their own collaborator.
func (d *Document) SetStatus(status mflow.FlowStatus) {
	d.flow.Status = status
}

func (d *Document) IsDirty() bool       { return d.dirty }
func (d *Document) IsSaving() bool      { return d.saving }
func (d *Document) MarkDirty()          { d.dirty = true }
func (d *Document) MarkSaved()          { d.dirty = false }
func (d *Document) SetSaving(v bool)    { d.saving = v }
func (d *Document) HistoryLen() int     { return d.history.Len() }
func (d *Document) HistoryRedoLen() int { return d.history.RedoLen() }

// Select updates the selection. Allowed on locked flows, selection is
// transient editor state and never persisted.
func (d *Document) Select(id *idwrap.IDWrap) {
	d.selected = id
}

func (d *Document) Selected() *idwrap.IDWrap { return d.selected }

// MoveNode is the live-drag position bookkeeping. It is permitted on locked
// flows and captures history through the throttle, so a continuous drag lands
// as one undo entry.
func (d *Document) MoveNode(id idwrap.IDWrap, x, y float64) error {
	for i := range d.nodes {
		if d.nodes[i].ID == id {
			d.capture()
			d.nodes[i].PositionX = x
			d.nodes[i].PositionY = y
			d.dirty = true
			return nil
		}
	}
	return ErrNodeNotFound
}

// AddNode inserts a node of the given kind using smart placement: below the
// selected node, or below the whole graph when nothing is selected.
func (d *Document) AddNode(kind mflow.NodeKind) (mflow.Node, error) {
	pos := flowgraph.PlaceNode(d.nodes, d.selected, d.layout)
	return d.AddNodeAt(kind, pos.X, pos.Y)
}

func (d *Document) AddNodeAt(kind mflow.NodeKind, x, y float64) (mflow.Node, error) {
	if err := d.gate("add_node"); err != nil {
		return mflow.Node{}, err
	}
	d.capture()
	var n mflow.Node
	d.nodes, n = flowgraph.AddNode(d.nodes, kind, x, y)
	d.afterMutation("add_node")
	return n, nil
}

// AddQuestionNode inserts a question node with per-type defaults, placed by
// the same smart-placement heuristic as AddNode.
func (d *Document) AddQuestionNode(qt mflow.QuestionType) (mflow.Node, error) {
	if err := d.gate("add_question_node"); err != nil {
		return mflow.Node{}, err
	}
	pos := flowgraph.PlaceNode(d.nodes, d.selected, d.layout)
	d.capture()
	var n mflow.Node
	d.nodes, n = flowgraph.AddQuestionNode(d.nodes, qt, pos.X, pos.Y)
	d.afterMutation("add_question_node")
	return n, nil
}

// DeleteNode removes the node, every incident edge and their conditions.
func (d *Document) DeleteNode(id idwrap.IDWrap) error {
	if err := d.gate("delete_node"); err != nil {
		return err
	}
	d.capture()
	var removed []mflow.EdgeID
	d.nodes, d.edges, removed = flowgraph.DeleteNode(d.nodes, d.edges, id)
	for _, edgeID := range removed {
		delete(d.conds, edgeID)
	}
	if d.selected != nil && *d.selected == id {
		d.selected = nil
	}
	d.afterMutation("delete_node")
	return nil
}

// UpdateNodeData shallow-merges a sparse patch into the node's data.
func (d *Document) UpdateNodeData(id idwrap.IDWrap, p patch.NodeDataPatch) error {
	if err := d.gate("update_node_data"); err != nil {
		return err
	}
	if p == nil || !p.HasChanges() {
		return nil
	}
	if d.node(id) == nil {
		return ErrNodeNotFound
	}
	d.capture()
	flowgraph.UpdateNodeData(d.nodes, id, p)
	d.afterMutation("update_node_data")
	return nil
}

// Connect adds (or replaces) the edge from source to target, optionally with
// a condition. The deterministic edge id keeps one edge per ordered pair.
func (d *Document) Connect(source, target idwrap.IDWrap, cond *mflow.Condition) (mflow.Edge, error) {
	if err := d.gate("connect"); err != nil {
		return mflow.Edge{}, err
	}
	d.capture()
	var e mflow.Edge
	d.edges, e = flowgraph.Connect(d.edges, source, target)
	if cond != nil {
		d.conds[e.ID] = cond.Clone()
	} else {
		delete(d.conds, e.ID)
	}
	d.afterMutation("connect")
	return e, nil
}

// ConnectBranch generates the next conditional branch of an option-based
// question: it picks the first option not yet covered by an outgoing
// conditional edge and gates the new edge on it. Returns ErrOptionLimit once
// every option is covered.
func (d *Document) ConnectBranch(source, target idwrap.IDWrap) (mflow.Edge, error) {
	if err := d.gate("connect_branch"); err != nil {
		return mflow.Edge{}, err
	}
	node := d.node(source)
	if node == nil {
		return mflow.Edge{}, ErrNodeNotFound
	}
	opt, ok := mflow.NextUncoveredOption(*node, d.edges, d.conds)
	if !ok {
		return mflow.Edge{}, ErrOptionLimit
	}
	cond := mflow.Condition{
		Kind:     mflow.ConditionEquals,
		Value:    opt.Text,
		OptionID: opt.ID,
	}
	return d.Connect(source, target, &cond)
}

// UpdateEdgeCondition replaces (or removes, when cond is nil) the condition
// of one edge in the authoritative map.
func (d *Document) UpdateEdgeCondition(edgeID mflow.EdgeID, cond *mflow.Condition) error {
	if err := d.gate("update_edge_condition"); err != nil {
		return err
	}
	d.capture()
	if cond == nil {
		delete(d.conds, edgeID)
	} else {
		d.conds[edgeID] = cond.Clone()
	}
	d.afterMutation("update_edge_condition")
	return nil
}

// AutoLayout recomputes every node position with the deterministic full
// relayout.
func (d *Document) AutoLayout() error {
	if err := d.gate("auto_layout"); err != nil {
		return err
	}
	d.capture()
	d.nodes = flowgraph.TidyLayout(d.nodes, d.edges, d.layout)
	d.afterMutation("auto_layout")
	return nil
}

// Reset empties the graph.
func (d *Document) Reset() error {
	if err := d.gate("reset"); err != nil {
		return err
	}
	d.capture()
	d.nodes = nil
	d.edges = nil
	d.conds = make(mflow.ConditionMap)
	d.selected = nil
	d.afterMutation("reset")
	return nil
}

// Undo restores the most recent history entry and re-marks the document dirty
// so autosave picks the rollback up. Locked flows cannot undo: undo rewrites
// structure just like any other mutation.
func (d *Document) Undo() bool {
	if d.Locked() {
		return false
	}
	snap, ok := d.history.Undo(d.snapshot())
	if !ok {
		return false
	}
	d.apply(snap)
	d.metrics.recordUndo()
	return true
}

// Redo reapplies the most recently undone entry.
func (d *Document) Redo() bool {
	if d.Locked() {
		return false
	}
	snap, ok := d.history.Redo(d.snapshot())
	if !ok {
		return false
	}
	d.apply(snap)
	d.metrics.recordRedo()
	return true
}

// ClearHistory drops all undo/redo entries.
func (d *Document) ClearHistory() {
	d.history.Clear()
}

func (d *Document) node(id idwrap.IDWrap) *mflow.Node {
	for i := range d.nodes {
		if d.nodes[i].ID == id {
			return &d.nodes[i]
		}
	}
	return nil
}

func (d *Document) snapshot() mflow.Snapshot {
	return mflow.Snapshot{Nodes: d.nodes, Edges: d.edges, Conditions: d.conds}
}

func (d *Document) apply(snap mflow.Snapshot) {
	d.nodes = snap.Nodes
	d.edges = snap.Edges
	d.conds = snap.Conditions
	if d.conds == nil {
		d.conds = make(mflow.ConditionMap)
	}
	if d.selected != nil && d.node(*d.selected) == nil {
		d.selected = nil
	}
	d.dirty = true
}

func (d *Document) capture() {
	d.history.Capture(d.snapshot())
}

// gate rejects structural mutation on locked flows. The rejection is
// observable to the caller but leaves the document byte-for-byte unchanged.
func (d *Document) gate(op string) error {
	if !d.Locked() {
		return nil
	}
	d.logger.Warn("structural mutation rejected on locked flow",
		slog.String("flow", d.flow.ID.String()),
		slog.String("op", op))
	d.metrics.recordRejected(op)
	return ErrFlowLocked
}

func (d *Document) afterMutation(op string) {
	d.dirty = true
	d.metrics.recordMutation(op)
	d.logger.Debug("flow mutated",
		slog.String("flow", d.flow.ID.String()),
		slog.String("op", op),
		slog.Int("nodes", len(d.nodes)),
		slog.Int("edges", len(d.edges)))
}
