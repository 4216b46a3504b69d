package mflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/pkg/idwrap"
	"github.com/formlane/formlane/pkg/model/mflow"
)

func TestEdgeIDDeterministic(t *testing.T) {
	a := idwrap.NewNow()
	b := idwrap.NewNow()

	require.Equal(t, mflow.NewEdgeID(a, b), mflow.NewEdgeID(a, b))
	assert.NotEqual(t, mflow.NewEdgeID(a, b), mflow.NewEdgeID(b, a), "edge ids are ordered")

	parsed, err := mflow.ParseEdgeID(mflow.NewEdgeID(a, b).String())
	require.NoError(t, err)
	assert.Equal(t, mflow.NewEdgeID(a, b), parsed)
}

func TestQuestionDefaults(t *testing.T) {
	t.Run("yes_no has both options", func(t *testing.T) {
		d := mflow.DefaultQuestionData(mflow.QuestionYesNo)
		require.Len(t, d.Options, 2)
		assert.Equal(t, "Yes", d.Options[0].Text)
		assert.Equal(t, "No", d.Options[1].Text)
		assert.NotEqual(t, d.Options[0].ID, d.Options[1].ID)
	})

	t.Run("rating range", func(t *testing.T) {
		d := mflow.DefaultQuestionData(mflow.QuestionRating)
		require.NotNil(t, d.MinValue)
		require.NotNil(t, d.MaxValue)
		assert.Equal(t, 1, *d.MinValue)
		assert.Equal(t, 5, *d.MaxValue)
	})

	t.Run("nps range", func(t *testing.T) {
		d := mflow.DefaultQuestionData(mflow.QuestionNPS)
		require.NotNil(t, d.MinValue)
		require.NotNil(t, d.MaxValue)
		assert.Equal(t, 0, *d.MinValue)
		assert.Equal(t, 10, *d.MaxValue)
	})
}

func TestFlowDataRoundTrip(t *testing.T) {
	start := mflow.NewNode(mflow.NODE_KIND_START, 0, 0)
	q := mflow.NewQuestionNode(mflow.QuestionYesNo, 0, 200)
	end := mflow.NewNode(mflow.NODE_KIND_END, 0, 400)

	edges := []mflow.Edge{
		mflow.NewEdge(start.ID, q.ID),
		mflow.NewEdge(q.ID, end.ID),
	}
	conds := mflow.ConditionMap{
		edges[1].ID: {Kind: mflow.ConditionEquals, Value: "Yes", OptionID: q.Question().Options[0].ID},
	}

	data := mflow.NewFlowData([]mflow.Node{start, q, end}, edges, conds)
	require.Equal(t, int32(mflow.CurrentSchemaVersion), data.SchemaVersion)

	nodes2, edges2, conds2, err := data.Graph()
	require.NoError(t, err)
	require.Len(t, nodes2, 3)
	require.Len(t, edges2, 2)

	assert.Equal(t, start.ID, nodes2[0].ID)
	assert.Equal(t, mflow.NODE_KIND_QUESTION, nodes2[1].Kind)

	gotQ := nodes2[1].Question()
	require.NotNil(t, gotQ)
	assert.Equal(t, mflow.QuestionYesNo, gotQ.QuestionType)
	assert.Equal(t, q.Question().Options, gotQ.Options)

	gotCond, ok := conds2[edges[1].ID]
	require.True(t, ok)
	assert.Equal(t, mflow.ConditionEquals, gotCond.Kind)
	assert.Equal(t, "Yes", gotCond.Value)

	// A second fold reproduces the canonical shape.
	assert.Equal(t, data, mflow.NewFlowData(nodes2, edges2, conds2))
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	q := mflow.NewQuestionNode(mflow.QuestionMultipleChoiceSingle, 0, 0)
	end := mflow.NewNode(mflow.NODE_KIND_END, 0, 100)
	edge := mflow.NewEdge(q.ID, end.ID)

	snap := mflow.Snapshot{
		Nodes:      []mflow.Node{q, end},
		Edges:      []mflow.Edge{edge},
		Conditions: mflow.ConditionMap{edge.ID: {Kind: mflow.ConditionEquals, Value: "Option 1"}},
	}
	clone := snap.Clone()

	snap.Nodes[0].PositionX = 999
	snap.Nodes[0].Question().Options[0].Text = "mutated"
	snap.Conditions[edge.ID] = mflow.Condition{Kind: mflow.ConditionEquals, Value: "changed"}

	assert.Equal(t, float64(0), clone.Nodes[0].PositionX)
	assert.Equal(t, "Option 1", clone.Nodes[0].Question().Options[0].Text)
	assert.Equal(t, "Option 1", clone.Conditions[edge.ID].Value)
}

func TestOptionLimit(t *testing.T) {
	q := mflow.NewQuestionNode(mflow.QuestionYesNo, 0, 0)
	endA := mflow.NewNode(mflow.NODE_KIND_END, 0, 100)
	endB := mflow.NewNode(mflow.NODE_KIND_END, 200, 100)
	opts := q.Question().Options

	var edges []mflow.Edge
	conds := make(mflow.ConditionMap)
	assert.False(t, mflow.AtOptionLimit(q, edges, conds))

	next, ok := mflow.NextUncoveredOption(q, edges, conds)
	require.True(t, ok)
	assert.Equal(t, opts[0].ID, next.ID)

	e1 := mflow.NewEdge(q.ID, endA.ID)
	edges = append(edges, e1)
	conds[e1.ID] = mflow.Condition{Kind: mflow.ConditionEquals, Value: opts[0].Text, OptionID: opts[0].ID}

	next, ok = mflow.NextUncoveredOption(q, edges, conds)
	require.True(t, ok)
	assert.Equal(t, opts[1].ID, next.ID)
	assert.False(t, mflow.AtOptionLimit(q, edges, conds))

	e2 := mflow.NewEdge(q.ID, endB.ID)
	edges = append(edges, e2)
	conds[e2.ID] = mflow.Condition{Kind: mflow.ConditionEquals, Value: opts[1].Text, OptionID: opts[1].ID}

	assert.True(t, mflow.AtOptionLimit(q, edges, conds))
	_, ok = mflow.NextUncoveredOption(q, edges, conds)
	assert.False(t, ok)
}

func TestOptionLimitIgnoresFreeTextQuestions(t *testing.T) {
	q := mflow.NewQuestionNode(mflow.QuestionShortText, 0, 0)
	assert.False(t, mflow.AtOptionLimit(q, nil, nil))
	_, ok := mflow.NextUncoveredOption(q, nil, nil)
	assert.False(t, ok)
}
