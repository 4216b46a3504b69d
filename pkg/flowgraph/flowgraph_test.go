package flowgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/pkg/flowgraph"
	"github.com/formlane/formlane/pkg/model/mflow"
	"github.com/formlane/formlane/pkg/patch"
)

func TestAddNodeDefaults(t *testing.T) {
	nodes, start := flowgraph.AddNode(nil, mflow.NODE_KIND_START, 10, 20)
	require.Len(t, nodes, 1)
	assert.Equal(t, float64(10), start.PositionX)
	assert.Equal(t, float64(20), start.PositionY)

	sd, ok := start.Data.(*mflow.StartData)
	require.True(t, ok)
	assert.NotEmpty(t, sd.Title)
	assert.NotEmpty(t, sd.ButtonText)

	nodes, end := flowgraph.AddNode(nodes, mflow.NODE_KIND_END, 0, 0)
	require.Len(t, nodes, 2)
	_, ok = end.Data.(*mflow.EndData)
	assert.True(t, ok)
}

func TestDeleteNodeCascades(t *testing.T) {
	nodes, start := flowgraph.AddNode(nil, mflow.NODE_KIND_START, 0, 0)
	nodes, q := flowgraph.AddQuestionNode(nodes, mflow.QuestionYesNo, 0, 100)
	nodes, end := flowgraph.AddNode(nodes, mflow.NODE_KIND_END, 0, 200)

	var edges []mflow.Edge
	edges, _ = flowgraph.Connect(edges, start.ID, q.ID)
	edges, inEdge := flowgraph.Connect(edges, q.ID, end.ID)
	edges, keep := flowgraph.Connect(edges, start.ID, end.ID)

	gotNodes, gotEdges, removed := flowgraph.DeleteNode(nodes, edges, q.ID)

	require.Len(t, gotNodes, 2)
	for _, n := range gotNodes {
		assert.NotEqual(t, q.ID, n.ID)
	}
	require.Len(t, gotEdges, 1)
	assert.Equal(t, keep.ID, gotEdges[0].ID)
	assert.Len(t, removed, 2)
	assert.Contains(t, removed, inEdge.ID)
}

func TestConnectReplacesExistingPair(t *testing.T) {
	a := mflow.NewNode(mflow.NODE_KIND_START, 0, 0)
	b := mflow.NewNode(mflow.NODE_KIND_END, 0, 100)

	edges, first := flowgraph.Connect(nil, a.ID, b.ID)
	edges, second := flowgraph.Connect(edges, a.ID, b.ID)

	require.Len(t, edges, 1, "reconnecting the same pair must not duplicate")
	assert.Equal(t, first.ID, second.ID)

	// The reverse direction is a different pair.
	edges, _ = flowgraph.Connect(edges, b.ID, a.ID)
	assert.Len(t, edges, 2)
}

func TestUpdateNodeDataShallowMerge(t *testing.T) {
	nodes, q := flowgraph.AddQuestionNode(nil, mflow.QuestionRating, 0, 0)

	ok := flowgraph.UpdateNodeData(nodes, q.ID, patch.QuestionPatch{
		QuestionText: patch.NewOptional("How satisfied are you?"),
		Required:     patch.NewOptional(true),
	})
	require.True(t, ok)

	got := nodes[0].Question()
	assert.Equal(t, "How satisfied are you?", got.QuestionText)
	assert.True(t, got.Required)
	// Untouched fields survive the merge.
	require.NotNil(t, got.MinValue)
	assert.Equal(t, 1, *got.MinValue)
	assert.Equal(t, 5, *got.MaxValue)

	t.Run("kind mismatch is ignored", func(t *testing.T) {
		ok := flowgraph.UpdateNodeData(nodes, q.ID, patch.StartPatch{
			Title: patch.NewOptional("nope"),
		})
		assert.False(t, ok)
	})

	t.Run("unknown node", func(t *testing.T) {
		ok := flowgraph.UpdateNodeData(nodes, mflow.NewNode(mflow.NODE_KIND_END, 0, 0).ID, patch.EndPatch{
			Title: patch.NewOptional("nope"),
		})
		assert.False(t, ok)
	})

	t.Run("explicit clear", func(t *testing.T) {
		ok := flowgraph.UpdateNodeData(nodes, q.ID, patch.QuestionPatch{
			MinValue: patch.Unset[int](),
		})
		require.True(t, ok)
		assert.Nil(t, nodes[0].Question().MinValue)
	})
}
