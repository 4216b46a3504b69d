package yamlflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/pkg/idwrap"
	"github.com/formlane/formlane/pkg/model/mflow"
	"github.com/formlane/formlane/pkg/yamlflow"
)

func TestExportReadRoundTrip(t *testing.T) {
	start := mflow.NewNode(mflow.NODE_KIND_START, 0, 0)
	q := mflow.NewQuestionNode(mflow.QuestionDropdown, 0, 200)
	e := mflow.NewEdge(start.ID, q.ID)
	conds := mflow.ConditionMap{
		e.ID: {Kind: mflow.ConditionContains, Value: "beta"},
	}

	flow := mflow.Flow{
		ID:            idwrap.NewNow(),
		Name:          "exported flow",
		Status:        mflow.FlowStatusDraft,
		SchemaVersion: mflow.CurrentSchemaVersion,
	}
	file := yamlflow.Export(flow, mflow.NewFlowData([]mflow.Node{start, q}, []mflow.Edge{e}, conds))

	raw, err := yamlflow.Write(file)
	require.NoError(t, err)

	got, err := yamlflow.Read(raw)
	require.NoError(t, err)
	assert.Equal(t, file.ID, got.ID)
	assert.Equal(t, file.Name, got.Name)
	require.Len(t, got.Flow.Nodes, 2)
	require.Len(t, got.Flow.Edges, 1)
	require.NotNil(t, got.Flow.Edges[0].Condition)
	assert.Equal(t, "contains", got.Flow.Edges[0].Condition.Type)
	assert.Equal(t, "beta", got.Flow.Edges[0].Condition.Value)

	meta, err := got.FlowMeta()
	require.NoError(t, err)
	assert.Equal(t, flow.ID, meta.ID)
	assert.Equal(t, flow.Status, meta.Status)
	assert.Equal(t, flow.SchemaVersion, meta.SchemaVersion)
}

func TestFlowMetaMintsMissingID(t *testing.T) {
	f := yamlflow.File{Name: "imported"}
	meta, err := f.FlowMeta()
	require.NoError(t, err)
	assert.False(t, meta.ID.IsZero(), "imports get a fresh id")
	assert.Equal(t, mflow.FlowStatusDraft, meta.Status, "missing status defaults to draft")
}

func TestReadRejectsMalformedYAML(t *testing.T) {
	_, err := yamlflow.Read([]byte("{not yaml: ["))
	assert.Error(t, err)

	f := yamlflow.File{ID: "not-a-ulid", Name: "x"}
	_, err = f.FlowMeta()
	assert.Error(t, err)
}
