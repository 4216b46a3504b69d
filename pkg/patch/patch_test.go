package patch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/pkg/model/mflow"
	"github.com/formlane/formlane/pkg/patch"
)

func TestOptionalStates(t *testing.T) {
	var unset patch.Optional[int]
	assert.False(t, unset.IsSet())
	assert.False(t, unset.HasValue())

	set := patch.NewOptional(7)
	assert.True(t, set.IsSet())
	require.True(t, set.HasValue())
	v, ok := set.Get()
	require.True(t, ok)
	assert.Equal(t, 7, v)

	cleared := patch.Unset[int]()
	assert.True(t, cleared.IsSet())
	assert.True(t, cleared.IsUnset())
	assert.False(t, cleared.HasValue())
}

func TestQuestionPatchDetachesPointers(t *testing.T) {
	minV := 2
	p := patch.QuestionPatch{MinValue: patch.NewOptional(minV)}
	data := mflow.DefaultQuestionData(mflow.QuestionRating)

	require.True(t, p.Apply(data))
	require.NotNil(t, data.MinValue)
	assert.Equal(t, 2, *data.MinValue)

	// The applied value is a copy, not an alias into the patch.
	*data.MinValue = 99
	v, ok := p.MinValue.Get()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPatchKindMismatch(t *testing.T) {
	p := patch.StartPatch{Title: patch.NewOptional("hello")}
	assert.True(t, p.HasChanges())
	assert.False(t, p.Apply(mflow.DefaultQuestionData(mflow.QuestionShortText)), "start patch cannot touch question data")

	assert.False(t, patch.EndPatch{}.HasChanges())
}
