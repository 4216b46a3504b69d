package idwrap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/pkg/idwrap"
)

func TestTextRoundTrip(t *testing.T) {
	id := idwrap.NewNow()
	require.False(t, id.IsZero())

	parsed, err := idwrap.NewText(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = idwrap.NewText("not-a-ulid")
	assert.Error(t, err)
}

func TestBytesRoundTrip(t *testing.T) {
	id := idwrap.NewNow()
	got, err := idwrap.NewFromBytes(id.Bytes())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = idwrap.NewFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestSQLValueScan(t *testing.T) {
	id := idwrap.NewNow()
	v, err := id.Value()
	require.NoError(t, err)
	raw, ok := v.([]byte)
	require.True(t, ok)

	var scanned idwrap.IDWrap
	require.NoError(t, scanned.Scan(raw))
	assert.Equal(t, id, scanned)

	assert.Error(t, scanned.Scan("wrong type"))
}

func TestOrdering(t *testing.T) {
	a := idwrap.NewNow()
	b := idwrap.NewNow()
	assert.LessOrEqual(t, a.Compare(b), 0, "ulids mint in monotonic order within a process")
	assert.Equal(t, 0, a.Compare(a))
}
