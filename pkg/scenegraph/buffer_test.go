package scenegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ChangeBuffer_Access_Resets_Slot_On_First_Touch(t *testing.T) {
	t.Parallel()

	var buf changeBuffer[WriteContainer, *WriteContainer]

	h := MakeHandle(0, 0)
	w := buf.access(h)

	assert.Equal(t, h, w.handle())
	assert.True(t, w.Visible) // default per reset()
	assert.False(t, w.isDeleted())
}

func Test_ChangeBuffer_Access_Coalesces_Repeated_Writes(t *testing.T) {
	t.Parallel()

	var buf changeBuffer[WriteContainer, *WriteContainer]

	h := MakeHandle(3, 0)
	buf.access(h).X = 1
	buf.access(h).X = 2
	buf.access(h).X = 3
	buf.access(h).Y = 7

	snap := buf.snapshot()

	require.Len(t, snap, 1)
	assert.Equal(t, 3.0, snap[0].X)
	assert.Equal(t, 7.0, snap[0].Y)
}

func Test_ChangeBuffer_Snapshot_Order_Is_First_Touch_Order(t *testing.T) {
	t.Parallel()

	var buf changeBuffer[WriteContainer, *WriteContainer]

	h5 := MakeHandle(5, 0)
	h1 := MakeHandle(1, 0)
	h9 := MakeHandle(9, 0)

	buf.access(h5)
	buf.access(h1)
	buf.access(h9)
	buf.access(h5) // re-touch; must not move it in the touched order

	snap := buf.snapshot()

	require.Len(t, snap, 3)
	assert.Equal(t, h5, snap[0].handle())
	assert.Equal(t, h1, snap[1].handle())
	assert.Equal(t, h9, snap[2].handle())
}

func Test_ChangeBuffer_Snapshot_Drains_And_Resets(t *testing.T) {
	t.Parallel()

	var buf changeBuffer[WriteContainer, *WriteContainer]

	h := MakeHandle(0, 0)
	buf.access(h).X = 42

	first := buf.snapshot()
	require.Len(t, first, 1)

	second := buf.snapshot()
	assert.Empty(t, second)
	assert.True(t, buf.empty())
}

func Test_ChangeBuffer_Empty(t *testing.T) {
	t.Parallel()

	var buf changeBuffer[WriteContainer, *WriteContainer]
	assert.True(t, buf.empty())

	buf.access(MakeHandle(0, 0))
	assert.False(t, buf.empty())
}

func Test_ChangeBuffer_Delete_Dominates_Other_Field_Writes(t *testing.T) {
	t.Parallel()

	var buf changeBuffer[WriteText, *WriteText]

	h := MakeHandle(0, 0)
	buf.access(h).Text = "hello"
	buf.access(h).Deleted = true
	buf.access(h).Text = "ignored, coalescing still in effect"

	snap := buf.snapshot()

	require.Len(t, snap, 1)
	assert.True(t, snap[0].isDeleted())
}
