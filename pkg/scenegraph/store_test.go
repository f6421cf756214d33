package scenegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RenderStore_TryGet_Absent_When_Never_Written(t *testing.T) {
	t.Parallel()

	var store renderStore[ReadContainer, *ReadContainer]

	_, ok := store.tryGet(MakeHandle(0, 0))
	assert.False(t, ok)
}

func Test_RenderStore_Ensure_Then_TryGet_Roundtrips(t *testing.T) {
	t.Parallel()

	var store renderStore[ReadText, *ReadText]

	h := MakeHandle(2, 0)
	r := store.ensure(h)
	r.Text = "hi"

	got, ok := store.tryGet(h)
	require.True(t, ok)
	assert.Equal(t, "hi", got.Text)
}

func Test_RenderStore_TryGet_Absent_For_Stale_Generation(t *testing.T) {
	t.Parallel()

	var store renderStore[ReadText, *ReadText]

	h0 := MakeHandle(0, 0)
	store.ensure(h0).Text = "original"

	stale := MakeHandle(0, 1) // same index, different generation
	_, ok := store.tryGet(stale)
	assert.False(t, ok)

	// The original handle is still resolvable.
	got, ok := store.tryGet(h0)
	require.True(t, ok)
	assert.Equal(t, "original", got.Text)
}

func Test_RenderStore_Clear_Invalidates_And_Bumps_Generation(t *testing.T) {
	t.Parallel()

	var store renderStore[ReadText, *ReadText]

	h := MakeHandle(0, 0)
	store.ensure(h).Text = "doomed"

	store.clear(0, 1)

	_, ok := store.tryGet(h)
	assert.False(t, ok)

	revived := MakeHandle(0, 1)
	got, ok := store.tryGet(revived)
	require.True(t, ok)
	assert.Equal(t, "", got.Text) // reset to zero value
}

func Test_RenderStore_Ensure_Revives_Stale_Index_With_Clean_Slot(t *testing.T) {
	t.Parallel()

	var store renderStore[ReadContainer, *ReadContainer]

	h0 := MakeHandle(0, 0)
	store.ensure(h0).X = 99

	h1 := MakeHandle(0, 1) // same index, next generation
	r := store.ensure(h1)

	assert.Equal(t, 0.0, r.X, "revived slot must not see the previous entity's data")
}

func Test_RenderStore_TryGet_Absent_For_Index_Only_Grown_Past(t *testing.T) {
	t.Parallel()

	var store renderStore[ReadContainer, *ReadContainer]

	// ensure(5) grows the backing slices through indices 0..4 without
	// ever writing them; generation 0 is their zero value, which must
	// not be mistaken for a live handle at generation 0.
	store.ensure(MakeHandle(5, 0))

	for i := uint64(0); i < 5; i++ {
		_, ok := store.tryGet(MakeHandle(i, 0))
		assert.False(t, ok, "index %d was only grown past, never flushed", i)
	}
}

func Test_RenderStore_ForEach_Visits_Only_Present_Slots_In_Index_Order(t *testing.T) {
	t.Parallel()

	var store renderStore[ReadText, *ReadText]

	store.ensure(MakeHandle(5, 0)).Text = "five"
	store.ensure(MakeHandle(1, 0)).Text = "one"

	var visited []Handle

	store.forEach(func(h Handle, r *ReadText) {
		visited = append(visited, h)
	})

	require.Len(t, visited, 2)
	assert.Equal(t, MakeHandle(1, 0), visited[0])
	assert.Equal(t, MakeHandle(5, 0), visited[1])
}
