package scenegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MakeHandle_RoundTrips_Index_And_Generation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		index      uint64
		generation uint16
	}{
		{name: "Zero", index: 0, generation: 0},
		{name: "SmallIndex", index: 7, generation: 3},
		{name: "MaxGeneration", index: 1, generation: 0xFFFF},
		{name: "LargeIndex", index: 1 << 40, generation: 42},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := MakeHandle(tc.index, tc.generation)

			assert.Equal(t, tc.index, h.Index())
			assert.Equal(t, tc.generation, h.Generation())
		})
	}
}

func Test_Allocator_Allocate_Returns_Distinct_Handles(t *testing.T) {
	t.Parallel()

	var a Allocator

	h1 := a.Allocate()
	h2 := a.Allocate()

	assert.NotEqual(t, h1, h2)
	assert.Equal(t, uint64(0), h1.Index())
	assert.Equal(t, uint64(1), h2.Index())
}

func Test_Allocator_Free_Then_Allocate_Reuses_Index_With_Bumped_Generation(t *testing.T) {
	t.Parallel()

	var a Allocator

	h1 := a.Allocate()
	a.Free(h1)

	h2 := a.Allocate()

	require.Equal(t, h1.Index(), h2.Index())
	assert.Equal(t, h1.Generation()+1, h2.Generation())
}

func Test_Allocator_Free_Is_Idempotent_On_Double_Free(t *testing.T) {
	t.Parallel()

	var a Allocator

	h := a.Allocate()
	a.Free(h)
	genAfterFirstFree := a.Generation(h.Index())

	a.Free(h) // stale now, must be a no-op
	a.Free(h)

	assert.Equal(t, genAfterFirstFree, a.Generation(h.Index()))
}

func Test_Allocator_Free_On_Unknown_Handle_Is_Noop(t *testing.T) {
	t.Parallel()

	var a Allocator

	a.Free(MakeHandle(999, 0)) // never allocated

	assert.Equal(t, uint16(0), a.Generation(999))
}

func Test_Allocator_Generation_Out_Of_Range_Returns_Zero(t *testing.T) {
	t.Parallel()

	var a Allocator

	assert.Equal(t, uint16(0), a.Generation(12345))
}

func Test_Allocator_IsCurrent(t *testing.T) {
	t.Parallel()

	var a Allocator

	h := a.Allocate()
	assert.True(t, a.IsCurrent(h))

	a.Free(h)
	assert.False(t, a.IsCurrent(h))
}

func Test_Allocator_Free_List_Is_LIFO(t *testing.T) {
	t.Parallel()

	var a Allocator

	h0 := a.Allocate()
	h1 := a.Allocate()
	h2 := a.Allocate()

	a.Free(h0)
	a.Free(h1)
	a.Free(h2)

	// Most recently freed index should be reused first.
	reused := a.Allocate()
	assert.Equal(t, h2.Index(), reused.Index())
}

func Test_Allocator_Generation_Wraps_At_2_16(t *testing.T) {
	t.Parallel()

	var a Allocator

	h := a.Allocate()
	index := h.Index()

	const cycles = 70000 // exceeds 2^16 to exercise wrap-around

	for range cycles {
		current := MakeHandle(index, a.Generation(index))
		a.Free(current)
		a.Allocate()
	}

	assert.Equal(t, uint16(cycles%(1<<16)), a.Generation(index))
}
