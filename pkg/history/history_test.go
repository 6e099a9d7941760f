package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_PushEvictsOldest(t *testing.T) {
	r := NewRing[int](3)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 3, r.Cap())

	for i := 1; i <= 5; i++ {
		r.Push(i)
		assert.LessOrEqual(t, r.Len(), 3)
	}

	assert.Equal(t, []int{3, 4, 5}, r.Slice())
	assert.Equal(t, 3, r.At(0))
	assert.Equal(t, 5, r.At(2))

	newest, ok := r.Newest()
	assert.True(t, ok)
	assert.Equal(t, 5, newest)
}

func TestRing_EachMutatesInPlace(t *testing.T) {
	r := NewRing[int](4)
	for i := 0; i < 6; i++ {
		r.Push(i)
	}
	r.Each(func(v *int) { *v *= 10 })
	assert.Equal(t, []int{20, 30, 40, 50}, r.Slice())

	var order []int
	r.Each(func(v *int) { order = append(order, *v) })
	assert.Equal(t, []int{20, 30, 40, 50}, order)
}

func TestRing_Clear(t *testing.T) {
	r := NewRing[string](2)
	r.Push("a")
	r.Push("b")
	r.Push("c")
	r.Clear()

	assert.Equal(t, 0, r.Len())
	_, ok := r.Newest()
	assert.False(t, ok)

	r.Push("d")
	assert.Equal(t, []string{"d"}, r.Slice())
}

func TestRing_AtOutOfRange(t *testing.T) {
	r := NewRing[int](2)
	r.Push(1)
	assert.Panics(t, func() { r.At(1) })
	assert.Panics(t, func() { r.At(-1) })
}

func TestNew_RejectsDegenerateCapacity(t *testing.T) {
	tests := []struct {
		name   string
		window int
		rate   int
		ok     bool
	}{
		{"OneSample", 1, 1, false},
		{"ZeroRate", 5, 0, false},
		{"ZeroWindow", 0, 30, false},
		{"Negative", -2, -2, false},
		{"TwoSamples", 1, 2, true},
		{"Typical", 5, 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New("throttle", tt.window, tt.rate)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.window*tt.rate, h.Cap())
				return
			}
			assert.True(t, errors.Is(err, ErrCapacity))
		})
	}
}

func TestHistory_DirectionGating(t *testing.T) {
	h, err := New("brake", 2, 2)
	require.NoError(t, err)

	h.Push(0.1, 1)
	h.Push(0.2, 1)
	assert.Equal(t, []float64{0.1, 0.2}, h.Samples())

	// Paused: frozen.
	h.Push(0.9, 0)
	assert.Equal(t, []float64{0.1, 0.2}, h.Samples())

	// Any positive multiplier appends.
	h.Push(0.3, 0.25)
	h.Push(0.4, 4)
	h.Push(0.5, 1)
	assert.Equal(t, []float64{0.2, 0.3, 0.4, 0.5}, h.Samples())

	latest, ok := h.Latest()
	assert.True(t, ok)
	assert.Equal(t, 0.5, latest)

	// Rewind: cleared.
	h.Push(0.6, -1)
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Samples())

	h.Push(0.7, 1)
	assert.Equal(t, []float64{0.7}, h.Samples())
}

func TestModeOf(t *testing.T) {
	assert.Equal(t, Forward, ModeOf(1))
	assert.Equal(t, Forward, ModeOf(0.01))
	assert.Equal(t, Paused, ModeOf(0))
	assert.Equal(t, Rewind, ModeOf(-2))
	assert.Equal(t, "rewind", Rewind.String())
}
