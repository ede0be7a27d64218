package nodemask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_WordLayout(t *testing.T) {
	assert.Equal(t, Mask{0b1}, All(1))
	assert.Equal(t, Mask{0b1111}, All(4))
	assert.Equal(t, Mask{^uint64(0)}, All(64))
	assert.Equal(t, Mask{^uint64(0), 0b1}, All(65))
	assert.Equal(t, Mask{^uint64(0), ^uint64(0), 0b111}, All(131))
	assert.Empty(t, All(0))
}

func TestSet_BitPosition(t *testing.T) {
	for _, i := range []int{0, 5, 63, 64, 100, 127, 200} {
		m := New(0)
		m.Set(i)
		require.Len(t, m, i/64+1)
		assert.Equal(t, uint64(1)<<uint(i%64), m[i/64], "node %d", i)
		assert.True(t, m.IsSet(i))
		assert.Equal(t, []int{i}, m.Nodes())
	}
}

func TestMask_ClearAndBounds(t *testing.T) {
	m := All(8)
	m.Clear(3)
	assert.False(t, m.IsSet(3))
	assert.True(t, m.IsSet(4))
	assert.False(t, m.IsSet(-1))
	assert.False(t, m.IsSet(1000))

	m.Clear(1000) // out of range is a no-op
	m.Set(-2)
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 7}, m.Nodes())
	assert.Equal(t, 64, m.Len())
}

func TestMask_String(t *testing.T) {
	assert.Equal(t, "", New(4).String())
	assert.Equal(t, "0-3", All(4).String())

	m := All(2)
	m.Set(4)
	m.Set(6)
	m.Set(7)
	m.Set(70)
	assert.Equal(t, "0-1,4,6-7,70", m.String())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("bind")
	require.NoError(t, err)
	assert.Equal(t, ModeBind, m)

	m, err = ParseMode("Interleave")
	require.NoError(t, err)
	assert.Equal(t, ModeInterleave, m)

	m, err = ParseMode("9")
	require.NoError(t, err)
	assert.Equal(t, Mode(9), m)
	assert.Equal(t, "9", m.String())
	assert.Equal(t, "preferred-many", ModePreferredMany.String())

	for _, in := range []string{"", "-1", "bound"} {
		_, err := ParseMode(in)
		assert.ErrorIs(t, err, ErrMode, in)
	}
}
