package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDListValueScan(t *testing.T) {
	t.Run("NilValuesToEmptyArray", func(t *testing.T) {
		var l IDList
		v, err := l.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		v, err := IDList{1, 2, 3}.Value()
		require.NoError(t, err)

		var got IDList
		require.NoError(t, got.Scan(v))
		assert.Equal(t, IDList{1, 2, 3}, got)
	})

	t.Run("ScanNil", func(t *testing.T) {
		var got IDList
		require.NoError(t, got.Scan(nil))
		assert.Equal(t, IDList{}, got)
	})

	t.Run("ScanBytes", func(t *testing.T) {
		var got IDList
		require.NoError(t, got.Scan([]byte("[7]")))
		assert.Equal(t, IDList{7}, got)
	})

	t.Run("ScanGarbage", func(t *testing.T) {
		var got IDList
		assert.Error(t, got.Scan("{"))
	})
}

func TestIDListMutations(t *testing.T) {
	l := IDList{}

	l = l.Add(5)
	l = l.Add(6)
	l = l.Add(5)
	assert.Equal(t, IDList{5, 6}, l)
	assert.True(t, l.Contains(5))
	assert.False(t, l.Contains(7))

	l = l.Remove(5)
	assert.Equal(t, IDList{6}, l)

	l = l.Add(8).Add(9)
	l = l.RemoveAll([]uint{6, 9})
	assert.Equal(t, IDList{8}, l)
}
