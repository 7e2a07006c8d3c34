package registry

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRegistry(t *testing.T) {
	t.Run("new registry is empty", func(t *testing.T) {
		r := New("blockset")

		assert.Equal(t, 0, r.Len())
		assert.Equal(t, 0, len(r.IDs()))
		_, ok := r.Lookup(0x08000000)
		assert.False(t, ok)
	})

	t.Run("lookup or create deduplicates addresses", func(t *testing.T) {
		r := New("blockset")

		id, existed := r.LookupOrCreate(0x082D4A94)
		assert.False(t, existed)
		assert.Equal(t, "blockset-0", id)

		id, existed = r.LookupOrCreate(0x082D4AAC)
		assert.False(t, existed)
		assert.Equal(t, "blockset-1", id)

		id, existed = r.LookupOrCreate(0x082D4A94)
		assert.True(t, existed)
		assert.Equal(t, "blockset-0", id)

		assert.Equal(t, 2, r.Len())
		assert.Equal(t, []string{"blockset-0", "blockset-1"}, r.IDs())
	})

	t.Run("claim keeps first identifier", func(t *testing.T) {
		r := New("")

		id, existed := r.Claim(3, "map-1-0")
		assert.False(t, existed)
		assert.Equal(t, "map-1-0", id)

		id, existed = r.Claim(3, "map-1-5")
		assert.True(t, existed)
		assert.Equal(t, "map-1-0", id)

		got, ok := r.Lookup(3)
		assert.True(t, ok)
		assert.Equal(t, "map-1-0", got)
	})
}
