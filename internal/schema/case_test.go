package schema

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

var interactableType = NewEnum(Byte, []EnumEntry{
	{Raw: 0, Symbol: "script"},
	{Raw: 1, Symbol: "script_up"},
	{Raw: 5, Symbol: "hidden_item"},
	{Raw: 8, Symbol: "secret_base"},
}, true)

func interactable() *Structure {
	return NewStructure(
		StructField{Name: "type", Schema: Named("type", interactableType)},
		StructField{Name: "data", Schema: NewCase("type",
			Branch{When: Any("script", "script_up"), Schema: Word},
			Branch{When: Eq("hidden_item"), Schema: NewStructure(
				StructField{Name: "item", Schema: HalfWord},
				StructField{Name: "id", Schema: Byte},
				StructField{Name: "flags", Schema: MustBitfield(
					BitField{Name: "amount", Bits: 7},
					BitField{Name: "itemfinder", Bits: 1},
				)},
			)},
			Branch{When: Eq("secret_base"), Schema: Byte},
		)},
	)
}

func TestCase(t *testing.T) {
	t.Run("any branch", func(t *testing.T) {
		v, n := decodeBuffer(t, interactable(), []byte{1, 0x78, 0x56, 0x34, 0x12})
		assert.Equal(t, 5, n)
		data, _ := v.(*Record).Get("data")
		assert.Equal(t, int64(0x12345678), data)
	})

	t.Run("eq branch", func(t *testing.T) {
		v, n := decodeBuffer(t, interactable(), []byte{5, 0x0D, 0x00, 0x02, 0x81})
		assert.Equal(t, 5, n)
		data, _ := v.(*Record).Get("data")
		flags, _ := data.(*Record).Get("flags")
		amount, _ := flags.(*Record).Get("amount")
		finder, _ := flags.(*Record).Get("itemfinder")
		assert.Equal(t, int64(1), amount)
		assert.Equal(t, int64(1), finder)
	})

	t.Run("passthrough value without branch", func(t *testing.T) {
		err := decodeError(interactable(), []byte{3, 0, 0, 0, 0})
		assert.True(t, errors.Is(err, ErrNoMatchingVariant))
	})

	t.Run("nil branch schema", func(t *testing.T) {
		s := NewStructure(
			StructField{Name: "kind", Schema: Named("kind", Byte)},
			StructField{Name: "data", Schema: NewCase("kind",
				Branch{When: Eq(0)},
				Branch{When: Default(), Schema: HalfWord},
			)},
		)
		v, n := decodeBuffer(t, s, []byte{0, 0xFF, 0xFF})
		assert.Equal(t, 1, n)
		data, ok := v.(*Record).Get("data")
		assert.True(t, ok)
		assert.Equal(t, nil, data)

		v, n = decodeBuffer(t, s, []byte{1, 0x02, 0x01})
		assert.Equal(t, 3, n)
		data, _ = v.(*Record).Get("data")
		assert.Equal(t, int64(0x102), data)
	})

	t.Run("first matching branch wins", func(t *testing.T) {
		c := NewCase("flag",
			Branch{When: Eq(true), Schema: Byte},
			Branch{When: Default(), Schema: HalfWord},
		)
		env := NewEnv()
		env.Bind("flag", true)
		v, n, err := NewDecoder(nil).DecodeEnv(c, []byte{0x01, 0x02}, 0, env)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), v)
		assert.Equal(t, 1, n)
	})
}

func TestCaseNoMatch(t *testing.T) {
	c := NewCase("kind",
		Branch{When: Eq("a"), Schema: Byte},
		Branch{When: Eq("b"), Schema: HalfWord},
	)

	env := NewEnv()
	env.Bind("kind", "c")
	_, _, err := NewDecoder(nil).DecodeEnv(c, []byte{0, 0}, 0, env)
	assert.True(t, errors.Is(err, ErrNoMatchingVariant))

	_, _, err = NewDecoder(nil).DecodeEnv(c, []byte{0, 0}, 0, NewEnv())
	assert.True(t, errors.Is(err, ErrNoMatchingVariant))
}

func TestEnv(t *testing.T) {
	root := NewEnv()
	root.Bind("a", int64(1))
	child := root.Push()
	child.Bind("b", int64(2))
	child.Bind("a", int64(3))

	v, ok := child.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)

	v, ok = root.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	_, ok = root.Lookup("b")
	assert.False(t, ok)

	n, ok := child.LookupInt("b")
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)

	assert.True(t, child.Parent() == root)
}
