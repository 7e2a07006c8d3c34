package schema

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestArray(t *testing.T) {
	v, n := decodeBuffer(t, MustArray(HalfWord, Literal(2)), []byte{0x01, 0x00, 0x02, 0x00, 0xFF})
	assert.Equal(t, []Value{int64(1), int64(2)}, v)
	assert.Equal(t, 4, n)

	v, n = decodeBuffer(t, MustArray(HalfWord, Literal(0)), nil)
	assert.Equal(t, []Value{}, v)
	assert.Equal(t, 0, n)

	err := decodeError(MustArray(Word, Literal(2)), []byte{1, 2, 3, 4, 5})
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestNestedArrays(t *testing.T) {
	grid := NewStructure(
		StructField{Name: "width", Schema: Named("width", Byte)},
		StructField{Name: "height", Schema: Named("height", Byte)},
		StructField{Name: "data", Schema: MustArray(MustArray(Byte, Ref("width")), Ref("height"))},
	)
	v, n := decodeBuffer(t, grid, []byte{2, 3, 1, 2, 3, 4, 5, 6})
	assert.Equal(t, 8, n)

	data, _ := v.(*Record).Get("data")
	assert.Equal(t, []Value{
		[]Value{int64(1), int64(2)},
		[]Value{int64(3), int64(4)},
		[]Value{int64(5), int64(6)},
	}, data)
}

func TestArrayDefinitionErrors(t *testing.T) {
	_, err := NewArray(Byte, Literal(-1))
	assert.True(t, errors.Is(err, ErrMalformedSchema))

	_, err = NewArray(Byte, Ref("count"))
	assert.NoError(t, err)
}

func TestArrayEmptyElements(t *testing.T) {
	t.Run("small count", func(t *testing.T) {
		v, n := decodeBuffer(t, MustArray(NewPadding(0), Literal(2)), []byte{1})
		assert.Equal(t, []Value{nil, nil}, v)
		assert.Equal(t, 0, n)
	})

	t.Run("count above remaining bytes", func(t *testing.T) {
		err := decodeError(MustArray(NewPadding(0), Literal(1000)), []byte{1, 2})
		assert.True(t, errors.Is(err, ErrMalformedSchema))
	})

	t.Run("zero width rows", func(t *testing.T) {
		grid := NewStructure(
			StructField{Name: "width", Schema: Named("width", Byte)},
			StructField{Name: "data", Schema: MustArray(MustArray(Byte, Ref("width")), Literal(3))},
		)
		v, n := decodeBuffer(t, grid, []byte{0})
		assert.Equal(t, 1, n)
		data, _ := v.(*Record).Get("data")
		assert.Equal(t, []Value{[]Value{}, []Value{}, []Value{}}, data)
	})
}

func TestList(t *testing.T) {
	t.Run("stops at first terminator", func(t *testing.T) {
		v, n := decodeBuffer(t, NewList(Byte, 0), []byte{5, 7, 0, 9})
		assert.Equal(t, []Value{int64(5), int64(7)}, v)
		assert.Equal(t, 3, n)
	})

	t.Run("only terminator", func(t *testing.T) {
		v, n := decodeBuffer(t, NewList(Byte, 0), []byte{0})
		assert.Equal(t, []Value{}, v)
		assert.Equal(t, 1, n)
	})

	t.Run("missing terminator", func(t *testing.T) {
		err := decodeError(NewList(Byte, 0), []byte{5, 7})
		assert.True(t, errors.Is(err, ErrOutOfBounds))
	})

	t.Run("symbol terminator", func(t *testing.T) {
		kind := NewEnum(Byte, []EnumEntry{{Raw: 0, Symbol: "sentinel"}, {Raw: 1, Symbol: "entry"}}, false)
		v, _ := decodeBuffer(t, NewList(kind, "sentinel"), []byte{1, 1, 0})
		assert.Equal(t, []Value{Symbol("entry"), Symbol("entry")}, v)
	})

	t.Run("record terminator", func(t *testing.T) {
		entry := NewStructure(
			StructField{Name: "variable", Schema: Named("variable", HalfWord)},
			StructField{Name: "data", Schema: NewCase("variable",
				Branch{When: Eq(0)},
				Branch{When: Default(), Schema: HalfWord},
			)},
		)
		list := NewList(entry, map[string]any{"variable": 0, "data": nil})

		v, n := decodeBuffer(t, list, []byte{0x01, 0x40, 0x07, 0x00, 0x00, 0x00})
		assert.Equal(t, 6, n)
		entries := v.([]Value)
		assert.Equal(t, 1, len(entries))
		value, _ := entries[0].(*Record).Get("data")
		assert.Equal(t, int64(7), value)
	})

	t.Run("element without size", func(t *testing.T) {
		err := decodeError(NewList(NewPadding(0), 1), []byte{0})
		assert.True(t, errors.Is(err, ErrMalformedSchema))
	})
}

func TestTuple(t *testing.T) {
	v, n := decodeBuffer(t, NewTuple(Byte, HalfWord, Word), []byte{1, 2, 0, 3, 0, 0, 0})
	assert.Equal(t, []Value{int64(1), int64(2), int64(3)}, v)
	assert.Equal(t, 7, n)
}
