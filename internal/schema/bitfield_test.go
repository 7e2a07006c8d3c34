package schema

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestBitfield(t *testing.T) {
	block := MustBitfield(
		BitField{Name: "block", Bits: 10},
		BitField{Name: "collision", Bits: 2},
		BitField{Name: "height", Bits: 4},
	)
	assert.Equal(t, 2, block.Width())

	// block 0x2AB, collision 1, height 0xC
	raw := uint16(0x2AB | 1<<10 | 0xC<<12)
	v, n := decodeBuffer(t, block, []byte{byte(raw), byte(raw >> 8)})
	assert.Equal(t, 2, n)

	record := v.(*Record)
	assert.Equal(t, 3, record.Len())
	b, _ := record.Get("block")
	c, _ := record.Get("collision")
	h, _ := record.Get("height")
	assert.Equal(t, int64(0x2AB), b)
	assert.Equal(t, int64(1), c)
	assert.Equal(t, int64(0xC), h)
}

func TestBitfieldReconstruct(t *testing.T) {
	layouts := [][]BitField{
		{{Name: "x", Bits: 4}, {Name: "y", Bits: 4}},
		{{Name: "amount", Bits: 7}, {Name: "itemfinder", Bits: 1}},
		{{Name: "tile", Bits: 10}, {Name: "flipX", Bits: 1}, {Name: "flipY", Bits: 1}, {Name: "palette", Bits: 4}},
		{{Name: "a", Bits: 3}, {Name: "b", Bits: 13}, {Name: "c", Bits: 16}},
		{{Name: "all", Bits: 32}},
	}
	samples := []uint32{0, 1, 0x55, 0xAA, 0xFF, 0x1234, 0xBEEF, 0xFFFF, 0xDEADBEEF, 0xFFFFFFFF}

	for _, layout := range layouts {
		b := MustBitfield(layout...)
		bits := uint(b.Width() * 8)

		for _, sample := range samples {
			raw := sample
			if bits < 32 {
				raw &= 1<<bits - 1
			}

			buf := []byte{byte(raw), byte(raw >> 8), byte(raw >> 16), byte(raw >> 24)}
			v, _ := decodeBuffer(t, b, buf[:b.Width()])

			var rebuilt uint32
			shift := 0
			for i, f := range v.(*Record).Fields() {
				rebuilt |= uint32(f.Value.(int64)) << shift
				shift += layout[i].Bits
			}
			assert.Equal(t, raw, rebuilt)
		}
	}
}

func TestBitfieldMalformed(t *testing.T) {
	_, err := NewBitfield(BitField{Name: "a", Bits: 4}, BitField{Name: "b", Bits: 5})
	assert.True(t, errors.Is(err, ErrMalformedSchema))

	_, err = NewBitfield(BitField{Name: "a", Bits: 0}, BitField{Name: "b", Bits: 8})
	assert.True(t, errors.Is(err, ErrMalformedSchema))
}

func TestBitfieldBindsNothing(t *testing.T) {
	b := MustBitfield(BitField{Name: "x", Bits: 4}, BitField{Name: "y", Bits: 4})
	buf := []byte{0x21}
	env := NewEnv()
	_, _, err := NewDecoder(buf).DecodeEnv(b, buf, 0, env)
	assert.NoError(t, err)

	_, ok := env.Lookup("x")
	assert.False(t, ok)
}
