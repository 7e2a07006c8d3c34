package schema

// BitField is a named group of bits of a bitfield container.
type BitField struct {
	Name string
	Bits int
}

// Bitfield decodes one integer and splits it into named subfields, starting
// at the least significant bit.
type Bitfield struct {
	container *Primitive
	fields    []BitField
}

// NewBitfield returns a bitfield for the given subfields. The subfield widths
// have to sum up to the bit width of the container, which is 8, 16 or 32.
func NewBitfield(fields ...BitField) (*Bitfield, error) {
	total := 0
	for _, f := range fields {
		if f.Bits <= 0 {
			return nil, schemaError("bitfield subfield %q has width %d", f.Name, f.Bits)
		}
		total += f.Bits
	}

	var container *Primitive
	switch total {
	case 8:
		container = Byte
	case 16:
		container = HalfWord
	case 32:
		container = Word
	default:
		return nil, schemaError("bitfield subfield widths sum to %d bits, expected 8, 16 or 32", total)
	}

	return &Bitfield{
		container: container,
		fields:    fields,
	}, nil
}

// MustBitfield is like NewBitfield but panics on a malformed definition.
// It simplifies declaring record layouts as package variables.
func MustBitfield(fields ...BitField) *Bitfield {
	b, err := NewBitfield(fields...)
	if err != nil {
		panic(err)
	}
	return b
}

// Kind returns the name of the schema kind.
func (b *Bitfield) Kind() string { return "bitfield" }

// Width returns the container size in bytes.
func (b *Bitfield) Width() int {
	return b.container.width
}

// Split splits a container value into its subfield values.
func (b *Bitfield) Split(raw uint32) []Field {
	result := make([]Field, 0, len(b.fields))
	shift := 0
	for _, f := range b.fields {
		mask := uint32(1)<<f.Bits - 1
		if f.Bits == 32 {
			mask = ^uint32(0)
		}
		result = append(result, Field{
			Name:  f.Name,
			Value: int64(raw >> shift & mask),
		})
		shift += f.Bits
	}
	return result
}

func (b *Bitfield) decode(st *state, buf []byte, offset int, _ *Env) (Value, int, error) {
	raw, err := b.container.read(st, buf, offset)
	if err != nil {
		return nil, 0, err
	}
	return NewRecord(b.Split(uint32(raw))...), b.container.width, nil
}
