package schema

import (
	"encoding/binary"
	"fmt"
)

// Primitive is a fixed width little endian integer.
type Primitive struct {
	width  int
	signed bool
}

// Predefined primitives of the GBA word sizes.
var (
	Byte           = &Primitive{width: 1}
	HalfWord       = &Primitive{width: 2}
	Word           = &Primitive{width: 4}
	SignedByte     = &Primitive{width: 1, signed: true}
	SignedHalfWord = &Primitive{width: 2, signed: true}
	SignedWord     = &Primitive{width: 4, signed: true}
)

// NewPrimitive returns a primitive of the given byte width, which must be 1, 2 or 4.
func NewPrimitive(width int, signed bool) (*Primitive, error) {
	switch width {
	case 1, 2, 4:
		return &Primitive{width: width, signed: signed}, nil
	default:
		return nil, schemaError("primitive width %d is not 1, 2 or 4", width)
	}
}

// Kind returns the name of the schema kind.
func (p *Primitive) Kind() string {
	if p.signed {
		return fmt.Sprintf("s%d", p.width*8)
	}
	return fmt.Sprintf("u%d", p.width*8)
}

// Width returns the size of the primitive in bytes.
func (p *Primitive) Width() int {
	return p.width
}

// Signed returns whether the primitive uses two's complement interpretation.
func (p *Primitive) Signed() bool {
	return p.signed
}

func (p *Primitive) decode(st *state, buf []byte, offset int, _ *Env) (Value, int, error) {
	v, err := p.read(st, buf, offset)
	if err != nil {
		return nil, 0, err
	}
	return v, p.width, nil
}

func (p *Primitive) read(st *state, buf []byte, offset int) (int64, error) {
	if err := st.need(buf, offset, p.width); err != nil {
		return 0, err
	}

	b := buf[offset : offset+p.width]
	switch p.width {
	case 1:
		if p.signed {
			return int64(int8(b[0])), nil
		}
		return int64(b[0]), nil
	case 2:
		v := binary.LittleEndian.Uint16(b)
		if p.signed {
			return int64(int16(v)), nil
		}
		return int64(v), nil
	default:
		v := binary.LittleEndian.Uint32(b)
		if p.signed {
			return int64(int32(v)), nil
		}
		return int64(v), nil
	}
}

// Boolean decodes a primitive as true if it is nonzero.
type Boolean struct {
	inner *Primitive
}

// NewBoolean returns a boolean backed by the given primitive.
func NewBoolean(inner *Primitive) *Boolean {
	return &Boolean{inner: inner}
}

// Kind returns the name of the schema kind.
func (b *Boolean) Kind() string { return "bool" }

func (b *Boolean) decode(st *state, buf []byte, offset int, _ *Env) (Value, int, error) {
	v, err := b.inner.read(st, buf, offset)
	if err != nil {
		return nil, 0, err
	}
	return v != 0, b.inner.width, nil
}

// EnumEntry maps a raw value to a symbol.
type EnumEntry struct {
	Raw    int64
	Symbol Symbol
}

// Enum maps raw primitive values to symbols.
type Enum struct {
	inner       *Primitive
	table       []EnumEntry
	passthrough bool
}

// NewEnum returns an enum over the given primitive. The table is scanned in
// order and the first matching entry wins. With passthrough set, a raw value
// without mapping decodes to itself instead of failing.
func NewEnum(inner *Primitive, table []EnumEntry, passthrough bool) *Enum {
	return &Enum{
		inner:       inner,
		table:       table,
		passthrough: passthrough,
	}
}

// Kind returns the name of the schema kind.
func (e *Enum) Kind() string { return "enum" }

// Symbol returns the symbol mapped to a raw value.
func (e *Enum) Symbol(raw int64) (Symbol, bool) {
	for _, entry := range e.table {
		if entry.Raw == raw {
			return entry.Symbol, true
		}
	}
	return "", false
}

func (e *Enum) decode(st *state, buf []byte, offset int, _ *Env) (Value, int, error) {
	raw, err := e.inner.read(st, buf, offset)
	if err != nil {
		return nil, 0, err
	}
	if sym, ok := e.Symbol(raw); ok {
		return sym, e.inner.width, nil
	}
	if e.passthrough {
		return raw, e.inner.width, nil
	}
	return nil, 0, st.errorf(KindUnknownEnumValue, offset, "raw value %d has no mapping", raw)
}

// Padding skips a fixed number of bytes and decodes to nil.
type Padding struct {
	size int
}

// NewPadding returns a padding of the given size in bytes.
func NewPadding(size int) *Padding {
	return &Padding{size: size}
}

// Kind returns the name of the schema kind.
func (p *Padding) Kind() string { return "padding" }

func (p *Padding) decode(st *state, buf []byte, offset int, _ *Env) (Value, int, error) {
	if err := st.need(buf, offset, p.size); err != nil {
		return nil, 0, err
	}
	return nil, p.size, nil
}
