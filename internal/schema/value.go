package schema

import (
	"bytes"
	"image/color"
	"math"

	"github.com/goccy/go-json"
	"golang.org/x/exp/constraints"
)

// Value is a decoded value. It is one of nil, int64, bool, Symbol, string,
// *Record, []Value, *PointerValue, *Image or Palette.
type Value = any

// Symbol is the symbolic tag produced by an enum mapping.
type Symbol string

// Field is a named value of a record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered set of named values produced by structures and bitfields.
type Record struct {
	fields []Field
}

// NewRecord returns a record holding the given fields in order.
func NewRecord(fields ...Field) *Record {
	return &Record{fields: fields}
}

// Get returns the value of the field with the given name.
func (r *Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Fields returns the fields of the record in declaration order.
func (r *Record) Fields() []Field {
	return r.fields
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

func (r *Record) add(name string, v Value) {
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// MarshalJSON encodes the record as JSON object keeping the field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PointerValue is the result of decoding a pointer. Target is nil for a null pointer.
type PointerValue struct {
	Address uint32 `json:"address"`
	Target  Value  `json:"target"`
}

// IsNull returns whether the pointer did not reference any data.
func (p *PointerValue) IsNull() bool {
	return p.Address == 0
}

// Image is a decoded indexed pixel grid in row-major order.
type Image struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	BPP    int     `json:"bpp"`
	Pixels []uint8 `json:"pixels"`
}

// At returns the palette index of the pixel at the given coordinates.
func (img *Image) At(x, y int) uint8 {
	return img.Pixels[y*img.Width+x]
}

// Palette is a decoded list of colors.
type Palette []color.RGBA

// MarshalJSON encodes the palette as list of [r, g, b, a] tuples.
func (p Palette) MarshalJSON() ([]byte, error) {
	tuples := make([][4]int, len(p))
	for i, c := range p {
		tuples[i] = [4]int{int(c.R), int(c.G), int(c.B), int(c.A)}
	}
	return json.Marshal(tuples)
}

// Equal compares two decoded values. Integers compare by value across Go
// integer types, a Symbol equals a string of the same text and a record
// equals a map with the same keys and values.
func Equal(a, b Value) bool {
	if ua, ok := a.(uint64); ok {
		if ub, ok := b.(uint64); ok {
			return ua == ub
		}
	}
	if ia, ok := asInt(a); ok {
		ib, ok := asInt(b)
		return ok && ia == ib
	}
	if sa, ok := asText(a); ok {
		sb, ok := asText(b)
		return ok && sa == sb
	}

	switch va := a.(type) {
	case nil:
		return b == nil
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case *Record:
		return recordEqual(va, b)
	case map[string]any:
		if rb, ok := b.(*Record); ok {
			return recordEqual(rb, a)
		}
		mb, ok := b.(map[string]any)
		if !ok || len(va) != len(mb) {
			return false
		}
		for k, v := range va {
			w, ok := mb[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case []Value:
		vb, ok := b.([]Value)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !Equal(va[i], vb[i]) {
				return false
			}
		}
		return true
	case *PointerValue:
		vb, ok := b.(*PointerValue)
		return ok && va.Address == vb.Address && Equal(va.Target, vb.Target)
	case *Image:
		vb, ok := b.(*Image)
		return ok && va.Width == vb.Width && va.Height == vb.Height &&
			va.BPP == vb.BPP && bytes.Equal(va.Pixels, vb.Pixels)
	case Palette:
		vb, ok := b.(Palette)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if va[i] != vb[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func recordEqual(r *Record, other Value) bool {
	switch o := other.(type) {
	case *Record:
		if r.Len() != o.Len() {
			return false
		}
		for i, f := range r.fields {
			g := o.fields[i]
			if f.Name != g.Name || !Equal(f.Value, g.Value) {
				return false
			}
		}
		return true
	case map[string]any:
		if r.Len() != len(o) {
			return false
		}
		for _, f := range r.fields {
			v, ok := o[f.Name]
			if !ok || !Equal(f.Value, v) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func asText(v Value) (string, bool) {
	switch s := v.(type) {
	case Symbol:
		return string(s), true
	case string:
		return s, true
	default:
		return "", false
	}
}

// asInt converts any Go integer value to int64.
func asInt(v Value) (int64, bool) {
	switch n := v.(type) {
	case int:
		return toInt64(n)
	case int8:
		return toInt64(n)
	case int16:
		return toInt64(n)
	case int32:
		return toInt64(n)
	case int64:
		return n, true
	case uint:
		return toInt64(n)
	case uint8:
		return toInt64(n)
	case uint16:
		return toInt64(n)
	case uint32:
		return toInt64(n)
	case uint64:
		return toInt64(n)
	default:
		return 0, false
	}
}

// toInt64 converts n to int64, failing for unsigned values above the int64
// range.
func toInt64[T constraints.Integer](n T) (int64, bool) {
	if n > 0 && uint64(n) > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}
