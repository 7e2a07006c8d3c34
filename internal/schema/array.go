package schema

import "fmt"

// Size is the element count of an array, either a literal or a reference
// to a named value.
type Size struct {
	count int
	ref   string
}

// Literal returns a fixed array size.
func Literal(n int) Size {
	return Size{count: n}
}

// Ref returns an array size that is resolved from the environment.
func Ref(name string) Size {
	return Size{ref: name}
}

// String returns a readable representation of the size.
func (s Size) String() string {
	if s.ref != "" {
		return s.ref
	}
	return fmt.Sprint(s.count)
}

func (s Size) resolve(st *state, offset int, env *Env) (int, error) {
	if s.ref == "" {
		return s.count, nil
	}

	v, ok := env.Lookup(s.ref)
	if !ok {
		return 0, st.errorf(KindUnresolvedSize, offset, "size reference %q is not bound", s.ref)
	}
	n, ok := asInt(v)
	if !ok {
		return 0, st.errorf(KindUnresolvedSize, offset, "size reference %q is bound to non integer %T", s.ref, v)
	}
	if n < 0 {
		return 0, st.errorf(KindUnresolvedSize, offset, "size reference %q is negative: %d", s.ref, n)
	}
	return int(n), nil
}

// maxEmptyElements is the largest count of elements that consume no bytes
// an array accepts when the count exceeds the remaining buffer size.
const maxEmptyElements = 256

// Array decodes a number of elements of the same schema.
type Array struct {
	element Schema
	size    Size
}

// NewArray returns an array of elements with the given size. A negative
// literal size is rejected.
func NewArray(element Schema, size Size) (*Array, error) {
	if size.ref == "" && size.count < 0 {
		return nil, schemaError("array size %d is negative", size.count)
	}
	return &Array{element: element, size: size}, nil
}

// MustArray is like NewArray but panics on an invalid definition.
func MustArray(element Schema, size Size) *Array {
	a, err := NewArray(element, size)
	if err != nil {
		panic(err)
	}
	return a
}

// Kind returns the name of the schema kind.
func (a *Array) Kind() string { return "array" }

func (a *Array) decode(st *state, buf []byte, offset int, env *Env) (Value, int, error) {
	n, err := a.size.resolve(st, offset, env)
	if err != nil {
		return nil, 0, err
	}

	// sizes come from untrusted data, limit the preallocation to the buffer
	remaining := max(len(buf)-offset, 0)
	result := make([]Value, 0, min(n, remaining+1))
	pos := offset
	for i := 0; i < n; i++ {
		st.pushIndex(i)
		v, size, err := st.decode(a.element, buf, pos, env)
		st.pop()
		if err != nil {
			return nil, 0, err
		}
		// empty elements are fine for small counts like zero width rows
		if size == 0 && n > max(remaining, maxEmptyElements) {
			return nil, 0, st.errorf(KindMalformedSchema, pos,
				"array of %d elements with elements that consume no bytes", n)
		}
		result = append(result, v)
		pos += size
	}
	return result, pos - offset, nil
}

// List decodes elements until one is equal to the terminator value. The
// terminator element is consumed but not part of the result.
type List struct {
	element    Schema
	terminator Value
}

// NewList returns a list of elements ended by the terminator value.
func NewList(element Schema, terminator Value) *List {
	return &List{element: element, terminator: terminator}
}

// Kind returns the name of the schema kind.
func (l *List) Kind() string { return "list" }

func (l *List) decode(st *state, buf []byte, offset int, env *Env) (Value, int, error) {
	var result []Value
	pos := offset
	for i := 0; ; i++ {
		st.pushIndex(i)
		v, size, err := st.decode(l.element, buf, pos, env)
		st.pop()
		if err != nil {
			return nil, 0, err
		}
		if size == 0 {
			return nil, 0, st.errorf(KindMalformedSchema, pos, "list element consumed no bytes")
		}
		pos += size

		if Equal(v, l.terminator) {
			break
		}
		result = append(result, v)
	}
	if result == nil {
		result = []Value{}
	}
	return result, pos - offset, nil
}

// Tuple decodes one element per schema in order.
type Tuple struct {
	schemas []Schema
}

// NewTuple returns a tuple of the given schemas.
func NewTuple(schemas ...Schema) *Tuple {
	return &Tuple{schemas: schemas}
}

// Kind returns the name of the schema kind.
func (t *Tuple) Kind() string { return "tuple" }

func (t *Tuple) decode(st *state, buf []byte, offset int, env *Env) (Value, int, error) {
	result := make([]Value, 0, len(t.schemas))
	pos := offset
	for i, s := range t.schemas {
		st.pushIndex(i)
		v, size, err := st.decode(s, buf, pos, env)
		st.pop()
		if err != nil {
			return nil, 0, err
		}
		result = append(result, v)
		pos += size
	}
	return result, pos - offset, nil
}
