package schema

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/retroenv/retrogolib/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{name: "integers of different types", a: int64(3), b: 3, expected: true},
		{name: "unsigned and signed", a: uint16(7), b: int64(7), expected: true},
		{name: "different integers", a: int64(3), b: int64(4), expected: false},
		{name: "symbol and string", a: Symbol("up"), b: "up", expected: true},
		{name: "symbol and integer", a: Symbol("up"), b: 0, expected: false},
		{name: "nil", a: nil, b: nil, expected: true},
		{name: "nil and zero", a: nil, b: 0, expected: false},
		{name: "booleans", a: true, b: true, expected: true},
		{name: "slices", a: []Value{int64(1), "a"}, b: []Value{1, Symbol("a")}, expected: true},
		{name: "slices of different length", a: []Value{int64(1)}, b: []Value{}, expected: false},
		{name: "unsigned above int64 range", a: uint64(math.MaxUint64), b: int64(-1), expected: false},
		{name: "unsigned above int64 range equal", a: uint64(math.MaxUint64), b: uint64(math.MaxUint64), expected: true},
		{
			name:     "record and map",
			a:        NewRecord(Field{Name: "type", Value: Symbol("sentinel")}, Field{Name: "data", Value: nil}),
			b:        map[string]any{"type": "sentinel", "data": nil},
			expected: true,
		},
		{
			name:     "record and map with missing key",
			a:        NewRecord(Field{Name: "type", Value: Symbol("sentinel")}),
			b:        map[string]any{"kind": "sentinel"},
			expected: false,
		},
		{
			name:     "pointer values",
			a:        &PointerValue{Address: 0x08000000, Target: int64(1)},
			b:        &PointerValue{Address: 0x08000000, Target: int64(1)},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.a, tt.b))
			assert.Equal(t, tt.expected, Equal(tt.b, tt.a))
		})
	}
}

func TestAsInt(t *testing.T) {
	n, ok := asInt(uint32(math.MaxUint32))
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxUint32), n)

	n, ok = asInt(int8(-5))
	assert.True(t, ok)
	assert.Equal(t, int64(-5), n)

	_, ok = asInt(uint64(math.MaxInt64) + 1)
	assert.False(t, ok)

	_, ok = asInt("1")
	assert.False(t, ok)
}

func TestPointerValueJSON(t *testing.T) {
	v := &PointerValue{
		Address: 0x08000010,
		Target:  NewRecord(Field{Name: "x", Value: int64(1)}, Field{Name: "name", Value: "PALLET"}),
	}
	data, err := json.Marshal(v)
	assert.NoError(t, err)
	assert.Equal(t, `{"address":134217744,"target":{"x":1,"name":"PALLET"}}`, string(data))

	data, err = json.Marshal(&PointerValue{})
	assert.NoError(t, err)
	assert.Equal(t, `{"address":0,"target":null}`, string(data))
}
