package lz77

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecompress(t *testing.T) {
	tests := []struct {
		name     string
		src      []byte
		format   Format
		expected []byte
		consumed int
	}{
		{
			name:     "eight literals",
			src:      []byte{0x10, 0x08, 0x00, 0x00, 0xFF, 1, 2, 3, 4, 5, 6, 7, 8},
			format:   Standard,
			expected: []byte{1, 2, 3, 4, 5, 6, 7, 8},
			consumed: 13,
		},
		{
			name:     "overlapping back-reference",
			src:      []byte{0x10, 0x06, 0x00, 0x00, 0x80, 'A', 0x20, 0x00},
			format:   Standard,
			expected: []byte("AAAAAA"),
			consumed: 8,
		},
		{
			name:     "bios flag polarity",
			src:      []byte{0x10, 0x06, 0x00, 0x00, 0x40, 'A', 0x20, 0x00},
			format:   BIOS,
			expected: []byte("AAAAAA"),
			consumed: 8,
		},
		{
			name:     "back-reference with distance",
			src:      []byte{0x10, 0x05, 0x00, 0x00, 0xC0, 'a', 'b', 0x00, 0x01},
			format:   Standard,
			expected: []byte("ababa"),
			consumed: 9,
		},
		{
			name:     "output stops at declared size",
			src:      []byte{0x10, 0x02, 0x00, 0x00, 0xFF, 9, 8, 7, 6},
			format:   Standard,
			expected: []byte{9, 8},
			consumed: 7,
		},
		{
			name:     "empty block",
			src:      []byte{0x10, 0x00, 0x00, 0x00},
			format:   Standard,
			expected: []byte{},
			consumed: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, consumed, err := DecompressFormat(tt.src, tt.format)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, tt.consumed, consumed)
		})
	}
}

func TestDecompressErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      []byte
		expected error
	}{
		{
			name:     "wrong tag",
			src:      []byte{0x11, 0x01, 0x00, 0x00, 0xFF, 0x00},
			expected: ErrInvalidHeader,
		},
		{
			name:     "short header",
			src:      []byte{0x10, 0x01},
			expected: ErrTruncated,
		},
		{
			name:     "missing literals",
			src:      []byte{0x10, 0x08, 0x00, 0x00, 0xFF, 1, 2},
			expected: ErrTruncated,
		},
		{
			name:     "missing flag byte",
			src:      []byte{0x10, 0x08, 0x00, 0x00},
			expected: ErrTruncated,
		},
		{
			name:     "reference before output start",
			src:      []byte{0x10, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00},
			expected: ErrInvalidBackReference,
		},
		{
			name:     "distance beyond produced output",
			src:      []byte{0x10, 0x05, 0x00, 0x00, 0x80, 'a', 0x00, 0x01},
			expected: ErrInvalidBackReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decompress(tt.src)
			assert.True(t, errors.Is(err, tt.expected))
		})
	}
}

func TestHeader(t *testing.T) {
	size, err := Header([]byte{0x10, 0x00, 0x50, 0x01})
	assert.NoError(t, err)
	assert.Equal(t, 0x015000, size)
}
