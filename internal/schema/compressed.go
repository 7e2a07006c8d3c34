package schema

import (
	"errors"
	"fmt"

	"github.com/retroenv/romextract/internal/lz77"
)

// Compressed decompresses an LZ77 block and decodes its inner schema at
// offset 0 of the decompressed data.
type Compressed struct {
	inner  Schema
	format lz77.Format
}

// NewCompressed returns a compressed schema using the standard flag polarity.
func NewCompressed(inner Schema) *Compressed {
	return NewCompressedFormat(inner, lz77.Standard)
}

// NewCompressedFormat returns a compressed schema using the given flag polarity.
func NewCompressedFormat(inner Schema, format lz77.Format) *Compressed {
	return &Compressed{inner: inner, format: format}
}

// Kind returns the name of the schema kind.
func (c *Compressed) Kind() string { return "compressed" }

// The consumed size is the number of compressed bytes.
func (c *Compressed) decode(st *state, buf []byte, offset int, env *Env) (Value, int, error) {
	data, consumed, err := lz77.DecompressFormat(buf[offset:], c.format)
	if err != nil {
		kind := KindMalformedData
		switch {
		case errors.Is(err, lz77.ErrInvalidBackReference):
			kind = KindInvalidBackReference
		case errors.Is(err, lz77.ErrTruncated):
			kind = KindOutOfBounds
		}
		e := st.errorf(kind, offset, "decompressing block")
		e.Cause = err
		return nil, 0, e
	}

	// inner offsets are relative to the decompressed data, the path keeps
	// the offset of the compressed block
	st.push(fmt.Sprintf("<decompressed@0x%X>", offset))
	v, _, err := st.decode(c.inner, data, 0, env)
	st.pop()
	if err != nil {
		return nil, 0, err
	}
	return v, consumed, nil
}
