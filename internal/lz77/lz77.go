// Package lz77 implements the decompressor for the LZ77 style blocks found in
// GBA cartridge images.
//
// A block starts with a 4 byte header: the format tag 0x10 followed by the
// uncompressed size as 24 bit little endian value. The body is a sequence of
// control groups. Each group starts with a flag byte whose bits, most
// significant first, describe the next 8 output units as either a literal
// byte or a 2 byte back-reference token.
package lz77

import (
	"errors"
	"fmt"
)

// Tag is the format tag of an LZ77 compressed block.
const Tag = 0x10

const (
	headerSize     = 4
	tokenSize      = 2
	minMatchLength = 3
)

var (
	// ErrInvalidHeader is returned when the block does not start with the LZ77 format tag.
	ErrInvalidHeader = errors.New("invalid lz77 header")
	// ErrTruncated is returned when the compressed stream ends before the declared size is produced.
	ErrTruncated = errors.New("truncated lz77 stream")
	// ErrInvalidBackReference is returned for a back-reference reaching before the start of the output.
	ErrInvalidBackReference = errors.New("invalid lz77 back-reference")
)

// Format selects the meaning of a set bit in a control flag byte.
type Format int

const (
	// Standard treats a set flag bit as a literal byte, a cleared bit as a back-reference.
	Standard Format = iota
	// BIOS treats a set flag bit as a back-reference, matching the GBA BIOS LZ77UnComp routine.
	BIOS
)

func (f Format) String() string {
	switch f {
	case Standard:
		return "standard"
	case BIOS:
		return "bios"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Header returns the uncompressed size declared by the block header.
func Header(src []byte) (int, error) {
	if len(src) < headerSize {
		return 0, fmt.Errorf("%w: header needs %d bytes, got %d", ErrTruncated, headerSize, len(src))
	}
	if src[0] != Tag {
		return 0, fmt.Errorf("%w: tag 0x%02X", ErrInvalidHeader, src[0])
	}
	return int(src[1]) | int(src[2])<<8 | int(src[3])<<16, nil
}

// Decompress decodes the block at the start of src using the standard flag
// polarity. It returns the decompressed data and the number of source bytes
// that were consumed.
func Decompress(src []byte) ([]byte, int, error) {
	return DecompressFormat(src, Standard)
}

// DecompressFormat decodes the block at the start of src using the given flag polarity.
func DecompressFormat(src []byte, format Format) ([]byte, int, error) {
	size, err := Header(src)
	if err != nil {
		return nil, 0, err
	}

	d := decompressor{
		src:    src,
		pos:    headerSize,
		out:    make([]byte, 0, size),
		size:   size,
		format: format,
	}
	if err := d.run(); err != nil {
		return nil, 0, err
	}
	return d.out, d.pos, nil
}

type decompressor struct {
	src    []byte
	pos    int
	out    []byte
	size   int
	format Format
}

func (d *decompressor) run() error {
	for len(d.out) < d.size {
		if d.pos >= len(d.src) {
			return d.truncated()
		}
		flags := d.src[d.pos]
		d.pos++

		for bit := 7; bit >= 0 && len(d.out) < d.size; bit-- {
			set := flags&(1<<bit) != 0
			if set == (d.format == BIOS) {
				if err := d.backReference(); err != nil {
					return err
				}
				continue
			}

			if d.pos >= len(d.src) {
				return d.truncated()
			}
			d.out = append(d.out, d.src[d.pos])
			d.pos++
		}
	}
	return nil
}

func (d *decompressor) backReference() error {
	if d.pos+tokenSize > len(d.src) {
		return d.truncated()
	}
	b0, b1 := d.src[d.pos], d.src[d.pos+1]
	length := int(b0>>4) + minMatchLength
	distance := (int(b0&0x0F)<<8 | int(b1)) + 1

	if distance > len(d.out) {
		return fmt.Errorf("%w: distance %d with %d bytes produced at source offset %d",
			ErrInvalidBackReference, distance, len(d.out), d.pos)
	}
	d.pos += tokenSize

	// the source window may overlap the bytes being written
	start := len(d.out) - distance
	for i := 0; i < length && len(d.out) < d.size; i++ {
		d.out = append(d.out, d.out[start+i])
	}
	return nil
}

func (d *decompressor) truncated() error {
	return fmt.Errorf("%w: %d of %d bytes produced at source offset %d",
		ErrTruncated, len(d.out), d.size, d.pos)
}
