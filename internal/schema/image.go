package schema

import "image/color"

const tileSize = 8

// ImageSchema decodes a tiled indexed pixel grid. Tiles of 8x8 pixels are
// stored in row-major tile order, each tile row-major, with pixels packed
// starting at the least significant bits of each byte.
type ImageSchema struct {
	width  int
	height int
	bpp    int
}

// NewImage returns an image schema. Width and height have to be multiples
// of the tile size, bpp one of 1, 2, 4 or 8.
func NewImage(width, height, bpp int) (*ImageSchema, error) {
	switch bpp {
	case 1, 2, 4, 8:
	default:
		return nil, schemaError("image depth of %d bits per pixel is not supported", bpp)
	}
	if width <= 0 || height <= 0 || width%tileSize != 0 || height%tileSize != 0 {
		return nil, schemaError("image size %dx%d is not a multiple of the %d pixel tile size", width, height, tileSize)
	}
	return &ImageSchema{width: width, height: height, bpp: bpp}, nil
}

// MustImage is like NewImage but panics on an invalid definition.
func MustImage(width, height, bpp int) *ImageSchema {
	img, err := NewImage(width, height, bpp)
	if err != nil {
		panic(err)
	}
	return img
}

// Kind returns the name of the schema kind.
func (s *ImageSchema) Kind() string { return "image" }

// Size returns the encoded size in bytes.
func (s *ImageSchema) Size() int {
	return s.width * s.height * s.bpp / 8
}

func (s *ImageSchema) decode(st *state, buf []byte, offset int, _ *Env) (Value, int, error) {
	size := s.Size()
	if err := st.need(buf, offset, size); err != nil {
		return nil, 0, err
	}
	data := buf[offset : offset+size]

	img := &Image{
		Width:  s.width,
		Height: s.height,
		BPP:    s.bpp,
		Pixels: make([]uint8, s.width*s.height),
	}

	pixelsPerByte := 8 / s.bpp
	mask := uint8(1<<s.bpp - 1)
	tilesPerRow := s.width / tileSize

	for i := 0; i < s.width*s.height; i++ {
		tile := i / (tileSize * tileSize)
		inTile := i % (tileSize * tileSize)
		x := tile%tilesPerRow*tileSize + inTile%tileSize
		y := tile/tilesPerRow*tileSize + inTile/tileSize

		shift := uint(i%pixelsPerByte) * uint(s.bpp)
		img.Pixels[y*s.width+x] = data[i/pixelsPerByte] >> shift & mask
	}
	return img, size, nil
}

// paletteEntrySize is the size of one packed color in bytes.
const paletteEntrySize = 2

// PaletteSchema decodes 15 bit colors packed into 16 bit little endian
// values: red in bits 0-4, green in bits 5-9 and blue in bits 10-14.
type PaletteSchema struct {
	count int
}

// NewPalette returns a palette schema of count colors.
func NewPalette(count int) (*PaletteSchema, error) {
	if count < 0 {
		return nil, schemaError("palette color count %d is negative", count)
	}
	return &PaletteSchema{count: count}, nil
}

// MustPalette is like NewPalette but panics on an invalid definition.
func MustPalette(count int) *PaletteSchema {
	p, err := NewPalette(count)
	if err != nil {
		panic(err)
	}
	return p
}

// Kind returns the name of the schema kind.
func (s *PaletteSchema) Kind() string { return "palette" }

func (s *PaletteSchema) decode(st *state, buf []byte, offset int, _ *Env) (Value, int, error) {
	size := s.count * paletteEntrySize
	if err := st.need(buf, offset, size); err != nil {
		return nil, 0, err
	}

	palette := make(Palette, s.count)
	for i := range palette {
		v := uint16(buf[offset+2*i]) | uint16(buf[offset+2*i+1])<<8
		palette[i] = Color(v)
	}
	return palette, size, nil
}

// Color converts a packed 15 bit color to RGBA.
func Color(v uint16) color.RGBA {
	return color.RGBA{
		R: uint8(v&0x1F) * 8,
		G: uint8(v>>5&0x1F) * 8,
		B: uint8(v>>10&0x1F) * 8,
		A: 0xFF,
	}
}
