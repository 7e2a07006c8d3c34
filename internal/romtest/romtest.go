// Package romtest builds synthetic cartridge images for tests.
package romtest

import "encoding/binary"

// Base is the address the image is mapped to.
const Base = 0x08000000

// Sizes of the blockset tables.
const (
	TilesSize    = 128 * 320 / 2
	PaletteSize  = 16 * 16 * 2
	BlockCount   = 640
	headerLength = 0x100
)

// Builder appends records to an image and returns their addresses.
type Builder struct {
	data []byte
}

// New returns a builder for an image with an empty header area.
func New() *Builder {
	return &Builder{data: make([]byte, headerLength)}
}

// Add appends data aligned to 4 bytes and returns its address.
func (b *Builder) Add(data ...byte) uint32 {
	for len(b.data)%4 != 0 {
		b.data = append(b.data, 0)
	}
	address := Base + uint32(len(b.data))
	b.data = append(b.data, data...)
	return address
}

// Set overwrites the data at an address.
func (b *Builder) Set(address uint32, data ...byte) {
	copy(b.data[address-Base:], data)
}

// Bytes returns the image.
func (b *Builder) Bytes() []byte {
	return b.data
}

// Word returns the little endian encoding of a 32 bit value.
func Word(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// HalfWord returns the little endian encoding of a 16 bit value.
func HalfWord(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	var result []byte
	for _, part := range parts {
		result = append(result, part...)
	}
	return result
}

// CompressedZeros returns an LZ77 block in BIOS flag polarity that
// decompresses to size zero bytes.
func CompressedZeros(size int) []byte {
	block := []byte{0x10, byte(size), byte(size >> 8), byte(size >> 16)}
	// one literal followed by back-references of 18 bytes at distance 1
	block = append(block, 0x7F, 0x00)
	produced := 1
	for i := 0; i < 7; i++ {
		block = append(block, 0xF0, 0x00)
		produced += 18
	}
	for produced < size {
		block = append(block, 0xFF)
		for i := 0; i < 8; i++ {
			block = append(block, 0xF0, 0x00)
			produced += 18
		}
	}
	return block
}

// Blockset describes a blockset record.
type Blockset struct {
	Compressed bool
	Secondary  bool
	// Pixel is the value of every tile pixel of an uncompressed blockset.
	Pixel byte
	// Behavior is the behavior of every block.
	Behavior byte
}

// AddBlockset appends a blockset with all referenced tables.
func (b *Builder) AddBlockset(bs Blockset) uint32 {
	var tiles uint32
	if bs.Compressed {
		tiles = b.Add(CompressedZeros(TilesSize)...)
	} else {
		pixels := make([]byte, TilesSize)
		for i := range pixels {
			pixels[i] = bs.Pixel<<4 | bs.Pixel
		}
		tiles = b.Add(pixels...)
	}

	palette := make([]byte, PaletteSize)
	copy(palette, HalfWord(0x001F))
	paletteAddress := b.Add(palette...)

	blocks := make([]byte, BlockCount*16)
	for i := 0; i < BlockCount; i++ {
		copy(blocks[i*16:], HalfWord(uint16(i)))
	}
	blocksAddress := b.Add(blocks...)

	behaviors := make([]byte, BlockCount*4)
	for i := 0; i < BlockCount; i++ {
		behaviors[i*4] = bs.Behavior
		behaviors[i*4+3] = 1
	}
	behaviorsAddress := b.Add(behaviors...)

	return b.Add(Concat(
		[]byte{boolByte(bs.Compressed), boolByte(bs.Secondary), 0, 0},
		Word(tiles),
		Word(paletteAddress),
		Word(blocksAddress),
		Word(0),
		Word(behaviorsAddress),
	)...)
}

// MapData describes a map data record. Every block of the map grid has the
// value Block, every border block the value Border.
type MapData struct {
	Width, Height      uint32
	BorderWidth        byte
	BorderHeight       byte
	Block, Border      uint16
	Primary, Secondary uint32
}

// AddMapData appends a map data record with its grids.
func (b *Builder) AddMapData(md MapData) uint32 {
	border := b.Add(repeat(HalfWord(md.Border), int(md.BorderWidth)*int(md.BorderHeight))...)
	grid := b.Add(repeat(HalfWord(md.Block), int(md.Width*md.Height))...)

	return b.Add(Concat(
		Word(md.Width),
		Word(md.Height),
		Word(border),
		Word(grid),
		Word(md.Primary),
		Word(md.Secondary),
		[]byte{md.BorderWidth, md.BorderHeight, 0, 0},
	)...)
}

// Header describes a map header record with one entity of each type, an
// on map enter script, a variable handler script and one connection.
type Header struct {
	Data     uint32
	MapIndex uint16
	Name     byte

	WarpBank, WarpMap             byte
	ConnectionBank, ConnectionMap byte
}

// AddHeader appends a map header with its entity, script and connection
// tables.
func (b *Builder) AddHeader(h Header) uint32 {
	object := b.Add(Concat(
		[]byte{1, 5, 0, 0},
		HalfWord(3), HalfWord(4),
		[]byte{3, 2, 0x21, 0, 0, 0},
		HalfWord(0),
		Word(0x08100000),
		HalfWord(0x20),
		HalfWord(0),
	)...)
	warp := b.Add(Concat(
		HalfWord(7), HalfWord(8),
		[]byte{0, 1, h.WarpMap, h.WarpBank},
	)...)
	trigger := b.Add(Concat(
		HalfWord(1), HalfWord(2),
		[]byte{3, 0},
		HalfWord(0x4050), HalfWord(1),
		[]byte{0, 0},
		Word(0x08100010),
	)...)
	interactable := b.Add(Concat(
		HalfWord(5), HalfWord(6),
		[]byte{0, 7, 0, 0},
		HalfWord(0x44),
		[]byte{9, 0x83},
	)...)
	entities := b.Add(Concat(
		[]byte{1, 1, 1, 1},
		Word(object), Word(warp), Word(trigger), Word(interactable),
	)...)

	handlers := b.Add(Concat(
		HalfWord(0x4001), HalfWord(2), Word(0x08100020),
		HalfWord(0),
	)...)
	scripts := b.Add(Concat(
		[]byte{3}, Word(0x08100030),
		[]byte{4}, Word(handlers),
		[]byte{0},
	)...)

	connection := b.Add(Concat(
		[]byte{2, 0, 0, 0},
		Word(0xFFFFFFFC),
		[]byte{h.ConnectionBank, h.ConnectionMap, 0, 0},
	)...)
	connections := b.Add(Concat(Word(1), Word(connection))...)

	return b.Add(Concat(
		Word(h.Data),
		Word(entities),
		Word(scripts),
		Word(connections),
		HalfWord(0x12C),
		HalfWord(h.MapIndex),
		[]byte{h.Name, 0, 2, 1, 0, 1, 1, 0},
	)...)
}

func repeat(data []byte, n int) []byte {
	result := make([]byte, 0, len(data)*n)
	for i := 0; i < n; i++ {
		result = append(result, data...)
	}
	return result
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
