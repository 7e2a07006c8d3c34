// Package loader handles cartridge file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// GBA cartridge header layout.
const (
	titleOffset    = 0xA0
	titleSize      = 12
	gameCodeOffset = 0xAC
	gameCodeSize   = 4
	makerOffset    = 0xB0
	makerSize      = 2
	fixedOffset    = 0xB2
	fixedValue     = 0x96
	versionOffset  = 0xBC

	// HeaderSize is the size of the cartridge header.
	HeaderSize = 0xC0
)

var (
	// ErrHeaderTooShort is returned for images smaller than the cartridge header.
	ErrHeaderTooShort = errors.New("image is smaller than cartridge header")
	// ErrInvalidHeader is returned if the fixed header value does not match.
	ErrInvalidHeader = errors.New("invalid cartridge header")
)

// ROM is a loaded cartridge image.
type ROM struct {
	Data []byte

	Title    string
	GameCode string
	Maker    string
	Version  byte
}

// Description returns a human readable description of the ROM revision.
func (r *ROM) Description() string {
	return fmt.Sprintf("Imported from %s version 1.%d", r.GameCode, r.Version)
}

// Loader handles loading cartridge files from disk.
type Loader struct{}

// New creates a new cartridge loader.
func New() *Loader {
	return &Loader{}
}

// Load loads and parses a cartridge file.
func (l *Loader) Load(path string) (*ROM, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	rom, err := l.LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}
	return rom, nil
}

// LoadFromBytes parses the cartridge header of an image in memory.
// The data is not copied and must not be modified afterwards.
func (l *Loader) LoadFromBytes(data []byte) (*ROM, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: size 0x%X", ErrHeaderTooShort, len(data))
	}
	if data[fixedOffset] != fixedValue {
		return nil, fmt.Errorf("%w: fixed value 0x%02X", ErrInvalidHeader, data[fixedOffset])
	}

	return &ROM{
		Data:     data,
		Title:    headerString(data, titleOffset, titleSize),
		GameCode: headerString(data, gameCodeOffset, gameCodeSize),
		Maker:    headerString(data, makerOffset, makerSize),
		Version:  data[versionOffset],
	}, nil
}

func headerString(data []byte, offset, size int) string {
	return strings.TrimRight(string(data[offset:offset+size]), "\x00 ")
}
