package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

//nolint:funlen // test functions can be long
func TestLoad(t *testing.T) {
	t.Run("load cartridge file", func(t *testing.T) {
		tmpFile := createTempFile(t, buildMinimalGBAROM("POKEMON FIRE", "BPRE", 0))

		rom, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, "POKEMON FIRE", rom.Title)
		assert.Equal(t, "BPRE", rom.GameCode)
		assert.Equal(t, "01", rom.Maker)
		assert.Equal(t, byte(0), rom.Version)
		assert.Equal(t, "Imported from BPRE version 1.0", rom.Description())
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.gba")
		assert.True(t, err != nil)
	})
}

func TestLoadFromBytes(t *testing.T) {
	t.Run("short title is trimmed", func(t *testing.T) {
		rom, err := New().LoadFromBytes(buildMinimalGBAROM("RUBY", "AXVE", 1))
		assert.NoError(t, err)
		assert.Equal(t, "RUBY", rom.Title)
		assert.Equal(t, byte(1), rom.Version)
		assert.Equal(t, HeaderSize+0x100, len(rom.Data))
	})

	t.Run("error on short image", func(t *testing.T) {
		_, err := New().LoadFromBytes(make([]byte, 0x20))
		assert.True(t, errors.Is(err, ErrHeaderTooShort))
	})

	t.Run("error on invalid fixed value", func(t *testing.T) {
		data := buildMinimalGBAROM("TEST", "TEST", 0)
		data[fixedOffset] = 0
		_, err := New().LoadFromBytes(data)
		assert.True(t, errors.Is(err, ErrInvalidHeader))
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.gba")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

// buildMinimalGBAROM creates a cartridge image with a filled in header.
func buildMinimalGBAROM(title, code string, version byte) []byte {
	data := make([]byte, HeaderSize+0x100)
	copy(data[titleOffset:], title)
	copy(data[gameCodeOffset:], code)
	copy(data[makerOffset:], "01")
	data[fixedOffset] = fixedValue
	data[versionOffset] = version
	return data
}
