package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/romextract/internal/options"
	"github.com/retroenv/romextract/internal/romtest"
)

// createTestFiles writes a ROM with one bank of two maps and a matching
// profile. It returns the paths of both files.
func createTestFiles(t *testing.T) (string, string) {
	t.Helper()

	b := romtest.New()
	b.Set(romtest.Base+0xA0, []byte("TEST ROM")...)
	b.Set(romtest.Base+0xAC, []byte("TEST")...)
	b.Set(romtest.Base+0xB2, 0x96)

	blockset := b.AddBlockset(romtest.Blockset{Pixel: 1})
	data := b.AddMapData(romtest.MapData{Width: 1, Height: 1, Primary: blockset, Secondary: blockset})
	first := b.AddHeader(romtest.Header{Data: data, MapIndex: 1, Name: 0x58})
	second := b.AddHeader(romtest.Header{Data: data, MapIndex: 1, Name: 0x58, WarpMap: 1})

	bank := b.Add(romtest.Concat(romtest.Word(first), romtest.Word(second))...)
	banks := b.Add(romtest.Word(bank)...)
	banksPtr := b.Add(romtest.Word(banks)...)

	name := b.Add(0xCE, 0xBF, 0xCD, 0xCE, 0xFF)
	names := b.Add(romtest.Word(name)...)
	namesPtr := b.Add(romtest.Word(names)...)

	headers := b.Add(romtest.Word(data)...)
	headersPtr := b.Add(romtest.Word(headers)...)

	dir := t.TempDir()
	romFile := filepath.Join(dir, "test.gba")
	if err := os.WriteFile(romFile, b.Bytes(), 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	profile := fmt.Sprintf(`game_code: TEST
map_banks:
  address: 0x%08X
  sizes: [2]
map_names:
  address: 0x%08X
  count: 1
  offset: 0x58
map_data_headers:
  address: 0x%08X
  count: 1
`, banksPtr, namesPtr, headersPtr)
	profileFile := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(profileFile, []byte(profile), 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return romFile, profileFile
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	var result map[string]any
	assert.NoError(t, gojson.Unmarshal(data, &result))
	return result
}

func TestProcessFileNames(t *testing.T) {
	romFile, profileFile := createTestFiles(t)
	output := filepath.Join(t.TempDir(), "names.json")

	opts := options.Program{
		Parameters: options.Parameters{Input: romFile, Output: output, Profile: profileFile},
		Mode:       options.ModeNames,
	}
	assert.NoError(t, ProcessFile(context.Background(), log.NewTestLogger(t), opts))

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	var names []string
	assert.NoError(t, gojson.Unmarshal(data, &names))
	assert.Equal(t, []string{"TEST"}, names)
}

func TestProcessFileMap(t *testing.T) {
	romFile, profileFile := createTestFiles(t)
	output := filepath.Join(t.TempDir(), "map.json")

	opts := options.Program{
		Parameters: options.Parameters{Input: romFile, Output: output, Profile: profileFile},
		Mode:       options.ModeMap,
	}
	assert.NoError(t, ProcessFile(context.Background(), log.NewTestLogger(t), opts))

	doc := readJSON(t, output)
	meta := doc["meta"].(map[string]any)
	assert.Equal(t, "map-0-0", meta["id"])
	assert.Equal(t, "Map 0.0 - TEST", meta["name"])
	assert.Equal(t, "Imported from TEST version 1.0", meta["description"])

	data := doc["data"].(map[string]any)
	blocksets := data["blocksets"].(map[string]any)
	assert.Equal(t, map[string]any{"id": "blockset-0"}, blocksets["primary"])
	assert.Equal(t, map[string]any{"id": "blockset-0"}, blocksets["secondary"])
}

func TestProcessFileAll(t *testing.T) {
	romFile, profileFile := createTestFiles(t)
	dir := filepath.Join(t.TempDir(), "out")

	opts := options.Program{
		Parameters: options.Parameters{Input: romFile, Output: dir, Profile: profileFile},
		Mode:       options.ModeAll,
	}
	assert.NoError(t, ProcessFile(context.Background(), log.NewTestLogger(t), opts))

	bank := readJSON(t, filepath.Join(dir, "banks", "bank-0", "bank.json"))
	maps := bank["data"].(map[string]any)["maps"].([]any)
	assert.Equal(t, 2, len(maps))

	linked := readJSON(t, filepath.Join(dir, "banks", "bank-0", "map-0-1", "map.json"))
	data := linked["data"].(map[string]any)
	assert.Equal(t, map[string]any{"id": "map-0-0"}, data["linked"])

	blockset := readJSON(t, filepath.Join(dir, "blocksets", "blockset-0", "blockset.json"))
	assert.Equal(t, true, blockset["data"].(map[string]any)["primary"])

	tiles, err := os.ReadFile(filepath.Join(dir, "blocksets", "blockset-0", "tiles.bin"))
	assert.NoError(t, err)
	assert.Equal(t, 128*320, len(tiles))
	assert.Equal(t, uint8(1), tiles[0])

	_, err = os.Stat(filepath.Join(dir, "blocksets", "blockset-1"))
	assert.True(t, os.IsNotExist(err))

	project := readJSON(t, filepath.Join(dir, "project.json"))
	assert.Equal(t, "project", project["meta"].(map[string]any)["format"].(map[string]any)["type"])
	projectData := project["data"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"path": "banks/bank-0/bank.json"}}, projectData["banks"])
	assert.Equal(t, []any{map[string]any{"path": "blocksets/blockset-0/blockset.json"}}, projectData["blocksets"])
	for _, entry := range projectData["blocksets"].([]any) {
		_, err = os.Stat(filepath.Join(dir, entry.(map[string]any)["path"].(string)))
		assert.NoError(t, err)
	}
}

func TestProcessFileCancelled(t *testing.T) {
	romFile, profileFile := createTestFiles(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := options.Program{
		Parameters: options.Parameters{Input: romFile, Output: t.TempDir(), Profile: profileFile},
		Mode:       options.ModeAll,
	}
	err := ProcessFile(ctx, log.NewTestLogger(t), opts)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProcessFileErrors(t *testing.T) {
	romFile, _ := createTestFiles(t)

	tests := []struct {
		name string
		opts options.Parameters
	}{
		{name: "missing rom", opts: options.Parameters{Input: "/nonexistent/file.gba"}},
		{name: "missing profile", opts: options.Parameters{Input: romFile, Profile: "/nonexistent/profile.yaml"}},
		{name: "missing charmap", opts: options.Parameters{Input: romFile, Charmap: "/nonexistent/en.tbl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProcessFile(context.Background(), log.NewTestLogger(t), options.Program{Parameters: tt.opts})
			assert.True(t, err != nil)
		})
	}
}
