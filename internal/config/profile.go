package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/romextract/internal/schema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidProfile is returned for profiles that are missing required values.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile describes where the data tables of one ROM revision are located.
// Table addresses are the addresses of the pointers to the tables.
type Profile struct {
	GameCode    string `yaml:"game_code"`
	BaseAddress uint32 `yaml:"base_address"`

	MapBanks       MapBanks       `yaml:"map_banks"`
	MapNames       MapNames       `yaml:"map_names"`
	MapDataHeaders MapDataHeaders `yaml:"map_data_headers"`
}

// MapBanks locates the table of map header pointers grouped by bank.
type MapBanks struct {
	Address uint32 `yaml:"address"`
	Sizes   []int  `yaml:"sizes"`
}

// MapNames locates the table of map name string pointers.
type MapNames struct {
	Address uint32 `yaml:"address"`
	Count   int    `yaml:"count"`
	// Offset is subtracted from a map header region id to index the table.
	Offset int `yaml:"offset"`
}

// MapDataHeaders locates the table of map data pointers.
type MapDataHeaders struct {
	Address uint32 `yaml:"address"`
	Count   int    `yaml:"count"`
}

// DefaultProfile returns the profile of Pokemon FireRed (BPRE) version 1.0.
func DefaultProfile() Profile {
	return Profile{
		GameCode:    "BPRE",
		BaseAddress: schema.DefaultBaseAddress,
		MapBanks: MapBanks{
			Address: 0x0805524C,
			Sizes: []int{
				5, 123, 60, 66, 4, 6, 8, 10, 6, 8, 20, 10, 8, 2, 10, 4,
				2, 2, 2, 1, 1, 2, 2, 3, 2, 3, 2, 1, 1, 1, 1, 7,
				5, 5, 8, 8, 5, 5, 1, 1, 1, 2, 1,
			},
		},
		MapNames: MapNames{
			Address: 0x080C0C94,
			Count:   0x6D,
			Offset:  0x58,
		},
		MapDataHeaders: MapDataHeaders{
			Address: 0x08055194,
			Count:   384,
		},
	}
}

// LoadProfile reads a YAML profile from the given file.
func LoadProfile(path string) (Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("opening profile %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	profile, err := ReadProfile(file)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}
	return profile, nil
}

// ReadProfile decodes a YAML profile. Values missing in the document keep
// the values of the default profile.
func ReadProfile(r io.Reader) (Profile, error) {
	profile := DefaultProfile()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("decoding yaml: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Validate checks that all table addresses are inside the ROM address space.
func (p Profile) Validate() error {
	if p.BaseAddress == 0 {
		return fmt.Errorf("%w: base address is not set", ErrInvalidProfile)
	}
	tables := []struct {
		name    string
		address uint32
	}{
		{"map banks", p.MapBanks.Address},
		{"map names", p.MapNames.Address},
		{"map data headers", p.MapDataHeaders.Address},
	}
	for _, table := range tables {
		if table.address < p.BaseAddress {
			return fmt.Errorf("%w: %s address 0x%08X is below base address 0x%08X",
				ErrInvalidProfile, table.name, table.address, p.BaseAddress)
		}
	}
	for i, size := range p.MapBanks.Sizes {
		if size < 0 {
			return fmt.Errorf("%w: bank %d has negative size %d", ErrInvalidProfile, i, size)
		}
	}
	return nil
}
