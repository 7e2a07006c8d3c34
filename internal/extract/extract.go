// Package extract converts decoded map records into exportable documents.
package extract

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/romextract/internal/registry"
	"github.com/retroenv/romextract/internal/schema"
)

const formatVersion = "1.0.0"

// Special warp target that is redirected at runtime.
const dynamicWarpTarget = 127

// ErrInvalidMap is returned for map references that are not in the map bank table.
var ErrInvalidMap = errors.New("invalid map")

// Format identifies the type of a document.
type Format struct {
	Type    string `json:"type"`
	Version string `json:"version"`
}

// Meta describes a document.
type Meta struct {
	Format      Format `json:"format"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Document is an exported record with its metadata.
type Document struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// Ref references another document by id.
type Ref struct {
	ID string `json:"id"`
}

// Options contains the tables that are shared by all maps of a ROM.
type Options struct {
	Description    string
	MapNames       []string
	NameOffset     int
	MapDataHeaders []*schema.PointerValue
}

// Extractor converts the maps of one ROM. Blocksets and map data that are
// shared between maps are only returned for the first map using them.
type Extractor struct {
	logger  *log.Logger
	decoder *schema.Decoder
	banks   [][]uint32
	opts    Options

	blocksets *registry.Registry
	linked    *registry.Registry
}

// New returns a new extractor for the maps of the given map bank table.
func New(logger *log.Logger, decoder *schema.Decoder, banks [][]uint32, opts Options) *Extractor {
	return &Extractor{
		logger:    logger,
		decoder:   decoder,
		banks:     banks,
		opts:      opts,
		blocksets: registry.New("blockset"),
		linked:    registry.New("mapdata"),
	}
}

// BankID returns the document id of a map bank.
func BankID(bank int) string {
	return fmt.Sprintf("bank-%d", bank)
}

// MapID returns the document id of a map.
func MapID(bank, m int) string {
	return fmt.Sprintf("map-%d-%d", bank, m)
}

// Banks returns the map header addresses per bank.
func (e *Extractor) Banks() [][]uint32 {
	return e.banks
}

// BlocksetIDs returns the ids of all blocksets seen so far.
func (e *Extractor) BlocksetIDs() []string {
	return e.blocksets.IDs()
}

func (e *Extractor) lookupMap(bank, m int64) (string, error) {
	if bank < 0 || bank >= int64(len(e.banks)) || m < 0 || m >= int64(len(e.banks[bank])) {
		return "", fmt.Errorf("%w: %d.%d", ErrInvalidMap, bank, m)
	}
	return MapID(int(bank), int(m)), nil
}

// Bank returns the manifest document of a map bank.
func (e *Extractor) Bank(bank int) (*Document, error) {
	if bank < 0 || bank >= len(e.banks) {
		return nil, fmt.Errorf("%w: bank %d", ErrInvalidMap, bank)
	}

	type mapPath struct {
		Path string `json:"path"`
	}
	maps := make([]mapPath, len(e.banks[bank]))
	for m := range maps {
		maps[m] = mapPath{Path: MapID(bank, m) + "/map.json"}
	}

	return &Document{
		Meta: Meta{
			Format:      Format{Type: "bank", Version: formatVersion},
			ID:          BankID(bank),
			Name:        fmt.Sprintf("Bank %d", bank),
			Description: e.opts.Description,
		},
		Data: struct {
			Maps []mapPath `json:"maps"`
		}{Maps: maps},
	}, nil
}

// Project returns the root manifest that lists the bank manifests and the
// blocksets seen so far, with paths relative to the output directory.
func (e *Extractor) Project() *Document {
	type path struct {
		Path string `json:"path"`
	}
	banks := make([]path, len(e.banks))
	for bank := range banks {
		banks[bank] = path{Path: "banks/" + BankID(bank) + "/bank.json"}
	}
	ids := e.BlocksetIDs()
	blocksets := make([]path, len(ids))
	for i, id := range ids {
		blocksets[i] = path{Path: "blocksets/" + id + "/blockset.json"}
	}

	return &Document{
		Meta: Meta{
			Format:      Format{Type: "project", Version: formatVersion},
			ID:          "project",
			Name:        "Project",
			Description: e.opts.Description,
		},
		Data: struct {
			Blocksets []path `json:"blocksets"`
			Banks     []path `json:"banks"`
		}{Blocksets: blocksets, Banks: banks},
	}
}

// mapName returns the name of a map by its region id.
func (e *Extractor) mapName(region int64) string {
	i := int(region) - e.opts.NameOffset
	if i < 0 || i >= len(e.opts.MapNames) {
		return ""
	}
	return e.opts.MapNames[i]
}
