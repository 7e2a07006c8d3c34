package extract

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/romextract/internal/schema"
)

// Blockset is the document of a blockset with its tile image.
type Blockset struct {
	Document *Document
	Address  uint32
	Tiles    *schema.Image
}

// BlocksetData is the data of a blockset document.
type BlocksetData struct {
	Primary bool           `json:"primary"`
	Palette []schema.Value `json:"palette"`
	Blocks  []Block        `json:"blocks"`
}

// Block is a block definition merged with its behavior.
type Block struct {
	Tiles      []schema.Value `json:"tiles"`
	Behavior   int64          `json:"behavior"`
	Background int64          `json:"background"`
}

// blockset returns the id of the blockset referenced by a map data field.
// Blocksets that were not seen before are converted and added to result.
func (e *Extractor) blockset(mapData *schema.Record, name string, result *MapResult) (string, error) {
	ptr, err := pointer(mapData, name)
	if err != nil {
		return "", err
	}
	if ptr.IsNull() {
		return "", fmt.Errorf("%w: null blockset pointer", errUnexpectedValue)
	}

	id, exists := e.blocksets.LookupOrCreate(ptr.Address)
	if exists {
		return id, nil
	}

	r, ok := ptr.Target.(*schema.Record)
	if !ok {
		return "", fmt.Errorf("%w: blockset has type %T", errUnexpectedValue, ptr.Target)
	}
	blockset, err := e.convertBlockset(id, ptr.Address, r)
	if err != nil {
		return "", fmt.Errorf("blockset %s: %w", id, err)
	}
	result.Blocksets = append(result.Blocksets, blockset)

	e.logger.Debug("Converted blockset",
		log.String("id", id),
		log.Uint32("address", ptr.Address))
	return id, nil
}

func (e *Extractor) convertBlockset(id string, address uint32, r *schema.Record) (*Blockset, error) {
	secondary, err := get[bool](r, "secondary")
	if err != nil {
		return nil, err
	}
	tiles, _, err := target[*schema.Image](r, "tiles")
	if err != nil {
		return nil, err
	}
	palette, _, err := target[[]schema.Value](r, "palette")
	if err != nil {
		return nil, err
	}
	definitions, _, err := target[[]schema.Value](r, "blocks")
	if err != nil {
		return nil, err
	}
	behaviors, err := recordList(r, "behaviors")
	if err != nil {
		return nil, err
	}
	if len(behaviors) != len(definitions) {
		return nil, fmt.Errorf("%w: %d block definitions but %d behaviors",
			errUnexpectedValue, len(definitions), len(behaviors))
	}

	blocks := make([]Block, len(definitions))
	for i, definition := range definitions {
		tileList, ok := definition.([]schema.Value)
		if !ok {
			return nil, fmt.Errorf("%w: block %d has type %T", errUnexpectedValue, i, definition)
		}
		behavior, err := get[int64](behaviors[i], "behavior")
		if err != nil {
			return nil, err
		}
		background, err := get[int64](behaviors[i], "background")
		if err != nil {
			return nil, err
		}
		blocks[i] = Block{
			Tiles:      tileList,
			Behavior:   behavior,
			Background: background,
		}
	}

	return &Blockset{
		Document: &Document{
			Meta: Meta{
				Format:      Format{Type: "blockset", Version: formatVersion},
				ID:          id,
				Name:        "Blockset " + id,
				Description: e.opts.Description,
			},
			Data: &BlocksetData{
				Primary: !secondary,
				Palette: palette,
				Blocks:  blocks,
			},
		},
		Address: address,
		Tiles:   tiles,
	}, nil
}
