package extract

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/romextract/internal/mapdata"
	"github.com/retroenv/romextract/internal/schema"
)

// MapResult is the document of a map and the blocksets that it introduced.
type MapResult struct {
	Document  *Document
	Blocksets []*Blockset
}

// Grid is a block grid, stored as one value list per block subfield.
type Grid struct {
	Width  int64              `json:"width"`
	Height int64              `json:"height"`
	Data   map[string][]int64 `json:"data"`
}

// BlocksetRefs references the blocksets of a map.
type BlocksetRefs struct {
	Primary   Ref `json:"primary"`
	Secondary Ref `json:"secondary"`
}

// MapData is the data of a map document. Maps that share their map data
// with a previously converted map only reference it.
type MapData struct {
	Border    *Grid         `json:"border,omitempty"`
	Map       *Grid         `json:"map,omitempty"`
	Blocksets *BlocksetRefs `json:"blocksets,omitempty"`
	Linked    *Ref          `json:"linked,omitempty"`

	Scripts     []Script     `json:"scripts"`
	Connections []Connection `json:"connections"`
	Entities    []Entity     `json:"entities"`
}

// Connection links a map edge to another map.
type Connection struct {
	Direction schema.Value `json:"direction"`
	Offset    int64        `json:"offset"`
	Map       Ref          `json:"map"`
}

// Map converts the map with the given bank and index.
func (e *Extractor) Map(bank, m int) (*MapResult, error) {
	id, err := e.lookupMap(int64(bank), int64(m))
	if err != nil {
		return nil, err
	}
	address := e.banks[bank][m]

	header, err := mapdata.ReadMap(e.decoder, address)
	if err != nil {
		return nil, err
	}

	region, err := get[int64](header, "name")
	if err != nil {
		return nil, err
	}
	name := e.mapName(region)

	result := &MapResult{
		Document: &Document{
			Meta: Meta{
				Format:      Format{Type: "map", Version: formatVersion},
				ID:          id,
				Name:        strings.TrimSuffix(fmt.Sprintf("Map %d.%d - %s", bank, m, name), " - "),
				Description: e.opts.Description,
			},
		},
	}

	data, err := e.mapData(header, id, result)
	if err != nil {
		return nil, fmt.Errorf("map %d.%d: %w", bank, m, err)
	}
	result.Document.Data = data

	e.logger.Debug("Converted map",
		log.String("id", id),
		log.String("name", name),
		log.Uint32("address", address))
	return result, nil
}

func (e *Extractor) mapData(header *schema.Record, id string, result *MapResult) (*MapData, error) {
	data := &MapData{}

	if err := e.grids(header, id, data, result); err != nil {
		return nil, err
	}

	scripts, err := e.scripts(header)
	if err != nil {
		return nil, fmt.Errorf("scripts: %w", err)
	}
	data.Scripts = scripts

	connections, err := e.connections(header)
	if err != nil {
		return nil, fmt.Errorf("connections: %w", err)
	}
	data.Connections = connections

	entities, err := e.entities(header)
	if err != nil {
		return nil, fmt.Errorf("entities: %w", err)
	}
	data.Entities = entities
	return data, nil
}

// grids sets the block grids and blockset references of a map, or the
// reference to the map that first used the same map data.
func (e *Extractor) grids(header *schema.Record, id string, data *MapData, result *MapResult) error {
	dataPtr, err := pointer(header, "data")
	if err != nil {
		return err
	}
	mapData, ok := dataPtr.Target.(*schema.Record)
	if !ok {
		return fmt.Errorf("%w: map data target has type %T", errUnexpectedValue, dataPtr.Target)
	}

	mapIndex, err := get[int64](header, "mapindex")
	if err != nil {
		return err
	}
	e.checkMapDataHeader(mapIndex, dataPtr.Address)

	if linkedID, exists := e.linked.Claim(uint32(mapIndex), id); exists {
		data.Linked = &Ref{ID: linkedID}
		return nil
	}

	if data.Border, err = grid(mapData, "borderblock", "bb_width", "bb_height"); err != nil {
		return fmt.Errorf("border: %w", err)
	}
	if data.Map, err = grid(mapData, "data", "width", "height"); err != nil {
		return fmt.Errorf("map: %w", err)
	}

	primary, err := e.blockset(mapData, "blockset1", result)
	if err != nil {
		return fmt.Errorf("primary blockset: %w", err)
	}
	secondary, err := e.blockset(mapData, "blockset2", result)
	if err != nil {
		return fmt.Errorf("secondary blockset: %w", err)
	}
	data.Blocksets = &BlocksetRefs{
		Primary:   Ref{ID: primary},
		Secondary: Ref{ID: secondary},
	}
	return nil
}

// checkMapDataHeader warns if the map data of a map header differs from
// the entry of the map data header table.
func (e *Extractor) checkMapDataHeader(mapIndex int64, address uint32) {
	i := int(mapIndex) - 1
	if i < 0 || i >= len(e.opts.MapDataHeaders) {
		return
	}
	if expected := e.opts.MapDataHeaders[i].Address; expected != address {
		e.logger.Warn("Map data does not match map data header table",
			log.Int64("mapindex", mapIndex),
			log.Uint32("address", address),
			log.Uint32("expected", expected))
	}
}

func grid(r *schema.Record, name, widthName, heightName string) (*Grid, error) {
	width, err := get[int64](r, widthName)
	if err != nil {
		return nil, err
	}
	height, err := get[int64](r, heightName)
	if err != nil {
		return nil, err
	}
	rows, _, err := target[[]schema.Value](r, name)
	if err != nil {
		return nil, err
	}
	cols, err := columns(rows)
	if err != nil {
		return nil, err
	}
	return &Grid{Width: width, Height: height, Data: cols}, nil
}

func (e *Extractor) connections(header *schema.Record) ([]Connection, error) {
	table, ok, err := target[*schema.Record](header, "connections")
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Connection{}, nil
	}

	entries, err := recordList(table, "connections")
	if err != nil {
		return nil, err
	}

	connections := make([]Connection, 0, len(entries))
	for i, entry := range entries {
		c, err := e.connection(entry)
		if err != nil {
			return nil, fmt.Errorf("connection %d: %w", i, err)
		}
		connections = append(connections, c)
	}
	return connections, nil
}

func (e *Extractor) connection(r *schema.Record) (Connection, error) {
	offset, err := get[int64](r, "offset")
	if err != nil {
		return Connection{}, err
	}
	bank, err := get[int64](r, "bank")
	if err != nil {
		return Connection{}, err
	}
	m, err := get[int64](r, "map")
	if err != nil {
		return Connection{}, err
	}
	id, err := e.lookupMap(bank, m)
	if err != nil {
		return Connection{}, err
	}
	direction, _ := r.Get("direction")

	return Connection{
		Direction: direction,
		Offset:    offset,
		Map:       Ref{ID: id},
	}, nil
}
