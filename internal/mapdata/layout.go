package mapdata

import (
	"github.com/retroenv/romextract/internal/lz77"
	"github.com/retroenv/romextract/internal/schema"
)

// Tileset image dimensions of a blockset.
const (
	TilesWidth  = 128
	TilesHeight = 320
	TilesBPP    = 4
)

// Blockset table sizes.
const (
	blockCount   = 640
	paletteCount = 16
	paletteSize  = 16
)

type field = schema.StructField

// Block is one cell of the map grid.
var Block = schema.MustBitfield(
	schema.BitField{Name: "block", Bits: 10},
	schema.BitField{Name: "collision", Bits: 2},
	schema.BitField{Name: "height", Bits: 4},
)

// BlockDefinition lists the 8 tiles a block is made of.
var BlockDefinition = schema.MustArray(schema.MustBitfield(
	schema.BitField{Name: "tile", Bits: 10},
	schema.BitField{Name: "flipX", Bits: 1},
	schema.BitField{Name: "flipY", Bits: 1},
	schema.BitField{Name: "palette", Bits: 4},
), schema.Literal(8))

// BlockBehavior is the behavior entry of a block.
var BlockBehavior = schema.NewStructure(
	field{Name: "behavior", Schema: schema.Byte},
	field{Schema: schema.HalfWord},
	field{Name: "background", Schema: schema.Byte},
)

var tiles = schema.MustImage(TilesWidth, TilesHeight, TilesBPP)

// Blockset is a pointer to a blockset record. The tile image is stored
// compressed or raw depending on the compressed flag.
var Blockset = schema.NewPointer(schema.NewStructure(
	field{Name: "compressed", Schema: schema.Named("compressed", schema.NewBoolean(schema.Byte))},
	field{Name: "secondary", Schema: schema.NewBoolean(schema.Byte)},
	field{Schema: schema.HalfWord},
	field{Name: "tiles", Schema: schema.NewPointer(schema.NewCase("compressed",
		schema.Branch{When: schema.Eq(true), Schema: schema.NewCompressedFormat(tiles, lz77.BIOS)},
		schema.Branch{When: schema.Eq(false), Schema: tiles},
	))},
	field{Name: "palette", Schema: schema.NewPointer(
		schema.MustArray(schema.MustPalette(paletteSize), schema.Literal(paletteCount)),
	)},
	field{Name: "blocks", Schema: schema.NewPointer(schema.MustArray(BlockDefinition, schema.Literal(blockCount)))},
	field{Name: "funcptr", Schema: schema.Word},
	field{Name: "behaviors", Schema: schema.NewPointer(schema.MustArray(BlockBehavior, schema.Literal(blockCount)))},
))

// MapData is the map grid record. The border block size fields follow the
// pointer that uses them.
var MapData = schema.NewStructure(
	field{Name: "width", Schema: schema.Named("width", schema.Word)},
	field{Name: "height", Schema: schema.Named("height", schema.Word)},
	field{Name: "borderblock", Schema: schema.NewPointer(schema.MustArray(
		schema.MustArray(Block, schema.Ref("bb_width")),
		schema.Ref("bb_height"),
	))},
	field{Name: "data", Schema: schema.NewPointer(schema.MustArray(
		schema.MustArray(Block, schema.Ref("width")),
		schema.Ref("height"),
	))},
	field{Name: "blockset1", Schema: Blockset},
	field{Name: "blockset2", Schema: Blockset},
	field{Name: "bb_width", Schema: schema.Named("bb_width", schema.Byte)},
	field{Name: "bb_height", Schema: schema.Named("bb_height", schema.Byte)},
	field{Schema: schema.HalfWord},
)

// Connection directions.
var connectionDirection = schema.NewEnum(schema.Byte, []schema.EnumEntry{
	{Raw: 0, Symbol: "none"},
	{Raw: 1, Symbol: "down"},
	{Raw: 2, Symbol: "up"},
	{Raw: 3, Symbol: "left"},
	{Raw: 4, Symbol: "right"},
	{Raw: 5, Symbol: "dive"},
	{Raw: 6, Symbol: "emerge"},
}, false)

// Connection links the edge of a map to a neighbor map.
var Connection = schema.NewStructure(
	field{Name: "direction", Schema: connectionDirection},
	field{Schema: schema.NewPadding(3)},
	field{Name: "offset", Schema: schema.SignedWord},
	field{Name: "bank", Schema: schema.Byte},
	field{Name: "map", Schema: schema.Byte},
	field{Schema: schema.NewPadding(2)},
)

// ConnectionTable lists the connections of a map.
var ConnectionTable = schema.NewStructure(
	field{Name: "count", Schema: schema.Named("count", schema.Word)},
	field{Name: "connections", Schema: schema.NewPointer(schema.MustArray(Connection, schema.Ref("count")))},
)

// ObjectEntity is a sprite based map object like a person or an item ball.
var ObjectEntity = schema.NewStructure(
	field{Name: "id", Schema: schema.Byte},
	field{Name: "sprite", Schema: schema.Byte},
	field{Name: "replacement", Schema: schema.Byte},
	field{Schema: schema.Byte},
	field{Name: "x", Schema: schema.HalfWord},
	field{Name: "y", Schema: schema.HalfWord},
	field{Name: "height", Schema: schema.Byte},
	field{Name: "behavior", Schema: schema.Byte},
	field{Name: "boundary", Schema: schema.MustBitfield(
		schema.BitField{Name: "x", Bits: 4},
		schema.BitField{Name: "y", Bits: 4},
	)},
	field{Schema: schema.Byte},
	field{Name: "property", Schema: schema.Byte},
	field{Schema: schema.Byte},
	field{Name: "viewRadius", Schema: schema.HalfWord},
	field{Name: "script", Schema: schema.Word},
	field{Name: "flag", Schema: schema.HalfWord},
	field{Schema: schema.NewPadding(2)},
)

// WarpEntity moves the player to a warp of another map.
var WarpEntity = schema.NewStructure(
	field{Name: "x", Schema: schema.HalfWord},
	field{Name: "y", Schema: schema.HalfWord},
	field{Name: "height", Schema: schema.Byte},
	field{Name: "warp", Schema: schema.Byte},
	field{Name: "map", Schema: schema.Byte},
	field{Name: "bank", Schema: schema.Byte},
)

// TriggerEntity runs a script when stepped on while a variable has a value.
var TriggerEntity = schema.NewStructure(
	field{Name: "x", Schema: schema.HalfWord},
	field{Name: "y", Schema: schema.HalfWord},
	field{Name: "height", Schema: schema.Byte},
	field{Schema: schema.Byte},
	field{Name: "variable", Schema: schema.HalfWord},
	field{Name: "value", Schema: schema.HalfWord},
	field{Schema: schema.Byte},
	field{Schema: schema.Byte},
	field{Name: "script", Schema: schema.Word},
)

var interactableType = schema.NewEnum(schema.Byte, []schema.EnumEntry{
	{Raw: 0, Symbol: "script"},
	{Raw: 1, Symbol: "script_up"},
	{Raw: 2, Symbol: "script_down"},
	{Raw: 3, Symbol: "script_right"},
	{Raw: 4, Symbol: "script_left"},
	{Raw: 5, Symbol: "hidden_item"},
	{Raw: 6, Symbol: "hidden_item1"},
	{Raw: 7, Symbol: "hidden_item2"},
	{Raw: 8, Symbol: "secret_base"},
}, true)

// InteractableEntity is a sign, hidden item or secret base. The shape of
// its data depends on the type.
var InteractableEntity = schema.NewStructure(
	field{Name: "x", Schema: schema.HalfWord},
	field{Name: "y", Schema: schema.HalfWord},
	field{Name: "height", Schema: schema.Byte},
	field{Name: "type", Schema: schema.Named("type", interactableType)},
	field{Schema: schema.NewPadding(2)},
	field{Name: "data", Schema: schema.NewCase("type",
		schema.Branch{
			When: schema.Any("script", "script_up", "script_down", "script_right", "script_left"),
			Schema: schema.NewStructure(
				field{Name: "script", Schema: schema.Word},
			),
		},
		schema.Branch{
			When: schema.Any("hidden_item", "hidden_item1", "hidden_item2"),
			Schema: schema.NewStructure(
				field{Name: "item", Schema: schema.HalfWord},
				field{Name: "id", Schema: schema.Byte},
				field{Name: "data", Schema: schema.MustBitfield(
					schema.BitField{Name: "amount", Bits: 7},
					schema.BitField{Name: "itemfinder", Bits: 1},
				)},
			),
		},
		schema.Branch{
			When: schema.Eq("secret_base"),
			Schema: schema.NewStructure(
				field{Name: "id", Schema: schema.Word},
			),
		},
	)},
)

// EntityTable holds the counts and pointers of all entity lists of a map.
var EntityTable = schema.NewStructure(
	field{Schema: schema.Named("object_count", schema.Byte)},
	field{Schema: schema.Named("warp_count", schema.Byte)},
	field{Schema: schema.Named("trigger_count", schema.Byte)},
	field{Schema: schema.Named("interactable_count", schema.Byte)},
	field{Name: "objects", Schema: schema.NewPointer(schema.MustArray(ObjectEntity, schema.Ref("object_count")))},
	field{Name: "warps", Schema: schema.NewPointer(schema.MustArray(WarpEntity, schema.Ref("warp_count")))},
	field{Name: "triggers", Schema: schema.NewPointer(schema.MustArray(TriggerEntity, schema.Ref("trigger_count")))},
	field{Name: "interactables", Schema: schema.NewPointer(
		schema.MustArray(InteractableEntity, schema.Ref("interactable_count")),
	)},
)

var scriptType = schema.NewEnum(schema.Byte, []schema.EnumEntry{
	{Raw: 0, Symbol: "sentinel"},
	{Raw: 1, Symbol: "setmaptile"},
	{Raw: 2, Symbol: "handler_env1"},
	{Raw: 3, Symbol: "onmapenter"},
	{Raw: 4, Symbol: "handler_env2"},
	{Raw: 5, Symbol: "closemenu1"},
	{Raw: 6, Symbol: "unknown"},
	{Raw: 7, Symbol: "closemenu2"},
}, true)

// scriptHandler is an entry of a variable based script handler list.
var scriptHandler = schema.NewStructure(
	field{Name: "variable", Schema: schema.Named("variable", schema.HalfWord)},
	field{Name: "data", Schema: schema.NewCase("variable",
		schema.Branch{When: schema.Eq(0)},
		schema.Branch{When: schema.Default(), Schema: schema.NewStructure(
			field{Name: "value", Schema: schema.HalfWord},
			field{Name: "script", Schema: schema.Word},
		)},
	)},
)

// ScriptTableEntry is one map script entry.
var ScriptTableEntry = schema.NewStructure(
	field{Name: "type", Schema: schema.Named("type", scriptType)},
	field{Name: "data", Schema: schema.NewCase("type",
		schema.Branch{When: schema.Eq("sentinel")},
		schema.Branch{
			When:   schema.Any("setmaptile", "onmapenter", "closemenu1", "unknown", "closemenu2"),
			Schema: schema.Word,
		},
		schema.Branch{
			When: schema.Any("handler_env1", "handler_env2"),
			Schema: schema.NewPointer(schema.NewList(scriptHandler, map[string]any{
				"variable": 0,
				"data":     nil,
			})),
		},
	)},
)

// ScriptTable is the sentinel terminated list of map scripts.
var ScriptTable = schema.NewList(ScriptTableEntry, map[string]any{
	"type": "sentinel",
	"data": nil,
})

// MapHeader is the root record of a map.
var MapHeader = schema.NewStructure(
	field{Name: "data", Schema: schema.NewPointer(MapData)},
	field{Name: "entities", Schema: schema.NewPointer(EntityTable)},
	field{Name: "scripts", Schema: schema.NewPointer(ScriptTable)},
	field{Name: "connections", Schema: schema.NewPointer(ConnectionTable)},
	field{Name: "music", Schema: schema.HalfWord},
	field{Name: "mapindex", Schema: schema.HalfWord},
	field{Name: "name", Schema: schema.Byte},
	field{Name: "cave", Schema: schema.Byte},
	field{Name: "weather", Schema: schema.Byte},
	field{Name: "light", Schema: schema.Byte},
	field{Name: "pad", Schema: schema.Byte},
	field{Name: "escape", Schema: schema.Byte},
	field{Name: "showname", Schema: schema.Byte},
	field{Name: "battletype", Schema: schema.Byte},
)
