// Package mapdata defines the map record layouts of third generation GBA
// games and reads the tables referencing them.
package mapdata

import (
	"errors"
	"fmt"

	"github.com/retroenv/romextract/internal/charmap"
	"github.com/retroenv/romextract/internal/schema"
)

// ReadMapsTable reads the map bank table referenced by the pointer at the
// given address. It returns the map header addresses per bank.
func ReadMapsTable(d *schema.Decoder, address uint32, bankSizes []int) ([][]uint32, error) {
	banks := make([]schema.Schema, len(bankSizes))
	for i, size := range bankSizes {
		banks[i] = schema.NewPointer(schema.MustArray(schema.Word, schema.Literal(size)))
	}
	table := schema.NewPointer(schema.NewTuple(banks...))

	v, err := d.DecodeAddress(table, address)
	if err != nil {
		return nil, fmt.Errorf("decoding map bank table: %w", err)
	}

	entries, err := pointerTarget[[]schema.Value](v)
	if err != nil {
		return nil, fmt.Errorf("map bank table: %w", err)
	}

	result := make([][]uint32, len(entries))
	for i, entry := range entries {
		maps, err := pointerTarget[[]schema.Value](entry)
		if err != nil {
			return nil, fmt.Errorf("bank %d: %w", i, err)
		}
		result[i] = make([]uint32, len(maps))
		for j, m := range maps {
			result[i][j] = uint32(m.(int64))
		}
	}
	return result, nil
}

// ReadMap reads the map header at the given address.
func ReadMap(d *schema.Decoder, address uint32) (*schema.Record, error) {
	v, err := d.DecodeAddress(MapHeader, address)
	if err != nil {
		return nil, fmt.Errorf("decoding map header at 0x%08X: %w", address, err)
	}
	return v.(*schema.Record), nil
}

// ReadMapNamesTable reads count map names from the table of string pointers
// referenced by the pointer at the given address.
func ReadMapNamesTable(d *schema.Decoder, address uint32, count int, c *charmap.Charmap) ([]string, error) {
	table := schema.NewPointer(schema.MustArray(
		schema.NewPointer(schema.NewCharmapString(c)),
		schema.Literal(count),
	))

	v, err := d.DecodeAddress(table, address)
	if err != nil {
		return nil, fmt.Errorf("decoding map names table: %w", err)
	}
	entries, err := pointerTarget[[]schema.Value](v)
	if err != nil {
		return nil, fmt.Errorf("map names table: %w", err)
	}

	names := make([]string, len(entries))
	for i, entry := range entries {
		ptr := entry.(*schema.PointerValue)
		if ptr.IsNull() {
			continue
		}
		names[i] = ptr.Target.(string)
	}
	return names, nil
}

// ReadMapDataHeadersTable reads count map data pointers from the table
// referenced by the pointer at the given address.
func ReadMapDataHeadersTable(d *schema.Decoder, address uint32, count int) ([]*schema.PointerValue, error) {
	table := schema.NewPointer(schema.MustArray(schema.NewPointer(MapData), schema.Literal(count)))

	v, err := d.DecodeAddress(table, address)
	if err != nil {
		return nil, fmt.Errorf("decoding map data headers table: %w", err)
	}
	entries, err := pointerTarget[[]schema.Value](v)
	if err != nil {
		return nil, fmt.Errorf("map data headers table: %w", err)
	}

	headers := make([]*schema.PointerValue, len(entries))
	for i, entry := range entries {
		headers[i] = entry.(*schema.PointerValue)
	}
	return headers, nil
}

// pointerTarget returns the target of a decoded pointer.
func pointerTarget[T any](v schema.Value) (T, error) {
	var zero T
	ptr, ok := v.(*schema.PointerValue)
	if !ok {
		return zero, fmt.Errorf("unexpected value type %T", v)
	}
	if ptr.IsNull() {
		return zero, errors.New("null pointer")
	}
	target, ok := ptr.Target.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected target type %T", ptr.Target)
	}
	return target, nil
}
