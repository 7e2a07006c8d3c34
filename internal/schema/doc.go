// Package schema implements a declarative binary schema decoder for
// cartridge images.
//
// Schemas are composed into trees that describe the layout of a record:
// primitives, enums and bitfields decode values at a cursor, structures
// decode their fields at consecutive offsets and bind named values in a
// scoped environment, arrays and case dispatch refer to those names, and
// pointers translate ROM addresses to offsets of the image. Decoding never
// modifies the input buffer and keeps no state between calls.
//
//	header := schema.NewStructure(
//		schema.StructField{Name: "count", Schema: schema.Named("count", schema.Word)},
//		schema.StructField{Name: "items", Schema: schema.NewPointer(
//			schema.MustArray(schema.HalfWord, schema.Ref("count")),
//		)},
//	)
//	value, err := schema.NewDecoder(rom).DecodeAddress(header, 0x08001000)
package schema
