package extract

import (
	"errors"
	"fmt"

	"github.com/retroenv/romextract/internal/schema"
)

var errUnexpectedValue = errors.New("unexpected value")

// get returns the field of a decoded record converted to T.
func get[T any](r *schema.Record, name string) (T, error) {
	var zero T
	v, ok := r.Get(name)
	if !ok {
		return zero, fmt.Errorf("%w: missing field '%s'", errUnexpectedValue, name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: field '%s' has type %T", errUnexpectedValue, name, v)
	}
	return t, nil
}

// pointer returns the pointer stored in a field of a decoded record.
func pointer(r *schema.Record, name string) (*schema.PointerValue, error) {
	return get[*schema.PointerValue](r, name)
}

// target returns the target of the pointer stored in a field of a decoded
// record. A null pointer returns the zero value and false.
func target[T any](r *schema.Record, name string) (T, bool, error) {
	var zero T
	ptr, err := pointer(r, name)
	if err != nil {
		return zero, false, err
	}
	if ptr.IsNull() {
		return zero, false, nil
	}
	t, ok := ptr.Target.(T)
	if !ok {
		return zero, false, fmt.Errorf("%w: target of '%s' has type %T", errUnexpectedValue, name, ptr.Target)
	}
	return t, true, nil
}

// records converts a decoded array of records.
func records(values []schema.Value) ([]*schema.Record, error) {
	result := make([]*schema.Record, len(values))
	for i, v := range values {
		r, ok := v.(*schema.Record)
		if !ok {
			return nil, fmt.Errorf("%w: element %d has type %T", errUnexpectedValue, i, v)
		}
		result[i] = r
	}
	return result, nil
}

// recordList returns the records of an array that a pointer field targets.
// A null pointer returns an empty list.
func recordList(r *schema.Record, name string) ([]*schema.Record, error) {
	values, ok, err := target[[]schema.Value](r, name)
	if err != nil || !ok {
		return nil, err
	}
	return records(values)
}

// fieldMap returns the fields of a record as map, leaving out skipped names.
func fieldMap(r *schema.Record, skip ...string) map[string]any {
	m := make(map[string]any, r.Len())
outer:
	for _, f := range r.Fields() {
		for _, s := range skip {
			if f.Name == s {
				continue outer
			}
		}
		m[f.Name] = f.Value
	}
	return m
}

// columns converts a grid of bitfield records into one value list per
// subfield, in row major order.
func columns(rows []schema.Value) (map[string][]int64, error) {
	result := map[string][]int64{}
	for y, row := range rows {
		cells, ok := row.([]schema.Value)
		if !ok {
			return nil, fmt.Errorf("%w: row %d has type %T", errUnexpectedValue, y, row)
		}
		blocks, err := records(cells)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		for _, block := range blocks {
			for _, f := range block.Fields() {
				n, ok := f.Value.(int64)
				if !ok {
					return nil, fmt.Errorf("%w: subfield '%s' has type %T", errUnexpectedValue, f.Name, f.Value)
				}
				result[f.Name] = append(result[f.Name], n)
			}
		}
	}
	return result, nil
}
