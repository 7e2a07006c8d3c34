package extract

import (
	"fmt"
	"strings"

	"github.com/retroenv/romextract/internal/schema"
)

// Entity is a warp, interactable, trigger or object of a map.
type Entity struct {
	Type string         `json:"type"`
	ID   string         `json:"id"`
	X    int64          `json:"x"`
	Y    int64          `json:"y"`
	Z    int64          `json:"z"`
	Data map[string]any `json:"data"`
}

type entityConverter func(e *Extractor, r *schema.Record, n int) (id int64, data map[string]any, err error)

var entityKinds = []struct {
	typ     string
	field   string
	convert entityConverter
}{
	{"warp", "warps", (*Extractor).warpEntity},
	{"interactable", "interactables", (*Extractor).interactableEntity},
	{"trigger", "triggers", (*Extractor).triggerEntity},
	{"object", "objects", (*Extractor).objectEntity},
}

func (e *Extractor) entities(header *schema.Record) ([]Entity, error) {
	table, ok, err := target[*schema.Record](header, "entities")
	if err != nil {
		return nil, err
	}
	entities := []Entity{}
	if !ok {
		return entities, nil
	}

	for _, kind := range entityKinds {
		list, err := recordList(table, kind.field)
		if err != nil {
			return nil, err
		}
		for n, r := range list {
			entity, err := e.entity(kind.typ, kind.convert, r, n)
			if err != nil {
				return nil, fmt.Errorf("%s %d: %w", kind.typ, n, err)
			}
			entities = append(entities, entity)
		}
	}
	return entities, nil
}

func (e *Extractor) entity(typ string, convert entityConverter, r *schema.Record, n int) (Entity, error) {
	var pos [3]int64
	for i, name := range []string{"x", "y", "height"} {
		v, err := get[int64](r, name)
		if err != nil {
			return Entity{}, err
		}
		pos[i] = v
	}

	id, data, err := convert(e, r, n)
	if err != nil {
		return Entity{}, err
	}
	return Entity{
		Type: typ,
		ID:   fmt.Sprintf("%s-%d", typ, id),
		X:    pos[0],
		Y:    pos[1],
		Z:    pos[2],
		Data: data,
	}, nil
}

// objectEntity uses the object id as entity id if it is set.
func (e *Extractor) objectEntity(r *schema.Record, n int) (int64, map[string]any, error) {
	data := fieldMap(r, "id", "x", "y", "height")
	script, err := scriptRef(data["script"])
	if err != nil {
		return 0, nil, err
	}
	data["script"] = script

	id, err := get[int64](r, "id")
	if err != nil {
		return 0, nil, err
	}
	if id == 0 {
		id = int64(n)
	}
	return id, data, nil
}

func (e *Extractor) triggerEntity(r *schema.Record, n int) (int64, map[string]any, error) {
	data := fieldMap(r, "x", "y", "height")
	script, err := scriptRef(data["script"])
	if err != nil {
		return 0, nil, err
	}
	data["script"] = script
	return int64(n), data, nil
}

func (e *Extractor) warpEntity(r *schema.Record, n int) (int64, map[string]any, error) {
	warp, err := get[int64](r, "warp")
	if err != nil {
		return 0, nil, err
	}
	bank, err := get[int64](r, "bank")
	if err != nil {
		return 0, nil, err
	}
	m, err := get[int64](r, "map")
	if err != nil {
		return 0, nil, err
	}

	var mapTarget any
	if bank == dynamicWarpTarget && m == dynamicWarpTarget {
		mapTarget = map[string]int64{"map": m, "bank": bank}
	} else {
		id, err := e.lookupMap(bank, m)
		if err != nil {
			return 0, nil, err
		}
		mapTarget = Ref{ID: id}
	}

	data := map[string]any{
		"target": map[string]any{
			"warp": fmt.Sprintf("warp-%d", warp),
			"map":  mapTarget,
		},
	}
	return int64(n), data, nil
}

func (e *Extractor) interactableEntity(r *schema.Record, n int) (int64, map[string]any, error) {
	typ, err := get[schema.Symbol](r, "type")
	if err != nil {
		return 0, nil, err
	}
	value, err := get[*schema.Record](r, "data")
	if err != nil {
		return 0, nil, err
	}

	var data map[string]any
	switch name := string(typ); {
	case strings.HasPrefix(name, "script"):
		data, err = scriptInteractable(name, value)
	case strings.HasPrefix(name, "hidden_item"):
		data, err = hiddenItemInteractable(value)
	case name == "secret_base":
		data, err = secretBaseInteractable(value)
	default:
		err = fmt.Errorf("%w: interactable type '%s'", errUnexpectedValue, name)
	}
	if err != nil {
		return 0, nil, err
	}
	return int64(n), data, nil
}

func scriptInteractable(typ string, value *schema.Record) (map[string]any, error) {
	script, _ := value.Get("script")
	ref, err := scriptRef(script)
	if err != nil {
		return nil, err
	}
	data := map[string]any{
		"type":   "script",
		"script": ref,
	}
	if direction := strings.TrimPrefix(strings.TrimPrefix(typ, "script"), "_"); direction != "" {
		data["direction"] = direction
	}
	return data, nil
}

func hiddenItemInteractable(value *schema.Record) (map[string]any, error) {
	item, err := get[int64](value, "item")
	if err != nil {
		return nil, err
	}
	id, err := get[int64](value, "id")
	if err != nil {
		return nil, err
	}
	flags, err := get[*schema.Record](value, "data")
	if err != nil {
		return nil, err
	}
	amount, err := get[int64](flags, "amount")
	if err != nil {
		return nil, err
	}
	itemfinder, err := get[int64](flags, "itemfinder")
	if err != nil {
		return nil, err
	}

	if amount == 0 {
		amount = 1
	}
	data := map[string]any{
		"type":         "hiddenItem",
		"item":         item,
		"hiddenItemId": id,
		"quantity":     amount,
	}
	if itemfinder != 0 {
		data["itemfinderOnly"] = true
	}
	return data, nil
}

func secretBaseInteractable(value *schema.Record) (map[string]any, error) {
	id, err := get[int64](value, "id")
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"type":         "secretBase",
		"secretBaseId": id,
	}, nil
}
