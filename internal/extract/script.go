package extract

import (
	"fmt"

	"github.com/retroenv/romextract/internal/schema"
)

// ScriptRef references a script by its address.
type ScriptRef struct {
	Address uint32 `json:"address"`
}

// Script is a map script entry.
type Script struct {
	Type    schema.Value    `json:"type"`
	Script  *ScriptRef      `json:"script,omitempty"`
	Scripts []HandlerScript `json:"scripts,omitempty"`
}

// HandlerScript is a script that runs while a variable has a value.
type HandlerScript struct {
	Variable int64     `json:"variable"`
	Value    int64     `json:"value"`
	Script   ScriptRef `json:"script"`
}

func scriptRef(v schema.Value) (*ScriptRef, error) {
	address, ok := v.(int64)
	if !ok {
		return nil, fmt.Errorf("%w: script address has type %T", errUnexpectedValue, v)
	}
	return &ScriptRef{Address: uint32(address)}, nil
}

func (e *Extractor) scripts(header *schema.Record) ([]Script, error) {
	entries, err := recordList(header, "scripts")
	if err != nil {
		return nil, err
	}

	scripts := make([]Script, 0, len(entries))
	for i, entry := range entries {
		script, err := mapScript(entry)
		if err != nil {
			return nil, fmt.Errorf("script %d: %w", i, err)
		}
		scripts = append(scripts, script)
	}
	return scripts, nil
}

func mapScript(r *schema.Record) (Script, error) {
	typ, _ := r.Get("type")
	script := Script{Type: typ}

	switch typ {
	case schema.Symbol("handler_env1"), schema.Symbol("handler_env2"):
		handlers, err := recordList(r, "data")
		if err != nil {
			return Script{}, err
		}
		script.Scripts = make([]HandlerScript, 0, len(handlers))
		for i, handler := range handlers {
			h, err := handlerScript(handler)
			if err != nil {
				return Script{}, fmt.Errorf("handler %d: %w", i, err)
			}
			script.Scripts = append(script.Scripts, h)
		}

	default:
		data, _ := r.Get("data")
		ref, err := scriptRef(data)
		if err != nil {
			return Script{}, err
		}
		script.Script = ref
	}
	return script, nil
}

func handlerScript(r *schema.Record) (HandlerScript, error) {
	variable, err := get[int64](r, "variable")
	if err != nil {
		return HandlerScript{}, err
	}
	data, err := get[*schema.Record](r, "data")
	if err != nil {
		return HandlerScript{}, err
	}
	value, err := get[int64](data, "value")
	if err != nil {
		return HandlerScript{}, err
	}
	script, _ := data.Get("script")
	ref, err := scriptRef(script)
	if err != nil {
		return HandlerScript{}, err
	}
	return HandlerScript{Variable: variable, Value: value, Script: *ref}, nil
}
