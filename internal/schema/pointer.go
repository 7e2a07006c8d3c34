package schema

import (
	"encoding/binary"

	"go.uber.org/zap"
)

// pointerSize is the size of a ROM address in bytes.
const pointerSize = 4

// Pointer reads a ROM address and decodes its inner schema at the address.
type Pointer struct {
	inner Schema
}

// NewPointer returns a pointer to data of the inner schema.
func NewPointer(inner Schema) *Pointer {
	return &Pointer{inner: inner}
}

// Kind returns the name of the schema kind.
func (p *Pointer) Kind() string { return "pointer" }

// decode reads the address. The target is decoded in a new scope chained to
// env, either immediately or, inside a structure, once the structure has
// bound all of its fields. Only the address bytes are consumed.
func (p *Pointer) decode(st *state, buf []byte, offset int, env *Env) (Value, int, error) {
	if err := st.need(buf, offset, pointerSize); err != nil {
		return nil, 0, err
	}
	address := binary.LittleEndian.Uint32(buf[offset:])
	result := &PointerValue{Address: address}
	if address == 0 {
		return result, pointerSize, nil
	}

	path := st.snapshot()
	resolve := func() error {
		saved := st.path
		st.path = path
		defer func() { st.path = saved }()

		target, err := p.resolve(st, address, env)
		if err != nil {
			return err
		}
		result.Target = target
		return nil
	}

	if env != nil && env.deferring {
		env.pending = append(env.pending, resolve)
		return result, pointerSize, nil
	}
	if err := resolve(); err != nil {
		return nil, 0, err
	}
	return result, pointerSize, nil
}

func (p *Pointer) resolve(st *state, address uint32, env *Env) (Value, error) {
	d := st.decoder
	offset, err := d.Offset(address)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Path = st.snapshot()
		}
		return nil, err
	}

	d.logger.Debug("Resolving pointer",
		zap.Uint32("address", address),
		zap.Int("offset", offset),
		zap.String("target", p.inner.Kind()),
		zap.String("path", formatPath(st.path)),
	)

	target, _, err := st.decode(p.inner, d.rom, offset, env.Push())
	if err != nil {
		return nil, err
	}
	return target, nil
}
