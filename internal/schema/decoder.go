package schema

import (
	"fmt"
	"slices"
	"strconv"

	"go.uber.org/zap"
)

// DefaultBaseAddress is the address the cartridge ROM is mapped to.
const DefaultBaseAddress = 0x08000000

// Schema describes how to decode a value from a byte buffer at an offset.
// The set of schema kinds is closed, schemas are created by the constructors
// of this package and are immutable.
type Schema interface {
	// Kind returns the name of the schema kind.
	Kind() string

	// decode decodes a value at offset of buf and returns it together with
	// the number of bytes consumed at offset.
	decode(st *state, buf []byte, offset int, env *Env) (Value, int, error)
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithBaseAddress sets the address that is subtracted from pointers to get ROM offsets.
func WithBaseAddress(base uint32) Option {
	return func(d *Decoder) {
		d.base = base
	}
}

// WithLogger sets a logger that receives debug output of pointer resolution.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// Decoder decodes schemas against a read-only ROM image. It holds no mutable
// state and can be used concurrently.
type Decoder struct {
	rom    []byte
	base   uint32
	logger *zap.Logger
}

// NewDecoder returns a decoder for the given ROM image.
func NewDecoder(rom []byte, opts ...Option) *Decoder {
	d := &Decoder{
		rom:    rom,
		base:   DefaultBaseAddress,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ROM returns the ROM image of the decoder.
func (d *Decoder) ROM() []byte {
	return d.rom
}

// BaseAddress returns the address the ROM image is mapped to.
func (d *Decoder) BaseAddress() uint32 {
	return d.base
}

// Offset translates a ROM address to an offset in the ROM image.
func (d *Decoder) Offset(address uint32) (int, error) {
	if address < d.base {
		return 0, &Error{
			Kind:    KindInvalidAddress,
			Offset:  -1,
			Address: address,
			Detail:  fmt.Sprintf("address is below base address 0x%08X", d.base),
		}
	}
	offset := int(address - d.base)
	if offset >= len(d.rom) {
		return 0, &Error{
			Kind:    KindOutOfBounds,
			Offset:  offset,
			Address: address,
			Detail:  fmt.Sprintf("ROM size is 0x%X", len(d.rom)),
		}
	}
	return offset, nil
}

// Decode decodes the schema at the given offset of the ROM image.
func (d *Decoder) Decode(s Schema, offset int) (Value, error) {
	v, _, err := d.DecodeEnv(s, d.rom, offset, NewEnv())
	return v, err
}

// DecodeAddress decodes the schema at the given ROM address.
func (d *Decoder) DecodeAddress(s Schema, address uint32) (Value, error) {
	offset, err := d.Offset(address)
	if err != nil {
		return nil, err
	}
	return d.Decode(s, offset)
}

// DecodeEnv decodes the schema at offset of buf with names resolved against
// env. It returns the value and the number of consumed bytes.
func (d *Decoder) DecodeEnv(s Schema, buf []byte, offset int, env *Env) (Value, int, error) {
	if env == nil {
		env = NewEnv()
	}
	st := &state{decoder: d}
	return st.decode(s, buf, offset, env)
}

// state is the per call decoding state.
type state struct {
	decoder *Decoder
	path    []string
}

func (st *state) decode(s Schema, buf []byte, offset int, env *Env) (Value, int, error) {
	if offset < 0 || offset > len(buf) {
		return nil, 0, st.errorf(KindOutOfBounds, offset, "offset outside of buffer of size 0x%X", len(buf))
	}
	return s.decode(st, buf, offset, env)
}

func (st *state) push(name string) {
	st.path = append(st.path, name)
}

func (st *state) pushIndex(i int) {
	st.path = append(st.path, "["+strconv.Itoa(i)+"]")
}

func (st *state) pop() {
	st.path = st.path[:len(st.path)-1]
}

// snapshot returns a copy of the current path.
func (st *state) snapshot() []string {
	return slices.Clone(st.path)
}

func (st *state) errorf(kind Kind, offset int, detail string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Offset: offset,
		Path:   st.snapshot(),
		Detail: fmt.Sprintf(detail, args...),
	}
}

// need verifies that size bytes are available at offset of buf.
func (st *state) need(buf []byte, offset, size int) error {
	if offset < 0 || size < 0 || offset+size > len(buf) {
		return st.errorf(KindOutOfBounds, offset, "reading %d bytes from buffer of size 0x%X", size, len(buf))
	}
	return nil
}
