package schema

import (
	"strings"

	"github.com/retroenv/romextract/internal/charmap"
)

// CharmapString decodes bytes through a charmap until the terminator code.
type CharmapString struct {
	charmap *charmap.Charmap
}

// NewCharmapString returns a string schema for the given charmap.
func NewCharmapString(c *charmap.Charmap) *CharmapString {
	return &CharmapString{charmap: c}
}

// Kind returns the name of the schema kind.
func (s *CharmapString) Kind() string { return "string" }

func (s *CharmapString) decode(st *state, buf []byte, offset int, _ *Env) (Value, int, error) {
	var b strings.Builder
	for pos := offset; ; pos++ {
		if err := st.need(buf, pos, 1); err != nil {
			return nil, 0, err
		}
		code := buf[pos]
		entry, ok := s.charmap.Lookup(code)
		if !ok {
			return nil, 0, st.errorf(KindUnknownCharCode, pos, "character code 0x%02X is not mapped", code)
		}

		switch entry.Control {
		case charmap.End:
			return b.String(), pos - offset + 1, nil
		default:
			b.WriteString(entry.Text)
		}
	}
}
