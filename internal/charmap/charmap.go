// Package charmap parses character map tables that describe the single byte
// text encoding used by a game.
//
// A table contains one entry per line in the form HEX=value, for example
// "BB=A". Lines starting with # are comments. The values [end] and
// [newline] (alias \n) define control codes instead of text.
package charmap

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Control is the control meaning of a character code.
type Control int

const (
	None    Control = iota // plain text
	End                    // string terminator
	Newline                // line break
)

// ErrInvalidEntry is returned for table lines that can not be parsed.
var ErrInvalidEntry = errors.New("invalid charmap entry")

// Entry is the meaning of one character code.
type Entry struct {
	Text    string
	Control Control
}

// Charmap maps character codes to their meaning.
type Charmap struct {
	entries map[byte]Entry
}

// New returns an empty charmap.
func New() *Charmap {
	return &Charmap{entries: make(map[byte]Entry)}
}

// Set sets the meaning of a character code.
func (c *Charmap) Set(code byte, entry Entry) {
	c.entries[code] = entry
}

// Lookup returns the meaning of a character code.
func (c *Charmap) Lookup(code byte) (Entry, bool) {
	entry, ok := c.entries[code]
	return entry, ok
}

// Len returns the number of defined character codes.
func (c *Charmap) Len() int {
	return len(c.entries)
}

// Parse parses a charmap table.
func Parse(r io.Reader) (*Charmap, error) {
	c := New()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(strings.TrimSpace(text), "#") {
			continue
		}

		code, entry, err := parseEntry(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c.Set(code, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading charmap: %w", err)
	}
	return c, nil
}

// ParseString parses a charmap table given as string.
func ParseString(s string) (*Charmap, error) {
	return Parse(strings.NewReader(s))
}

func parseEntry(text string) (byte, Entry, error) {
	key, value, ok := strings.Cut(text, "=")
	if !ok {
		return 0, Entry{}, fmt.Errorf("%w: missing '=' in %q", ErrInvalidEntry, text)
	}

	code, err := strconv.ParseUint(strings.TrimSpace(key), 16, 8)
	if err != nil {
		return 0, Entry{}, fmt.Errorf("%w: code %q: %v", ErrInvalidEntry, key, err)
	}

	switch strings.ToLower(value) {
	case "[end]":
		return byte(code), Entry{Control: End}, nil
	case "[newline]", `\n`:
		return byte(code), Entry{Control: Newline, Text: "\n"}, nil
	case "":
		return 0, Entry{}, fmt.Errorf("%w: empty value for code %02X", ErrInvalidEntry, code)
	default:
		return byte(code), Entry{Text: value}, nil
	}
}

//go:embed english.tbl
var englishTable string

// English returns the charmap of English third generation games.
func English() *Charmap {
	c, err := ParseString(englishTable)
	if err != nil {
		panic(fmt.Sprintf("parsing embedded charmap: %v", err))
	}
	return c
}
