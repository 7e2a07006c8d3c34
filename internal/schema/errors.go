package schema

import (
	"fmt"
	"strings"
)

// Kind categorizes a decode error.
type Kind string

// Error kinds.
const (
	KindInvalidAddress       Kind = "invalid_address"        // pointer below the ROM base address
	KindOutOfBounds          Kind = "out_of_bounds"          // offset or length exceeds the buffer
	KindUnresolvedSize       Kind = "unresolved_size"        // array size reference missing or not an integer
	KindNoMatchingVariant    Kind = "no_matching_variant"    // case dispatch exhausted
	KindUnknownEnumValue     Kind = "unknown_enum_value"     // raw value without enum mapping
	KindUnknownCharCode      Kind = "unknown_char_code"      // byte without char-map entry
	KindInvalidBackReference Kind = "invalid_back_reference" // compressed block corruption
	KindMalformedSchema      Kind = "malformed_schema"       // schema construction contract violated
	KindMalformedData        Kind = "malformed_data"         // data does not follow its wire format
)

// Sentinel errors to match decode errors by kind using errors.Is.
var (
	ErrInvalidAddress       = &Error{Kind: KindInvalidAddress}
	ErrOutOfBounds          = &Error{Kind: KindOutOfBounds}
	ErrUnresolvedSize       = &Error{Kind: KindUnresolvedSize}
	ErrNoMatchingVariant    = &Error{Kind: KindNoMatchingVariant}
	ErrUnknownEnumValue     = &Error{Kind: KindUnknownEnumValue}
	ErrUnknownCharCode      = &Error{Kind: KindUnknownCharCode}
	ErrInvalidBackReference = &Error{Kind: KindInvalidBackReference}
	ErrMalformedSchema      = &Error{Kind: KindMalformedSchema}
	ErrMalformedData        = &Error{Kind: KindMalformedData}
)

// Error is the structured error returned by schema construction and decoding.
type Error struct {
	Kind    Kind
	Offset  int      // absolute offset in the decoded buffer, -1 if unknown
	Address uint32   // ROM address involved in the failure, 0 if none
	Path    []string // field names from the root schema to the failure point
	Detail  string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(formatPath(e.Path))
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset 0x%X", e.Offset)
		if e.Address != 0 {
			fmt.Fprintf(&b, ", address 0x%08X", e.Address)
		}
		b.WriteByte(')')
	} else if e.Address != 0 {
		fmt.Fprintf(&b, " (address 0x%08X)", e.Address)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// formatPath joins path elements with dots, attaching index elements
// like "[3]" directly to their parent name.
func formatPath(path []string) string {
	var b strings.Builder
	for i, elem := range path {
		if i > 0 && !strings.HasPrefix(elem, "[") {
			b.WriteByte('.')
		}
		b.WriteString(elem)
	}
	return b.String()
}

func schemaError(detail string, args ...any) *Error {
	return &Error{
		Kind:   KindMalformedSchema,
		Offset: -1,
		Detail: fmt.Sprintf(detail, args...),
	}
}
