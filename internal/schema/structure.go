package schema

import "strconv"

// StructField is a field of a structure. A field with an empty name is
// decoded to advance the cursor but excluded from the result.
type StructField struct {
	Name   string
	Schema Schema
}

// Structure decodes its fields in declared order at consecutive offsets.
type Structure struct {
	fields []StructField
}

// NewStructure returns a structure of the given fields.
func NewStructure(fields ...StructField) *Structure {
	return &Structure{fields: fields}
}

// Kind returns the name of the schema kind.
func (s *Structure) Kind() string { return "structure" }

// Fields returns the field definitions.
func (s *Structure) Fields() []StructField {
	return s.fields
}

func (s *Structure) decode(st *state, buf []byte, offset int, env *Env) (Value, int, error) {
	scope := env.Push()
	scope.deferring = true

	record := &Record{fields: make([]Field, 0, len(s.fields))}
	pos := offset
	for i, field := range s.fields {
		name := field.Name
		if name == "" {
			name = "#" + strconv.Itoa(i)
		}
		st.push(name)
		v, n, err := st.decode(field.Schema, buf, pos, scope)
		st.pop()
		if err != nil {
			return nil, 0, err
		}
		pos += n

		if field.Name == "" {
			continue
		}
		scope.Bind(field.Name, v)
		record.add(field.Name, v)
	}

	if err := scope.flush(); err != nil {
		return nil, 0, err
	}
	return record, pos - offset, nil
}

// NamedValue binds the decoded value of its inner schema in the active scope.
type NamedValue struct {
	name  string
	inner Schema
}

// Named returns a schema that binds the value decoded by inner under name,
// making it visible to later fields of the enclosing structure and their
// descendants.
func Named(name string, inner Schema) *NamedValue {
	return &NamedValue{name: name, inner: inner}
}

// Kind returns the name of the schema kind.
func (n *NamedValue) Kind() string { return "named" }

// Name returns the binding name.
func (n *NamedValue) Name() string {
	return n.name
}

func (n *NamedValue) decode(st *state, buf []byte, offset int, env *Env) (Value, int, error) {
	v, size, err := st.decode(n.inner, buf, offset, env)
	if err != nil {
		return nil, 0, err
	}
	env.Bind(n.name, v)
	return v, size, nil
}
