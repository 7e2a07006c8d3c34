package schema

import "fmt"

// Condition selects a case branch for a discriminant value.
type Condition struct {
	values    []Value
	unchecked bool
}

// Eq matches a discriminant equal to v.
func Eq(v Value) Condition {
	return Condition{values: []Value{v}}
}

// Any matches a discriminant equal to one of the given values.
func Any(values ...Value) Condition {
	return Condition{values: values}
}

// Default matches every discriminant.
func Default() Condition {
	return Condition{unchecked: true}
}

// Matches returns whether the discriminant satisfies the condition.
func (c Condition) Matches(discriminant Value) bool {
	if c.unchecked {
		return true
	}
	for _, v := range c.values {
		if Equal(discriminant, v) {
			return true
		}
	}
	return false
}

// String returns a readable representation of the condition.
func (c Condition) String() string {
	switch {
	case c.unchecked:
		return "default"
	case len(c.values) == 1:
		return fmt.Sprintf("eq %v", c.values[0])
	default:
		return fmt.Sprintf("any %v", c.values)
	}
}

// Branch is a case branch. A nil schema decodes nothing and yields nil.
type Branch struct {
	When   Condition
	Schema Schema
}

// Case decodes the schema of the first branch whose condition matches the
// value bound to the discriminant name.
type Case struct {
	discriminant string
	branches     []Branch
}

// NewCase returns a case dispatching on the named discriminant.
func NewCase(discriminant string, branches ...Branch) *Case {
	return &Case{
		discriminant: discriminant,
		branches:     branches,
	}
}

// Kind returns the name of the schema kind.
func (c *Case) Kind() string { return "case" }

func (c *Case) decode(st *state, buf []byte, offset int, env *Env) (Value, int, error) {
	discriminant, ok := env.Lookup(c.discriminant)
	if !ok {
		return nil, 0, st.errorf(KindNoMatchingVariant, offset, "discriminant %q is not bound", c.discriminant)
	}

	for _, branch := range c.branches {
		if !branch.When.Matches(discriminant) {
			continue
		}
		if branch.Schema == nil {
			return nil, 0, nil
		}
		return st.decode(branch.Schema, buf, offset, env)
	}
	return nil, 0, st.errorf(KindNoMatchingVariant, offset, "no branch matches %s = %v", c.discriminant, discriminant)
}
