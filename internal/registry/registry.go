// Package registry assigns stable identifiers to records that are shared by
// address, so that every shared record is exported only once.
package registry

import "fmt"

// Registry maps keys like ROM addresses to identifiers.
type Registry struct {
	prefix string
	ids    map[uint32]string
	order  []uint32
}

// New returns a registry that generates identifiers with the given prefix.
func New(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		ids:    make(map[uint32]string),
	}
}

// LookupOrCreate returns the identifier of key, creating a new one if the key
// is not known yet. The second return value reports whether the key existed.
func (r *Registry) LookupOrCreate(key uint32) (string, bool) {
	if id, ok := r.ids[key]; ok {
		return id, true
	}
	id := fmt.Sprintf("%s-%d", r.prefix, len(r.order))
	r.set(key, id)
	return id, false
}

// Claim assigns id to key unless the key already has an identifier, in which
// case the existing identifier is returned with true.
func (r *Registry) Claim(key uint32, id string) (string, bool) {
	if existing, ok := r.ids[key]; ok {
		return existing, true
	}
	r.set(key, id)
	return id, false
}

// Lookup returns the identifier of key.
func (r *Registry) Lookup(key uint32) (string, bool) {
	id, ok := r.ids[key]
	return id, ok
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns all identifiers in creation order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	for i, key := range r.order {
		ids[i] = r.ids[key]
	}
	return ids
}

func (r *Registry) set(key uint32, id string) {
	r.ids[key] = id
	r.order = append(r.order, key)
}
