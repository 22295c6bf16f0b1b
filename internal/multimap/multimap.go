// Package multimap provides an insertion-ordered multimap whose keys are
// compared after normalization.
package multimap

import (
	"slices"
	"strings"
)

type pair[V any] struct {
	key   string
	value V
}

// Multimap stores (key, value) pairs in insertion order. Keys are passed
// through the normalizer before they are stored or compared.
type Multimap[V any] struct {
	normalize func(string) string
	pairs     []pair[V]
}

// New returns an empty multimap. A nil normalizer leaves keys untouched.
func New[V any](normalize func(string) string) *Multimap[V] {
	if normalize == nil {
		normalize = func(s string) string { return s }
	}
	return &Multimap[V]{normalize: normalize}
}

// Fold returns a multimap with ASCII case-insensitive keys stored lower-cased.
func Fold[V any]() *Multimap[V] {
	return New[V](strings.ToLower)
}

func (m *Multimap[V]) Add(key string, value V) {
	m.pairs = append(m.pairs, pair[V]{key: m.normalize(key), value: value})
}

// Set replaces the first pair stored under key and drops every other pair
// with that key. The key is appended when it is not present.
func (m *Multimap[V]) Set(key string, value V) {
	key = m.normalize(key)
	found := false
	out := m.pairs[:0]
	for _, p := range m.pairs {
		if p.key != key {
			out = append(out, p)
			continue
		}
		if !found {
			found = true
			out = append(out, pair[V]{key: key, value: value})
		}
	}
	clear(m.pairs[len(out):])
	m.pairs = out
	if !found {
		m.pairs = append(m.pairs, pair[V]{key: key, value: value})
	}
}

func (m *Multimap[V]) Delete(key string) {
	key = m.normalize(key)
	out := m.pairs[:0]
	for _, p := range m.pairs {
		if p.key != key {
			out = append(out, p)
		}
	}
	clear(m.pairs[len(out):])
	m.pairs = out
}

func (m *Multimap[V]) Has(key string) bool {
	key = m.normalize(key)
	for _, p := range m.pairs {
		if p.key == key {
			return true
		}
	}
	return false
}

// GetAll returns the values stored under key in insertion order. The result
// is a copy and is never nil.
func (m *Multimap[V]) GetAll(key string) []V {
	key = m.normalize(key)
	values := make([]V, 0, 1)
	for _, p := range m.pairs {
		if p.key == key {
			values = append(values, p.value)
		}
	}
	return values
}

// Keys returns the distinct stored keys sorted lexicographically. It is
// computed from the current pairs on every call.
func (m *Multimap[V]) Keys() []string {
	keys := make([]string, 0, len(m.pairs))
	for _, p := range m.pairs {
		keys = append(keys, p.key)
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// Each calls fn for every stored pair in insertion order.
func (m *Multimap[V]) Each(fn func(key string, value V)) {
	for _, p := range m.pairs {
		fn(p.key, p.value)
	}
}

// Len returns the number of stored pairs, counting repeated keys.
func (m *Multimap[V]) Len() int {
	return len(m.pairs)
}

func (m *Multimap[V]) Clone() *Multimap[V] {
	return &Multimap[V]{
		normalize: m.normalize,
		pairs:     slices.Clone(m.pairs),
	}
}
