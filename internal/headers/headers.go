// Package headers implements the Fetch Headers contract: an ordered,
// case-insensitive, multi-valued collection of HTTP header fields with
// token and value validation at every mutation.
package headers

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"fetch_server/internal/multimap"
)

// Entry is one header name with its values joined by ", ".
type Entry struct {
	Name  string
	Value string
}

// Headers is the header list of a request or response. Names are stored
// lower-cased; the zero value is not usable, call New.
type Headers struct {
	list *multimap.Multimap[string]
}

// New builds a header list from init, which may be nil, *Headers, Headers,
// [][2]string, [][]string, map[string]string or map[string][]string. Every
// pair is validated before anything is stored.
func New(init any) (*Headers, error) {
	pairs, err := pairsOf(init)
	if err != nil {
		return nil, err
	}

	h := &Headers{list: multimap.Fold[string]()}
	for _, p := range pairs {
		if err = validatePair(p[0], p[1]); err != nil {
			return nil, err
		}
	}
	for _, p := range pairs {
		h.list.Add(p[0], p[1])
	}
	return h, nil
}

// Must is New for inits known to be valid; it panics otherwise.
func Must(init any) *Headers {
	h, err := New(init)
	if err != nil {
		panic(err)
	}
	return h
}

func pairsOf(init any) ([][2]string, error) {
	switch v := init.(type) {
	case nil:
		return nil, nil
	case *Headers:
		if v == nil {
			return nil, nil
		}
		return v.pairs(), nil
	case Headers:
		return v.pairs(), nil
	case [][2]string:
		return v, nil
	case [][]string:
		pairs := make([][2]string, 0, len(v))
		for _, p := range v {
			if len(p) != 2 {
				return nil, fmt.Errorf("%w: each header pair must be a name/value tuple, got %d elements", ErrMalformedPair, len(p))
			}
			pairs = append(pairs, [2]string{p[0], p[1]})
		}
		return pairs, nil
	case map[string]string:
		pairs := make([][2]string, 0, len(v))
		for _, name := range slices.Sorted(maps.Keys(v)) {
			pairs = append(pairs, [2]string{name, v[name]})
		}
		return pairs, nil
	case map[string][]string:
		pairs := make([][2]string, 0, len(v))
		for _, name := range slices.Sorted(maps.Keys(v)) {
			for _, value := range v[name] {
				pairs = append(pairs, [2]string{name, value})
			}
		}
		return pairs, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidInit, init)
	}
}

func (h *Headers) pairs() [][2]string {
	if h.list == nil {
		return nil
	}
	pairs := make([][2]string, 0, h.list.Len())
	h.list.Each(func(name, value string) {
		pairs = append(pairs, [2]string{name, value})
	})
	return pairs
}

func (h *Headers) Append(name, value string) error {
	if err := validatePair(name, value); err != nil {
		return err
	}
	h.list.Add(name, value)
	return nil
}

// Set replaces every value stored for name with value.
func (h *Headers) Set(name, value string) error {
	if err := validatePair(name, value); err != nil {
		return err
	}
	h.list.Set(name, value)
	return nil
}

func (h *Headers) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	h.list.Delete(name)
	return nil
}

func (h *Headers) Has(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	return h.list.Has(name), nil
}

// GetAll returns the stored values for name in insertion order.
func (h *Headers) GetAll(name string) ([]string, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return h.list.GetAll(name), nil
}

// Get returns the values for name joined by ", ". ok is false when nothing is
// stored for name, which tells an absent header from an empty one.
// Content-Encoding values are lower-cased.
func (h *Headers) Get(name string) (value string, ok bool, err error) {
	values, err := h.GetAll(name)
	if err != nil || len(values) == 0 {
		return "", false, err
	}

	value = strings.Join(values, ", ")
	if strings.EqualFold(name, "content-encoding") {
		value = strings.ToLower(value)
	}
	return value, true, nil
}

// Value is Get without the presence and error results.
func (h *Headers) Value(name string) string {
	value, _, _ := h.Get(name)
	return value
}

// Keys returns the distinct lower-cased names in lexicographic order.
func (h *Headers) Keys() []string {
	return h.list.Keys()
}

func (h *Headers) Values() []string {
	keys := h.Keys()
	values := make([]string, 0, len(keys))
	for _, name := range keys {
		values = append(values, h.Value(name))
	}
	return values
}

// Entries returns one Entry per distinct name, sorted by name.
func (h *Headers) Entries() []Entry {
	keys := h.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, name := range keys {
		entries = append(entries, Entry{Name: name, Value: h.Value(name)})
	}
	return entries
}

func (h *Headers) ForEach(fn func(value, name string)) {
	for _, e := range h.Entries() {
		fn(e.Value, e.Name)
	}
}

// All iterates the same pairs as Entries.
func (h *Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range h.Entries() {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}

// Raw maps every lower-cased name to its stored values.
func (h *Headers) Raw() map[string][]string {
	raw := make(map[string][]string)
	for _, name := range h.Keys() {
		raw[name] = h.list.GetAll(name)
	}
	return raw
}

// Len returns the number of stored values, counting repeated names.
func (h *Headers) Len() int {
	if h == nil || h.list == nil {
		return 0
	}
	return h.list.Len()
}

// Clone returns an independent copy. A nil list clones to an empty one.
func (h *Headers) Clone() *Headers {
	if h == nil || h.list == nil {
		return &Headers{list: multimap.Fold[string]()}
	}
	return &Headers{list: h.list.Clone()}
}

func (h *Headers) String() string {
	var b strings.Builder
	b.WriteString("Headers{")
	for i, e := range h.Entries() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Name)
		b.WriteString(": ")
		b.WriteString(e.Value)
	}
	b.WriteString("}")
	return b.String()
}
