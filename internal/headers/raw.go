package headers

import "fetch_server/internal/multimap"

// FromRaw builds a header list from wire order name, value, name, value, ...
// lines. Pairs that fail validation are dropped and a trailing name without
// a value is ignored.
func FromRaw(raw []string) *Headers {
	h := &Headers{list: multimap.Fold[string]()}
	for i := 0; i+1 < len(raw); i += 2 {
		name, value := raw[i], raw[i+1]
		if validatePair(name, value) != nil {
			continue
		}
		h.list.Add(name, value)
	}
	return h
}
