package matcher

import "strings"

// Index maps lower-cased names to values (e.g. playlist name to playlist ID).
//
// Adding a name that is already present replaces the earlier value.
type Index struct {
	m       Matcher
	entries map[string]string
	keys    []string
}

// NewIndex returns an empty index that resolves with m.
func NewIndex(m Matcher) *Index {
	return &Index{m: m, entries: make(map[string]string)}
}

// Add stores value under the lower-cased name.
func (ix *Index) Add(name, value string) {
	key := strings.ToLower(name)
	if _, ok := ix.entries[key]; !ok {
		ix.keys = append(ix.keys, key)
	}
	ix.entries[key] = value
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.keys) }

// Lookup returns the value for query: an exact key match first, then the best
// fuzzy key. ok is false when nothing matches.
func (ix *Index) Lookup(query string) (value string, outcome Outcome, ok bool) {
	if v, found := ix.entries[strings.ToLower(query)]; found {
		return v, Outcome{Value: strings.ToLower(query), Kind: Exact, Score: 1}, true
	}

	outcome = ix.m.Resolve(strings.ToLower(query), ix.keys)
	if !outcome.Matched() {
		return "", outcome, false
	}
	return ix.entries[outcome.Value], outcome, true
}
