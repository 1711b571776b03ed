// Package mentions counts cryptocurrency name and ticker occurrences in message bodies.
package mentions

import (
	"fmt"
	"strings"
)

// Entry pairs an asset's full name with its ticker symbol.
type Entry struct {
	Name   string // lowercase full name, e.g. "bitcoin"
	Symbol string // ticker symbol, e.g. "BTC"
}

// Dictionary is an immutable ordered name → symbol table.
type Dictionary struct {
	entries []Entry
	index   map[string]int
}

var defaultDictionary = mustDictionary(defaultEntries)

// Default returns the built-in dictionary.
func Default() Dictionary {
	return defaultDictionary
}

// NewDictionary builds a dictionary from entries, keeping their order.
// Names are lowercased; empty or duplicate names are rejected.
func NewDictionary(entries []Entry) (Dictionary, error) {
	d := Dictionary{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		symbol := strings.TrimSpace(e.Symbol)
		if name == "" || symbol == "" {
			return Dictionary{}, fmt.Errorf("dictionary entry %q: name and symbol are required", e.Name)
		}
		if _, dup := d.index[name]; dup {
			return Dictionary{}, fmt.Errorf("dictionary entry %q: duplicate name", name)
		}
		d.index[name] = len(d.entries)
		d.entries = append(d.entries, Entry{Name: name, Symbol: symbol})
	}
	return d, nil
}

func mustDictionary(entries []Entry) Dictionary {
	d, err := NewDictionary(entries)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the number of entries.
func (d Dictionary) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the entries in dictionary order.
func (d Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Symbol returns the ticker for a full name.
func (d Dictionary) Symbol(name string) (string, bool) {
	i, ok := d.index[name]
	if !ok {
		return "", false
	}
	return d.entries[i].Symbol, true
}
