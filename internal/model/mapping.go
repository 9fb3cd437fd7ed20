package model

import (
	"sort"
)

// Source is the provenance tag of a mapping, ordered by precedence
type Source int

const (
	SourceObfuscated Source = iota
	SourceDynamicProposed
	SourceJarProposed
	SourceUserSet
)

// String returns the string representation of the source tag
func (s Source) String() string {
	switch s {
	case SourceObfuscated:
		return "obfuscated"
	case SourceDynamicProposed:
		return "dynamic"
	case SourceJarProposed:
		return "jar"
	case SourceUserSet:
		return "user"
	default:
		return "unknown"
	}
}

// ParseSource parses the output of Source.String
func ParseSource(s string) (Source, bool) {
	switch s {
	case "obfuscated", "":
		return SourceObfuscated, true
	case "dynamic":
		return SourceDynamicProposed, true
	case "jar":
		return SourceJarProposed, true
	case "user":
		return SourceUserSet, true
	}
	return SourceObfuscated, false
}

// IsProposed reports whether the tag was produced by a proposer
func (s Source) IsProposed() bool {
	return s == SourceDynamicProposed || s == SourceJarProposed
}

// EntryMapping is the name currently assigned to an entry
type EntryMapping struct {
	Name     string
	Source   Source
	Proposer string // attributing proposer id, empty for user-set names
}

// Mappings is the mutable Entry -> name map. At most one mapping exists per entry.
type Mappings struct {
	entries map[Entry]EntryMapping
}

// NewMappings creates an empty mapping table
func NewMappings() *Mappings {
	return &Mappings{entries: make(map[Entry]EntryMapping)}
}

// Get returns the mapping of an entry
func (m *Mappings) Get(e Entry) (EntryMapping, bool) {
	em, ok := m.entries[e]
	return em, ok
}

// Name returns the mapped name of an entry, or "" when it has none
func (m *Mappings) Name(e Entry) string {
	return m.entries[e].Name
}

// Source returns the tag of an entry's mapping; unmapped entries are obfuscated
func (m *Mappings) Source(e Entry) Source {
	em, ok := m.entries[e]
	if !ok {
		return SourceObfuscated
	}
	return em.Source
}

// Put stores a mapping unconditionally. An empty name removes the mapping.
func (m *Mappings) Put(e Entry, em EntryMapping) {
	if em.Name == "" || em.Source == SourceObfuscated {
		delete(m.entries, e)
		return
	}
	m.entries[e] = em
}

// Remove deletes the mapping of an entry
func (m *Mappings) Remove(e Entry) {
	delete(m.entries, e)
}

// Len returns the number of mapped entries
func (m *Mappings) Len() int {
	return len(m.entries)
}

// Clone returns an independent copy
func (m *Mappings) Clone() *Mappings {
	c := &Mappings{entries: make(map[Entry]EntryMapping, len(m.entries))}
	for e, em := range m.entries {
		c.entries[e] = em
	}
	return c
}

// Entries returns all mapped entries in a deterministic order (by kind, then textual form)
func (m *Mappings) Entries() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for e := range m.entries {
		out = append(out, e)
	}
	SortEntries(out)
	return out
}

// Equal reports whether two mapping tables hold identical mappings
func (m *Mappings) Equal(other *Mappings) bool {
	if m.Len() != other.Len() {
		return false
	}
	for e, em := range m.entries {
		if o, ok := other.entries[e]; !ok || o != em {
			return false
		}
	}
	return true
}

// SortEntries sorts entries by kind, then by their textual form
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind() != entries[j].Kind() {
			return entries[i].Kind() < entries[j].Kind()
		}
		return entries[i].String() < entries[j].String()
	})
}
