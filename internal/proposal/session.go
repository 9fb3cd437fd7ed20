package proposal

import (
	"name-recon/internal/bytecode"
	"name-recon/internal/index"
	"name-recon/internal/model"
	"name-recon/internal/registry"
)

// Session is the context shared by the registry-driven proposers of one engine.
// Rule resolution is memoized by the resolver the indexer built.
type Session struct {
	types   *registry.Resolver
	entries *index.EntryIndex
}

// NewSession creates a session. A nil resolver resolves nothing.
func NewSession(types *registry.Resolver, entries *index.EntryIndex) *Session {
	return &Session{types: types, entries: entries}
}

// declaredType returns the internal name of the object type of a field or parameter
func (s *Session) declaredType(e model.Entry) (string, bool) {
	var t bytecode.Type
	switch v := e.(type) {
	case model.FieldEntry:
		t = bytecode.Type{Desc: v.Desc}
	case model.LocalVariableEntry:
		pt, ok := s.entries.ParameterType(v)
		if !ok {
			return "", false
		}
		t = pt
	default:
		return "", false
	}
	if t.Sort() != bytecode.SortObject {
		return "", false
	}
	return t.InternalName(), true
}

// Fallbacks returns the local fallback names for the declared type of an entry
func (s *Session) Fallbacks(e model.Entry) []string {
	typ, ok := s.declaredType(e)
	if !ok {
		return nil
	}
	return s.types.Fallbacks(typ)
}
