package index

import (
	"sync"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
	"name-recon/internal/registry"
)

// TypeMatch is a field or parameter whose declared type has a registry rule
// that is unique in its scope
type TypeMatch struct {
	Rule  *registry.Rule
	Match registry.Match
	// Static is set for static final fields, which take the rule's static name
	Static bool
}

// Name returns the proposed name for the entry
func (t TypeMatch) Name() string {
	if t.Static {
		return t.Rule.Name.Static
	}
	return t.Rule.Name.Local
}

// SimpleTypeIndex matches fields and parameters against the type registry
type SimpleTypeIndex struct {
	types *registry.Resolver

	mu      sync.Mutex
	matches map[model.Entry]TypeMatch
}

// NewSimpleTypeIndex creates a simple-type index resolving through types
func NewSimpleTypeIndex(types *registry.Resolver) *SimpleTypeIndex {
	return &SimpleTypeIndex{
		types:   types,
		matches: make(map[model.Entry]TypeMatch),
	}
}

func (x *SimpleTypeIndex) Name() string { return NameSimpleType }

type scopedEntry struct {
	entry  model.Entry
	typ    bytecode.Type
	static bool
}

func (x *SimpleTypeIndex) Visit(ctx *VisitContext, c *bytecode.ClassNode) error {
	var staticFields, instanceFields []scopedEntry
	for _, f := range c.Fields {
		if f.IsSynthetic() {
			continue
		}
		se := scopedEntry{entry: f.Entry(c.Name), typ: bytecode.Type{Desc: f.Desc}}
		if f.IsStatic() {
			se.static = f.IsFinal()
			staticFields = append(staticFields, se)
		} else {
			instanceFields = append(instanceFields, se)
		}
	}

	found := make(map[model.Entry]TypeMatch)
	x.matchScope(staticFields, found)
	x.matchScope(instanceFields, found)

	for _, m := range c.Methods {
		if m.IsSynthetic() || m.IsBridge() {
			continue
		}
		params := ctx.Entries.Parameters(m.Entry(c.Name))
		scope := make([]scopedEntry, 0, len(params))
		for _, p := range params {
			t, _ := ctx.Entries.ParameterType(p)
			scope = append(scope, scopedEntry{entry: p, typ: t})
		}
		x.matchScope(scope, found)
	}
	if len(found) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for e, tm := range found {
		x.matches[e] = tm
	}
	return nil
}

// matchScope keeps the entries whose rule key is unique in the scope. Exclusive
// rules also require that no other entry of the scope resolves to the same name.
func (x *SimpleTypeIndex) matchScope(scope []scopedEntry, found map[model.Entry]TypeMatch) {
	type candidate struct {
		se    scopedEntry
		rule  *registry.Rule
		match registry.Match
	}
	var cands []candidate
	keys := make(map[string]int)
	names := make(map[string]int)

	for _, se := range scope {
		if se.typ.Sort() != bytecode.SortObject {
			continue
		}
		rule, match := x.types.Resolve(se.typ.InternalName())
		if rule == nil {
			continue
		}
		cands = append(cands, candidate{se, rule, match})
		keys[rule.Type]++
		names[rule.Name.Local]++
	}

	for _, cand := range cands {
		if keys[cand.rule.Type] != 1 {
			continue
		}
		if cand.rule.Exclusive && names[cand.rule.Name.Local] != 1 {
			continue
		}
		found[cand.se.entry] = TypeMatch{Rule: cand.rule, Match: cand.match, Static: cand.se.static}
	}
}

func (x *SimpleTypeIndex) Finish() error { return nil }

// Match returns the registry match of a field or parameter
func (x *SimpleTypeIndex) Match(e model.Entry) (TypeMatch, bool) {
	tm, ok := x.matches[e]
	return tm, ok
}

// Entries returns every matched entry of the given kind (Direct or Inherited), sorted
func (x *SimpleTypeIndex) Entries(kind registry.Match) []model.Entry {
	var out []model.Entry
	for e, tm := range x.matches {
		if tm.Match == kind {
			out = append(out, e)
		}
	}
	model.SortEntries(out)
	return out
}
