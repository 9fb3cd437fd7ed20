package proposal

import (
	"name-recon/internal/index"
	"name-recon/internal/model"
	"name-recon/internal/naming"
)

// getterSetterProposer keeps a field, its getters, setters and setter
// parameters named consistently
type getterSetterProposer struct{}

func (getterSetterProposer) ID() string { return IDGetterSetter }

func (getterSetterProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	gs := ctx.Indices.GetterSetter
	if gs == nil {
		return nil, nil
	}
	var out []Proposal
	for _, f := range gs.Fields() {
		seed, name := accessorSeed(ctx, gs, f)
		if name == "" {
			continue
		}
		out = append(out, accessorGroup(gs, f, name, seed)...)
	}
	return out, nil
}

func (getterSetterProposer) ProposeDynamic(ctx *DynamicContext) ([]Proposal, error) {
	gs := ctx.Indices.GetterSetter
	if gs == nil {
		return nil, nil
	}
	var out []Proposal
	visited := make(map[model.FieldEntry]bool)
	for _, e := range ctx.Triggers() {
		f, ok := accessorField(gs, e)
		if !ok || visited[f] {
			continue
		}
		visited[f] = true

		name, ok := fieldNameOf(e, ctx.Name(e))
		if !ok {
			continue
		}
		out = append(out, accessorGroup(gs, f, name, e)...)
	}
	return out, nil
}

// accessorField returns the field an accessor-group entry belongs to
func accessorField(gs *index.GetterSetterIndex, e model.Entry) (model.FieldEntry, bool) {
	if f, ok := e.(model.FieldEntry); ok {
		return f, len(gs.Getters(f))+len(gs.Setters(f)) > 0
	}
	return gs.FieldOf(e)
}

// fieldNameOf derives the field name from the name of a group member.
// A cleared member clears the group.
func fieldNameOf(e model.Entry, name string) (string, bool) {
	if name == "" {
		return "", true
	}
	if _, ok := e.(model.MethodEntry); ok {
		return naming.FieldNameFromAccessor(name)
	}
	return name, true
}

// accessorSeed picks the member whose name drives the group: the field, then
// a getter, then a setter, then a setter parameter
func accessorSeed(ctx *StaticContext, gs *index.GetterSetterIndex, f model.FieldEntry) (model.Entry, string) {
	if name := ctx.Name(f); name != "" {
		return f, name
	}
	var members []model.Entry
	for _, g := range gs.Getters(f) {
		members = append(members, g)
	}
	for _, s := range gs.Setters(f) {
		members = append(members, s)
	}
	for _, p := range gs.SetterParams(f) {
		members = append(members, p)
	}
	for _, m := range members {
		if name, ok := fieldNameOf(m, ctx.Name(m)); ok && name != "" {
			return m, name
		}
	}
	return nil, ""
}

// accessorGroup proposes derived names for every member of the group but the seed
func accessorGroup(gs *index.GetterSetterIndex, f model.FieldEntry, name string, seed model.Entry) []Proposal {
	var out []Proposal
	add := func(e model.Entry, derived string) {
		if e != seed {
			out = append(out, Proposal{e, derived})
		}
	}
	getter, setter := "", ""
	if name != "" {
		getter, setter = naming.GetterName(name, false), naming.SetterName(name)
	}

	add(f, name)
	for _, g := range gs.Getters(f) {
		add(g, getter)
	}
	for _, s := range gs.Setters(f) {
		add(s, setter)
	}
	for _, p := range gs.SetterParams(f) {
		add(p, name)
	}
	return out
}

// constructorProposer names constructor parameters after the field they are stored in
type constructorProposer struct{}

func (constructorProposer) ID() string { return IDConstructor }

func (constructorProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	ci := ctx.Indices.Constructor
	if ci == nil {
		return nil, nil
	}
	var out []Proposal
	for _, f := range ci.Fields() {
		name := ctx.Name(f)
		if name == "" {
			continue
		}
		for _, p := range ci.Params(f) {
			out = append(out, Proposal{p, name})
		}
	}
	return out, nil
}

func (constructorProposer) ProposeDynamic(ctx *DynamicContext) ([]Proposal, error) {
	ci := ctx.Indices.Constructor
	if ci == nil {
		return nil, nil
	}
	var out []Proposal
	visited := make(map[model.FieldEntry]bool)
	for _, e := range ctx.Triggers() {
		var f model.FieldEntry
		switch v := e.(type) {
		case model.FieldEntry:
			f = v
		case model.LocalVariableEntry:
			field, ok := ci.FieldOf(v)
			if !ok {
				continue
			}
			f = field
		default:
			continue
		}
		params := ci.Params(f)
		if len(params) == 0 || visited[f] {
			continue
		}
		visited[f] = true

		name := ctx.Name(e)
		if e != model.Entry(f) {
			out = append(out, Proposal{f, name})
		}
		for _, p := range params {
			if p != e {
				out = append(out, Proposal{p, name})
			}
		}
	}
	return out, nil
}
