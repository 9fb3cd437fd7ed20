package proposal

import (
	"name-recon/internal/naming"
)

// recordProposer names record fields, accessors and canonical constructor
// parameters after their component
type recordProposer struct{}

func (recordProposer) ID() string { return IDRecord }

func (recordProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	ri := ctx.Indices.Record
	if ri == nil {
		return nil, nil
	}
	var out []Proposal
	for _, class := range ri.Classes() {
		for _, comp := range ri.Components(class) {
			out = append(out, Proposal{comp.Field, comp.Name})
			for _, a := range comp.Accessors {
				out = append(out, Proposal{a, comp.Name})
			}
			for _, p := range comp.Params {
				out = append(out, Proposal{p, comp.Name})
			}
		}
	}
	return out, nil
}

func (recordProposer) ProposeDynamic(ctx *DynamicContext) ([]Proposal, error) {
	ri := ctx.Indices.Record
	if ri == nil {
		return nil, nil
	}
	var out []Proposal
	seen := make(map[string]bool)
	for _, e := range ctx.Triggers() {
		comp, ok := ri.Component(e)
		if !ok || seen[comp.Field.String()] {
			continue
		}
		seen[comp.Field.String()] = true
		name := ctx.Name(e)

		if comp.Field != e {
			out = append(out, Proposal{comp.Field, name})
		}
		for _, a := range comp.Accessors {
			if a != e {
				out = append(out, Proposal{a, name})
			}
		}
		for _, p := range comp.Params {
			if p != e {
				out = append(out, Proposal{p, name})
			}
		}
	}
	return out, nil
}

// codecProposer names fields and getters bound in serialization builders
type codecProposer struct{}

func (codecProposer) ID() string { return IDCodec }

func (codecProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	ci := ctx.Indices.Codec
	if ci == nil {
		return nil, nil
	}
	var out []Proposal
	for _, f := range ci.Fields() {
		if name, ok := ci.FieldName(f); ok {
			out = append(out, Proposal{f, name})
		}
	}
	for _, m := range ci.Methods() {
		name, ok := ci.MethodName(m)
		if !ok {
			continue
		}
		if c := ctx.Indices.Entries.Class(m.Owner); c != nil && c.IsRecord() {
			out = append(out, Proposal{m, name})
			continue
		}
		out = append(out, Proposal{m, naming.GetterName(name, m.Desc == "()Z")})
	}
	return out, nil
}

func (codecProposer) ProposeDynamic(*DynamicContext) ([]Proposal, error) { return nil, nil }

// constantProposer names static final fields after their initializer literal
type constantProposer struct{}

func (constantProposer) ID() string { return IDConstant }

func (constantProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	ci := ctx.Indices.Constant
	if ci == nil {
		return nil, nil
	}
	var out []Proposal
	for _, f := range ci.Fields() {
		if name, ok := ci.ConstantName(f); ok {
			out = append(out, Proposal{f, name})
		}
	}
	return out, nil
}

func (constantProposer) ProposeDynamic(*DynamicContext) ([]Proposal, error) { return nil, nil }

// loggerProposer names the logger field of each class
type loggerProposer struct{}

func (loggerProposer) ID() string { return IDLogger }

func (loggerProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	li := ctx.Indices.LoggerField
	if li == nil {
		return nil, nil
	}
	var out []Proposal
	for _, f := range li.Fields() {
		out = append(out, Proposal{f, "LOGGER"})
	}
	return out, nil
}

func (loggerProposer) ProposeDynamic(*DynamicContext) ([]Proposal, error) { return nil, nil }

// equalsProposer names the parameter of every equals(Object) override "o"
type equalsProposer struct{}

func (equalsProposer) ID() string { return IDEquals }

func (equalsProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	entries := ctx.Indices.Entries
	var out []Proposal
	for _, m := range entries.Methods() {
		if m.Name != "equals" || m.Desc != "(Ljava/lang/Object;)Z" || entries.IsStatic(m) {
			continue
		}
		out = append(out, Proposal{m.Local(1), "o"})
	}
	return out, nil
}

func (equalsProposer) ProposeDynamic(*DynamicContext) ([]Proposal, error) { return nil, nil }
