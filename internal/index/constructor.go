package index

import (
	"sync"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
)

// ConstructorIndex links constructor parameters to the fields they are stored in
type ConstructorIndex struct {
	mu sync.Mutex

	paramFields links[model.LocalVariableEntry, model.FieldEntry]
	fieldParams links[model.FieldEntry, model.LocalVariableEntry]
}

// NewConstructorIndex creates an empty constructor-parameter index
func NewConstructorIndex() *ConstructorIndex {
	return &ConstructorIndex{
		paramFields: make(links[model.LocalVariableEntry, model.FieldEntry]),
		fieldParams: make(links[model.FieldEntry, model.LocalVariableEntry]),
	}
}

func (x *ConstructorIndex) Name() string { return NameConstructor }

func (x *ConstructorIndex) Visit(ctx *VisitContext, c *bytecode.ClassNode) error {
	type pair struct {
		param model.LocalVariableEntry
		field model.FieldEntry
	}
	var found []pair

	for _, m := range c.Methods {
		if m.Name != "<init>" || m.IsAbstract() {
			continue
		}
		mt, err := m.Type()
		if err != nil {
			return err
		}
		params := make(map[int]bool)
		for _, s := range mt.ArgumentSlots(false) {
			params[s] = true
		}

		var frames []*sourceFrame
		me := m.Entry(c.Name)
		for idx := range m.Insns {
			in := &m.Insns[idx]
			if in.Op != bytecode.PUTFIELD || in.Owner != c.Name {
				continue
			}
			f := c.Field(in.Name, in.Desc)
			if f == nil || f.IsStatic() {
				continue
			}
			prev := m.PrevReal(idx)
			if prev < 0 || !m.Insns[prev].Op.IsLoad() || !params[m.Insns[prev].Var] {
				continue
			}

			if frames == nil {
				frames, err = ctx.Cache.Sources(c.Name, m)
				if err != nil {
					return err
				}
			}
			frame := frames[idx]
			if frame == nil {
				continue
			}
			args, ok := frame.Arguments(2)
			if !ok || !allThisLoads(m, args[0].Insns) {
				continue
			}
			found = append(found, pair{param: me.Local(m.Insns[prev].Var), field: f.Entry(c.Name)})
		}
	}
	if len(found) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, p := range found {
		x.paramFields.add(p.param, p.field)
		x.fieldParams.add(p.field, p.param)
	}
	return nil
}

// allThisLoads reports whether every producer is `ALOAD 0`
func allThisLoads(m *bytecode.MethodNode, producers []int) bool {
	if len(producers) == 0 {
		return false
	}
	for _, p := range producers {
		in := &m.Insns[p]
		if in.Op != bytecode.ALOAD || in.Var != 0 {
			return false
		}
	}
	return true
}

func (x *ConstructorIndex) Finish() error {
	x.paramFields.sort()
	x.fieldParams.sort()
	return nil
}

// FieldOf returns the single field a constructor parameter is stored in
func (x *ConstructorIndex) FieldOf(p model.LocalVariableEntry) (model.FieldEntry, bool) {
	fields := x.paramFields[p]
	if len(fields) != 1 {
		return model.FieldEntry{}, false
	}
	return fields[0], true
}

// Params returns the constructor parameters stored in a field
func (x *ConstructorIndex) Params(f model.FieldEntry) []model.LocalVariableEntry {
	return x.fieldParams.get(f)
}

// Fields returns every field with a linked constructor parameter
func (x *ConstructorIndex) Fields() []model.FieldEntry {
	out := make([]model.FieldEntry, 0, len(x.fieldParams))
	for f := range x.fieldParams {
		out = append(out, f)
	}
	sortByString(out)
	return out
}
