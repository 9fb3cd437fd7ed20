package index

import (
	"sync"

	"name-recon/internal/analyzer"
	"name-recon/internal/bytecode"
	"name-recon/internal/model"
	"name-recon/internal/naming"
)

// constantTraceDepth bounds how many factory calls and constructors are followed
const constantTraceDepth = 3

// ConstantIndex names static final fields after the identifier literal they are initialized from
type ConstantIndex struct {
	mu sync.Mutex

	names map[model.FieldEntry]string
}

// NewConstantIndex creates an empty constant-field index
func NewConstantIndex() *ConstantIndex {
	return &ConstantIndex{names: make(map[model.FieldEntry]string)}
}

func (x *ConstantIndex) Name() string { return NameConstant }

func (x *ConstantIndex) Visit(ctx *VisitContext, c *bytecode.ClassNode) error {
	clinit := c.Method("<clinit>", "()V")
	if clinit == nil || clinit.IsAbstract() {
		return nil
	}

	var frames []*sourceFrame
	found := make(map[model.FieldEntry]string)
	ambiguous := make(map[model.FieldEntry]bool)

	for idx := range clinit.Insns {
		in := &clinit.Insns[idx]
		if in.Op != bytecode.PUTSTATIC || in.Owner != c.Name {
			continue
		}
		f := c.Field(in.Name, in.Desc)
		if f == nil || !f.IsStatic() || !f.IsFinal() {
			continue
		}

		if frames == nil {
			var err error
			if frames, err = ctx.Cache.Sources(c.Name, clinit); err != nil {
				return err
			}
		}
		frame := frames[idx]
		if frame == nil {
			continue
		}
		value, ok := frame.Top(0)
		if !ok {
			continue
		}

		fe := f.Entry(c.Name)
		lit, ok := traceLiteral(clinit, frames, value, constantTraceDepth)
		if !ok {
			continue
		}
		name, ok := naming.ConstantName(lit)
		if !ok {
			continue
		}
		if prev, seen := found[fe]; seen && prev != name {
			ambiguous[fe] = true
		}
		found[fe] = name
	}

	// A name claimed by two fields of the class is dropped for both
	owners := make(map[string]int)
	for fe, name := range found {
		if !ambiguous[fe] {
			owners[name]++
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for fe, name := range found {
		if ambiguous[fe] || owners[name] > 1 {
			continue
		}
		x.names[fe] = name
	}
	return nil
}

// traceLiteral follows a value back to exactly one string literal through
// LDC, casts, static factory calls and NEW/<init> pairs.
func traceLiteral(m *bytecode.MethodNode, frames []*sourceFrame, v *analyzer.SourceValue, depth int) (string, bool) {
	p, ok := v.Single()
	if !ok || depth < 0 {
		return "", false
	}
	in := &m.Insns[p]
	frame := frames[p]

	switch in.Op {
	case bytecode.LDC:
		return in.StringConst()
	case bytecode.CHECKCAST:
		if frame == nil {
			return "", false
		}
		top, ok := frame.Top(0)
		if !ok {
			return "", false
		}
		return traceLiteral(m, frames, top, depth-1)
	case bytecode.INVOKESTATIC:
		if frame == nil || depth == 0 {
			return "", false
		}
		args, err := frame.CallArguments(in)
		if err != nil {
			return "", false
		}
		return singleLiteral(m, frames, args, depth-1)
	case bytecode.NEW:
		if depth == 0 {
			return "", false
		}
		for j := p + 1; j < len(m.Insns); j++ {
			call := &m.Insns[j]
			if call.Op != bytecode.INVOKESPECIAL || call.Name != "<init>" || call.Owner != in.Desc || frames[j] == nil {
				continue
			}
			args, err := frames[j].CallArguments(call)
			if err != nil || !args[0].Contains(p) {
				continue
			}
			return singleLiteral(m, frames, args[1:], depth-1)
		}
	}
	return "", false
}

func singleLiteral(m *bytecode.MethodNode, frames []*sourceFrame, args []*analyzer.SourceValue, depth int) (string, bool) {
	var lit string
	count := 0
	for _, a := range args {
		if s, ok := traceLiteral(m, frames, a, depth); ok {
			lit = s
			count++
		}
	}
	return lit, count == 1
}

func (x *ConstantIndex) Finish() error { return nil }

// ConstantName returns the name derived for a static final field
func (x *ConstantIndex) ConstantName(f model.FieldEntry) (string, bool) {
	name, ok := x.names[f]
	return name, ok
}

// Fields returns every named field, sorted
func (x *ConstantIndex) Fields() []model.FieldEntry {
	out := make([]model.FieldEntry, 0, len(x.names))
	for f := range x.names {
		out = append(out, f)
	}
	sortByString(out)
	return out
}
