package index

import (
	"slices"
	"sync"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
	"name-recon/internal/naming"
)

// MethodRef names a library method by owner and name, any descriptor
type MethodRef struct {
	Owner string `mapstructure:"owner"`
	Name  string `mapstructure:"name"`
}

// CodecConfig describes the serialization builder API recognized by the codec index
type CodecConfig struct {
	FieldBuilders []MethodRef `mapstructure:"field_builders"`
	GetterBinders []MethodRef `mapstructure:"getter_binders"`
	BuilderTypes  []string    `mapstructure:"builder_types"`
}

// DefaultCodecConfig returns the DataFixerUpper codec API
func DefaultCodecConfig() CodecConfig {
	const (
		codec    = "com/mojang/serialization/Codec"
		mapCodec = "com/mojang/serialization/MapCodec"
	)
	var builders []MethodRef
	for _, owner := range []string{codec, mapCodec} {
		for _, name := range []string{"fieldOf", "optionalFieldOf", "lenientOptionalFieldOf"} {
			builders = append(builders, MethodRef{Owner: owner, Name: name})
		}
	}
	return CodecConfig{
		FieldBuilders: builders,
		GetterBinders: []MethodRef{{Owner: mapCodec, Name: "forGetter"}},
		BuilderTypes:  []string{mapCodec, codec, "com/mojang/serialization/codecs/RecordCodecBuilder"},
	}
}

// accessorTarget is what a getter-binding method reference resolves to
type accessorTarget struct {
	method    model.MethodEntry
	hasMethod bool
	field     model.FieldEntry
	hasField  bool
}

// CodecIndex extracts field names from `fieldOf("name").forGetter(Type::accessor)` chains
type CodecIndex struct {
	fieldBuilders map[MethodRef]bool
	getterBinders map[MethodRef]bool
	builderTypes  map[string]bool

	mu      sync.Mutex
	fields  map[model.FieldEntry][]string
	methods map[model.MethodEntry][]string
}

// NewCodecIndex creates a codec index for the given builder API
func NewCodecIndex(cfg CodecConfig) *CodecIndex {
	x := &CodecIndex{
		fieldBuilders: make(map[MethodRef]bool),
		getterBinders: make(map[MethodRef]bool),
		builderTypes:  make(map[string]bool),
		fields:        make(map[model.FieldEntry][]string),
		methods:       make(map[model.MethodEntry][]string),
	}
	for _, r := range cfg.FieldBuilders {
		x.fieldBuilders[r] = true
	}
	for _, r := range cfg.GetterBinders {
		x.getterBinders[r] = true
	}
	for _, t := range cfg.BuilderTypes {
		x.builderTypes[bytecode.ObjectType(t).Desc] = true
	}
	return x
}

func (x *CodecIndex) Name() string { return NameCodec }

func (x *CodecIndex) isCall(set map[MethodRef]bool, in *bytecode.Insn) bool {
	return in.Op.IsInvoke() && set[MethodRef{Owner: in.Owner, Name: in.Name}]
}

type codecMatch struct {
	name   string
	target accessorTarget
}

func (x *CodecIndex) Visit(ctx *VisitContext, c *bytecode.ClassNode) error {
	var found []codecMatch
	for _, m := range c.Methods {
		if m.IsAbstract() || !slices.ContainsFunc(m.Insns, func(in bytecode.Insn) bool { return x.isCall(x.fieldBuilders, &in) }) {
			continue
		}
		frames, err := ctx.Cache.Sources(c.Name, m)
		if err != nil {
			return err
		}
		for idx := range m.Insns {
			if !x.isCall(x.fieldBuilders, &m.Insns[idx]) || frames[idx] == nil {
				continue
			}
			match, ok, err := x.followChain(ctx, m, frames, idx)
			if err != nil {
				return err
			}
			if ok {
				found = append(found, match)
			}
		}
	}
	if len(found) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, f := range found {
		if f.target.hasField && !slices.Contains(x.fields[f.target.field], f.name) {
			x.fields[f.target.field] = append(x.fields[f.target.field], f.name)
		}
		if f.target.hasMethod && !slices.Contains(x.methods[f.target.method], f.name) {
			x.methods[f.target.method] = append(x.methods[f.target.method], f.name)
		}
	}
	return nil
}

// followChain reads the literal of the field-builder call at idx and follows
// the builder value forward to its getter binding.
func (x *CodecIndex) followChain(ctx *VisitContext, m *bytecode.MethodNode, frames []*sourceFrame, idx int) (codecMatch, bool, error) {
	in := &m.Insns[idx]
	args, err := frames[idx].CallArguments(in)
	if err != nil {
		return codecMatch{}, false, err
	}
	mt, err := in.MethodType()
	if err != nil {
		return codecMatch{}, false, err
	}
	offset := len(args) - len(mt.Args)

	pos := slices.Index(mt.Args, bytecode.TypeString)
	if pos < 0 {
		return codecMatch{}, false, nil
	}
	producer, ok := args[offset+pos].Single()
	if !ok {
		return codecMatch{}, false, nil
	}
	lit, ok := m.Insns[producer].StringConst()
	if !ok {
		return codecMatch{}, false, nil
	}
	name, ok := naming.FieldName(lit)
	if !ok {
		return codecMatch{}, false, nil
	}

	tracked := []int{idx}
	for j := idx + 1; j < len(m.Insns); j++ {
		call := &m.Insns[j]
		if !call.Op.IsInvoke() || call.Op == bytecode.INVOKESTATIC || frames[j] == nil {
			continue
		}
		cargs, err := frames[j].CallArguments(call)
		if err != nil {
			return codecMatch{}, false, err
		}
		if !slices.ContainsFunc(tracked, cargs[0].Contains) {
			continue
		}

		if x.isCall(x.getterBinders, call) {
			if len(cargs) < 2 {
				return codecMatch{}, false, nil
			}
			q, ok := cargs[1].Single()
			if !ok {
				return codecMatch{}, false, nil
			}
			impl, ok := m.Insns[q].LambdaImpl()
			if !ok {
				return codecMatch{}, false, nil
			}
			target, ok := x.resolveAccessor(ctx, impl)
			return codecMatch{name: name, target: target}, ok, nil
		}

		ct, err := call.MethodType()
		if err != nil {
			return codecMatch{}, false, err
		}
		if x.builderTypes[ct.Return.Desc] {
			tracked = append(tracked, j)
		}
	}
	return codecMatch{}, false, nil
}

// resolveAccessor maps a method reference to the getter and field it reads.
// Instance references name the getter; static synthetic lambdas must touch exactly
// one field or exactly one method of the class set.
func (x *CodecIndex) resolveAccessor(ctx *VisitContext, h bytecode.Handle) (accessorTarget, bool) {
	key := model.MethodEntry{Owner: h.Owner, Name: h.Name, Desc: h.Desc}
	if t, ok := ctx.Cache.accessors.Get(key); ok {
		return t, t.hasField || t.hasMethod
	}

	t := x.computeAccessor(ctx, h, key)
	ctx.Cache.accessors.Add(key, t)
	return t, t.hasField || t.hasMethod
}

func (x *CodecIndex) computeAccessor(ctx *VisitContext, h bytecode.Handle, key model.MethodEntry) accessorTarget {
	owner := ctx.Classes.Class(h.Owner)
	if owner == nil || h.IsField() {
		return accessorTarget{}
	}
	m := owner.Method(h.Name, h.Desc)
	if m == nil {
		return accessorTarget{}
	}

	if !h.IsStatic() {
		t := accessorTarget{method: key, hasMethod: true}
		if f, ok := isGetter(owner, m); ok {
			t.field, t.hasField = f, true
		}
		return t
	}
	if m.IsAbstract() || !m.IsSynthetic() {
		return accessorTarget{}
	}

	var fields []model.FieldEntry
	var methods []model.MethodEntry
	for i := range m.Insns {
		in := &m.Insns[i]
		switch {
		case in.Op == bytecode.GETFIELD || in.Op == bytecode.GETSTATIC:
			fe := model.FieldEntry{Owner: in.Owner, Name: in.Name, Desc: in.Desc}
			if ctx.Entries.Field(fe) != nil && !slices.Contains(fields, fe) {
				fields = append(fields, fe)
			}
		case in.Op.IsInvoke():
			me := model.MethodEntry{Owner: in.Owner, Name: in.Name, Desc: in.Desc}
			if ctx.Entries.Method(me) != nil && !slices.Contains(methods, me) {
				methods = append(methods, me)
			}
		}
	}

	switch {
	case len(fields) == 1 && len(methods) == 0:
		return accessorTarget{field: fields[0], hasField: true}
	case len(methods) == 1 && len(fields) == 0:
		t := accessorTarget{method: methods[0], hasMethod: true}
		if c := ctx.Classes.Class(methods[0].Owner); c != nil {
			if f, ok := isGetter(c, ctx.Entries.Method(methods[0])); ok {
				t.field, t.hasField = f, true
			}
		}
		return t
	}
	return accessorTarget{}
}

func (x *CodecIndex) Finish() error { return nil }

// FieldName returns the name bound to a field, if exactly one literal reached it
func (x *CodecIndex) FieldName(f model.FieldEntry) (string, bool) {
	names := x.fields[f]
	if len(names) != 1 {
		return "", false
	}
	return names[0], true
}

// MethodName returns the field name bound to a getter, if exactly one literal reached it
func (x *CodecIndex) MethodName(m model.MethodEntry) (string, bool) {
	names := x.methods[m]
	if len(names) != 1 {
		return "", false
	}
	return names[0], true
}

// Fields returns every field reached by a literal, sorted
func (x *CodecIndex) Fields() []model.FieldEntry {
	out := make([]model.FieldEntry, 0, len(x.fields))
	for f := range x.fields {
		out = append(out, f)
	}
	sortByString(out)
	return out
}

// Methods returns every getter reached by a literal, sorted
func (x *CodecIndex) Methods() []model.MethodEntry {
	out := make([]model.MethodEntry, 0, len(x.methods))
	for m := range x.methods {
		out = append(out, m)
	}
	sortByString(out)
	return out
}
