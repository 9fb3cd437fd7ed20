package index

import (
	"cmp"
	"slices"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
)

// Index is one pattern index. Visit is called once per class, possibly from
// several goroutines at a time; Finish runs after every class was visited.
type Index interface {
	Name() string
	Visit(ctx *VisitContext, c *bytecode.ClassNode) error
	Finish() error
}

// VisitContext is shared by every visit of one indexing run
type VisitContext struct {
	Classes *bytecode.ClassSet
	Entries *EntryIndex
	Cache   *Cache
}

// Index names, also used as toggle keys
const (
	NameCodec        = "codec"
	NameGetterSetter = "getter_setter"
	NameConstructor  = "constructor_params"
	NameDelegate     = "delegate"
	NameLambda       = "lambda"
	NameRecord       = "record"
	NameConstant     = "constant_field"
	NameLoggerField  = "logger_field"
	NameSimpleType   = "simple_type"
)

// AllNames lists every pattern index in visiting order
var AllNames = []string{
	NameRecord,
	NameCodec,
	NameConstant,
	NameLoggerField,
	NameGetterSetter,
	NameConstructor,
	NameDelegate,
	NameLambda,
	NameSimpleType,
}

// links is a deduplicated one-to-many relation
type links[K comparable, V interface {
	comparable
	String() string
}] map[K][]V

func (l links[K, V]) add(k K, v V) {
	if slices.Contains(l[k], v) {
		return
	}
	l[k] = append(l[k], v)
}

func (l links[K, V]) sort() {
	for k := range l {
		slices.SortFunc(l[k], func(a, b V) int { return cmp.Compare(a.String(), b.String()) })
	}
}

func (l links[K, V]) get(k K) []V {
	return slices.Clone(l[k])
}

// isGetter matches `load-this; get-field; return` reading a field of the owner.
// Boolean fields are included; callers filter them when polarity matters.
func isGetter(c *bytecode.ClassNode, m *bytecode.MethodNode) (model.FieldEntry, bool) {
	if m.IsStatic() || m.IsAbstract() {
		return model.FieldEntry{}, false
	}
	real := m.Real()
	if len(real) != 3 {
		return model.FieldEntry{}, false
	}
	load, get, ret := &m.Insns[real[0]], &m.Insns[real[1]], &m.Insns[real[2]]
	if load.Op != bytecode.ALOAD || load.Var != 0 || get.Op != bytecode.GETFIELD || get.Owner != c.Name {
		return model.FieldEntry{}, false
	}
	f := c.Field(get.Name, get.Desc)
	if f == nil || f.IsStatic() {
		return model.FieldEntry{}, false
	}
	ft := bytecode.Type{Desc: f.Desc}
	if m.Desc != "()"+f.Desc || ret.Op != ft.ReturnOpcode() {
		return model.FieldEntry{}, false
	}
	return f.Entry(c.Name), true
}

// isSetter matches `load-this; load-arg; put-field; return` writing a field of the owner
func isSetter(c *bytecode.ClassNode, m *bytecode.MethodNode) (model.FieldEntry, bool) {
	if m.IsStatic() || m.IsAbstract() {
		return model.FieldEntry{}, false
	}
	real := m.Real()
	if len(real) != 4 {
		return model.FieldEntry{}, false
	}
	this, arg, put, ret := &m.Insns[real[0]], &m.Insns[real[1]], &m.Insns[real[2]], &m.Insns[real[3]]
	if this.Op != bytecode.ALOAD || this.Var != 0 || put.Op != bytecode.PUTFIELD || put.Owner != c.Name {
		return model.FieldEntry{}, false
	}
	f := c.Field(put.Name, put.Desc)
	if f == nil || f.IsStatic() {
		return model.FieldEntry{}, false
	}
	ft := bytecode.Type{Desc: f.Desc}
	if m.Desc != "("+f.Desc+")V" || arg.Op != ft.LoadOpcode() || arg.Var != 1 || ret.Op != bytecode.RETURN {
		return model.FieldEntry{}, false
	}
	return f.Entry(c.Name), true
}

func sortByString[T interface{ String() string }](s []T) {
	slices.SortFunc(s, func(a, b T) int { return cmp.Compare(a.String(), b.String()) })
}
