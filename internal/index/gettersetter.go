package index

import (
	"sync"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
)

// GetterSetterIndex links fields to their trivial getters, setters and setter parameters.
// Boolean members are skipped since the is/get prefix cannot be told apart.
type GetterSetterIndex struct {
	mu sync.Mutex

	getters     links[model.FieldEntry, model.MethodEntry]
	setters     links[model.FieldEntry, model.MethodEntry]
	setterParam links[model.FieldEntry, model.LocalVariableEntry]
	fieldOf     map[model.Entry]model.FieldEntry
}

// NewGetterSetterIndex creates an empty getter/setter index
func NewGetterSetterIndex() *GetterSetterIndex {
	return &GetterSetterIndex{
		getters:     make(links[model.FieldEntry, model.MethodEntry]),
		setters:     make(links[model.FieldEntry, model.MethodEntry]),
		setterParam: make(links[model.FieldEntry, model.LocalVariableEntry]),
		fieldOf:     make(map[model.Entry]model.FieldEntry),
	}
}

func (x *GetterSetterIndex) Name() string { return NameGetterSetter }

func (x *GetterSetterIndex) Visit(_ *VisitContext, c *bytecode.ClassNode) error {
	type match struct {
		field  model.FieldEntry
		method model.MethodEntry
		setter bool
	}
	var found []match

	for _, m := range c.Methods {
		if m.IsSynthetic() || m.IsBridge() {
			continue
		}
		if f, ok := isGetter(c, m); ok && f.Desc != "Z" {
			found = append(found, match{field: f, method: m.Entry(c.Name)})
			continue
		}
		if f, ok := isSetter(c, m); ok && f.Desc != "Z" {
			found = append(found, match{field: f, method: m.Entry(c.Name), setter: true})
		}
	}
	if len(found) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, f := range found {
		x.fieldOf[f.method] = f.field
		if !f.setter {
			x.getters.add(f.field, f.method)
			continue
		}
		x.setters.add(f.field, f.method)
		param := f.method.Local(1)
		x.setterParam.add(f.field, param)
		x.fieldOf[param] = f.field
	}
	return nil
}

func (x *GetterSetterIndex) Finish() error {
	x.getters.sort()
	x.setters.sort()
	x.setterParam.sort()
	return nil
}

// Getters returns the getters of a field
func (x *GetterSetterIndex) Getters(f model.FieldEntry) []model.MethodEntry {
	return x.getters.get(f)
}

// Setters returns the setters of a field
func (x *GetterSetterIndex) Setters(f model.FieldEntry) []model.MethodEntry {
	return x.setters.get(f)
}

// SetterParams returns the setter parameters storing into a field
func (x *GetterSetterIndex) SetterParams(f model.FieldEntry) []model.LocalVariableEntry {
	return x.setterParam.get(f)
}

// FieldOf returns the field accessed by a getter, setter or setter parameter
func (x *GetterSetterIndex) FieldOf(e model.Entry) (model.FieldEntry, bool) {
	f, ok := x.fieldOf[e]
	return f, ok
}

// indexedGetter reports whether the method is an indexed getter
func (x *GetterSetterIndex) indexedGetter(m model.MethodEntry) bool {
	f, ok := x.fieldOf[m]
	return ok && m.Desc == "()"+f.Desc
}

// Fields returns every field with at least one accessor
func (x *GetterSetterIndex) Fields() []model.FieldEntry {
	seen := make(map[model.FieldEntry]bool)
	var out []model.FieldEntry
	for _, f := range x.fieldOf {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sortByString(out)
	return out
}
