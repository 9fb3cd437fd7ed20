package index

import (
	"fmt"
	"sort"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
)

// EntryIndex holds every class, field, method and declared parameter of the class set
type EntryIndex struct {
	classes    *bytecode.ClassSet
	fields     map[model.FieldEntry]*bytecode.FieldNode
	methods    map[model.MethodEntry]*bytecode.MethodNode
	params     map[model.MethodEntry][]model.LocalVariableEntry
	paramTypes map[model.LocalVariableEntry]bytecode.Type
	methodList []model.MethodEntry
}

// NewEntryIndex builds the entry index. Methods with unparsable descriptors are an error.
func NewEntryIndex(classes *bytecode.ClassSet) (*EntryIndex, error) {
	ei := &EntryIndex{
		classes:    classes,
		fields:     make(map[model.FieldEntry]*bytecode.FieldNode),
		methods:    make(map[model.MethodEntry]*bytecode.MethodNode),
		params:     make(map[model.MethodEntry][]model.LocalVariableEntry),
		paramTypes: make(map[model.LocalVariableEntry]bytecode.Type),
	}

	for _, c := range classes.Classes() {
		for _, f := range c.Fields {
			ei.fields[f.Entry(c.Name)] = f
		}
		for _, m := range c.Methods {
			me := m.Entry(c.Name)
			mt, err := m.Type()
			if err != nil {
				return nil, fmt.Errorf("invalid descriptor of %s: %w", me, err)
			}
			ei.methods[me] = m
			ei.methodList = append(ei.methodList, me)

			slots := mt.ArgumentSlots(m.IsStatic())
			locals := make([]model.LocalVariableEntry, len(slots))
			for i, s := range slots {
				locals[i] = me.Local(s)
				ei.paramTypes[locals[i]] = mt.Args[i]
			}
			ei.params[me] = locals
		}
	}

	sort.Slice(ei.methodList, func(i, j int) bool {
		return ei.methodList[i].String() < ei.methodList[j].String()
	})
	return ei, nil
}

// Classes returns the indexed class set
func (ei *EntryIndex) Classes() *bytecode.ClassSet {
	return ei.classes
}

// Class returns the class node of an entry
func (ei *EntryIndex) Class(name string) *bytecode.ClassNode {
	return ei.classes.Class(name)
}

// Field returns the field node of an entry
func (ei *EntryIndex) Field(e model.FieldEntry) *bytecode.FieldNode {
	return ei.fields[e]
}

// Method returns the method node of an entry
func (ei *EntryIndex) Method(e model.MethodEntry) *bytecode.MethodNode {
	return ei.methods[e]
}

// Methods returns every method entry, sorted
func (ei *EntryIndex) Methods() []model.MethodEntry {
	return ei.methodList
}

// Parameters returns the declared parameters of a method in declaration order
func (ei *EntryIndex) Parameters(m model.MethodEntry) []model.LocalVariableEntry {
	return ei.params[m]
}

// ParameterType returns the declared type of a parameter
func (ei *EntryIndex) ParameterType(l model.LocalVariableEntry) (bytecode.Type, bool) {
	t, ok := ei.paramTypes[l]
	return t, ok
}

// IsParameter reports whether the local is a declared parameter of an indexed method
func (ei *EntryIndex) IsParameter(l model.LocalVariableEntry) bool {
	_, ok := ei.paramTypes[l]
	return ok
}

// Contains reports whether the entry belongs to the class set
func (ei *EntryIndex) Contains(e model.Entry) bool {
	switch v := e.(type) {
	case model.ClassEntry:
		return ei.classes.Class(v.Name) != nil
	case model.FieldEntry:
		return ei.fields[v] != nil
	case model.MethodEntry:
		return ei.methods[v] != nil
	case model.LocalVariableEntry:
		return ei.IsParameter(v)
	}
	return false
}

// IsStatic reports whether a field or method entry is static
func (ei *EntryIndex) IsStatic(e model.Entry) bool {
	switch v := e.(type) {
	case model.FieldEntry:
		f := ei.fields[v]
		return f != nil && f.IsStatic()
	case model.MethodEntry:
		m := ei.methods[v]
		return m != nil && m.IsStatic()
	}
	return false
}

// Ancestors returns the known supertypes of a class, nearest first
func (ei *EntryIndex) Ancestors(name string) []string {
	return bytecode.Ancestors(ei.classes, name)
}

// Counts returns the number of classes, fields and methods
func (ei *EntryIndex) Counts() (classes, fields, methods int) {
	return ei.classes.Len(), len(ei.fields), len(ei.methods)
}
