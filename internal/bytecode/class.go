package bytecode

import (
	"name-recon/internal/model"
)

// Access flags
const (
	AccPublic     = 0x0001
	AccPrivate    = 0x0002
	AccProtected  = 0x0004
	AccStatic     = 0x0008
	AccFinal      = 0x0010
	AccSuper      = 0x0020
	AccVolatile   = 0x0040
	AccBridge     = 0x0040
	AccVarargs    = 0x0080
	AccTransient  = 0x0080
	AccNative     = 0x0100
	AccInterface  = 0x0200
	AccAbstract   = 0x0400
	AccStrict     = 0x0800
	AccSynthetic  = 0x1000
	AccAnnotation = 0x2000
	AccEnum       = 0x4000
	AccRecord     = 0x10000 // ASM-style pseudo flag for classes declaring a Record attribute
)

// ClassNode is the decoded form of one class file
type ClassNode struct {
	Access     int
	Name       string
	Super      string
	Interfaces []string
	Fields     []*FieldNode
	Methods    []*MethodNode
}

// FieldNode is a decoded field
type FieldNode struct {
	Access int
	Name   string
	Desc   string
}

// MethodNode is a decoded method with a random-access instruction list
type MethodNode struct {
	Access    int
	Name      string
	Desc      string
	Insns     []Insn
	TryCatch  []TryCatchBlock
	MaxLocals int
}

// IsInterface reports whether the class is an interface
func (c *ClassNode) IsInterface() bool { return c.Access&AccInterface != 0 }

// IsRecord reports whether the class is a record
func (c *ClassNode) IsRecord() bool {
	return c.Access&AccRecord != 0 || c.Super == "java/lang/Record"
}

// IsEnum reports whether the class is an enum
func (c *ClassNode) IsEnum() bool { return c.Access&AccEnum != 0 }

// Entry returns the class entry
func (c *ClassNode) Entry() model.ClassEntry { return model.ClassEntry{Name: c.Name} }

// Field looks up a declared field by name and descriptor
func (c *ClassNode) Field(name, desc string) *FieldNode {
	for _, f := range c.Fields {
		if f.Name == name && f.Desc == desc {
			return f
		}
	}
	return nil
}

// Method looks up a declared method by name and descriptor
func (c *ClassNode) Method(name, desc string) *MethodNode {
	for _, m := range c.Methods {
		if m.Name == name && m.Desc == desc {
			return m
		}
	}
	return nil
}

// IsStatic reports whether the field is static
func (f *FieldNode) IsStatic() bool { return f.Access&AccStatic != 0 }

// IsFinal reports whether the field is final
func (f *FieldNode) IsFinal() bool { return f.Access&AccFinal != 0 }

// IsSynthetic reports whether the field was generated by the compiler
func (f *FieldNode) IsSynthetic() bool { return f.Access&AccSynthetic != 0 }

// Entry returns the field entry for the given owner
func (f *FieldNode) Entry(owner string) model.FieldEntry {
	return model.FieldEntry{Owner: owner, Name: f.Name, Desc: f.Desc}
}

// IsStatic reports whether the method is static
func (m *MethodNode) IsStatic() bool { return m.Access&AccStatic != 0 }

// IsSynthetic reports whether the method was generated by the compiler
func (m *MethodNode) IsSynthetic() bool { return m.Access&AccSynthetic != 0 }

// IsAbstract reports whether the method has no body
func (m *MethodNode) IsAbstract() bool { return m.Access&(AccAbstract|AccNative) != 0 }

// IsBridge reports whether the method is a compiler bridge
func (m *MethodNode) IsBridge() bool { return m.Access&AccBridge != 0 }

// Entry returns the method entry for the given owner
func (m *MethodNode) Entry(owner string) model.MethodEntry {
	return model.MethodEntry{Owner: owner, Name: m.Name, Desc: m.Desc}
}

// Type parses the method descriptor
func (m *MethodNode) Type() (MethodType, error) {
	return ParseMethodDesc(m.Desc)
}

// Real returns the indices of all non-pseudo instructions, in order
func (m *MethodNode) Real() []int {
	out := make([]int, 0, len(m.Insns))
	for i := range m.Insns {
		if !m.Insns[i].Op.IsPseudo() {
			out = append(out, i)
		}
	}
	return out
}

// PrevReal returns the index of the closest real instruction before idx, or -1
func (m *MethodNode) PrevReal(idx int) int {
	for i := idx - 1; i >= 0; i-- {
		if !m.Insns[i].Op.IsPseudo() {
			return i
		}
	}
	return -1
}

// NextReal returns the index of the closest real instruction after idx, or -1
func (m *MethodNode) NextReal(idx int) int {
	for i := idx + 1; i < len(m.Insns); i++ {
		if !m.Insns[i].Op.IsPseudo() {
			return i
		}
	}
	return -1
}

// ParameterEntries returns the local variable entries of the declared parameters
func ParameterEntries(method model.MethodEntry, static bool) ([]model.LocalVariableEntry, error) {
	mt, err := ParseMethodDesc(method.Desc)
	if err != nil {
		return nil, err
	}
	slots := mt.ArgumentSlots(static)
	out := make([]model.LocalVariableEntry, len(slots))
	for i, s := range slots {
		out[i] = method.Local(s)
	}
	return out, nil
}
