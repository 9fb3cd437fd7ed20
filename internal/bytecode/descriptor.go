package bytecode

import (
	"fmt"
	"strings"
)

// Sort classifies a Type
type Sort int

const (
	SortVoid Sort = iota
	SortBoolean
	SortChar
	SortByte
	SortShort
	SortInt
	SortFloat
	SortLong
	SortDouble
	SortArray
	SortObject
	SortMethod
)

// Type is a field or method descriptor (e.g., "I", "Ljava/lang/String;", "(IJ)V")
type Type struct {
	Desc string
}

// Frequently used types
var (
	TypeVoid    = Type{Desc: "V"}
	TypeBoolean = Type{Desc: "Z"}
	TypeInt     = Type{Desc: "I"}
	TypeLong    = Type{Desc: "J"}
	TypeFloat   = Type{Desc: "F"}
	TypeDouble  = Type{Desc: "D"}
	TypeObject  = ObjectType("java/lang/Object")
	TypeString  = ObjectType("java/lang/String")
)

// ObjectType returns the type of a class given its internal name
func ObjectType(internalName string) Type {
	if strings.HasPrefix(internalName, "[") {
		return Type{Desc: internalName}
	}
	return Type{Desc: "L" + internalName + ";"}
}

// ParseType validates a single field descriptor
func ParseType(desc string) (Type, error) {
	end, err := scanFieldType(desc, 0)
	if err != nil {
		return Type{}, err
	}
	if end != len(desc) {
		return Type{}, fmt.Errorf("trailing data in descriptor %q", desc)
	}
	return Type{Desc: desc}, nil
}

// Sort returns the sort of the type
func (t Type) Sort() Sort {
	if t.Desc == "" {
		return SortVoid
	}
	switch t.Desc[0] {
	case 'V':
		return SortVoid
	case 'Z':
		return SortBoolean
	case 'C':
		return SortChar
	case 'B':
		return SortByte
	case 'S':
		return SortShort
	case 'I':
		return SortInt
	case 'F':
		return SortFloat
	case 'J':
		return SortLong
	case 'D':
		return SortDouble
	case '[':
		return SortArray
	case 'L':
		return SortObject
	case '(':
		return SortMethod
	}
	return SortVoid
}

// Size returns the number of local/stack words a value of this type occupies
func (t Type) Size() int {
	switch t.Sort() {
	case SortVoid:
		return 0
	case SortLong, SortDouble:
		return 2
	default:
		return 1
	}
}

// IsReference reports whether values of this type are object references
func (t Type) IsReference() bool {
	s := t.Sort()
	return s == SortObject || s == SortArray
}

// IsPrimitive reports whether this is a non-void primitive type
func (t Type) IsPrimitive() bool {
	s := t.Sort()
	return s >= SortBoolean && s <= SortDouble
}

// InternalName returns the internal name for object types and the descriptor for arrays
func (t Type) InternalName() string {
	if t.Sort() == SortObject {
		return t.Desc[1 : len(t.Desc)-1]
	}
	return t.Desc
}

// ElementType strips every array dimension
func (t Type) ElementType() Type {
	return Type{Desc: strings.TrimLeft(t.Desc, "[")}
}

// String returns the descriptor
func (t Type) String() string {
	return t.Desc
}

// MethodType is a parsed method descriptor
type MethodType struct {
	Args   []Type
	Return Type
}

// ParseMethodDesc parses a method descriptor such as "(ILjava/lang/String;)V"
func ParseMethodDesc(desc string) (MethodType, error) {
	if !strings.HasPrefix(desc, "(") {
		return MethodType{}, fmt.Errorf("method descriptor %q must start with '('", desc)
	}

	var mt MethodType
	pos := 1
	for pos < len(desc) && desc[pos] != ')' {
		end, err := scanFieldType(desc, pos)
		if err != nil {
			return MethodType{}, err
		}
		mt.Args = append(mt.Args, Type{Desc: desc[pos:end]})
		pos = end
	}
	if pos >= len(desc) {
		return MethodType{}, fmt.Errorf("method descriptor %q is missing ')'", desc)
	}
	pos++

	if pos < len(desc) && desc[pos] == 'V' {
		if pos+1 != len(desc) {
			return MethodType{}, fmt.Errorf("trailing data in descriptor %q", desc)
		}
		mt.Return = TypeVoid
		return mt, nil
	}
	end, err := scanFieldType(desc, pos)
	if err != nil {
		return MethodType{}, err
	}
	if end != len(desc) {
		return MethodType{}, fmt.Errorf("trailing data in descriptor %q", desc)
	}
	mt.Return = Type{Desc: desc[pos:end]}
	return mt, nil
}

// MustParseMethodDesc is ParseMethodDesc for descriptors known to be valid
func MustParseMethodDesc(desc string) MethodType {
	mt, err := ParseMethodDesc(desc)
	if err != nil {
		panic(err)
	}
	return mt
}

// Desc renders the method descriptor
func (mt MethodType) Desc() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, a := range mt.Args {
		b.WriteString(a.Desc)
	}
	b.WriteByte(')')
	b.WriteString(mt.Return.Desc)
	return b.String()
}

// ArgumentSlots returns the local slot of every argument.
// Instance methods reserve slot 0 for the receiver.
func (mt MethodType) ArgumentSlots(static bool) []int {
	slots := make([]int, len(mt.Args))
	slot := 0
	if !static {
		slot = 1
	}
	for i, a := range mt.Args {
		slots[i] = slot
		slot += a.Size()
	}
	return slots
}

// ArgumentsSize returns the number of local slots used by receiver and arguments
func (mt MethodType) ArgumentsSize(static bool) int {
	size := 0
	if !static {
		size = 1
	}
	for _, a := range mt.Args {
		size += a.Size()
	}
	return size
}

// ArgumentIndex returns the argument position stored in the given slot, or -1
func (mt MethodType) ArgumentIndex(static bool, slot int) int {
	for i, s := range mt.ArgumentSlots(static) {
		if s == slot {
			return i
		}
	}
	return -1
}

func scanFieldType(desc string, pos int) (int, error) {
	start := pos
	for pos < len(desc) && desc[pos] == '[' {
		pos++
	}
	if pos >= len(desc) {
		return 0, fmt.Errorf("truncated descriptor %q at %d", desc, start)
	}
	switch desc[pos] {
	case 'Z', 'C', 'B', 'S', 'I', 'F', 'J', 'D':
		return pos + 1, nil
	case 'L':
		semi := strings.IndexByte(desc[pos:], ';')
		if semi <= 1 {
			return 0, fmt.Errorf("unterminated class type in descriptor %q at %d", desc, pos)
		}
		return pos + semi + 1, nil
	default:
		return 0, fmt.Errorf("invalid descriptor %q: unexpected %q at %d", desc, desc[pos], pos)
	}
}

// LoadOpcode returns the load instruction for values of this type
func (t Type) LoadOpcode() Opcode {
	switch t.Sort() {
	case SortLong:
		return LLOAD
	case SortFloat:
		return FLOAD
	case SortDouble:
		return DLOAD
	case SortObject, SortArray:
		return ALOAD
	default:
		return ILOAD
	}
}

// ReturnOpcode returns the return instruction for values of this type
func (t Type) ReturnOpcode() Opcode {
	switch t.Sort() {
	case SortVoid:
		return RETURN
	case SortLong:
		return LRETURN
	case SortFloat:
		return FRETURN
	case SortDouble:
		return DRETURN
	case SortObject, SortArray:
		return ARETURN
	default:
		return IRETURN
	}
}
