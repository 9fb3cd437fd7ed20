package bytecode

import (
	"fmt"
	"strings"
)

// Method handle reference kinds
const (
	H_GETFIELD         = 1
	H_GETSTATIC        = 2
	H_PUTFIELD         = 3
	H_PUTSTATIC        = 4
	H_INVOKEVIRTUAL    = 5
	H_INVOKESTATIC     = 6
	H_INVOKESPECIAL    = 7
	H_NEWINVOKESPECIAL = 8
	H_INVOKEINTERFACE  = 9
)

// Bootstrap methods recognized by the indices
const (
	LambdaMetafactory      = "java/lang/invoke/LambdaMetafactory"
	ObjectMethodsBootstrap = "java/lang/runtime/ObjectMethods"
)

// Handle is a constant method handle
type Handle struct {
	Tag   int
	Owner string
	Name  string
	Desc  string
	Itf   bool
}

// IsField reports whether the handle reads or writes a field
func (h Handle) IsField() bool {
	return h.Tag >= H_GETFIELD && h.Tag <= H_PUTSTATIC
}

// IsStatic reports whether the handle targets a static member
func (h Handle) IsStatic() bool {
	return h.Tag == H_GETSTATIC || h.Tag == H_PUTSTATIC || h.Tag == H_INVOKESTATIC
}

// String renders the handle for diagnostics
func (h Handle) String() string {
	return fmt.Sprintf("%s.%s%s (%d)", h.Owner, h.Name, h.Desc, h.Tag)
}

// Insn is one instruction. The representation is flat: only the operands that
// belong to Op are meaningful.
type Insn struct {
	Op Opcode

	// Var is the local slot of load/store/IINC/RET instructions
	Var int
	// Int is the operand of BIPUSH, SIPUSH, NEWARRAY, the IINC increment and the LINE number
	Int int
	// Const is the LDC operand: string, int32, int64, float32, float64, Type or Handle
	Const any

	// Owner, Name, Desc describe field and method operands. Type instructions
	// (NEW, ANEWARRAY, CHECKCAST, INSTANCEOF, MULTIANEWARRAY) keep the type in Desc.
	Owner string
	Name  string
	Desc  string
	Itf   bool

	// Target is the destination of jumps, as an instruction index
	Target int
	// Targets, Keys and Default describe switches
	Targets []int
	Keys    []int
	Default int

	// Bsm and BsmArgs describe INVOKEDYNAMIC
	Bsm     *Handle
	BsmArgs []any

	// Dims is the MULTIANEWARRAY dimension count
	Dims int
}

// MethodType parses the descriptor of an invoke or invokedynamic instruction
func (in *Insn) MethodType() (MethodType, error) {
	return ParseMethodDesc(in.Desc)
}

// StringConst returns the LDC string operand, if any
func (in *Insn) StringConst() (string, bool) {
	if in.Op != LDC {
		return "", false
	}
	s, ok := in.Const.(string)
	return s, ok
}

// IsLambdaMetafactory reports whether the instruction is an invokedynamic
// bootstrapped by LambdaMetafactory.metafactory or altMetafactory
func (in *Insn) IsLambdaMetafactory() bool {
	return in.Op == INVOKEDYNAMIC && in.Bsm != nil && in.Bsm.Owner == LambdaMetafactory &&
		(in.Bsm.Name == "metafactory" || in.Bsm.Name == "altMetafactory")
}

// LambdaImpl returns the implementation handle of a LambdaMetafactory call
func (in *Insn) LambdaImpl() (Handle, bool) {
	if !in.IsLambdaMetafactory() || len(in.BsmArgs) < 2 {
		return Handle{}, false
	}
	h, ok := in.BsmArgs[1].(Handle)
	return h, ok
}

// LambdaSAM returns the erased functional method descriptor of a LambdaMetafactory call
func (in *Insn) LambdaSAM() (Type, bool) {
	if !in.IsLambdaMetafactory() || len(in.BsmArgs) < 1 {
		return Type{}, false
	}
	t, ok := in.BsmArgs[0].(Type)
	return t, ok && t.Sort() == SortMethod
}

// String renders the instruction in an assembler-like form
func (in *Insn) String() string {
	var b strings.Builder
	b.WriteString(in.Op.String())
	switch {
	case in.Op.IsLoad(), in.Op.IsStore(), in.Op == RET:
		fmt.Fprintf(&b, " %d", in.Var)
	case in.Op == IINC:
		fmt.Fprintf(&b, " %d %d", in.Var, in.Int)
	case in.Op == BIPUSH, in.Op == SIPUSH, in.Op == NEWARRAY, in.Op == LINE:
		fmt.Fprintf(&b, " %d", in.Int)
	case in.Op == LDC:
		fmt.Fprintf(&b, " %#v", in.Const)
	case in.Op.IsInvoke(), in.Op >= GETSTATIC && in.Op <= PUTFIELD:
		fmt.Fprintf(&b, " %s.%s %s", in.Owner, in.Name, in.Desc)
	case in.Op == INVOKEDYNAMIC:
		fmt.Fprintf(&b, " %s %s", in.Name, in.Desc)
		if in.Bsm != nil {
			fmt.Fprintf(&b, " [%s.%s]", in.Bsm.Owner, in.Bsm.Name)
		}
	case in.Op == NEW, in.Op == ANEWARRAY, in.Op == CHECKCAST, in.Op == INSTANCEOF:
		fmt.Fprintf(&b, " %s", in.Desc)
	case in.Op == MULTIANEWARRAY:
		fmt.Fprintf(&b, " %s %d", in.Desc, in.Dims)
	case in.Op.IsJump():
		fmt.Fprintf(&b, " @%d", in.Target)
	case in.Op.IsSwitch():
		fmt.Fprintf(&b, " %v default @%d", in.Targets, in.Default)
	}
	return b.String()
}

// TryCatchBlock is an exception handler covering instructions [Start, End)
type TryCatchBlock struct {
	Start   int
	End     int
	Handler int
	Type    string // internal name of the caught type, empty for finally
}
