package bytecode

import (
	"fmt"
)

// Standard bootstrap handles
var (
	MetafactoryHandle = Handle{
		Tag:   H_INVOKESTATIC,
		Owner: LambdaMetafactory,
		Name:  "metafactory",
		Desc:  "(Ljava/lang/invoke/MethodHandles$Lookup;Ljava/lang/String;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodHandle;Ljava/lang/invoke/MethodType;)Ljava/lang/invoke/CallSite;",
	}
	ObjectMethodsHandle = Handle{
		Tag:   H_INVOKESTATIC,
		Owner: ObjectMethodsBootstrap,
		Name:  "bootstrap",
		Desc:  "(Ljava/lang/invoke/MethodHandles$Lookup;Ljava/lang/String;Ljava/lang/invoke/TypeDescriptor;Ljava/lang/Class;Ljava/lang/String;[Ljava/lang/invoke/MethodHandle;)Ljava/lang/Object;",
	}
)

// Asm assembles instruction lists. Jump targets and try/catch ranges refer to
// named labels that are resolved by Insns.
type Asm struct {
	insns    []Insn
	labels   map[string]int
	jumps    map[int]string
	switches map[int][]string
	handlers []asmTryCatch
}

type asmTryCatch struct {
	start, end, handler, typ string
}

// NewAsm creates an empty assembler
func NewAsm() *Asm {
	return &Asm{
		labels:   make(map[string]int),
		jumps:    make(map[int]string),
		switches: make(map[int][]string),
	}
}

// Op appends an instruction without operands
func (a *Asm) Op(op Opcode) *Asm {
	a.insns = append(a.insns, Insn{Op: op})
	return a
}

// Var appends a load, store or RET instruction
func (a *Asm) Var(op Opcode, slot int) *Asm {
	a.insns = append(a.insns, Insn{Op: op, Var: slot})
	return a
}

// Iinc appends an IINC instruction
func (a *Asm) Iinc(slot, delta int) *Asm {
	a.insns = append(a.insns, Insn{Op: IINC, Var: slot, Int: delta})
	return a
}

// Int appends BIPUSH, SIPUSH or NEWARRAY
func (a *Asm) Int(op Opcode, v int) *Asm {
	a.insns = append(a.insns, Insn{Op: op, Int: v})
	return a
}

// Ldc appends an LDC instruction
func (a *Asm) Ldc(v any) *Asm {
	a.insns = append(a.insns, Insn{Op: LDC, Const: v})
	return a
}

// Field appends GETFIELD, PUTFIELD, GETSTATIC or PUTSTATIC
func (a *Asm) Field(op Opcode, owner, name, desc string) *Asm {
	a.insns = append(a.insns, Insn{Op: op, Owner: owner, Name: name, Desc: desc})
	return a
}

// Invoke appends a method call on a class
func (a *Asm) Invoke(op Opcode, owner, name, desc string) *Asm {
	a.insns = append(a.insns, Insn{Op: op, Owner: owner, Name: name, Desc: desc, Itf: op == INVOKEINTERFACE})
	return a
}

// Type appends NEW, ANEWARRAY, CHECKCAST or INSTANCEOF
func (a *Asm) Type(op Opcode, desc string) *Asm {
	a.insns = append(a.insns, Insn{Op: op, Desc: desc})
	return a
}

// MultiANewArray appends a MULTIANEWARRAY instruction
func (a *Asm) MultiANewArray(desc string, dims int) *Asm {
	a.insns = append(a.insns, Insn{Op: MULTIANEWARRAY, Desc: desc, Dims: dims})
	return a
}

// Indy appends an INVOKEDYNAMIC instruction
func (a *Asm) Indy(name, desc string, bsm Handle, args ...any) *Asm {
	h := bsm
	a.insns = append(a.insns, Insn{Op: INVOKEDYNAMIC, Name: name, Desc: desc, Bsm: &h, BsmArgs: args})
	return a
}

// Lambda appends a LambdaMetafactory.metafactory call site
func (a *Asm) Lambda(name, desc, samDesc string, impl Handle, instantiatedDesc string) *Asm {
	return a.Indy(name, desc, MetafactoryHandle, Type{Desc: samDesc}, impl, Type{Desc: instantiatedDesc})
}

// Label marks the position of the next instruction
func (a *Asm) Label(name string) *Asm {
	a.labels[name] = len(a.insns)
	a.insns = append(a.insns, Insn{Op: LABEL, Name: name})
	return a
}

// Line appends a line number marker
func (a *Asm) Line(line int) *Asm {
	a.insns = append(a.insns, Insn{Op: LINE, Int: line})
	return a
}

// Jump appends a jump to a label
func (a *Asm) Jump(op Opcode, label string) *Asm {
	a.jumps[len(a.insns)] = label
	a.insns = append(a.insns, Insn{Op: op})
	return a
}

// Switch appends a TABLESWITCH or LOOKUPSWITCH. The first label is the default.
func (a *Asm) Switch(op Opcode, keys []int, dflt string, labels ...string) *Asm {
	a.switches[len(a.insns)] = append([]string{dflt}, labels...)
	a.insns = append(a.insns, Insn{Op: op, Keys: keys})
	return a
}

// TryCatch registers an exception handler for the range [start, end)
func (a *Asm) TryCatch(start, end, handler, typ string) *Asm {
	a.handlers = append(a.handlers, asmTryCatch{start, end, handler, typ})
	return a
}

// Insns resolves labels and returns the instruction list
func (a *Asm) Insns() ([]Insn, []TryCatchBlock, error) {
	out := make([]Insn, len(a.insns))
	copy(out, a.insns)

	lookup := func(name string) (int, error) {
		idx, ok := a.labels[name]
		if !ok {
			return 0, fmt.Errorf("undefined label %q", name)
		}
		return idx, nil
	}

	for i, label := range a.jumps {
		target, err := lookup(label)
		if err != nil {
			return nil, nil, err
		}
		out[i].Target = target
	}
	for i, labels := range a.switches {
		dflt, err := lookup(labels[0])
		if err != nil {
			return nil, nil, err
		}
		out[i].Default = dflt
		out[i].Targets = make([]int, 0, len(labels)-1)
		for _, l := range labels[1:] {
			target, err := lookup(l)
			if err != nil {
				return nil, nil, err
			}
			out[i].Targets = append(out[i].Targets, target)
		}
	}

	blocks := make([]TryCatchBlock, 0, len(a.handlers))
	for _, h := range a.handlers {
		start, err := lookup(h.start)
		if err != nil {
			return nil, nil, err
		}
		end, err := lookup(h.end)
		if err != nil {
			return nil, nil, err
		}
		handler, err := lookup(h.handler)
		if err != nil {
			return nil, nil, err
		}
		blocks = append(blocks, TryCatchBlock{Start: start, End: end, Handler: handler, Type: h.typ})
	}
	return out, blocks, nil
}

// Method assembles a method node
func (a *Asm) Method(access int, name, desc string) (*MethodNode, error) {
	mt, err := ParseMethodDesc(desc)
	if err != nil {
		return nil, err
	}
	insns, blocks, err := a.Insns()
	if err != nil {
		return nil, fmt.Errorf("%s%s: %w", name, desc, err)
	}

	maxLocals := mt.ArgumentsSize(access&AccStatic != 0)
	for _, in := range insns {
		if !in.Op.IsLoad() && !in.Op.IsStore() && in.Op != IINC {
			continue
		}
		size := 1
		switch in.Op {
		case LLOAD, DLOAD, LSTORE, DSTORE:
			size = 2
		}
		if in.Var+size > maxLocals {
			maxLocals = in.Var + size
		}
	}

	return &MethodNode{
		Access:    access,
		Name:      name,
		Desc:      desc,
		Insns:     insns,
		TryCatch:  blocks,
		MaxLocals: maxLocals,
	}, nil
}

// MustMethod is Method for bodies known to be well formed
func (a *Asm) MustMethod(access int, name, desc string) *MethodNode {
	m, err := a.Method(access, name, desc)
	if err != nil {
		panic(err)
	}
	return m
}
