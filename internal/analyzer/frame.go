package analyzer

import (
	"errors"
	"fmt"

	"name-recon/internal/bytecode"
)

var (
	errStackUnderflow = errors.New("stack underflow")
	errBadLocal       = errors.New("local variable index out of range")
	errCategory       = errors.New("value category mismatch")
	errUnsupported    = errors.New("unsupported instruction")
)

// Frame is the abstract state before one instruction: local variables and operand stack
type Frame[V any] struct {
	Locals []V
	Stack  []V
}

// Clone returns a shallow copy of the frame (values are shared)
func (f *Frame[V]) Clone() *Frame[V] {
	c := &Frame[V]{
		Locals: make([]V, len(f.Locals)),
		Stack:  make([]V, len(f.Stack), cap(f.Stack)),
	}
	copy(c.Locals, f.Locals)
	copy(c.Stack, f.Stack)
	return c
}

// StackSize returns the number of stack entries (not words)
func (f *Frame[V]) StackSize() int {
	return len(f.Stack)
}

// Top returns the n-th value from the top of the stack (0 = top)
func (f *Frame[V]) Top(n int) (V, bool) {
	var zero V
	if n < 0 || n >= len(f.Stack) {
		return zero, false
	}
	return f.Stack[len(f.Stack)-1-n], true
}

// Arguments returns the top n stack values in push order
func (f *Frame[V]) Arguments(n int) ([]V, bool) {
	if n > len(f.Stack) {
		return nil, false
	}
	return f.Stack[len(f.Stack)-n:], true
}

// CallArguments returns the receiver (if any) and arguments of an invoke or invokedynamic
// instruction as they sit on the stack before the call
func (f *Frame[V]) CallArguments(in *bytecode.Insn) ([]V, error) {
	mt, err := in.MethodType()
	if err != nil {
		return nil, err
	}
	n := len(mt.Args)
	if in.Op != bytecode.INVOKESTATIC && in.Op != bytecode.INVOKEDYNAMIC {
		n++
	}
	args, ok := f.Arguments(n)
	if !ok {
		return nil, errStackUnderflow
	}
	return args, nil
}

func (f *Frame[V]) push(v V) {
	f.Stack = append(f.Stack, v)
}

func (f *Frame[V]) pop() (V, error) {
	var zero V
	if len(f.Stack) == 0 {
		return zero, errStackUnderflow
	}
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v, nil
}

func (f *Frame[V]) popN(n int) ([]V, error) {
	if n > len(f.Stack) {
		return nil, errStackUnderflow
	}
	vs := make([]V, n)
	copy(vs, f.Stack[len(f.Stack)-n:])
	f.Stack = f.Stack[:len(f.Stack)-n]
	return vs, nil
}

func (f *Frame[V]) local(i int) (V, error) {
	var zero V
	if i < 0 || i >= len(f.Locals) {
		return zero, fmt.Errorf("%w: %d", errBadLocal, i)
	}
	return f.Locals[i], nil
}

func (f *Frame[V]) setLocal(i int, v V) error {
	if i < 0 || i >= len(f.Locals) {
		return fmt.Errorf("%w: %d", errBadLocal, i)
	}
	f.Locals[i] = v
	return nil
}

// execute simulates one instruction
func (f *Frame[V]) execute(idx int, in *bytecode.Insn, interp Interpreter[V]) error {
	op := in.Op
	switch {
	case op.IsPseudo(), op == bytecode.NOP, op == bytecode.GOTO:
		return nil

	case op.IsConstant(), op == bytecode.GETSTATIC, op == bytecode.NEW:
		v, err := interp.NewOperation(idx, in)
		if err != nil {
			return err
		}
		f.push(v)
		return nil

	case op.IsLoad():
		l, err := f.local(in.Var)
		if err != nil {
			return err
		}
		v, err := interp.CopyOperation(idx, in, l)
		if err != nil {
			return err
		}
		f.push(v)
		return nil

	case op.IsStore():
		return f.store(idx, in, interp)

	case op >= bytecode.IALOAD && op <= bytecode.SALOAD:
		return f.binary(idx, in, interp, true)

	case op >= bytecode.IASTORE && op <= bytecode.SASTORE:
		vs, err := f.popN(3)
		if err != nil {
			return err
		}
		_, err = interp.TernaryOperation(idx, in, vs[0], vs[1], vs[2])
		return err

	case op >= bytecode.POP && op <= bytecode.SWAP:
		return f.stackOp(op, interp)

	case op >= bytecode.IADD && op <= bytecode.DREM,
		op >= bytecode.ISHL && op <= bytecode.LXOR,
		op >= bytecode.LCMP && op <= bytecode.DCMPG:
		return f.binary(idx, in, interp, true)

	case op >= bytecode.INEG && op <= bytecode.DNEG,
		op >= bytecode.I2L && op <= bytecode.I2S,
		op == bytecode.GETFIELD, op == bytecode.NEWARRAY, op == bytecode.ANEWARRAY,
		op == bytecode.ARRAYLENGTH, op == bytecode.CHECKCAST, op == bytecode.INSTANCEOF:
		return f.unary(idx, in, interp, true)

	case op == bytecode.IINC:
		l, err := f.local(in.Var)
		if err != nil {
			return err
		}
		v, err := interp.UnaryOperation(idx, in, l)
		if err != nil {
			return err
		}
		return f.setLocal(in.Var, v)

	case op >= bytecode.IFEQ && op <= bytecode.IFLE, op == bytecode.IFNULL, op == bytecode.IFNONNULL,
		op.IsSwitch(), op == bytecode.PUTSTATIC, op == bytecode.ATHROW,
		op == bytecode.MONITORENTER, op == bytecode.MONITOREXIT:
		return f.unary(idx, in, interp, false)

	case op >= bytecode.IF_ICMPEQ && op <= bytecode.IF_ACMPNE, op == bytecode.PUTFIELD:
		return f.binary(idx, in, interp, false)

	case op >= bytecode.IRETURN && op <= bytecode.ARETURN:
		v, err := f.pop()
		if err != nil {
			return err
		}
		return interp.ReturnOperation(idx, in, v)

	case op == bytecode.RETURN:
		return nil

	case op.IsInvoke(), op == bytecode.INVOKEDYNAMIC:
		mt, err := in.MethodType()
		if err != nil {
			return err
		}
		n := len(mt.Args)
		if op != bytecode.INVOKESTATIC && op != bytecode.INVOKEDYNAMIC {
			n++
		}
		args, err := f.popN(n)
		if err != nil {
			return err
		}
		v, err := interp.NaryOperation(idx, in, args)
		if err != nil {
			return err
		}
		if mt.Return.Sort() != bytecode.SortVoid {
			f.push(v)
		}
		return nil

	case op == bytecode.MULTIANEWARRAY:
		args, err := f.popN(in.Dims)
		if err != nil {
			return err
		}
		v, err := interp.NaryOperation(idx, in, args)
		if err != nil {
			return err
		}
		f.push(v)
		return nil

	case op == bytecode.JSR, op == bytecode.RET:
		return fmt.Errorf("%w: %s", errUnsupported, op)
	}
	return fmt.Errorf("%w: %s", errUnsupported, op)
}

func (f *Frame[V]) store(idx int, in *bytecode.Insn, interp Interpreter[V]) error {
	v, err := f.pop()
	if err != nil {
		return err
	}
	v, err = interp.CopyOperation(idx, in, v)
	if err != nil {
		return err
	}
	if err := f.setLocal(in.Var, v); err != nil {
		return err
	}
	size := interp.Size(v)
	if size == 2 {
		if err := f.setLocal(in.Var+1, interp.NewEmptyValue()); err != nil {
			return err
		}
	}
	// A store into the second half of a long/double invalidates the first half
	if in.Var > 0 {
		prev := f.Locals[in.Var-1]
		if interp.Size(prev) == 2 {
			f.Locals[in.Var-1] = interp.NewEmptyValue()
		}
	}
	return nil
}

func (f *Frame[V]) unary(idx int, in *bytecode.Insn, interp Interpreter[V], push bool) error {
	v, err := f.pop()
	if err != nil {
		return err
	}
	r, err := interp.UnaryOperation(idx, in, v)
	if err != nil {
		return err
	}
	if push {
		f.push(r)
	}
	return nil
}

func (f *Frame[V]) binary(idx int, in *bytecode.Insn, interp Interpreter[V], push bool) error {
	vs, err := f.popN(2)
	if err != nil {
		return err
	}
	r, err := interp.BinaryOperation(idx, in, vs[0], vs[1])
	if err != nil {
		return err
	}
	if push {
		f.push(r)
	}
	return nil
}

// stackOp implements POP..SWAP over category 1 and category 2 values
func (f *Frame[V]) stackOp(op bytecode.Opcode, interp Interpreter[V]) error {
	size := interp.Size
	popCat := func(cat int) (V, error) {
		v, err := f.pop()
		if err != nil {
			return v, err
		}
		if size(v) != cat {
			return v, errCategory
		}
		return v, nil
	}

	switch op {
	case bytecode.POP:
		_, err := popCat(1)
		return err

	case bytecode.POP2:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if size(v) == 1 {
			_, err = popCat(1)
		}
		return err

	case bytecode.DUP:
		v, err := popCat(1)
		if err != nil {
			return err
		}
		f.push(v)
		f.push(v)
		return nil

	case bytecode.DUP_X1:
		v1, err := popCat(1)
		if err != nil {
			return err
		}
		v2, err := popCat(1)
		if err != nil {
			return err
		}
		f.push(v1)
		f.push(v2)
		f.push(v1)
		return nil

	case bytecode.DUP_X2:
		v1, err := popCat(1)
		if err != nil {
			return err
		}
		v2, err := f.pop()
		if err != nil {
			return err
		}
		if size(v2) == 2 {
			f.push(v1)
			f.push(v2)
			f.push(v1)
			return nil
		}
		v3, err := popCat(1)
		if err != nil {
			return err
		}
		f.push(v1)
		f.push(v3)
		f.push(v2)
		f.push(v1)
		return nil

	case bytecode.DUP2:
		v1, err := f.pop()
		if err != nil {
			return err
		}
		if size(v1) == 2 {
			f.push(v1)
			f.push(v1)
			return nil
		}
		v2, err := popCat(1)
		if err != nil {
			return err
		}
		f.push(v2)
		f.push(v1)
		f.push(v2)
		f.push(v1)
		return nil

	case bytecode.DUP2_X1:
		v1, err := f.pop()
		if err != nil {
			return err
		}
		if size(v1) == 2 {
			v2, err := popCat(1)
			if err != nil {
				return err
			}
			f.push(v1)
			f.push(v2)
			f.push(v1)
			return nil
		}
		v2, err := popCat(1)
		if err != nil {
			return err
		}
		v3, err := popCat(1)
		if err != nil {
			return err
		}
		f.push(v2)
		f.push(v1)
		f.push(v3)
		f.push(v2)
		f.push(v1)
		return nil

	case bytecode.DUP2_X2:
		v1, err := f.pop()
		if err != nil {
			return err
		}
		if size(v1) == 2 {
			v2, err := f.pop()
			if err != nil {
				return err
			}
			if size(v2) == 2 {
				f.push(v1)
				f.push(v2)
				f.push(v1)
				return nil
			}
			v3, err := popCat(1)
			if err != nil {
				return err
			}
			f.push(v1)
			f.push(v3)
			f.push(v2)
			f.push(v1)
			return nil
		}
		v2, err := popCat(1)
		if err != nil {
			return err
		}
		v3, err := f.pop()
		if err != nil {
			return err
		}
		if size(v3) == 2 {
			f.push(v2)
			f.push(v1)
			f.push(v3)
			f.push(v2)
			f.push(v1)
			return nil
		}
		v4, err := popCat(1)
		if err != nil {
			return err
		}
		f.push(v2)
		f.push(v1)
		f.push(v4)
		f.push(v3)
		f.push(v2)
		f.push(v1)
		return nil

	case bytecode.SWAP:
		v1, err := popCat(1)
		if err != nil {
			return err
		}
		v2, err := popCat(1)
		if err != nil {
			return err
		}
		f.push(v1)
		f.push(v2)
		return nil
	}
	return fmt.Errorf("%w: %s", errUnsupported, op)
}

// ResultSize returns the size class (1 or 2 words) of the value an instruction produces.
// Instructions that produce nothing report 0.
func ResultSize(in *bytecode.Insn) int {
	op := in.Op
	switch op {
	case bytecode.LCONST_0, bytecode.LCONST_1, bytecode.DCONST_0, bytecode.DCONST_1,
		bytecode.LLOAD, bytecode.DLOAD, bytecode.LALOAD, bytecode.DALOAD,
		bytecode.LADD, bytecode.DADD, bytecode.LSUB, bytecode.DSUB, bytecode.LMUL, bytecode.DMUL,
		bytecode.LDIV, bytecode.DDIV, bytecode.LREM, bytecode.DREM, bytecode.LNEG, bytecode.DNEG,
		bytecode.LSHL, bytecode.LSHR, bytecode.LUSHR, bytecode.LAND, bytecode.LOR, bytecode.LXOR,
		bytecode.I2L, bytecode.I2D, bytecode.L2D, bytecode.F2L, bytecode.F2D, bytecode.D2L:
		return 2
	case bytecode.LDC:
		switch in.Const.(type) {
		case int64, float64:
			return 2
		}
		return 1
	case bytecode.GETFIELD, bytecode.GETSTATIC:
		return bytecode.Type{Desc: in.Desc}.Size()
	case bytecode.INVOKEVIRTUAL, bytecode.INVOKESPECIAL, bytecode.INVOKESTATIC,
		bytecode.INVOKEINTERFACE, bytecode.INVOKEDYNAMIC:
		mt, err := in.MethodType()
		if err != nil {
			return 1
		}
		return mt.Return.Size()
	case bytecode.PUTFIELD, bytecode.PUTSTATIC, bytecode.RETURN, bytecode.ATHROW,
		bytecode.MONITORENTER, bytecode.MONITOREXIT, bytecode.GOTO, bytecode.NOP:
		return 0
	}
	if op.IsStore() || op.IsJump() || op.IsSwitch() || (op >= bytecode.IASTORE && op <= bytecode.SASTORE) {
		return 0
	}
	return 1
}
