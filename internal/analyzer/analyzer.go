package analyzer

import (
	"errors"
	"fmt"

	"name-recon/internal/bytecode"
)

// AnalysisError reports bytecode the analyzer cannot interpret. It is fatal for the
// analysis run: it means an unhandled idiom or a defect, not an absent pattern.
type AnalysisError struct {
	Owner  string
	Method string
	Desc   string
	Index  int
	Insn   string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("analysis of %s.%s%s failed: %v", e.Owner, e.Method, e.Desc, e.Err)
	}
	return fmt.Sprintf("analysis of %s.%s%s failed at #%d (%s): %v", e.Owner, e.Method, e.Desc, e.Index, e.Insn, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

var errFallOff = errors.New("execution falls off the end of the code")

// Analyzer runs a forward data-flow analysis over one method
type Analyzer[V any] struct {
	interp Interpreter[V]
}

// New creates an analyzer for the given interpreter
func New[V any](interp Interpreter[V]) *Analyzer[V] {
	return &Analyzer[V]{interp: interp}
}

// Analyze computes, for every instruction, the frame immediately before it executes.
// Unreachable instructions have a nil frame.
func (a *Analyzer[V]) Analyze(owner string, m *bytecode.MethodNode) ([]*Frame[V], error) {
	fail := func(idx int, err error) error {
		ae := &AnalysisError{Owner: owner, Method: m.Name, Desc: m.Desc, Index: idx, Err: err}
		if idx >= 0 && idx < len(m.Insns) {
			ae.Insn = m.Insns[idx].String()
		}
		return ae
	}

	n := len(m.Insns)
	frames := make([]*Frame[V], n)
	if n == 0 || m.IsAbstract() {
		return frames, nil
	}

	handlers := make([][]bytecode.TryCatchBlock, n)
	for _, tc := range m.TryCatch {
		if tc.Start < 0 || tc.End > n || tc.Start > tc.End || tc.Handler < 0 || tc.Handler >= n {
			return nil, fail(-1, fmt.Errorf("invalid try/catch range [%d,%d) -> %d", tc.Start, tc.End, tc.Handler))
		}
		for i := tc.Start; i < tc.End; i++ {
			handlers[i] = append(handlers[i], tc)
		}
	}

	initial, err := a.initialFrame(owner, m)
	if err != nil {
		return nil, fail(-1, err)
	}

	queued := make([]bool, n)
	var worklist []int

	merge := func(target int, f *Frame[V]) error {
		if target < 0 || target >= n {
			return fmt.Errorf("branch target %d out of range", target)
		}
		old := frames[target]
		changed := false
		if old == nil {
			frames[target] = f.Clone()
			changed = true
		} else {
			if len(old.Stack) != len(f.Stack) {
				return fmt.Errorf("incompatible stack heights at #%d: %d vs %d", target, len(old.Stack), len(f.Stack))
			}
			for i := range old.Locals {
				v, ch := a.interp.Merge(old.Locals[i], f.Locals[i])
				if ch {
					old.Locals[i] = v
					changed = true
				}
			}
			for i := range old.Stack {
				if a.interp.Size(old.Stack[i]) != a.interp.Size(f.Stack[i]) {
					return fmt.Errorf("incompatible stack values at #%d", target)
				}
				v, ch := a.interp.Merge(old.Stack[i], f.Stack[i])
				if ch {
					old.Stack[i] = v
					changed = true
				}
			}
		}
		if changed && !queued[target] {
			queued[target] = true
			worklist = append(worklist, target)
		}
		return nil
	}

	if err := merge(0, initial); err != nil {
		return nil, fail(0, err)
	}

	for len(worklist) > 0 {
		idx := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		queued[idx] = false

		in := &m.Insns[idx]
		before := frames[idx]
		after := before.Clone()
		if err := after.execute(idx, in, a.interp); err != nil {
			return nil, fail(idx, err)
		}

		switch {
		case in.Op.IsJump():
			if err := merge(in.Target, after); err != nil {
				return nil, fail(idx, err)
			}
			if in.Op != bytecode.GOTO {
				if err := a.fallThrough(idx, n, after, merge); err != nil {
					return nil, fail(idx, err)
				}
			}
		case in.Op.IsSwitch():
			if err := merge(in.Default, after); err != nil {
				return nil, fail(idx, err)
			}
			for _, t := range in.Targets {
				if err := merge(t, after); err != nil {
					return nil, fail(idx, err)
				}
			}
		case in.Op.IsReturn(), in.Op == bytecode.ATHROW:
		default:
			if err := a.fallThrough(idx, n, after, merge); err != nil {
				return nil, fail(idx, err)
			}
		}

		for _, tc := range handlers[idx] {
			for _, src := range []*Frame[V]{before, after} {
				hf := &Frame[V]{Locals: make([]V, len(src.Locals))}
				copy(hf.Locals, src.Locals)
				hf.push(a.interp.NewExceptionValue(tc.Handler, tc.Type))
				if err := merge(tc.Handler, hf); err != nil {
					return nil, fail(idx, err)
				}
			}
		}
	}

	return frames, nil
}

func (a *Analyzer[V]) fallThrough(idx, n int, f *Frame[V], merge func(int, *Frame[V]) error) error {
	if idx+1 >= n {
		return errFallOff
	}
	return merge(idx+1, f)
}

func (a *Analyzer[V]) initialFrame(owner string, m *bytecode.MethodNode) (*Frame[V], error) {
	mt, err := m.Type()
	if err != nil {
		return nil, err
	}
	static := m.IsStatic()
	argSize := mt.ArgumentsSize(static)
	maxLocals := m.MaxLocals
	if maxLocals < argSize {
		maxLocals = argSize
	}

	f := &Frame[V]{Locals: make([]V, maxLocals)}
	for i := range f.Locals {
		f.Locals[i] = a.interp.NewEmptyValue()
	}

	if !static {
		f.Locals[0] = a.interp.NewParameterValue(0, bytecode.ObjectType(owner))
	}
	for i, slot := range mt.ArgumentSlots(static) {
		t := mt.Args[i]
		f.Locals[slot] = a.interp.NewParameterValue(slot, t)
	}
	return f, nil
}
